package introspect

import (
	"errors"
	"fmt"

	"github.com/xaliphostes/introspection/core/box"
)

// Object is the reflective facade: one instance bound to the shared
// TypeDescriptor of its concrete type. Objects are stateless per call and
// cheap to create; all Objects for instances of one class reference the
// identical descriptor.
type Object struct {
	recv any
	d    *TypeDescriptor
	m    Metrics
}

// Descriptor returns the shared TypeDescriptor backing this object.
func (o *Object) Descriptor() *TypeDescriptor { return o.d }

// Instance returns the bound instance.
func (o *Object) Instance() any { return o.recv }

// ClassName returns the registered class name.
func (o *Object) ClassName() string { return o.d.ClassName() }

// GetMemberValue reads the named member as a boxed value. Fails with
// ErrNotFound if the name is absent from the catalog.
func (o *Object) GetMemberValue(name string) (box.Box, error) {
	m, ok := o.d.Member(name)
	if !ok {
		o.m.Failure(o.ClassName(), "not_found")
		return box.Box{}, fmt.Errorf("member %q: %w", name, ErrNotFound)
	}
	v, err := m.Get(o.recv)
	if err != nil {
		o.m.Failure(o.ClassName(), failureKind(err))
		return box.Box{}, err
	}
	o.m.MemberRead(o.ClassName())
	return v, nil
}

// SetMemberValue writes the named member. Fails with ErrNotFound if the
// name is absent and ErrTypeMismatch if the boxed value's tag disagrees
// with the member's declared tag; the instance is unchanged on failure.
func (o *Object) SetMemberValue(name string, v box.Box) error {
	m, ok := o.d.Member(name)
	if !ok {
		o.m.Failure(o.ClassName(), "not_found")
		return fmt.Errorf("member %q: %w", name, ErrNotFound)
	}
	if err := m.Set(o.recv, v); err != nil {
		o.m.Failure(o.ClassName(), failureKind(err))
		return err
	}
	o.m.MemberWrite(o.ClassName())
	return nil
}

// CallMethod invokes the named method with the given boxed arguments and
// returns the boxed result (box.Void() for void methods). Fails with
// ErrNotFound, ErrArityMismatch or ErrTypeMismatch per the descriptor
// contract; on failure the underlying method was never entered.
func (o *Object) CallMethod(name string, args ...box.Box) (box.Box, error) {
	m, ok := o.d.Method(name)
	if !ok {
		o.m.Failure(o.ClassName(), "not_found")
		return box.Box{}, fmt.Errorf("method %q: %w", name, ErrNotFound)
	}
	timer := o.m.MethodCall(o.ClassName(), name)
	out, err := m.Invoke(o.recv, args)
	timer.ObserveDuration()
	if err != nil {
		o.m.Failure(o.ClassName(), failureKind(err))
		return box.Box{}, err
	}
	return out, nil
}

// MemberNames returns all member names in first-registration order.
func (o *Object) MemberNames() []string { return o.d.MemberNames() }

// MethodNames returns all method names in first-registration order.
func (o *Object) MethodNames() []string { return o.d.MethodNames() }

// HasMember reports whether the named member exists. Pure lookup, never
// fails.
func (o *Object) HasMember(name string) bool {
	_, ok := o.d.Member(name)
	return ok
}

// HasMethod reports whether the named method exists.
func (o *Object) HasMethod(name string) bool {
	_, ok := o.d.Method(name)
	return ok
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, ErrArityMismatch):
		return "arity_mismatch"
	case errors.Is(err, ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "other"
	}
}
