package introspect

import (
	"github.com/xaliphostes/introspection/core/box"
	"github.com/xaliphostes/introspection/core/ds"
	"github.com/xaliphostes/introspection/core/typetag"
)

// MemberDescriptor describes one registered data member: its name, its tag
// and the erasure closures that read and write the member on a concrete
// instance. Descriptors are immutable after construction and owned by
// exactly one TypeDescriptor.
type MemberDescriptor struct {
	name string
	tag  typetag.Tag
	get  func(instance any) (box.Box, error)
	set  func(instance any, v box.Box) error
}

// Name returns the registered member name.
func (m *MemberDescriptor) Name() string { return m.name }

// Tag returns the member's declared tag.
func (m *MemberDescriptor) Tag() typetag.Tag { return m.tag }

// Get reads the member from instance. It never mutates the instance.
func (m *MemberDescriptor) Get(instance any) (box.Box, error) {
	return m.get(instance)
}

// Set unboxes v against the member's own tag and assigns it. It fails with
// ErrTypeMismatch if the boxed value's tag differs from the declared one,
// leaving the instance unchanged.
func (m *MemberDescriptor) Set(instance any, v box.Box) error {
	return m.set(instance, v)
}

// MethodDescriptor describes one registered method: its name, return tag,
// ordered parameter tags and the erasure closure that invokes it. Immutable
// after construction.
type MethodDescriptor struct {
	name    string
	returns typetag.Tag
	params  []typetag.Tag
	invoke  func(instance any, args []box.Box) (box.Box, error)
}

// Name returns the registered method name.
func (m *MethodDescriptor) Name() string { return m.name }

// Returns returns the method's return tag (typetag.Void for void methods).
func (m *MethodDescriptor) Returns() typetag.Tag { return m.returns }

// Params returns a copy of the ordered parameter tags.
func (m *MethodDescriptor) Params() []typetag.Tag {
	out := make([]typetag.Tag, len(m.params))
	copy(out, m.params)
	return out
}

// Arity returns the registered parameter count.
func (m *MethodDescriptor) Arity() int { return len(m.params) }

// Invoke validates len(args) against the registered arity, unboxes each
// argument left-to-right against its declared tag, calls the underlying
// method and boxes the result. Any mismatch aborts before the underlying
// call; void methods yield box.Void().
func (m *MethodDescriptor) Invoke(instance any, args []box.Box) (box.Box, error) {
	return m.invoke(instance, args)
}

// TypeDescriptor is the per-type catalog of reflective members and methods.
// It is created on first reflective access to its type, populated in a
// single registration pass, and immutable and shared for the rest of the
// process lifetime.
type TypeDescriptor struct {
	className   string
	members     map[string]*MemberDescriptor
	memberNames *ds.Set[string]
	methods     map[string]*MethodDescriptor
	methodNames *ds.Set[string]
}

func newTypeDescriptor(className string) *TypeDescriptor {
	return &TypeDescriptor{
		className:   className,
		members:     make(map[string]*MemberDescriptor),
		memberNames: ds.NewSet[string](),
		methods:     make(map[string]*MethodDescriptor),
		methodNames: ds.NewSet[string](),
	}
}

// ClassName returns the name the type was registered under.
func (t *TypeDescriptor) ClassName() string { return t.className }

// Member looks up a member descriptor by name.
func (t *TypeDescriptor) Member(name string) (*MemberDescriptor, bool) {
	m, ok := t.members[name]
	return m, ok
}

// Method looks up a method descriptor by name.
func (t *TypeDescriptor) Method(name string) (*MethodDescriptor, bool) {
	m, ok := t.methods[name]
	return m, ok
}

// MemberNames returns all member names in first-registration order. The
// order is stable across calls within one process run.
func (t *TypeDescriptor) MemberNames() []string { return t.memberNames.Values() }

// MethodNames returns all method names in first-registration order.
func (t *TypeDescriptor) MethodNames() []string { return t.methodNames.Values() }

// addMember installs m; a duplicate name overwrites the earlier entry while
// keeping its enumeration position (last registration wins).
func (t *TypeDescriptor) addMember(m *MemberDescriptor) {
	t.members[m.name] = m
	t.memberNames.Add(m.name)
}

func (t *TypeDescriptor) addMethod(m *MethodDescriptor) {
	t.methods[m.name] = m
	t.methodNames.Add(m.name)
}
