package introspect

import (
	"fmt"
	"reflect"

	"github.com/xaliphostes/introspection/core/box"
	"github.com/xaliphostes/introspection/core/typetag"
)

// Registrar populates one TypeDescriptor for one concrete type C. It is
// handed to the build function passed at registration and must not be
// retained beyond it.
//
// Go methods cannot introduce type parameters, so the typed registration
// operations are the package-level [Member] and [Method] functions taking
// the registrar as first argument.
type Registrar[C any] struct {
	d *TypeDescriptor
}

// Descriptor exposes the catalog under construction, letting a build
// function inspect what it has registered so far.
func (r *Registrar[C]) Descriptor() *TypeDescriptor { return r.d }

// Member registers a data member of type T under name. The accessor returns
// the address of the field on a concrete instance; the generated getter and
// setter closures capture that storage location directly, never a copy of
// the instance. A duplicate name overwrites the earlier entry.
func Member[C, T any](r *Registrar[C], name string, loc func(*C) *T) *Registrar[C] {
	tag := typetag.For[T]()
	r.d.addMember(&MemberDescriptor{
		name: name,
		tag:  tag,
		get: func(instance any) (box.Box, error) {
			c, err := receiverOf[C](instance)
			if err != nil {
				return box.Box{}, fmt.Errorf("member %q: %w", name, err)
			}
			return box.Of(*loc(c)), nil
		},
		set: func(instance any, v box.Box) error {
			c, err := receiverOf[C](instance)
			if err != nil {
				return fmt.Errorf("member %q: %w", name, err)
			}
			val, err := box.As[T](v)
			if err != nil {
				return fmt.Errorf("member %q: %w", name, err)
			}
			*loc(c) = val
			return nil
		},
	})
	return r
}

// Method registers a method under name. fn must be a method expression of C
// ((*C).Foo or C.Foo) or any function whose first parameter is *C or C; the
// remaining parameters and the optional single return value become the
// method's tags, resolved once here. The invoker closes over that fixed tag
// sequence and performs ordered unboxing against it at call time, so every
// arity shares this one mechanism. A duplicate name overwrites the earlier
// entry.
//
// Method panics if fn is not a function, does not take C (or *C) first,
// returns more than one value, or returns error; these are
// registration-time programmer errors, like registering a malformed metric.
func Method[C any](r *Registrar[C], name string, fn any) *Registrar[C] {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()

	ptrRecv := reflect.TypeFor[*C]()
	valRecv := reflect.TypeFor[C]()

	if ft.Kind() != reflect.Func {
		panic(fmt.Sprintf("introspect: method %q: fn is %s, not a func", name, ft))
	}
	if ft.NumIn() < 1 || (ft.In(0) != ptrRecv && ft.In(0) != valRecv) {
		panic(fmt.Sprintf("introspect: method %q: first parameter must be %s or %s", name, ptrRecv, valRecv))
	}
	if ft.NumOut() > 1 {
		panic(fmt.Sprintf("introspect: method %q: at most one return value is supported", name))
	}
	if ft.NumOut() == 1 && ft.Out(0) == reflect.TypeFor[error]() {
		// The reflective signature is value-only; an error return would
		// smuggle a second result channel past the box.
		panic(fmt.Sprintf("introspect: method %q: error returns are not part of the reflective signature", name))
	}

	byValue := ft.In(0) == valRecv

	paramTypes := make([]reflect.Type, ft.NumIn()-1)
	paramTags := make([]typetag.Tag, ft.NumIn()-1)
	for i := range paramTypes {
		paramTypes[i] = ft.In(i + 1)
		paramTags[i] = typetag.ForType(paramTypes[i])
	}

	returns := typetag.Void
	if ft.NumOut() == 1 {
		returns = typetag.ForType(ft.Out(0))
	}

	r.d.addMethod(&MethodDescriptor{
		name:    name,
		returns: returns,
		params:  paramTags,
		invoke: func(instance any, args []box.Box) (box.Box, error) {
			c, err := receiverOf[C](instance)
			if err != nil {
				return box.Box{}, fmt.Errorf("method %q: %w", name, err)
			}
			if len(args) != len(paramTags) {
				return box.Box{}, fmt.Errorf("method %q: %w: want %d, got %d",
					name, ErrArityMismatch, len(paramTags), len(args))
			}

			// Unbox left-to-right before touching the underlying method, so
			// a mismatch can never leave a partial invocation behind.
			in := make([]reflect.Value, 0, len(args)+1)
			if byValue {
				in = append(in, reflect.ValueOf(*c))
			} else {
				in = append(in, reflect.ValueOf(c))
			}
			for i, a := range args {
				if a.Tag() != paramTags[i] {
					return box.Box{}, fmt.Errorf("method %q: argument %d: %w: want %s, got %s",
						name, i, ErrTypeMismatch, paramTags[i], a.Tag())
				}
				av := reflect.ValueOf(a.Value())
				if !av.IsValid() || av.Type() != paramTypes[i] {
					return box.Box{}, fmt.Errorf("method %q: argument %d: %w: want %s",
						name, i, ErrTypeMismatch, paramTypes[i])
				}
				in = append(in, av)
			}

			out := fv.Call(in)
			if len(out) == 0 {
				return box.Void(), nil
			}
			return box.OfValue(out[0].Interface()), nil
		},
	})
	return r
}

// receiverOf recovers the concrete *C receiver from a type-erased instance.
func receiverOf[C any](instance any) (*C, error) {
	c, ok := instance.(*C)
	if !ok {
		return nil, fmt.Errorf("%w: receiver is %T, want %s",
			ErrTypeMismatch, instance, reflect.TypeFor[*C]())
	}
	return c, nil
}
