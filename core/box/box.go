// Package box provides the type-erased value carrier used at every
// introspection boundary. A Box holds exactly one value together with its
// tag; extraction must request the exact original type or fail.
package box

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/xaliphostes/introspection/core/typetag"
)

// ErrTypeMismatch is returned when a boxed value is extracted as, or applied
// to, a type whose tag differs from the stored one. There is no implicit
// widening: an int cannot be unboxed as a double.
var ErrTypeMismatch = errors.New("boxed value type mismatch")

// Box is an opaque carrier for a single value. Boxes are plain values:
// copying a Box shares no mutable state with the original. The zero Box is
// the void carrier.
type Box struct {
	tag typetag.Tag
	val any
}

// Of boxes v under the tag of its static type.
func Of[T any](v T) Box {
	return Box{tag: typetag.For[T](), val: v}
}

// OfValue boxes v under the tag of its dynamic type. A nil v yields the
// void carrier.
func OfValue(v any) Box {
	if v == nil {
		return Box{}
	}
	return Box{tag: typetag.ForType(reflect.TypeOf(v)), val: v}
}

// Void returns the empty carrier, used as the result of void methods.
func Void() Box { return Box{} }

// IsVoid reports whether b carries no value.
func (b Box) IsVoid() bool { return b.tag == "" && b.val == nil }

// Tag returns the tag of the stored value, or typetag.Void for the void
// carrier.
func (b Box) Tag() typetag.Tag {
	if b.IsVoid() {
		return typetag.Void
	}
	return b.tag
}

// Value returns the stored value without a type check. Callers that need
// the "exact type or fail" contract use As.
func (b Box) Value() any { return b.val }

// As extracts the stored value as T. It fails with ErrTypeMismatch unless
// T's tag matches the stored tag exactly.
func As[T any](b Box) (T, error) {
	var zero T
	want := typetag.For[T]()
	if b.Tag() != want {
		return zero, fmt.Errorf("%w: want %s, got %s", ErrTypeMismatch, want, b.Tag())
	}
	v, ok := b.val.(T)
	if !ok {
		// Two distinct types can collide on a diagnostic tag; the assertion
		// is the final arbiter.
		return zero, fmt.Errorf("%w: want %s, got %s", ErrTypeMismatch, want, reflect.TypeOf(b.val))
	}
	return v, nil
}
