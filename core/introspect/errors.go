package introspect

import (
	"errors"

	"github.com/xaliphostes/introspection/core/box"
)

var (
	// ErrNotFound is returned when a member or method name is absent from
	// the type's catalog. HasMember and HasMethod report false instead.
	ErrNotFound = errors.New("member or method not found")

	// ErrArityMismatch is returned when CallMethod receives an argument
	// count different from the registered parameter count.
	ErrArityMismatch = errors.New("argument count mismatch")

	// ErrDuplicateRegistration is returned when a concrete type is
	// registered more than once in a registry.
	ErrDuplicateRegistration = errors.New("type already registered")

	// ErrNotRegistered is returned when a reflective operation is attempted
	// on an instance whose concrete type was never registered.
	ErrNotRegistered = errors.New("type not registered")

	// ErrTypeMismatch is the tag-mismatch failure raised during unboxing;
	// it aliases the box package sentinel so callers can classify either.
	ErrTypeMismatch = box.ErrTypeMismatch
)
