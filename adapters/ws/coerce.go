package ws

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/xaliphostes/introspection/core/box"
	"github.com/xaliphostes/introspection/core/typetag"
)

// ErrCoerce is returned when an inbound string value cannot be converted to
// the tag a member or parameter declares.
var ErrCoerce = errors.New("cannot coerce value")

// coerce converts an inbound string to a boxed value of the given tag.
// Bools accept only the literals "true"/"1" and "false"/"0".
func coerce(tag typetag.Tag, s string) (box.Box, error) {
	switch tag {
	case typetag.String:
		return box.Of(s), nil
	case typetag.Int:
		n, err := strconv.Atoi(s)
		if err != nil {
			return box.Box{}, fmt.Errorf("%w: %q is not an int", ErrCoerce, s)
		}
		return box.Of(n), nil
	case typetag.Double:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return box.Box{}, fmt.Errorf("%w: %q is not a double", ErrCoerce, s)
		}
		return box.Of(f), nil
	case typetag.Float:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return box.Box{}, fmt.Errorf("%w: %q is not a float", ErrCoerce, s)
		}
		return box.Of(float32(f)), nil
	case typetag.Bool:
		switch s {
		case "true", "1":
			return box.Of(true), nil
		case "false", "0":
			return box.Of(false), nil
		}
		return box.Box{}, fmt.Errorf("%w: %q is not a bool literal", ErrCoerce, s)
	case typetag.Char:
		if len(s) != 1 {
			return box.Box{}, fmt.Errorf("%w: %q is not a single char", ErrCoerce, s)
		}
		return box.Of(s[0]), nil
	}
	return box.Box{}, fmt.Errorf("%w: unsupported tag %s", ErrCoerce, tag)
}
