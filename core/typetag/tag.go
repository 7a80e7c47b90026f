// Package typetag maps concrete Go types to the canonical tag strings used
// by the introspection engine to match values against member and parameter
// declarations.
//
// Two values interoperate only if their tags match exactly. There is no
// coercion and no subtyping: an int never matches a double, and a named type
// never matches its underlying type.
//
// The closed set of portable tags is: int, double, float, bool, string,
// char, void, pointer tags formed by suffixing "*" to the pointee tag, and
// vector<T> tags for slices of supported scalars. Types outside this set
// resolve to a diagnostic tag derived from the Go type string; such tags are
// stable within a build but not portable across hosts or bindings.
package typetag

import "reflect"

// Tag identifies a semantic type. Matching is exact string equality.
type Tag string

const (
	Int    Tag = "int"
	Double Tag = "double"
	Float  Tag = "float"
	Bool   Tag = "bool"
	String Tag = "string"
	Char   Tag = "char"
	Void   Tag = "void"
)

// scalars maps the exact Go types of the portable scalar set to their tags.
// Exact reflect.Type comparison keeps named types out: a `type Age int`
// resolves to a diagnostic tag, not to Int.
var scalars = map[reflect.Type]Tag{
	reflect.TypeFor[int]():     Int,
	reflect.TypeFor[float64](): Double,
	reflect.TypeFor[float32](): Float,
	reflect.TypeFor[bool]():    Bool,
	reflect.TypeFor[string]():  String,
	reflect.TypeFor[byte]():    Char,
}

// For resolves the tag for type parameter T.
func For[T any]() Tag {
	return ForType(reflect.TypeFor[T]())
}

// ForType resolves the tag for the given reflect.Type. A nil type resolves
// to Void.
func ForType(t reflect.Type) Tag {
	if t == nil {
		return Void
	}
	if tag, ok := scalars[t]; ok {
		return tag
	}
	switch t.Kind() {
	case reflect.Pointer:
		return ForType(t.Elem()) + "*"
	case reflect.Slice:
		if tag, ok := scalars[t.Elem()]; ok {
			return "vector<" + tag + ">"
		}
	}
	// Diagnostic fallback for types outside the portable set.
	return Tag(t.String())
}

// Known reports whether tag belongs to the portable tag set: the built-in
// scalars, void, vectors of scalars and pointer forms thereof. Diagnostic
// tags are not known.
func Known(tag Tag) bool {
	for len(tag) > 1 && tag[len(tag)-1] == '*' {
		tag = tag[:len(tag)-1]
	}
	switch tag {
	case Int, Double, Float, Bool, String, Char, Void:
		return true
	}
	if len(tag) > len("vector<>") && tag[:len("vector<")] == "vector<" && tag[len(tag)-1] == '>' {
		return Known(tag[len("vector<") : len(tag)-1])
	}
	return false
}
