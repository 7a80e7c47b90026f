// Package codec encodes boxed values for the engine's JSON surfaces.
package codec

import (
	"encoding/json"

	"github.com/xaliphostes/introspection/core/box"
	"github.com/xaliphostes/introspection/core/typetag"
)

// Null is the encoding of members whose type has no JSON representation.
var Null = json.RawMessage("null")

// ScalarJSON encodes a boxed value as a JSON value: strings and chars
// quoted, numbers unquoted, booleans as true/false, vectors as arrays.
// Values outside the portable tag set encode as null.
func ScalarJSON(b box.Box) json.RawMessage {
	if b.IsVoid() || !typetag.Known(b.Tag()) {
		return Null
	}
	switch b.Tag() {
	case typetag.Char:
		// A char renders as a one-character string, not a number.
		if c, ok := b.Value().(byte); ok {
			return marshal(string(rune(c)))
		}
		return Null
	case typetag.Int, typetag.Double, typetag.Float, typetag.Bool, typetag.String,
		"vector<int>", "vector<double>", "vector<float>", "vector<bool>", "vector<string>":
		return marshal(b.Value())
	}
	// vector<char> falls through: encoding/json would base64 a []byte.
	return Null
}

func marshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return Null
	}
	return data
}
