package introspect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xaliphostes/introspection/internal/codec"
)

// ToJSON exports the instance as a flat key/value document:
//
//	{"className": "Person", "members": {"name": "Toto", "age": 22}}
//
// Strings are quoted, numbers unquoted, booleans true/false; members whose
// type has no JSON representation encode as null. Member order follows
// MemberNames.
func (o *Object) ToJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"className": `)
	writeJSONString(&buf, o.ClassName())
	buf.WriteString(`, "members": {`)
	for i, name := range o.MemberNames() {
		if i > 0 {
			buf.WriteString(", ")
		}
		v, err := o.GetMemberValue(name)
		if err != nil {
			return nil, err
		}
		writeJSONString(&buf, name)
		buf.WriteString(": ")
		buf.Write(codec.ScalarJSON(v))
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// Describe returns a human-readable summary of the class: its name, its
// members with tags and its methods with signatures.
func (o *Object) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Class: %s\n", o.ClassName())

	b.WriteString("Members:\n")
	for _, name := range o.MemberNames() {
		m, _ := o.d.Member(name)
		fmt.Fprintf(&b, "  %s (%s)\n", name, m.Tag())
	}

	b.WriteString("Methods:\n")
	for _, name := range o.MethodNames() {
		m, _ := o.d.Method(name)
		fmt.Fprintf(&b, "  %s -> %s", name, m.Returns())
		if m.Arity() > 0 {
			parts := make([]string, m.Arity())
			for i, p := range m.Params() {
				parts[i] = string(p)
			}
			fmt.Fprintf(&b, " (params: %s)", strings.Join(parts, ", "))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func writeJSONString(buf *bytes.Buffer, s string) {
	data, _ := json.Marshal(s)
	buf.Write(data)
}
