// Package bindgen generates Python and JavaScript client classes from type
// descriptors. A generated class is a remote proxy: members become
// properties (Python) or getter/setter pairs (JavaScript) and methods become
// arity-checked functions, all speaking the live-sync WebSocket protocol of
// the ws adapter.
//
// Accessor methods that mirror a registered member (getName/setName/isActive
// for a member "name" or "active") are suppressed by default since the
// member already generates the same surface.
package bindgen

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/template"
	"unicode"

	"github.com/xaliphostes/introspection/core/introspect"
	"github.com/xaliphostes/introspection/core/typetag"
)

// ErrAlreadyBound is returned when the same class is generated twice for the
// same target language by one Generator.
var ErrAlreadyBound = errors.New("class already bound")

// DefaultEndpoint is the WebSocket URL baked into generated constructors
// when Options.Endpoint is empty.
const DefaultEndpoint = "ws://localhost:8080/ws"

// Options configures a Generator. The zero value is usable.
type Options struct {
	// Endpoint is the default WebSocket URL of the generated constructors.
	Endpoint string
	// KeepAccessors emits getX/setX/isX methods even when they mirror a
	// registered member.
	KeepAccessors bool
}

// Generator renders client classes. It tracks which classes were already
// generated per language, so the same descriptor cannot be bound twice into
// one output set.
type Generator struct {
	opts  Options
	bound map[string]struct{}
}

// New creates a Generator.
func New(opts Options) *Generator {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	return &Generator{opts: opts, bound: make(map[string]struct{})}
}

// Python writes one Python module containing a client class per descriptor.
func (g *Generator) Python(w io.Writer, descs ...*introspect.TypeDescriptor) error {
	return g.render(w, pythonTemplate, "python", descs)
}

// JavaScript writes one JavaScript module containing a client class per
// descriptor.
func (g *Generator) JavaScript(w io.Writer, descs ...*introspect.TypeDescriptor) error {
	return g.render(w, javascriptTemplate, "javascript", descs)
}

func (g *Generator) render(w io.Writer, tmpl *template.Template, lang string, descs []*introspect.TypeDescriptor) error {
	file := fileModel{}
	for _, d := range descs {
		key := lang + "/" + d.ClassName()
		if _, dup := g.bound[key]; dup {
			return fmt.Errorf("%w: %s (%s)", ErrAlreadyBound, d.ClassName(), lang)
		}
		g.bound[key] = struct{}{}
		file.Classes = append(file.Classes, g.classModel(d))
	}
	return tmpl.Execute(w, file)
}

type fileModel struct {
	Classes []classModel
}

type classModel struct {
	Name       string
	Endpoint   string
	MemberList string
	MethodList string
	Members    []memberModel
	Methods    []methodModel
}

type memberModel struct {
	Name     string
	PyName   string
	Accessor string
	PyType   string
	JSType   string
}

type methodModel struct {
	Name     string
	PyName   string
	Arity    int
	PyParams string
	PyArgs   string
	JSParams string
	PyReturn string
	JSReturn string
	Void     bool
}

func (g *Generator) classModel(d *introspect.TypeDescriptor) classModel {
	c := classModel{
		Name:     d.ClassName(),
		Endpoint: g.opts.Endpoint,
	}

	memberNames := d.MemberNames()
	for _, name := range memberNames {
		m, _ := d.Member(name)
		c.Members = append(c.Members, memberModel{
			Name:     name,
			PyName:   snakeCase(name),
			Accessor: capitalize(name),
			PyType:   pyType(m.Tag()),
			JSType:   jsType(m.Tag()),
		})
	}

	var methodNames []string
	for _, name := range d.MethodNames() {
		if !g.opts.KeepAccessors && mirrorsMember(name, d) {
			continue
		}
		methodNames = append(methodNames, name)
		m, _ := d.Method(name)
		c.Methods = append(c.Methods, methodModel{
			Name:     name,
			PyName:   snakeCase(name),
			Arity:    m.Arity(),
			PyParams: pyParams(m.Params()),
			PyArgs:   pyArgs(m.Arity()),
			JSParams: jsParams(m.Arity()),
			PyReturn: pyType(m.Returns()),
			JSReturn: jsType(m.Returns()),
			Void:     m.Returns() == typetag.Void,
		})
	}

	c.MemberList = quotedList(memberNames)
	c.MethodList = quotedList(methodNames)
	return c
}

// mirrorsMember reports whether a method is a plain accessor for a
// registered member: getName, setName or isActive with the matching member
// present.
func mirrorsMember(method string, d *introspect.TypeDescriptor) bool {
	for _, prefix := range []string{"get", "set", "is"} {
		rest, ok := strings.CutPrefix(method, prefix)
		if !ok || rest == "" {
			continue
		}
		member := strings.ToLower(rest[:1]) + rest[1:]
		if _, found := d.Member(member); found {
			return true
		}
	}
	return false
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func quotedList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = `"` + n + `"`
	}
	return strings.Join(quoted, ", ")
}

func pyParams(params []typetag.Tag) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("arg%d: %s", i, pyType(p))
	}
	return strings.Join(parts, ", ")
}

func pyArgs(arity int) string {
	parts := make([]string, arity)
	for i := range parts {
		parts[i] = fmt.Sprintf("self._arg(arg%d)", i)
	}
	return strings.Join(parts, ", ")
}

func jsParams(arity int) string {
	parts := make([]string, arity)
	for i := range parts {
		parts[i] = fmt.Sprintf("arg%d", i)
	}
	return strings.Join(parts, ", ")
}

func pyType(tag typetag.Tag) string {
	switch tag {
	case typetag.Int:
		return "int"
	case typetag.Double, typetag.Float:
		return "float"
	case typetag.Bool:
		return "bool"
	case typetag.String, typetag.Char:
		return "str"
	case typetag.Void:
		return "None"
	}
	if elem, ok := vectorElem(tag); ok {
		return "list[" + pyType(elem) + "]"
	}
	return "object"
}

func jsType(tag typetag.Tag) string {
	switch tag {
	case typetag.Int, typetag.Double, typetag.Float:
		return "number"
	case typetag.Bool:
		return "boolean"
	case typetag.String, typetag.Char:
		return "string"
	case typetag.Void:
		return "void"
	}
	if elem, ok := vectorElem(tag); ok {
		return jsType(elem) + "[]"
	}
	return "*"
}

func vectorElem(tag typetag.Tag) (typetag.Tag, bool) {
	s := string(tag)
	if strings.HasPrefix(s, "vector<") && strings.HasSuffix(s, ">") {
		return typetag.Tag(s[len("vector<") : len(s)-1]), true
	}
	return "", false
}
