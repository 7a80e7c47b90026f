package introspect

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xaliphostes/introspection/core/box"
	"github.com/xaliphostes/introspection/core/typetag"
)

func TestObject_MemberRoundTrip(t *testing.T) {
	reg := newPersonRegistry()
	p := &Person{}

	obj, err := reg.Of(p)
	require.NoError(t, err)

	require.NoError(t, obj.SetMemberValue("age", box.Of(25)))

	v, err := obj.GetMemberValue("age")
	require.NoError(t, err)
	age, err := box.As[int](v)
	require.NoError(t, err)
	require.Equal(t, 25, age)

	// The setter writes through to the instance, not a copy.
	require.Equal(t, 25, p.Age)
}

func TestObject_SetMemberValue_TypeMismatch(t *testing.T) {
	reg := newPersonRegistry()
	p := &Person{Age: 7}

	obj, err := reg.Of(p)
	require.NoError(t, err)

	// An int member does not accept a double, even a whole one.
	err = obj.SetMemberValue("age", box.Of(25.0))
	require.ErrorIs(t, err, ErrTypeMismatch)
	require.Equal(t, 7, p.Age, "failed set must leave the instance unchanged")
}

func TestObject_CallMethod_TwoParams(t *testing.T) {
	reg := newPersonRegistry()
	p := &Person{}

	obj, err := reg.Of(p)
	require.NoError(t, err)

	out, err := obj.CallMethod("setNameAndAge", box.Of("Toto"), box.Of(22))
	require.NoError(t, err)
	require.True(t, out.IsVoid())

	name, err := obj.GetMemberValue("name")
	require.NoError(t, err)
	gotName, err := box.As[string](name)
	require.NoError(t, err)
	require.Equal(t, "Toto", gotName)

	age, err := obj.GetMemberValue("age")
	require.NoError(t, err)
	gotAge, err := box.As[int](age)
	require.NoError(t, err)
	require.Equal(t, 22, gotAge)
}

func TestObject_CallMethod_ReturnsValue(t *testing.T) {
	reg := newPersonRegistry()
	obj, err := reg.Of(&Person{Name: "Alice", Age: 30, Height: 1.65})
	require.NoError(t, err)

	out, err := obj.CallMethod("getName")
	require.NoError(t, err)
	require.Equal(t, typetag.String, out.Tag())

	name, err := box.As[string](out)
	require.NoError(t, err)
	require.Equal(t, "Alice", name)

	// Value-receiver method.
	out, err = obj.CallMethod("getDescription")
	require.NoError(t, err)
	desc, err := box.As[string](out)
	require.NoError(t, err)
	require.Equal(t, "Alice (30 years, 1.65m)", desc)
}

func TestObject_CallMethod_ArityMismatch(t *testing.T) {
	reg := newPersonRegistry()
	p := &Person{Name: "Bob", Age: 40}

	obj, err := reg.Of(p)
	require.NoError(t, err)

	_, err = obj.CallMethod("introduce", box.Of(1), box.Of(2), box.Of(3))
	require.ErrorIs(t, err, ErrArityMismatch)
	require.Equal(t, Person{Name: "Bob", Age: 40}, *p, "failed call must leave the instance unchanged")
}

func TestObject_CallMethod_ArgumentTypeMismatch(t *testing.T) {
	reg := newPersonRegistry()
	p := &Person{Name: "Bob", Age: 40}

	obj, err := reg.Of(p)
	require.NoError(t, err)

	// Second argument mismatches; the underlying method must not run, so
	// no field changes, not even the first one.
	_, err = obj.CallMethod("setNameAndAge", box.Of("Eve"), box.Of("not-an-int"))
	require.ErrorIs(t, err, ErrTypeMismatch)
	require.Equal(t, Person{Name: "Bob", Age: 40}, *p)
}

func TestObject_NotFound(t *testing.T) {
	reg := newPersonRegistry()
	obj, err := reg.Of(&Person{})
	require.NoError(t, err)

	require.False(t, obj.HasMember("weight"))
	require.False(t, obj.HasMethod("fly"))

	_, err = obj.GetMemberValue("weight")
	require.ErrorIs(t, err, ErrNotFound)

	err = obj.SetMemberValue("weight", box.Of(70.0))
	require.ErrorIs(t, err, ErrNotFound)

	_, err = obj.CallMethod("fly")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestObject_Enumeration(t *testing.T) {
	reg := newPersonRegistry()
	obj, err := reg.Of(&Person{})
	require.NoError(t, err)

	wantMembers := []string{"name", "age", "height"}
	wantMethods := []string{
		"introduce", "getName", "setName", "getAge", "setAge",
		"getHeight", "setHeight", "setNameAndAge", "setNameAgeAndHeight",
		"getDescription",
	}

	require.Equal(t, wantMembers, obj.MemberNames())
	require.Equal(t, wantMethods, obj.MethodNames())

	// Stable across repeated calls within one run.
	require.Equal(t, obj.MemberNames(), obj.MemberNames())
	require.Equal(t, obj.MethodNames(), obj.MethodNames())

	require.True(t, obj.HasMember("name"))
	require.True(t, obj.HasMethod("introduce"))
	require.Equal(t, "Person", obj.ClassName())
}

func TestObject_MethodSignature(t *testing.T) {
	reg := newPersonRegistry()
	d, err := reg.Descriptor(&Person{})
	require.NoError(t, err)

	m, ok := d.Method("setNameAgeAndHeight")
	require.True(t, ok)
	require.Equal(t, typetag.Void, m.Returns())
	require.Equal(t, []typetag.Tag{typetag.String, typetag.Int, typetag.Double}, m.Params())
	require.Equal(t, 3, m.Arity())

	g, ok := d.Method("getHeight")
	require.True(t, ok)
	require.Equal(t, typetag.Double, g.Returns())
	require.Empty(t, g.Params())
}
