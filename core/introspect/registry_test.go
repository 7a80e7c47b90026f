package introspect

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xaliphostes/introspection/core/box"
	alphaconf "github.com/xaliphostes/introspection/core/introspect/internal/alpha/conf"
	betaconf "github.com/xaliphostes/introspection/core/introspect/internal/beta/conf"
)

func TestRegistry_DescriptorIdentity(t *testing.T) {
	reg := newPersonRegistry()

	p1 := &Person{Name: "A"}
	p2 := &Person{Name: "B"}

	o1, err := reg.Of(p1)
	require.NoError(t, err)
	o2, err := reg.Of(p2)
	require.NoError(t, err)

	require.Same(t, o1.Descriptor(), o2.Descriptor(),
		"instances of one class share the identical descriptor")

	// Instance state stays independent.
	require.NoError(t, o1.SetMemberValue("name", box.Of("X")))
	require.Equal(t, "X", p1.Name)
	require.Equal(t, "B", p2.Name)
}

func TestRegistry_ConcurrentFirstAccess(t *testing.T) {
	reg := newPersonRegistry()

	const workers = 32
	var wg sync.WaitGroup
	descriptors := make([]*TypeDescriptor, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			descriptors[i], errs[i] = reg.Descriptor(&Person{})
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
	}

	for i := 1; i < workers; i++ {
		require.Same(t, descriptors[0], descriptors[i],
			"concurrent first accesses must converge on one descriptor")
	}
}

func TestRegistry_SameDisplayNameTypesBuildIndependently(t *testing.T) {
	// Two distinct registered types whose reflect display strings collide.
	require.Equal(t,
		reflect.TypeFor[alphaconf.Config]().String(),
		reflect.TypeFor[betaconf.Config]().String())

	reg := NewRegistry(RegistryOptions{})

	started := make(chan struct{})
	release := make(chan struct{})
	MustRegisterIn(reg, "AlphaConfig", func(r *Registrar[alphaconf.Config]) {
		close(started)
		<-release
		Member(r, "host", func(c *alphaconf.Config) *string { return &c.Host })
	})
	MustRegisterIn(reg, "BetaConfig", func(r *Registrar[betaconf.Config]) {
		Member(r, "port", func(c *betaconf.Config) *int { return &c.Port })
	})

	var (
		wg       sync.WaitGroup
		alphaD   *TypeDescriptor
		alphaErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		alphaD, alphaErr = DescriptorFor[alphaconf.Config](reg)
	}()

	// With alpha's build in flight, beta's first access must run its own
	// build rather than adopt alpha's result.
	<-started
	betaD, err := DescriptorFor[betaconf.Config](reg)
	require.NoError(t, err)
	require.Equal(t, "BetaConfig", betaD.ClassName())
	require.Equal(t, []string{"port"}, betaD.MemberNames())

	close(release)
	wg.Wait()
	require.NoError(t, alphaErr)
	require.Equal(t, "AlphaConfig", alphaD.ClassName())
	require.Equal(t, []string{"host"}, alphaD.MemberNames())
}

func TestRegistry_DuplicateTypeRegistration(t *testing.T) {
	reg := newPersonRegistry()

	err := RegisterIn(reg, "PersonAgain", func(r *Registrar[Person]) {})
	require.ErrorIs(t, err, ErrDuplicateRegistration)
}

func TestRegistry_NotRegistered(t *testing.T) {
	reg := NewRegistry(RegistryOptions{})

	type stranger struct{ X int }
	_, err := reg.Of(&stranger{})
	require.ErrorIs(t, err, ErrNotRegistered)

	_, err = reg.Descriptor(&stranger{})
	require.ErrorIs(t, err, ErrNotRegistered)
}

func TestRegistry_OfRequiresPointer(t *testing.T) {
	reg := newPersonRegistry()

	_, err := reg.Of(Person{})
	require.ErrorIs(t, err, ErrNotRegistered)

	var p *Person
	_, err = reg.Of(p)
	require.ErrorIs(t, err, ErrNotRegistered)
}

func TestRegistry_LazyBuild(t *testing.T) {
	reg := NewRegistry(RegistryOptions{})

	built := false
	MustRegisterIn(reg, "Lazy", func(r *Registrar[Person]) {
		built = true
		Member(r, "name", func(p *Person) *string { return &p.Name })
	})
	require.False(t, built, "registration must not build the descriptor")

	d, err := reg.Descriptor(&Person{})
	require.NoError(t, err)
	require.True(t, built)
	require.Equal(t, "Lazy", d.ClassName())

	// Second access reuses the published descriptor.
	d2, err := reg.Descriptor(&Person{})
	require.NoError(t, err)
	require.Same(t, d, d2)
}

func TestDefaultRegistry(t *testing.T) {
	type defaultFixture struct{ N int }

	require.NoError(t, Register("DefaultFixture", func(r *Registrar[defaultFixture]) {
		Member(r, "n", func(f *defaultFixture) *int { return &f.N })
	}))

	obj, err := Of(&defaultFixture{N: 3})
	require.NoError(t, err)
	require.Equal(t, "DefaultFixture", obj.ClassName())

	d, err := DescriptorOf(&defaultFixture{})
	require.NoError(t, err)
	require.Same(t, obj.Descriptor(), d)

	err = Register("DefaultFixtureAgain", func(r *Registrar[defaultFixture]) {})
	require.ErrorIs(t, err, ErrDuplicateRegistration)
}
