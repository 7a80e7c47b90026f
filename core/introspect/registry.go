package introspect

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/xaliphostes/introspection/core/sf"
)

// Registry maps concrete types to their TypeDescriptors. Registration
// installs a build function; the descriptor itself is constructed lazily,
// exactly once, on the first reflective access to the type, and is shared
// read-only for the rest of the process lifetime.
type Registry struct {
	mu      sync.RWMutex
	specs   map[reflect.Type]*registration
	built   map[reflect.Type]*TypeDescriptor
	builds  *sf.Singleflight[TypeDescriptor]
	metrics Metrics
}

type registration struct {
	className string
	build     func() *TypeDescriptor
}

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	// Metrics receives instrumentation events. Defaults to a no-op.
	Metrics Metrics
}

// NewRegistry creates an empty registry.
func NewRegistry(opts RegistryOptions) *Registry {
	if opts.Metrics == nil {
		opts.Metrics = NopMetrics()
	}
	return &Registry{
		specs:   make(map[reflect.Type]*registration),
		built:   make(map[reflect.Type]*TypeDescriptor),
		builds:  sf.New[TypeDescriptor](),
		metrics: opts.Metrics,
	}
}

// RegisterIn installs the registration for concrete type C under className.
// The build function runs later, on first reflective access. Registering
// the same concrete type twice fails with ErrDuplicateRegistration.
func RegisterIn[C any](r *Registry, className string, build func(*Registrar[C])) error {
	t := reflect.TypeFor[C]()
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("introspect: register %s: C must be a struct type, not %s", className, t.Kind())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.specs[t]; ok {
		return fmt.Errorf("%w: %s already registered as %q", ErrDuplicateRegistration, t, prev.className)
	}
	r.specs[t] = &registration{
		className: className,
		build: func() *TypeDescriptor {
			d := newTypeDescriptor(className)
			build(&Registrar[C]{d: d})
			return d
		},
	}
	return nil
}

// MustRegisterIn is RegisterIn that panics on error, for use at program
// startup.
func MustRegisterIn[C any](r *Registry, className string, build func(*Registrar[C])) {
	if err := RegisterIn(r, className, build); err != nil {
		panic(err)
	}
}

// Descriptor resolves the TypeDescriptor for the dynamic type of instance
// (pointers are unwrapped), building it on first access. Concurrent first
// accesses converge on a single published descriptor.
func (r *Registry) Descriptor(instance any) (*TypeDescriptor, error) {
	t := reflect.TypeOf(instance)
	if t == nil {
		return nil, fmt.Errorf("%w: nil instance", ErrNotRegistered)
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return r.descriptorForType(t)
}

// DescriptorFor resolves the TypeDescriptor for type parameter C without an
// instance, for consumers like binding generators.
func DescriptorFor[C any](r *Registry) (*TypeDescriptor, error) {
	return r.descriptorForType(reflect.TypeFor[C]())
}

// Of binds instance to its shared TypeDescriptor and returns the reflective
// facade. instance must be a non-nil pointer to a registered struct type:
// setters and mutating methods act on the pointed-to value.
func (r *Registry) Of(instance any) (*Object, error) {
	v := reflect.ValueOf(instance)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return nil, fmt.Errorf("%w: instance must be a non-nil pointer, got %T", ErrNotRegistered, instance)
	}
	d, err := r.descriptorForType(v.Type().Elem())
	if err != nil {
		return nil, err
	}
	return &Object{recv: instance, d: d, m: r.metrics}, nil
}

func (r *Registry) descriptorForType(t reflect.Type) (*TypeDescriptor, error) {
	r.mu.RLock()
	d, ok := r.built[t]
	_, hasSpec := r.specs[t]
	r.mu.RUnlock()
	if ok {
		return d, nil
	}
	if !hasSpec {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, t)
	}

	// Build at most once; losers of the race receive the winner's result.
	// Display strings like "conf.Config" are not unique across packages,
	// so the flight is keyed on the type's identity.
	key := fmt.Sprintf("%s@%#x", t, reflect.ValueOf(t).Pointer())
	return r.builds.Do(key, func() (*TypeDescriptor, error) {
		r.mu.RLock()
		d, ok := r.built[t]
		spec := r.specs[t]
		r.mu.RUnlock()
		if ok {
			return d, nil
		}

		d = spec.build()
		r.metrics.DescriptorBuilt(d.ClassName())

		r.mu.Lock()
		r.built[t] = d
		r.mu.Unlock()
		return d, nil
	})
}

// === Default registry ===

var defaultRegistry = NewRegistry(RegistryOptions{})

// Default returns the process-wide default registry used by the package
// level Register and Of functions.
func Default() *Registry { return defaultRegistry }

// Register installs a registration in the default registry.
func Register[C any](className string, build func(*Registrar[C])) error {
	return RegisterIn(defaultRegistry, className, build)
}

// MustRegister is Register that panics on error.
func MustRegister[C any](className string, build func(*Registrar[C])) {
	MustRegisterIn(defaultRegistry, className, build)
}

// Of binds instance to its descriptor in the default registry.
func Of(instance any) (*Object, error) {
	return defaultRegistry.Of(instance)
}

// DescriptorOf resolves the descriptor for instance's type in the default
// registry.
func DescriptorOf(instance any) (*TypeDescriptor, error) {
	return defaultRegistry.Descriptor(instance)
}
