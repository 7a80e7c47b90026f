// Package introspect provides runtime introspection over explicitly
// registered Go types: a per-type catalog of member and method descriptors,
// built once per concrete type, backed by type-erased boxed values and
// closures that perform tag-checked access and invocation.
//
// # Architecture
//
// The engine is built from four pieces:
//
//   - [TypeDescriptor]: the per-type catalog of [MemberDescriptor] and
//     [MethodDescriptor] entries, keyed by name
//   - [Registrar]: the builder used once per concrete type to populate its
//     descriptor via [Member] and [Method]
//   - [Registry]: maps concrete types to their descriptors, building each
//     one lazily, exactly once, on first reflective access
//   - [Object]: the per-instance facade exposing get/set/call/enumerate
//     operations against the shared descriptor
//
// # Registration
//
// A concrete type opts in by registering a build function. Member accessors
// return the address of the field, so the generated closures capture the
// storage location and not a copy; methods are registered as method
// expressions and their parameter tags are resolved once:
//
//	introspect.MustRegister("Person", func(r *introspect.Registrar[Person]) {
//	    introspect.Member(r, "name", func(p *Person) *string { return &p.Name })
//	    introspect.Member(r, "age", func(p *Person) *int { return &p.Age })
//	    introspect.Method(r, "introduce", (*Person).Introduce)
//	    introspect.Method(r, "setNameAndAge", (*Person).SetNameAndAge)
//	})
//
// # Facade usage
//
//	obj, err := introspect.Of(&person)
//	v, err := obj.GetMemberValue("age")            // box.Box carrying an int
//	err = obj.SetMemberValue("age", box.Of(25))
//	out, err := obj.CallMethod("setNameAndAge", box.Of("Toto"), box.Of(22))
//
// # Error handling
//
// Failures surface synchronously and the engine never retries, logs or
// swallows them:
//
//   - [ErrNotFound]: the named member or method is absent from the catalog
//   - [ErrTypeMismatch]: a boxed value's tag disagrees with the declared one
//   - [ErrArityMismatch]: argument count differs from the registered
//     parameter count; checked before any unboxing or side effect
//   - [ErrDuplicateRegistration]: a concrete type was registered twice
//
// Within one registration pass, reusing a member or method name overwrites
// the earlier entry (last registration wins).
//
// # Concurrency
//
// Descriptors are written once at build time and read-only thereafter;
// concurrent first accesses converge on a single published descriptor.
// The engine imposes no locking on instance state: concurrent mutation of
// one instance while reflective calls are in flight is the caller's
// responsibility.
package introspect
