// Package sf provides a generic single-flight mechanism for deduplicating
// concurrent function calls with the same key.
//
// The introspection registry uses it to guard first-time descriptor
// construction: when several goroutines touch a registered-but-unbuilt type
// at once, only one of them runs the build function and every caller
// receives the single published result.
//
// # Usage
//
//	builds := sf.New[TypeDescriptor]()
//
//	d, err := builds.Do("main.Person", func() (*TypeDescriptor, error) {
//	    return buildDescriptor()
//	})
//
// The generic type parameter T allows type-safe returns without casting.
package sf
