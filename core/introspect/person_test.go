package introspect

import "fmt"

// Person is the canonical demo fixture: three data members and a spread of
// method arities, mirroring the examples shipped with the library.
type Person struct {
	Name   string
	Age    int
	Height float64
}

func (p *Person) Introduce() {
	// Side-effect free on purpose: arity tests assert the instance is
	// untouched after a failed call.
}

func (p *Person) GetName() string { return p.Name }
func (p *Person) SetName(n string) { p.Name = n }
func (p *Person) GetAge() int { return p.Age }
func (p *Person) SetAge(a int) { p.Age = a }
func (p *Person) GetHeight() float64 { return p.Height }
func (p *Person) SetHeight(h float64) {
	p.Height = h
}

func (p *Person) SetNameAndAge(n string, a int) {
	p.Name = n
	p.Age = a
}

func (p *Person) SetNameAgeAndHeight(n string, a int, h float64) {
	p.Name = n
	p.Age = a
	p.Height = h
}

func (p Person) GetDescription() string {
	return fmt.Sprintf("%s (%d years, %.2fm)", p.Name, p.Age, p.Height)
}

func registerPerson(reg *Registry) {
	MustRegisterIn(reg, "Person", func(r *Registrar[Person]) {
		Member(r, "name", func(p *Person) *string { return &p.Name })
		Member(r, "age", func(p *Person) *int { return &p.Age })
		Member(r, "height", func(p *Person) *float64 { return &p.Height })
		Method(r, "introduce", (*Person).Introduce)
		Method(r, "getName", (*Person).GetName)
		Method(r, "setName", (*Person).SetName)
		Method(r, "getAge", (*Person).GetAge)
		Method(r, "setAge", (*Person).SetAge)
		Method(r, "getHeight", (*Person).GetHeight)
		Method(r, "setHeight", (*Person).SetHeight)
		Method(r, "setNameAndAge", (*Person).SetNameAndAge)
		Method(r, "setNameAgeAndHeight", (*Person).SetNameAgeAndHeight)
		Method(r, "getDescription", Person.GetDescription)
	})
}

func newPersonRegistry() *Registry {
	reg := NewRegistry(RegistryOptions{})
	registerPerson(reg)
	return reg
}
