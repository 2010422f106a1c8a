package ir

// Module is a compilation unit: a named, data-layout-tagged container of
// functions and globals. It is the unit of ownership transfer to the JIT
// (spec.md §3's "IR / module lifecycle"): once handed to jit.Engine.AddModule
// the emitter must never again insert into it.
type Module struct {
	Name       string
	DataLayout string

	functions map[string]*Function
	order     []string
	globals   map[string]*Global
}

// NewModule creates an empty module sharing the given (fictitious) target
// data layout tag — spec.md's JIT Driver requires every fresh module be
// "bound to the same target data layout" as its predecessor.
func NewModule(name, dataLayout string) *Module {
	return &Module{
		Name:       name,
		DataLayout: dataLayout,
		functions:  make(map[string]*Function),
		globals:    make(map[string]*Global),
	}
}

// GetFunction returns the module-local function named name, if any.
func (m *Module) GetFunction(name string) (*Function, bool) {
	fn, ok := m.functions[name]
	return fn, ok
}

// NewFunction declares a function of the given name and parameter names
// in this module. An existing function of the same name is replaced
// (keeping its place in declaration order); neither NewFunction nor the
// emitter checks the two for matching arity.
func (m *Module) NewFunction(name string, params []string) *Function {
	fn := &Function{Name: name, Params: params, Module: m}
	if _, exists := m.functions[name]; !exists {
		m.order = append(m.order, name)
	}
	m.functions[name] = fn
	return fn
}

// Functions returns the module's functions in declaration order.
func (m *Module) Functions() []*Function {
	out := make([]*Function, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.functions[name])
	}
	return out
}

// GetOrCreateGlobal returns the existing global of that name, or creates
// one with common linkage if absent.
func (m *Module) GetOrCreateGlobal(name string) *Global {
	if g, ok := m.globals[name]; ok {
		return g
	}
	g := &Global{Name: name}
	m.globals[name] = g
	return g
}

// Globals returns every global declared in this module.
func (m *Module) Globals() []*Global {
	out := make([]*Global, 0, len(m.globals))
	for _, g := range m.globals {
		out = append(out, g)
	}
	return out
}
