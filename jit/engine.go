package jit

import (
	"fmt"
	"sync/atomic"

	"kaleidoscope/ir"
)

// ModuleKey identifies a module added to an Engine, returned by
// AddModule and consumed by RemoveModule — spec.md §3's JIT Driver
// retires each anonymous top-level expression's module by this handle
// once it has been invoked once.
type ModuleKey uint64

// HostFunc is a function implemented in Go and callable from JITted
// IR by name (spec.md §6's printd, and any future host intrinsic).
type HostFunc func(args []float64) (float64, error)

// Engine owns every module added to it and resolves Call instructions
// first against those modules (most-recently-added module wins on a
// name collision, mirroring how a real JIT's symbol table shadows
// earlier definitions) and then against the host intrinsic table.
// Engine is the only state the JIT Driver carries across top-level
// items (spec.md §5).
type Engine struct {
	nextKey   uint64
	modules   map[ModuleKey]*ir.Module
	order     []ModuleKey
	hostFuncs map[string]HostFunc

	// globals backs every `global`-scoped variable by name, since
	// spec.md §3 says global-variable storage "persists for the
	// process lifetime" — outliving any one module's JIT lifecycle,
	// unlike a local's entry-block alloca.
	globals map[string]float64
}

// NewEngine creates an Engine with no modules and the given host
// intrinsics (use DefaultHostFuncs() for the standard printd-only
// table).
func NewEngine(hostFuncs map[string]HostFunc) *Engine {
	return &Engine{
		modules:   make(map[ModuleKey]*ir.Module),
		hostFuncs: hostFuncs,
		globals:   make(map[string]float64),
	}
}

// AddModule takes ownership of m and makes its functions callable.
// The caller must not mutate m afterward.
func (e *Engine) AddModule(m *ir.Module) (ModuleKey, error) {
	key := ModuleKey(atomic.AddUint64(&e.nextKey, 1))
	e.modules[key] = m
	e.order = append(e.order, key)
	return key, nil
}

// RemoveModule discards the module identified by key. It is used to
// retire each REPL iteration's anonymous-expression module once its
// single invocation has completed (spec.md §4.E).
func (e *Engine) RemoveModule(key ModuleKey) error {
	if _, ok := e.modules[key]; !ok {
		return &Error{Msg: fmt.Sprintf("unknown module key %d", key)}
	}
	delete(e.modules, key)
	for i, k := range e.order {
		if k == key {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return nil
}

// Symbol is a resolved, callable function handle.
type Symbol struct {
	engine *Engine
	fn     *ir.Function
}

// FindSymbol resolves name against every module currently added, most
// recently added first, so a later `def` shadows an earlier one with
// the same name (spec.md §4.B's getFunction re-declaration protocol
// relies on this when a function is redefined across top-level items).
// A function with no body — a bare `extern` re-declared by
// getFunction into a fresh module for forward/backward reference
// purposes — is not itself callable, so it is skipped in favor of
// whichever module actually defined the function.
func (e *Engine) FindSymbol(name string) (Symbol, bool) {
	for i := len(e.order) - 1; i >= 0; i-- {
		m := e.modules[e.order[i]]
		if fn, ok := m.GetFunction(name); ok && fn.Entry != nil {
			return Symbol{engine: e, fn: fn}, true
		}
	}
	return Symbol{}, false
}

// Invoke runs the symbol's function against args, returning its
// returned double or a *Error describing what went wrong (arity
// mismatch, unresolved callee, malformed IR).
func (s Symbol) Invoke(args ...float64) (float64, error) {
	return execFunction(s.engine, s.fn, args)
}

func globalValue(e *Engine, g *ir.Global) float64 { return e.globals[g.Name] }

func setGlobalValue(e *Engine, g *ir.Global, v float64) { e.globals[g.Name] = v }
