// Package emitter implements the AST-lowering contract spec.md §4.C-4.D
// describes: Emitter is the "global IRBuilder" plus the local/global
// scopes, prototype registry, and operator precedence table spec.md
// says lowering may mutate. It implements ast.Visitor and
// ast.ProtoVisitor so every AST node's Accept call dispatches here.
//
// Grounded on the teacher's compiler.ASTCompiler (a stateful visitor
// walking ast.Stmt/ast.Expression and emitting into a single mutable
// Bytecode buffer); the state Emitter threads through a lowering pass
// — local scope, prototype registry, operator table — mirrors the
// teacher's compiler-wide mutable fields (ac.bytecode, ac.scopes) one
// for one, just retargeted at ir.Builder instead of a bytecode buffer.
package emitter

import (
	"fmt"

	"kaleidoscope/ast"
	"kaleidoscope/ir"
	"kaleidoscope/optimizer"
	"kaleidoscope/prec"
)

// Emitter lowers one AST at a time against a single *ir.Module, which
// the driver swaps out before every top-level item (spec.md §4.E).
// Local scope is cleared at the start of each Function.lower; the
// prototype registry, known-global names, and the precedence table
// persist for the process lifetime, matching spec.md §5's single
// compilation context.
type Emitter struct {
	Precedence *prec.Table

	// OnUnoptimized, if set, is invoked with each function's IR right
	// after verification but before the optimizer pipeline runs — the
	// `dump` CLI command's hook for showing unoptimized-vs-optimized
	// IR side by side.
	OnUnoptimized func(*ir.Function)

	module  *ir.Module
	builder *ir.Builder

	localScope  map[string]ir.Value // name -> alloca Value, current function only
	globalNames map[string]bool     // every name ever declared `global`, process-wide
	protoReg    map[string]*ast.Prototype
}

// New creates an Emitter sharing precedence with the parser (spec.md
// §5's "exactly one live compilation context at a time").
func New(precedence *prec.Table) *Emitter {
	return &Emitter{
		Precedence:  precedence,
		localScope:  make(map[string]ir.Value),
		globalNames: make(map[string]bool),
		protoReg:    make(map[string]*ast.Prototype),
	}
}

// SetModule points the Emitter at a fresh module, as the driver does
// before lowering each top-level item. It does not reset the
// prototype registry or global names: those are process-wide.
func (e *Emitter) SetModule(m *ir.Module) {
	e.module = m
	e.builder = ir.NewBuilder()
}

// getFunction implements spec.md §4.D's getFunction(name) protocol:
// return a module-local function if one already exists, otherwise
// materialize a declaration from the prototype registry. Returns
// UnknownCalleeError if name is neither.
func (e *Emitter) getFunction(name string) (*ir.Function, error) {
	if fn, ok := e.module.GetFunction(name); ok {
		return fn, nil
	}
	proto, ok := e.protoReg[name]
	if !ok {
		return nil, UnknownCalleeError{Name: name}
	}
	return e.declarePrototype(proto), nil
}

func (e *Emitter) declarePrototype(p *ast.Prototype) *ir.Function {
	return e.module.NewFunction(p.OperatorName(), p.Params)
}

// VisitPrototype lowers a bare `extern` declaration: register it and
// materialize a declaration in the current module. The registry (and
// the module's own function table getFunction consults first) are
// both keyed by OperatorName(), since that's the symbol Call/unary/
// binary dispatch actually look up.
func (e *Emitter) VisitPrototype(p *ast.Prototype) (ast.FuncValue, error) {
	e.protoReg[p.OperatorName()] = p
	return e.declarePrototype(p), nil
}

// VisitFunction implements spec.md §4.D's Function.lower, steps 1-7.
func (e *Emitter) VisitFunction(f *ast.Function) (ast.FuncValue, error) {
	e.protoReg[f.Proto.OperatorName()] = f.Proto

	fn, err := e.getFunction(f.Proto.OperatorName())
	if err != nil {
		return nil, err
	}

	if f.Proto.Kind == ast.ProtoBinaryOp {
		e.Precedence.Set(f.Proto.Name, f.Proto.OpPrecedence)
	}

	entry := fn.NewBlock("entry")
	fn.Append(entry)
	e.builder.SetFunction(fn)
	e.builder.SetBlock(entry)

	e.localScope = make(map[string]ir.Value)
	for i, pname := range fn.Params {
		slot := e.builder.Alloca(pname)
		e.builder.Store(ir.LocalSlot(slot), e.builder.Param(i))
		e.localScope[pname] = slot
	}

	ret, err := e.lowerBody(f.Body)
	if err != nil {
		return nil, err
	}
	e.builder.Ret(ret)

	if err := ir.Verify(fn); err != nil {
		return nil, err
	}
	if e.OnUnoptimized != nil {
		e.OnUnoptimized(fn)
	}
	optimizer.Run(fn)
	return fn, nil
}

// lowerBody lowers a sequence of expressions, returning the last one's
// value, or a 0.0 constant if the sequence is empty.
func (e *Emitter) lowerBody(body []ast.Expr) (ir.Value, error) {
	var last ir.Value
	has := false
	for _, expr := range body {
		v, err := e.emit(expr)
		if err != nil {
			return ir.Value{}, err
		}
		last, has = v, true
	}
	if !has {
		return e.builder.Const(0), nil
	}
	return last, nil
}

func (e *Emitter) emit(expr ast.Expr) (ir.Value, error) {
	v, err := expr.Accept(e)
	if err != nil {
		return ir.Value{}, err
	}
	iv, ok := v.(ir.Value)
	if !ok {
		return ir.Value{}, fmt.Errorf("internal error: lowering produced %T, want ir.Value", v)
	}
	return iv, nil
}

// VisitNumber lowers a literal.
func (e *Emitter) VisitNumber(n *ast.Number) (ast.Value, error) {
	return e.builder.Const(n.Value), nil
}
