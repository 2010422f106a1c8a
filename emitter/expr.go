package emitter

import (
	"kaleidoscope/ast"
	"kaleidoscope/ir"
)

// VisitVariable resolves a read: local scope first, then global scope;
// UnboundNameError if neither has the name (spec.md §4.D).
func (e *Emitter) VisitVariable(v *ast.Variable) (ast.Value, error) {
	if slot, ok := e.localScope[v.Name]; ok {
		return e.builder.Load(ir.LocalSlot(slot)), nil
	}
	if e.globalNames[v.Name] {
		g := e.module.GetOrCreateGlobal(v.Name)
		return e.builder.Load(ir.GlobalSlot(g)), nil
	}
	return nil, UnboundNameError{Name: v.Name}
}

// VisitUnary lowers `!x`/`-x` to their built-in IR forms, or dispatches
// any other operator to a call to `unary<op>`.
func (e *Emitter) VisitUnary(u *ast.Unary) (ast.Value, error) {
	operand, err := e.emit(u.Operand)
	if err != nil {
		return nil, err
	}
	switch u.Op {
	case "!":
		cmp := e.builder.FCmp(ir.OpFCmpEQ, operand, e.builder.Const(0))
		return e.builder.Widen(cmp), nil
	case "-":
		return e.builder.FSub(e.builder.Const(0), operand), nil
	default:
		return e.callOperator("unary"+u.Op, []ir.Value{operand})
	}
}

// VisitBinary implements every case spec.md §4.D's "Binary ___"
// bullets describe: assignment, built-in arithmetic/comparison/
// logical, and user-defined dispatch.
func (e *Emitter) VisitBinary(bin *ast.Binary) (ast.Value, error) {
	if bin.Op == "=" {
		return e.lowerAssign(bin)
	}

	lhs, err := e.emit(bin.Lhs)
	if err != nil {
		return nil, err
	}
	rhs, err := e.emit(bin.Rhs)
	if err != nil {
		return nil, err
	}

	switch bin.Op {
	case "+":
		return e.builder.FAdd(lhs, rhs), nil
	case "-":
		return e.builder.FSub(lhs, rhs), nil
	case "*":
		return e.builder.FMul(lhs, rhs), nil
	case "/":
		return e.builder.FDiv(lhs, rhs), nil
	case "==":
		return e.builder.Widen(e.builder.FCmp(ir.OpFCmpEQ, lhs, rhs)), nil
	case "!=":
		return e.builder.Widen(e.builder.FCmp(ir.OpFCmpNE, lhs, rhs)), nil
	case "<":
		return e.builder.Widen(e.builder.FCmp(ir.OpFCmpLT, lhs, rhs)), nil
	case ">":
		return e.builder.Widen(e.builder.FCmp(ir.OpFCmpGT, lhs, rhs)), nil
	case "<=":
		return e.builder.Widen(e.builder.FCmp(ir.OpFCmpLE, lhs, rhs)), nil
	case ">=":
		return e.builder.Widen(e.builder.FCmp(ir.OpFCmpGE, lhs, rhs)), nil
	case "&&":
		return e.builder.Widen(e.builder.And(lhs, rhs)), nil
	case "||":
		return e.builder.Widen(e.builder.Or(lhs, rhs)), nil
	default:
		return e.callOperator("binary"+bin.Op, []ir.Value{lhs, rhs})
	}
}

// lowerAssign implements spec.md §4.D's Binary assignment rule: lhs
// must be a bare Variable; create its slot if unseen (global or
// entry-block local, per IsGlobal), store rhs into it, and return the
// loaded value (re-lowering lhs, as the spec literally says, so the
// result reads back through the same path a plain reference would).
// `=` parses left-associatively, so `a = b = 1` has an assignment as
// its left-hand side and fails with BadAssignmentError.
func (e *Emitter) lowerAssign(bin *ast.Binary) (ast.Value, error) {
	target, ok := bin.Lhs.(*ast.Variable)
	if !ok {
		return nil, BadAssignmentError{Detail: "left-hand side of = must be a plain variable"}
	}

	// The slot must exist before the RHS is lowered: spec.md scenario 6
	// assigns `s = s + i` where `s` is not yet in scope, and the RHS
	// itself reads `s` — resolveOrCreateSlot's zero-initialized alloca
	// has to be in place first, or that read hits UnboundNameError.
	slot, err := e.resolveOrCreateSlot(target)
	if err != nil {
		return nil, err
	}

	rhs, err := e.emit(bin.Rhs)
	if err != nil {
		return nil, err
	}
	e.builder.Store(slot, rhs)

	return e.emit(target)
}

func (e *Emitter) resolveOrCreateSlot(v *ast.Variable) (ir.Slot, error) {
	if alloca, ok := e.localScope[v.Name]; ok {
		return ir.LocalSlot(alloca), nil
	}
	if e.globalNames[v.Name] {
		return ir.GlobalSlot(e.module.GetOrCreateGlobal(v.Name)), nil
	}
	if v.IsGlobal {
		e.globalNames[v.Name] = true
		return ir.GlobalSlot(e.module.GetOrCreateGlobal(v.Name)), nil
	}
	alloca := e.allocaInEntry(v.Name)
	e.localScope[v.Name] = alloca
	return ir.LocalSlot(alloca), nil
}

// allocaInEntry inserts an Alloca at the start of the current function's
// entry block, not at the builder's current (possibly nested) block —
// spec.md §4.D requires every local live in the entry block regardless
// of how deep the assignment introducing it is nested. It must go at the
// start, not the end: by the time an assignment nested inside an if/for
// body introduces a new local, the entry block may already carry its own
// terminator (the first basic block an If/For lowers into is the current
// block, which starts out as entry), and appending after a terminator
// fails ir.Verify.
func (e *Emitter) allocaInEntry(name string) ir.Value {
	return e.builder.AllocaAtBlockStart(e.builder.Fn().Entry, name)
}

func (e *Emitter) callOperator(name string, args []ir.Value) (ast.Value, error) {
	if _, err := e.getFunction(name); err != nil {
		return nil, err
	}
	return e.builder.Call(name, args), nil
}

// VisitCall resolves the callee via getFunction, lowers each argument
// in order, and emits a call.
func (e *Emitter) VisitCall(c *ast.Call) (ast.Value, error) {
	if _, err := e.getFunction(c.Callee); err != nil {
		return nil, err
	}
	args := make([]ir.Value, len(c.Args))
	for i, a := range c.Args {
		v, err := e.emit(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return e.builder.Call(c.Callee, args), nil
}
