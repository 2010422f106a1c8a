package emitter

import (
	"kaleidoscope/ast"
	"kaleidoscope/ir"
)

// VisitIf implements spec.md §4.D's If lowering: three blocks (`then`,
// `else`, `ifcont`), with `else`/`ifcont` created detached and appended
// only once their predecessor in program order has been fully
// populated, so nested control flow inside `then`/`else` appears
// textually before its sibling block — and the builder's current block
// is re-read after lowering each body, since that nested flow may have
// moved it.
func (e *Emitter) VisitIf(i *ast.If) (ast.Value, error) {
	cond, err := e.emit(i.Cond)
	if err != nil {
		return nil, err
	}
	predicate := e.builder.Widen(e.builder.FCmp(ir.OpFCmpNE, cond, e.builder.Const(0)))

	fn := e.builder.Fn()
	thenBlk := fn.NewBlock("then")
	elseBlk := fn.NewBlock("else")
	mergeBlk := fn.NewBlock("ifcont")

	fn.Append(thenBlk)
	e.builder.CondBr(predicate, thenBlk, elseBlk)

	e.builder.SetBlock(thenBlk)
	thenVal, err := e.lowerBody(i.Then)
	if err != nil {
		return nil, err
	}
	thenEnd := e.builder.Current()
	e.builder.Br(mergeBlk)

	fn.Append(elseBlk)
	e.builder.SetBlock(elseBlk)
	elseVal, err := e.lowerBody(i.Else)
	if err != nil {
		return nil, err
	}
	elseEnd := e.builder.Current()
	e.builder.Br(mergeBlk)

	fn.Append(mergeBlk)
	e.builder.SetBlock(mergeBlk)
	phi := e.builder.Phi([]ir.PhiIncoming{
		{Block: thenEnd, Value: thenVal},
		{Block: elseEnd, Value: elseVal},
	})
	return phi, nil
}

// VisitFor implements spec.md §4.D's For lowering: an entry-block
// induction variable, a first-iteration guard, a loop header re-
// evaluating the end condition each pass, and removal of the
// induction variable from local scope once the loop block completes —
// a for-loop's own value is always 0.0.
func (e *Emitter) VisitFor(f *ast.For) (ast.Value, error) {
	fn := e.builder.Fn()

	induction := e.allocaInEntry(f.Var)
	start, err := e.emit(f.Start)
	if err != nil {
		return nil, err
	}
	e.builder.Store(ir.LocalSlot(induction), start)

	previous, hadPrevious := e.localScope[f.Var]
	e.localScope[f.Var] = induction

	end, err := e.emit(f.End)
	if err != nil {
		return nil, err
	}
	startCond := e.builder.Widen(e.builder.FCmp(ir.OpFCmpNE, end, e.builder.Const(0)))

	loopBlk := fn.NewBlock("forloop")
	afterBlk := fn.NewBlock("afterloop")
	e.builder.CondBr(startCond, loopBlk, afterBlk)

	fn.Append(loopBlk)
	e.builder.SetBlock(loopBlk)
	if _, err := e.lowerBody(f.Body); err != nil {
		return nil, err
	}

	step, err := e.emit(f.Step)
	if err != nil {
		return nil, err
	}
	cur := e.builder.Load(ir.LocalSlot(induction))
	next := e.builder.FAdd(cur, step)
	e.builder.Store(ir.LocalSlot(induction), next)

	endAgain, err := e.emit(f.End)
	if err != nil {
		return nil, err
	}
	loopCond := e.builder.Widen(e.builder.FCmp(ir.OpFCmpNE, endAgain, e.builder.Const(0)))
	e.builder.CondBr(loopCond, loopBlk, afterBlk)

	fn.Append(afterBlk)
	e.builder.SetBlock(afterBlk)

	if hadPrevious {
		e.localScope[f.Var] = previous
	} else {
		delete(e.localScope, f.Var)
	}

	return e.builder.Const(0), nil
}
