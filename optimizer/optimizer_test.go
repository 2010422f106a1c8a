package optimizer

import (
	"testing"

	"kaleidoscope/ir"
	"kaleidoscope/jit"
)

func TestInstCombineFoldsConstantArithmetic(t *testing.T) {
	m := ir.NewModule("t", "layout")
	fn := m.NewFunction("f", nil)
	b := ir.NewBuilder()
	b.SetFunction(fn)
	entry := fn.NewBlock("entry")
	fn.Append(entry)
	b.SetBlock(entry)

	sum := b.FAdd(b.Const(2), b.Const(3))
	b.Ret(sum)

	InstCombine(fn)

	last := entry.Instrs[len(entry.Instrs)-2] // before Ret
	if last.Op != ir.OpConst || last.Const != 5 {
		t.Fatalf("expected folded const 5, got %+v", last)
	}
}

func TestInstCombineEliminatesAdditiveIdentity(t *testing.T) {
	m := ir.NewModule("t", "layout")
	fn := m.NewFunction("f", []string{"x"})
	b := ir.NewBuilder()
	b.SetFunction(fn)
	entry := fn.NewBlock("entry")
	fn.Append(entry)
	b.SetBlock(entry)

	xSlot := b.Alloca("x")
	b.Store(ir.LocalSlot(xSlot), b.Param(0))
	xVal := b.Load(ir.LocalSlot(xSlot))
	sum := b.FAdd(xVal, b.Const(0))
	b.Ret(sum)

	InstCombine(fn)

	if err := ir.Verify(fn); err != nil {
		t.Fatalf("Verify after InstCombine: %v", err)
	}

	e := jit.NewEngine(nil)
	e.AddModule(m)
	sym, _ := e.FindSymbol("f")
	got, err := sym.Invoke(7)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got != 7 {
		t.Fatalf("Invoke(7) = %v, want 7 (x+0 should fold to x)", got)
	}
}

func TestGVNCollapsesDuplicateComputation(t *testing.T) {
	m := ir.NewModule("t", "layout")
	fn := m.NewFunction("f", []string{"x"})
	b := ir.NewBuilder()
	b.SetFunction(fn)
	entry := fn.NewBlock("entry")
	fn.Append(entry)
	b.SetBlock(entry)

	xSlot := b.Alloca("x")
	b.Store(ir.LocalSlot(xSlot), b.Param(0))
	a := b.Load(ir.LocalSlot(xSlot))
	c := b.Const(1)
	first := b.FAdd(a, c)
	a2 := b.Load(ir.LocalSlot(xSlot))
	c2 := b.Const(1)
	second := b.FAdd(a2, c2)
	sum := b.FAdd(first, second)
	b.Ret(sum)

	GVN(fn)

	if err := ir.Verify(fn); err != nil {
		t.Fatalf("Verify after GVN: %v", err)
	}

	e := jit.NewEngine(nil)
	e.AddModule(m)
	sym, _ := e.FindSymbol("f")
	got, err := sym.Invoke(4)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got != 10 { // (4+1) + (4+1)
		t.Fatalf("Invoke(4) = %v, want 10", got)
	}
}

func TestSimplifyCFGPrunesUnreachableBlock(t *testing.T) {
	m := ir.NewModule("t", "layout")
	fn := m.NewFunction("f", nil)
	b := ir.NewBuilder()
	b.SetFunction(fn)

	entry := fn.NewBlock("entry")
	fn.Append(entry)
	b.SetBlock(entry)
	b.Ret(b.Const(1))

	dead := fn.NewBlock("dead")
	fn.Append(dead)
	b.SetBlock(dead)
	b.Ret(b.Const(999))

	SimplifyCFG(fn)

	if len(fn.Blocks) != 1 {
		t.Fatalf("expected unreachable block pruned, got %d blocks", len(fn.Blocks))
	}
}

func TestSimplifyCFGFoldsEmptyJumpChain(t *testing.T) {
	m := ir.NewModule("t", "layout")
	fn := m.NewFunction("f", nil)
	b := ir.NewBuilder()
	b.SetFunction(fn)

	final := fn.NewBlock("final")
	mid := fn.NewBlock("mid")
	entry := fn.NewBlock("entry")

	fn.Append(entry)
	b.SetBlock(entry)
	b.Br(mid)

	fn.Append(mid)
	b.SetBlock(mid)
	b.Br(final)

	fn.Append(final)
	b.SetBlock(final)
	b.Ret(b.Const(3))

	SimplifyCFG(fn)

	entryTerm, _ := entry.Terminator()
	if entryTerm.Then != final {
		t.Fatalf("expected entry to jump straight to final, got %s", entryTerm.Then.Name)
	}
}

// buildLoopSum builds a for-loop-shaped function equivalent to
// `for i = 1, i < n, 1.0 in sum = sum + i` returning sum, using an
// explicit alloca-based induction variable the way the emitter does,
// to exercise Mem2Reg's loop-header phi/sealing path.
func buildLoopSum(m *ir.Module) *ir.Function {
	fn := m.NewFunction("loopSum", []string{"n"})
	b := ir.NewBuilder()
	b.SetFunction(fn)

	entry := fn.NewBlock("entry")
	fn.Append(entry)
	b.SetBlock(entry)
	nSlot := b.Alloca("n")
	b.Store(ir.LocalSlot(nSlot), b.Param(0))
	iSlot := b.Alloca("i")
	sumSlot := b.Alloca("sum")
	b.Store(ir.LocalSlot(iSlot), b.Const(1))
	b.Store(ir.LocalSlot(sumSlot), b.Const(0))

	loop := fn.NewBlock("loop")
	b.Br(loop)

	body := fn.NewBlock("loopbody")
	after := fn.NewBlock("afterloop")

	fn.Append(loop)
	b.SetBlock(loop)
	iForCond := b.Load(ir.LocalSlot(iSlot))
	nVal := b.Load(ir.LocalSlot(nSlot))
	cond := b.FCmp(ir.OpFCmpLT, iForCond, nVal)
	b.CondBr(cond, body, after)

	fn.Append(body)
	b.SetBlock(body)
	sumVal := b.Load(ir.LocalSlot(sumSlot))
	iVal := b.Load(ir.LocalSlot(iSlot))
	newSum := b.FAdd(sumVal, iVal)
	b.Store(ir.LocalSlot(sumSlot), newSum)
	nextI := b.FAdd(b.Load(ir.LocalSlot(iSlot)), b.Const(1))
	b.Store(ir.LocalSlot(iSlot), nextI)
	b.Br(loop)

	fn.Append(after)
	b.SetBlock(after)
	b.Ret(b.Load(ir.LocalSlot(sumSlot)))

	return fn
}

func TestMem2RegPreservesSemanticsAcrossLoop(t *testing.T) {
	m := ir.NewModule("t", "layout")
	fn := buildLoopSum(m)

	Mem2Reg(fn)

	if err := ir.Verify(fn); err != nil {
		t.Fatalf("Verify after Mem2Reg: %v", err)
	}

	e := jit.NewEngine(nil)
	e.AddModule(m)
	sym, _ := e.FindSymbol("loopSum")
	got, err := sym.Invoke(6) // sum of 1..5 = 15
	if err != nil {
		t.Fatalf("Invoke after Mem2Reg: %v", err)
	}
	if got != 15 {
		t.Fatalf("Invoke(6) = %v, want 15", got)
	}
}

func TestRunFullPipelinePreservesSemantics(t *testing.T) {
	m := ir.NewModule("t", "layout")
	fn := buildLoopSum(m)

	Run(fn)

	if err := ir.Verify(fn); err != nil {
		t.Fatalf("Verify after full pipeline: %v", err)
	}

	e := jit.NewEngine(nil)
	e.AddModule(m)
	sym, _ := e.FindSymbol("loopSum")
	got, err := sym.Invoke(6)
	if err != nil {
		t.Fatalf("Invoke after optimization: %v", err)
	}
	if got != 15 {
		t.Fatalf("Invoke(6) after Run() = %v, want 15", got)
	}
}
