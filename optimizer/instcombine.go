package optimizer

import "kaleidoscope/ir"

// InstCombine folds constant arithmetic (Const 2 + Const 3 -> Const 5)
// and eliminates additive/multiplicative identities (x+0, x*1, x-0,
// x/1) in place, one block at a time. Folded instructions are rewritten
// to OpConst rather than removed, so every Value produced anywhere in
// the function keeps referring to a still-present instruction; dead
// instructions left behind by folding are swept by SimplifyCFG's
// companion pass only insofar as entire unreachable blocks disappear —
// a lone dead instruction inside a live block is harmless: the jit
// executor still evaluates it, but nothing reads its Result.
func InstCombine(fn *ir.Function) {
	for _, b := range fn.Blocks {
		consts := constTable(b)
		for i, instr := range b.Instrs {
			folded, ok := foldArith(instr, consts)
			if !ok {
				continue
			}
			b.Instrs[i] = folded
			consts[folded.Result] = folded.Const
		}
	}
}

func constTable(b *ir.Block) map[ir.Value]float64 {
	t := make(map[ir.Value]float64)
	for _, instr := range b.Instrs {
		if instr.Op == ir.OpConst {
			t[instr.Result] = instr.Const
		}
	}
	return t
}

func foldArith(instr ir.Instr, consts map[ir.Value]float64) (ir.Instr, bool) {
	switch instr.Op {
	case ir.OpFAdd, ir.OpFSub, ir.OpFMul, ir.OpFDiv:
	default:
		return instr, false
	}

	lhs, lok := consts[instr.Args[0]]
	rhs, rok := consts[instr.Args[1]]

	if lok && rok {
		var v float64
		switch instr.Op {
		case ir.OpFAdd:
			v = lhs + rhs
		case ir.OpFSub:
			v = lhs - rhs
		case ir.OpFMul:
			v = lhs * rhs
		case ir.OpFDiv:
			v = lhs / rhs
		}
		return ir.Instr{Op: ir.OpConst, Result: instr.Result, Const: v}, true
	}

	// identity elimination: only the constant operand is known.
	switch instr.Op {
	case ir.OpFAdd:
		if rok && rhs == 0 {
			return passthrough(instr, instr.Args[0]), true
		}
		if lok && lhs == 0 {
			return passthrough(instr, instr.Args[1]), true
		}
	case ir.OpFSub:
		if rok && rhs == 0 {
			return passthrough(instr, instr.Args[0]), true
		}
	case ir.OpFMul:
		if rok && rhs == 1 {
			return passthrough(instr, instr.Args[0]), true
		}
		if lok && lhs == 1 {
			return passthrough(instr, instr.Args[1]), true
		}
		if (rok && rhs == 0) || (lok && lhs == 0) {
			return ir.Instr{Op: ir.OpConst, Result: instr.Result, Const: 0}, true
		}
	case ir.OpFDiv:
		if rok && rhs == 1 {
			return passthrough(instr, instr.Args[0]), true
		}
	}
	return instr, false
}

// passthrough rewrites instr into a degenerate "widen of itself" so its
// Result keeps resolving to src's value without introducing a new
// instruction kind; OpWiden on a Float-kind value is defined as
// identity by the jit executor (see jit/exec.go).
func passthrough(instr ir.Instr, src ir.Value) ir.Instr {
	return ir.Instr{Op: ir.OpWiden, Result: instr.Result, Args: []ir.Value{src}}
}
