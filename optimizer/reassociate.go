package optimizer

import "kaleidoscope/ir"

// Reassociate canonicalizes commutative FAdd/FMul operand order so a
// constant operand always sits on the right, the form InstCombine's
// folder looks for. It runs after InstCombine in the fixed pipeline
// order spec.md §4.D.7 specifies, so its effect is only visible on a
// second Run() of the pipeline (not attempted here) or to a later pass
// in the same Run() that also checks for a right-hand constant; it is
// intentionally bounded to one rewrite per instruction, not a fixpoint
// solver.
func Reassociate(fn *ir.Function) {
	for _, b := range fn.Blocks {
		isConst := constTable(b)
		for i, instr := range b.Instrs {
			if instr.Op != ir.OpFAdd && instr.Op != ir.OpFMul {
				continue
			}
			lhs, rhs := instr.Args[0], instr.Args[1]
			_, lhsConst := isConst[lhs]
			_, rhsConst := isConst[rhs]
			if lhsConst && !rhsConst {
				b.Instrs[i].Args = []ir.Value{rhs, lhs}
			}
		}
	}
}
