package optimizer

import (
	"fmt"
	"strings"

	"kaleidoscope/ir"
)

// pureOp reports whether op's result depends only on its operands, so
// two occurrences with identical operands are safe to collapse. Alloca,
// Load, Store, Call, and all terminators are excluded: Alloca identity
// matters (two allocas are two distinct stack slots even with the same
// name), Load/Store touch memory the analysis below doesn't track, and
// Call may have side effects (printd).
func pureOp(op ir.Op) bool {
	switch op {
	case ir.OpConst, ir.OpParam, ir.OpFAdd, ir.OpFSub, ir.OpFMul, ir.OpFDiv,
		ir.OpFCmpEQ, ir.OpFCmpNE, ir.OpFCmpLT, ir.OpFCmpGT, ir.OpFCmpLE, ir.OpFCmpGE,
		ir.OpAnd, ir.OpOr, ir.OpWiden:
		return true
	default:
		return false
	}
}

// GVN hash-conses structurally identical pure instructions within each
// block: the second `a fmul b` with the same operands as an earlier one
// is rewritten to a widen-passthrough of the first's result, so every
// later use of its Value observes the same number without the emitter
// or later passes needing to know the two instructions were ever
// distinct. This is block-local only (spec.md's "per-function hash-
// consing table" still operates one block's straight-line code at a
// time, since values are not valid across block boundaries without a
// dominance check this implementation does not perform).
func GVN(fn *ir.Function) {
	for _, b := range fn.Blocks {
		seen := make(map[string]ir.Value)
		for i, instr := range b.Instrs {
			if !pureOp(instr.Op) {
				continue
			}
			key := gvnKey(instr)
			if existing, ok := seen[key]; ok {
				b.Instrs[i] = ir.Instr{Op: ir.OpWiden, Result: instr.Result, Args: []ir.Value{existing}}
				continue
			}
			seen[key] = instr.Result
		}
	}
}

func gvnKey(instr ir.Instr) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s", instr.Op)
	if instr.Op == ir.OpConst {
		fmt.Fprintf(&b, ":%g", instr.Const)
	}
	if instr.Op == ir.OpParam {
		fmt.Fprintf(&b, ":%d", instr.ParamIndex)
	}
	for _, a := range instr.Args {
		fmt.Fprintf(&b, ":%s", a)
	}
	return b.String()
}
