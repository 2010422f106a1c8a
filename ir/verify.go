package ir

import "fmt"

// VerifierError reports a structural defect found by Verify. It maps to
// spec.md §7's VerifierFailure error class.
type VerifierError struct {
	Function string
	Block    string
	Msg      string
}

func (e *VerifierError) Error() string {
	if e.Block == "" {
		return fmt.Sprintf("💥 verifier: function %s: %s", e.Function, e.Msg)
	}
	return fmt.Sprintf("💥 verifier: function %s, block %s: %s", e.Function, e.Block, e.Msg)
}

// Verify checks the structural invariants spec.md §7 requires of emitted
// IR before it is handed to the optimizer or JIT:
//   - the function has at least one block
//   - every block ends in exactly one terminator, and it is the block's
//     last instruction
//   - every branch target is a block that belongs to this function
//   - every Call to a function declared in fn's module passes as many
//     arguments as that function has parameters (a callee not declared
//     in the module is not checked)
//   - every phi incoming block belongs to this function
//
// It does not attempt full def-before-use dataflow analysis (spec.md
// explicitly treats that as best-effort, deferred to the emitter
// constructing valid IR by construction); it catches the structural
// mistakes a buggy lowering pass would actually produce.
func Verify(fn *Function) error {
	if len(fn.Blocks) == 0 {
		return &VerifierError{Function: fn.Name, Msg: "function has no blocks"}
	}

	known := make(map[*Block]bool, len(fn.Blocks))
	for _, b := range fn.Blocks {
		known[b] = true
	}

	for _, b := range fn.Blocks {
		if len(b.Instrs) == 0 {
			return &VerifierError{Function: fn.Name, Block: b.Name, Msg: "empty block"}
		}
		for i, instr := range b.Instrs {
			isLast := i == len(b.Instrs)-1
			if instr.Op.IsTerminator() && !isLast {
				return &VerifierError{Function: fn.Name, Block: b.Name, Msg: "terminator is not the last instruction"}
			}
			if !instr.Op.IsTerminator() && isLast {
				return &VerifierError{Function: fn.Name, Block: b.Name, Msg: "block does not end in a terminator"}
			}
			switch instr.Op {
			case OpBr:
				if !known[instr.Then] {
					return &VerifierError{Function: fn.Name, Block: b.Name, Msg: "br target is not a block of this function"}
				}
			case OpCondBr:
				if !known[instr.Then] || !known[instr.Else] {
					return &VerifierError{Function: fn.Name, Block: b.Name, Msg: "condbr target is not a block of this function"}
				}
			case OpCall:
				if fn.Module != nil {
					if callee, ok := fn.Module.GetFunction(instr.Name); ok && len(callee.Params) != len(instr.Args) {
						return &VerifierError{Function: fn.Name, Block: b.Name, Msg: fmt.Sprintf("call to %s passes %d argument(s), want %d", instr.Name, len(instr.Args), len(callee.Params))}
					}
				}
			case OpPhi:
				for _, inc := range instr.Incoming {
					if !known[inc.Block] {
						return &VerifierError{Function: fn.Name, Block: b.Name, Msg: "phi incoming block is not a block of this function"}
					}
				}
			}
		}
	}
	return nil
}
