package jit

import (
	"fmt"

	"kaleidoscope/ir"
)

// execFunction walks fn's blocks from its entry block, maintaining a
// per-call register file (one float64 per ir.Value ever produced) and
// a per-call stack-slot store keyed by each Alloca's own Value — the
// two maps spec.md §4.H names explicitly. Phi resolution additionally
// tracks which block control flow just arrived from, since a Phi's
// correct operand depends on the predecessor taken, not on program
// order.
func execFunction(e *Engine, fn *ir.Function, args []float64) (float64, error) {
	if len(args) != len(fn.Params) {
		return 0, &Error{Msg: fmt.Sprintf("%s expects %d argument(s), got %d", fn.Name, len(fn.Params), len(args))}
	}
	if fn.Entry == nil {
		return 0, &Error{Msg: fmt.Sprintf("%s has no entry block", fn.Name)}
	}

	regs := make(map[ir.Value]float64)
	slots := make(map[ir.Value]float64)

	cur := fn.Entry
	var prev *ir.Block

	const maxSteps = 10_000_000 // guards against a malformed IR infinite loop
	steps := 0

	for {
		steps++
		if steps > maxSteps {
			return 0, &Error{Msg: fmt.Sprintf("%s did not terminate within %d basic-block steps", fn.Name, maxSteps)}
		}

		next, ret, done, err := execBlock(e, fn, cur, prev, regs, slots, args)
		if err != nil {
			return 0, err
		}
		if done {
			return ret, nil
		}
		prev, cur = cur, next
	}
}

// execBlock runs every instruction of b in order. It returns the
// successor block to run next, or done=true with the function's
// return value once a Ret instruction executes.
func execBlock(e *Engine, fn *ir.Function, b, prev *ir.Block, regs, slots map[ir.Value]float64, args []float64) (next *ir.Block, ret float64, done bool, err error) {
	for _, instr := range b.Instrs {
		switch instr.Op {
		case ir.OpConst:
			regs[instr.Result] = instr.Const

		case ir.OpParam:
			if instr.ParamIndex < 0 || instr.ParamIndex >= len(args) {
				return nil, 0, false, &Error{Msg: fmt.Sprintf("%s: param index %d out of range for %d argument(s)", fn.Name, instr.ParamIndex, len(args))}
			}
			regs[instr.Result] = args[instr.ParamIndex]

		case ir.OpAlloca:
			slots[instr.Result] = 0

		case ir.OpLoad:
			if instr.Slot.Global != nil {
				regs[instr.Result] = globalValue(e, instr.Slot.Global)
			} else {
				regs[instr.Result] = slots[instr.Slot.Alloca]
			}

		case ir.OpStore:
			v := regs[instr.StoreVal]
			if instr.Slot.Global != nil {
				setGlobalValue(e, instr.Slot.Global, v)
			} else {
				slots[instr.Slot.Alloca] = v
			}

		case ir.OpFAdd:
			regs[instr.Result] = regs[instr.Args[0]] + regs[instr.Args[1]]
		case ir.OpFSub:
			regs[instr.Result] = regs[instr.Args[0]] - regs[instr.Args[1]]
		case ir.OpFMul:
			regs[instr.Result] = regs[instr.Args[0]] * regs[instr.Args[1]]
		case ir.OpFDiv:
			regs[instr.Result] = regs[instr.Args[0]] / regs[instr.Args[1]]

		case ir.OpFCmpEQ:
			regs[instr.Result] = boolF(regs[instr.Args[0]] == regs[instr.Args[1]])
		case ir.OpFCmpNE:
			regs[instr.Result] = boolF(regs[instr.Args[0]] != regs[instr.Args[1]])
		case ir.OpFCmpLT:
			regs[instr.Result] = boolF(regs[instr.Args[0]] < regs[instr.Args[1]])
		case ir.OpFCmpGT:
			regs[instr.Result] = boolF(regs[instr.Args[0]] > regs[instr.Args[1]])
		case ir.OpFCmpLE:
			regs[instr.Result] = boolF(regs[instr.Args[0]] <= regs[instr.Args[1]])
		case ir.OpFCmpGE:
			regs[instr.Result] = boolF(regs[instr.Args[0]] >= regs[instr.Args[1]])

		case ir.OpAnd:
			regs[instr.Result] = boolF(regs[instr.Args[0]] != 0 && regs[instr.Args[1]] != 0)
		case ir.OpOr:
			regs[instr.Result] = boolF(regs[instr.Args[0]] != 0 || regs[instr.Args[1]] != 0)

		case ir.OpWiden:
			regs[instr.Result] = regs[instr.Args[0]]

		case ir.OpCall:
			callArgs := make([]float64, len(instr.Args))
			for i, a := range instr.Args {
				callArgs[i] = regs[a]
			}
			v, callErr := callFunction(e, instr.Name, callArgs)
			if callErr != nil {
				return nil, 0, false, callErr
			}
			regs[instr.Result] = v

		case ir.OpPhi:
			for _, inc := range instr.Incoming {
				if inc.Block == prev {
					regs[instr.Result] = regs[inc.Value]
					break
				}
			}

		case ir.OpBr:
			return instr.Then, 0, false, nil

		case ir.OpCondBr:
			if regs[instr.Cond] != 0 {
				return instr.Then, 0, false, nil
			}
			return instr.Else, 0, false, nil

		case ir.OpRet:
			return nil, regs[instr.RetVal], true, nil

		default:
			return nil, 0, false, &Error{Msg: fmt.Sprintf("unexecutable instruction %s in %s", instr.Op, fn.Name)}
		}
	}
	return nil, 0, false, &Error{Msg: fmt.Sprintf("block %s in %s fell off the end without a terminator", b.Name, fn.Name)}
}

func boolF(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// callFunction resolves a Call instruction's callee against the
// defined (non-declaration-only) functions FindSymbol can see, falling
// through to the host intrinsic table — which is how `extern printd(x)`
// followed by a call to `printd` reaches the Go-implemented printd
// rather than failing to find a body to execute.
func callFunction(e *Engine, name string, args []float64) (float64, error) {
	if sym, ok := e.FindSymbol(name); ok {
		return sym.Invoke(args...)
	}
	if host, ok := e.hostFuncs[name]; ok {
		return host(args)
	}
	return 0, &Error{Msg: fmt.Sprintf("unknown callee %q", name)}
}
