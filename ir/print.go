package ir

import (
	"fmt"
	"io"
	"strings"
)

// Print renders fn as human-readable IR text to w. The driver writes
// each function's optimized IR through it; the `dump` subcommand writes
// both the unoptimized and the optimized form.
func Print(w io.Writer, fn *Function) {
	fmt.Fprintf(w, "define double @%s(%s) {\n", fn.Name, strings.Join(fn.Params, ", "))
	for _, b := range fn.Blocks {
		fmt.Fprintf(w, "%s:\n", b.Name)
		for _, instr := range b.Instrs {
			fmt.Fprintf(w, "  %s\n", formatInstr(instr))
		}
	}
	fmt.Fprintln(w, "}")
}

func formatInstr(instr Instr) string {
	switch instr.Op {
	case OpConst:
		return fmt.Sprintf("%s = const %g", instr.Result, instr.Const)
	case OpParam:
		return fmt.Sprintf("%s = param %d", instr.Result, instr.ParamIndex)
	case OpAlloca:
		return fmt.Sprintf("%s = alloca %s", instr.Result, instr.Name)
	case OpLoad:
		return fmt.Sprintf("%s = load %s", instr.Result, formatSlot(instr.Slot))
	case OpStore:
		return fmt.Sprintf("store %s, %s", instr.StoreVal, formatSlot(instr.Slot))
	case OpFAdd, OpFSub, OpFMul, OpFDiv, OpFCmpEQ, OpFCmpNE, OpFCmpLT, OpFCmpGT, OpFCmpLE, OpFCmpGE, OpAnd, OpOr:
		return fmt.Sprintf("%s = %s %s, %s", instr.Result, instr.Op, instr.Args[0], instr.Args[1])
	case OpWiden:
		return fmt.Sprintf("%s = widen %s", instr.Result, instr.Args[0])
	case OpCall:
		args := make([]string, len(instr.Args))
		for i, a := range instr.Args {
			args[i] = a.String()
		}
		return fmt.Sprintf("%s = call @%s(%s)", instr.Result, instr.Name, strings.Join(args, ", "))
	case OpBr:
		return fmt.Sprintf("br label %%%s", instr.Then.Name)
	case OpCondBr:
		return fmt.Sprintf("condbr %s, label %%%s, label %%%s", instr.Cond, instr.Then.Name, instr.Else.Name)
	case OpRet:
		return fmt.Sprintf("ret %s", instr.RetVal)
	case OpPhi:
		parts := make([]string, len(instr.Incoming))
		for i, inc := range instr.Incoming {
			parts[i] = fmt.Sprintf("[%s, %%%s]", inc.Value, inc.Block.Name)
		}
		return fmt.Sprintf("%s = phi %s", instr.Result, strings.Join(parts, ", "))
	default:
		return "<unknown instr>"
	}
}

func formatSlot(s Slot) string {
	if s.Global != nil {
		return "@" + s.Global.Name
	}
	return s.Alloca.String()
}
