// Package optimizer implements the per-function pass pipeline spec.md
// §4.D.7 names: instruction combining, reassociation, global value
// numbering, CFG simplification, and mem2reg. It is grounded on the
// teacher's bytecode disassembler (compiler/ast_compiler.go's
// DisassembleBytecode, which walks a function's instructions by opcode)
// for the shape of "walk and rewrite a function's instruction stream",
// though the passes themselves implement the classic compiler-textbook
// algorithms spec.md calls for rather than anything the teacher did.
//
// Every pass here is a pure optimization: the jit package interprets
// Alloca/Load/Store/unreduced arithmetic exactly as faithfully as it
// does their optimized forms, so a conservative or even no-op pass
// never changes a program's observable result, only its running time
// and the readability of the `dump` subcommand's output (see DESIGN.md).
package optimizer

import "kaleidoscope/ir"

// Run applies the full pipeline to fn in place, in the fixed order
// spec.md §4.D.7 lists them.
func Run(fn *ir.Function) {
	InstCombine(fn)
	Reassociate(fn)
	GVN(fn)
	SimplifyCFG(fn)
	Mem2Reg(fn)
}
