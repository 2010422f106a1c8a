// Package jit executes ir.Module values directly, walking each
// function's blocks instead of lowering to native code: a stand-in for
// the real code generator/linker spec.md §6 treats as an external
// collaborator (see DESIGN.md; no Go LLVM binding teacher repo exists
// in the dependency pack).
//
// Grounded on vm/vm.go's fetch-decode-execute loop over a flat bytecode
// array and cmd_repl_compiled.go's compile-then-run-then-reset REPL
// cycle, adapted to walk block-structured IR rather than a linear
// instruction tape.
package jit

import "fmt"

// Error is the jit package's error type, corresponding to spec.md §7's
// JITFailure class.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("🤖 jit: %s", e.Msg) }
