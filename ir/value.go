// Package ir implements the block-structured intermediate representation
// the emitter lowers the AST into, plus the Builder that tracks the
// current insertion point while lowering.
//
// There is no real native backend behind this package — the dependency
// pack this project was built from contains no Go/LLVM binding repository
// to imitate (see DESIGN.md), so ir/optimizer/jit together play the role
// spec.md §6 assigns to an external code generator and linker. The model
// is deliberately close to the teacher's bytecode split
// (compiler/code.go's opcode table, vm/vm.go's fetch-decode-execute loop)
// but block-structured rather than a flat byte array, since the spec
// requires named blocks, branches, and φ-nodes.
package ir

import "fmt"

// Kind distinguishes a plain double from a not-yet-widened 1-bit
// comparison result. The Builder records it (Bool for FCmp results) and
// Value.Kind reports it; no optimizer pass, no emitter code and not the
// JIT executor reads it — every Value is a float64 at run time, per
// the language's one-type invariant (spec.md §4.D).
type Kind int

const (
	Float Kind = iota
	Bool
)

// Value is an opaque handle to the result of an instruction. Ids are
// unique within a single Function.
type Value struct {
	id   int64
	kind Kind
}

func (v Value) String() string { return fmt.Sprintf("%%%d", v.id) }

// Kind reports whether v is a plain double or a not-yet-widened 1-bit
// comparison result.
func (v Value) Kind() Kind { return v.kind }

// Valid reports whether v was ever produced by a Builder or by
// Function.NewValue. The zero Value (id 0) never is: Builder ids start
// at 1 and NewValue ids are negative.
func (v Value) Valid() bool { return v.id != 0 }
