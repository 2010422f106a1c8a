package ir

import "strconv"

// Global is a module-level double variable with common linkage and
// 8-byte alignment, created the first time a `global` assignment target
// is lowered (spec.md §4.D).
type Global struct {
	Name string
}

// Function is a named sequence of basic blocks, all returning double.
type Function struct {
	Name    string
	Params  []string
	Entry   *Block
	Blocks  []*Block
	Module  *Module

	nextValueID int64
}

// NewValue mints a Value guaranteed not to collide with any Value the
// Builder has produced (or will produce) for this function. Optimizer
// passes that introduce new instructions after emission (mem2reg's
// phi nodes, chiefly) use this instead of reaching into Builder.
func (fn *Function) NewValue(kind Kind) Value {
	fn.nextValueID++
	return Value{id: -fn.nextValueID, kind: kind}
}

// NewBlock creates and registers a new, empty block named name (disambiguated
// if the name is already taken) but does not append it to Blocks or wire
// it into the CFG — callers append it once they've finished populating any
// sibling block that must appear first in program order, matching the
// If-lowering discipline in spec.md §4.D ("else and ifcont are created
// detached and appended in order as each is populated").
func (fn *Function) NewBlock(name string) *Block {
	b := &Block{Name: fn.uniqueName(name), Function: fn}
	return b
}

// Append adds b to the function's block list (in program order) and
// records it as the entry block if it is the first block appended.
func (fn *Function) Append(b *Block) {
	if len(fn.Blocks) == 0 {
		fn.Entry = b
	}
	fn.Blocks = append(fn.Blocks, b)
}

func (fn *Function) uniqueName(base string) string {
	count := 0
	for _, b := range fn.Blocks {
		if b.Name == base || hasNumberedSuffix(b.Name, base) {
			count++
		}
	}
	if count == 0 {
		return base
	}
	return base + "." + strconv.Itoa(count)
}

func hasNumberedSuffix(name, base string) bool {
	return len(name) > len(base)+1 && name[:len(base)+1] == base+"."
}
