package optimizer

import "kaleidoscope/ir"

// SimplifyCFG drops blocks unreachable from the entry block and folds a
// block whose sole content is an unconditional Br into its target,
// rewriting predecessors to jump straight through. The entry block is
// never removed even if it has no predecessors, since it is reachable
// by definition (it's where execution starts).
func SimplifyCFG(fn *ir.Function) {
	foldEmptyJumps(fn)
	pruneUnreachable(fn)
}

// foldEmptyJumps rewrites any Br/CondBr target that points at a block
// containing nothing but an unconditional Br, chasing the chain to its
// end. It stops chasing if it would loop forever (an empty block
// branching back to itself or a cycle of empty blocks), leaving such
// degenerate input untouched rather than infinite-looping the pass.
func foldEmptyJumps(fn *ir.Function) {
	chainTarget := func(start *ir.Block) *ir.Block {
		cur := start
		visited := map[*ir.Block]bool{}
		for {
			if visited[cur] {
				return cur
			}
			visited[cur] = true
			if len(cur.Instrs) != 1 || cur.Instrs[0].Op != ir.OpBr {
				return cur
			}
			cur = cur.Instrs[0].Then
		}
	}

	for _, b := range fn.Blocks {
		if len(b.Instrs) == 0 {
			continue
		}
		last := len(b.Instrs) - 1
		switch b.Instrs[last].Op {
		case ir.OpBr:
			b.Instrs[last].Then = chainTarget(b.Instrs[last].Then)
		case ir.OpCondBr:
			b.Instrs[last].Then = chainTarget(b.Instrs[last].Then)
			b.Instrs[last].Else = chainTarget(b.Instrs[last].Else)
		}
	}
}

func pruneUnreachable(fn *ir.Function) {
	if fn.Entry == nil {
		return
	}
	reachable := map[*ir.Block]bool{fn.Entry: true}
	work := []*ir.Block{fn.Entry}
	for len(work) > 0 {
		b := work[len(work)-1]
		work = work[:len(work)-1]
		for _, succ := range b.Successors() {
			if !reachable[succ] {
				reachable[succ] = true
				work = append(work, succ)
			}
		}
	}

	kept := fn.Blocks[:0]
	for _, b := range fn.Blocks {
		if reachable[b] {
			kept = append(kept, b)
		}
	}
	fn.Blocks = kept
}
