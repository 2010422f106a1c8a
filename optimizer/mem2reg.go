package optimizer

import "kaleidoscope/ir"

// Mem2Reg promotes Alloca/Load/Store triples to registers using the
// on-the-fly SSA construction algorithm of Braun, Buchwald, Hack,
// Leißa, Mallon, and Zwinkau, "Simple and Efficient Construction of
// SSA Form" (CC 2013): a per-block current-definition map, incomplete
// phis recorded for blocks whose predecessor set isn't fully known
// yet, resolved (sealed) once every predecessor has been processed,
// and a trivial-phi check that collapses a phi whose operands all
// agree back down to that single value.
//
// Every alloca in this language qualifies for promotion (there is no
// address-of operator, so every alloca's only uses are Load/Store in
// its own function) — this pass does not need the "is this alloca's
// address ever taken" check a general-purpose mem2reg would need.
// Original Alloca/Store instructions are left in the block (now dead,
// since nothing reads their slot by Load anymore); the jit executor
// re-running them is wasted work, never a correctness problem, which
// is why this pass can stay this simple (see DESIGN.md).
func Mem2Reg(fn *ir.Function) {
	allocas := promotableAllocas(fn)
	if len(allocas) == 0 {
		return
	}

	preds := computePreds(fn)
	pending := make(map[*ir.Block]int, len(fn.Blocks))
	for _, b := range fn.Blocks {
		pending[b] = len(preds[b])
	}

	m := &mem2reg{
		fn:             fn,
		preds:          preds,
		currentDef:     make(map[ir.Value]map[*ir.Block]ir.Value),
		sealed:         make(map[*ir.Block]bool),
		incompletePhis: make(map[*ir.Block]map[ir.Value]ir.Value),
	}
	for _, v := range allocas {
		m.currentDef[v] = make(map[*ir.Block]ir.Value)
	}

	for _, b := range fn.Blocks {
		m.rewriteBlock(b, allocas)
		if pending[b] == 0 {
			m.seal(b)
		}
		for _, s := range b.Successors() {
			pending[s]--
			if pending[s] == 0 && allSealable(preds[s], m.sealed) {
				m.seal(s)
			}
		}
	}
	// A block is left unsealed by the loop above when one of its
	// predecessors was still unsealed at the time its last predecessor
	// was processed — a loop block that branches back to itself, or a
	// block following such a loop. Every block has been rewritten by
	// now, so each one still unsealed is sealed here and no incomplete
	// phi is left half-built.
	for _, b := range fn.Blocks {
		if !m.sealed[b] {
			m.seal(b)
		}
	}
}

func allSealable(preds []*ir.Block, sealed map[*ir.Block]bool) bool {
	for _, p := range preds {
		if !sealed[p] {
			return false
		}
	}
	return true
}

func computePreds(fn *ir.Function) map[*ir.Block][]*ir.Block {
	preds := make(map[*ir.Block][]*ir.Block, len(fn.Blocks))
	for _, b := range fn.Blocks {
		preds[b] = nil
	}
	for _, b := range fn.Blocks {
		for _, s := range b.Successors() {
			preds[s] = append(preds[s], b)
		}
	}
	return preds
}

// promotableAllocas returns the Values of every Alloca instruction in
// fn's entry block whose only references anywhere in fn are as a
// Slot.Alloca of a Load or Store (never a bare operand), which spec.md
// guarantees is true for every alloca this emitter ever creates.
func promotableAllocas(fn *ir.Function) []ir.Value {
	var allocas []ir.Value
	if fn.Entry == nil {
		return nil
	}
	for _, instr := range fn.Entry.Instrs {
		if instr.Op == ir.OpAlloca {
			allocas = append(allocas, instr.Result)
		}
	}
	if len(allocas) == 0 {
		return nil
	}
	isAlloca := make(map[ir.Value]bool, len(allocas))
	for _, v := range allocas {
		isAlloca[v] = true
	}
	bareUse := func(v ir.Value) bool { return isAlloca[v] }

	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			for _, a := range instr.Args {
				if bareUse(a) {
					return filterOutUnsafe(allocas, a, isAlloca)
				}
			}
			if bareUse(instr.Cond) || bareUse(instr.RetVal) || bareUse(instr.StoreVal) {
				v := instr.Cond
				if bareUse(instr.RetVal) {
					v = instr.RetVal
				}
				if bareUse(instr.StoreVal) {
					v = instr.StoreVal
				}
				return filterOutUnsafe(allocas, v, isAlloca)
			}
			for _, inc := range instr.Incoming {
				if bareUse(inc.Value) {
					return filterOutUnsafe(allocas, inc.Value, isAlloca)
				}
			}
		}
	}
	return allocas
}

// filterOutUnsafe drops unsafe from the candidate list; reached only
// if some instruction used an alloca's Value outside of a Slot, which
// this language's emitter never does, but a future emitter bug should
// degrade to "don't promote that one" rather than corrupt the program.
func filterOutUnsafe(allocas []ir.Value, unsafe ir.Value, isAlloca map[ir.Value]bool) []ir.Value {
	out := allocas[:0]
	for _, v := range allocas {
		if v != unsafe {
			out = append(out, v)
		}
	}
	return out
}

type mem2reg struct {
	fn             *ir.Function
	preds          map[*ir.Block][]*ir.Block
	currentDef     map[ir.Value]map[*ir.Block]ir.Value
	sealed         map[*ir.Block]bool
	incompletePhis map[*ir.Block]map[ir.Value]ir.Value // block -> alloca -> phi Value
}

// rewriteBlock walks a snapshot of b's instructions taken before any
// rewriting starts: readVariable on a Load occurring at the top of a
// loop header can itself insert a phi at the front of b (this very
// block), which would shift every subsequent index if we kept ranging
// over the live b.Instrs. Rewrites are instead applied by relocating
// each original Load via its own (stable) Result id through findInstr.
func (m *mem2reg) rewriteBlock(b *ir.Block, allocas []ir.Value) {
	isAlloca := make(map[ir.Value]bool, len(allocas))
	for _, v := range allocas {
		isAlloca[v] = true
	}
	orig := append([]ir.Instr(nil), b.Instrs...)
	for _, instr := range orig {
		switch instr.Op {
		case ir.OpStore:
			if instr.Slot.Global == nil && isAlloca[instr.Slot.Alloca] {
				m.writeVariable(instr.Slot.Alloca, b, instr.StoreVal)
			}
		case ir.OpLoad:
			if instr.Slot.Global == nil && isAlloca[instr.Slot.Alloca] {
				val := m.readVariable(instr.Slot.Alloca, b)
				idx := m.findInstr(b, instr.Result)
				b.Instrs[idx] = ir.Instr{Op: ir.OpWiden, Result: instr.Result, Args: []ir.Value{val}}
			}
		}
	}
}

func (m *mem2reg) writeVariable(v ir.Value, b *ir.Block, val ir.Value) {
	m.currentDef[v][b] = val
}

func (m *mem2reg) readVariable(v ir.Value, b *ir.Block) ir.Value {
	if val, ok := m.currentDef[v][b]; ok {
		return val
	}
	return m.readVariableRecursive(v, b)
}

func (m *mem2reg) readVariableRecursive(v ir.Value, b *ir.Block) ir.Value {
	var val ir.Value
	switch {
	case !m.sealed[b]:
		val = m.newPhi(b)
		if m.incompletePhis[b] == nil {
			m.incompletePhis[b] = make(map[ir.Value]ir.Value)
		}
		m.incompletePhis[b][v] = val
	case len(m.preds[b]) == 1:
		val = m.readVariable(v, m.preds[b][0])
	case len(m.preds[b]) == 0:
		val = m.newConstZero(b)
	default:
		val = m.newPhi(b)
		m.writeVariable(v, b, val)
		m.addPhiOperands(v, b, val)
		val = m.tryRemoveTrivialPhi(b, val)
	}
	m.writeVariable(v, b, val)
	return val
}

func (m *mem2reg) addPhiOperands(v ir.Value, b *ir.Block, phi ir.Value) {
	for _, p := range m.preds[b] {
		incoming := m.readVariable(v, p)
		idx := m.findInstr(b, phi)
		b.Instrs[idx].Incoming = append(b.Instrs[idx].Incoming, ir.PhiIncoming{Block: p, Value: incoming})
	}
}

// tryRemoveTrivialPhi collapses phi to its single distinct non-self
// operand, if it has one, by rewriting its defining instruction into a
// widen-passthrough; every existing reference to phi (by Value id)
// keeps working since the id itself never changes.
func (m *mem2reg) tryRemoveTrivialPhi(b *ir.Block, phi ir.Value) ir.Value {
	idx := m.findInstr(b, phi)
	var same ir.Value
	haveSame := false
	for _, inc := range b.Instrs[idx].Incoming {
		if inc.Value == phi {
			continue // self-reference, ignore
		}
		if haveSame && inc.Value != same {
			return phi // more than one distinct operand: not trivial
		}
		same = inc.Value
		haveSame = true
	}
	if !haveSame {
		return phi // no operands yet (shouldn't happen once sealed); leave as-is
	}
	b.Instrs[idx] = ir.Instr{Op: ir.OpWiden, Result: phi, Args: []ir.Value{same}}
	return same
}

func (m *mem2reg) newPhi(b *ir.Block) ir.Value {
	v := m.fn.NewValue(ir.Float)
	b.Instrs = append([]ir.Instr{{Op: ir.OpPhi, Result: v}}, b.Instrs...)
	return v
}

func (m *mem2reg) newConstZero(b *ir.Block) ir.Value {
	v := m.fn.NewValue(ir.Float)
	b.Instrs = append([]ir.Instr{{Op: ir.OpConst, Result: v, Const: 0}}, b.Instrs...)
	return v
}

func (m *mem2reg) findInstr(b *ir.Block, result ir.Value) int {
	for i, instr := range b.Instrs {
		if instr.Result == result {
			return i
		}
	}
	return -1
}

func (m *mem2reg) seal(b *ir.Block) {
	if m.sealed[b] {
		return
	}
	m.sealed[b] = true
	for v, phi := range m.incompletePhis[b] {
		m.addPhiOperands(v, b, phi)
		resolved := m.tryRemoveTrivialPhi(b, phi)
		// A Store later in b has already replaced the phi as b's current
		// definition; only a definition that is still the phi is updated.
		if m.currentDef[v][b] == phi {
			m.writeVariable(v, b, resolved)
		}
	}
	delete(m.incompletePhis, b)
}
