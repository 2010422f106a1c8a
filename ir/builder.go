package ir

// Builder is the mutable insertion-point cursor every lowering step reads
// and writes (spec.md §4.C/§5): it names "the current block" that each
// Emit call appends to. Compound constructs (If, For) must re-read
// b.Current() after any recursive lowering call rather than reuse a
// captured block handle, since nested control flow may have moved it —
// this is the non-optional correctness requirement spec.md §9 calls out.
type Builder struct {
	fn      *Function
	current *Block
	nextID  int64
}

// NewBuilder creates a Builder with no current function; callers must
// SetBlock before emitting.
func NewBuilder() *Builder { return &Builder{} }

// Fn returns the function currently being built.
func (b *Builder) Fn() *Function { return b.fn }

// SetFunction begins building fn, with no current block yet.
func (b *Builder) SetFunction(fn *Function) { b.fn = fn }

// Current returns the block new instructions are appended to.
func (b *Builder) Current() *Block { return b.current }

// SetBlock moves the insertion point to blk.
func (b *Builder) SetBlock(blk *Block) { b.current = blk }

func (b *Builder) value(kind Kind) Value {
	b.nextID++
	return Value{id: b.nextID, kind: kind}
}

func (b *Builder) emit(instr Instr) Instr {
	b.current.Instrs = append(b.current.Instrs, instr)
	return instr
}

// Const emits a double constant.
func (b *Builder) Const(v float64) Value {
	res := b.value(Float)
	b.emit(Instr{Op: OpConst, Result: res, Const: v})
	return res
}

// Param reads the i-th argument passed to the current invocation. The
// emitter calls this once per parameter in a function's prologue and
// stores the result into that parameter's entry-block alloca, exactly
// like any other local's initial value — no special-casing needed
// anywhere downstream (optimizer passes, mem2reg included, see it as
// an ordinary Store).
func (b *Builder) Param(index int) Value {
	res := b.value(Float)
	b.emit(Instr{Op: OpParam, Result: res, ParamIndex: index})
	return res
}

// Alloca reserves a stack slot named name (for IR-dump readability) and
// returns a Value identifying it; that Value is later used as a Slot via
// LocalSlot. spec.md requires allocas for locals to live in the entry
// block; callers are responsible for calling Alloca with the entry block
// current (the emitter enforces this, not the builder).
func (b *Builder) Alloca(name string) Value {
	res := b.value(Float)
	b.emit(Instr{Op: OpAlloca, Result: res, Name: name})
	return res
}

// AllocaAtBlockStart reserves a stack slot the same way Alloca does, but
// inserts it before block's existing instructions instead of appending to
// the builder's current insertion point. The emitter uses this for a local
// implicitly created by an assignment found after the entry block already
// has a terminator (spec.md §4.D/§9 scenario 6: an assignment inside an
// if/for body to a name not yet in local scope still must allocate in the
// entry block, which by then may already end in a Br/CondBr/Ret).
func (b *Builder) AllocaAtBlockStart(block *Block, name string) Value {
	res := b.value(Float)
	block.Instrs = append([]Instr{{Op: OpAlloca, Result: res, Name: name}}, block.Instrs...)
	return res
}

// LocalSlot wraps an alloca's Value as a Slot for Load/Store.
func LocalSlot(alloca Value) Slot { return Slot{Alloca: alloca} }

// GlobalSlot wraps a Global as a Slot for Load/Store.
func GlobalSlot(g *Global) Slot { return Slot{Global: g} }

// Load reads the current value out of slot.
func (b *Builder) Load(slot Slot) Value {
	res := b.value(Float)
	b.emit(Instr{Op: OpLoad, Result: res, Slot: slot})
	return res
}

// Store writes val into slot.
func (b *Builder) Store(slot Slot, val Value) {
	b.emit(Instr{Op: OpStore, Slot: slot, StoreVal: val})
}

func (b *Builder) binFloat(op Op, lhs, rhs Value) Value {
	res := b.value(Float)
	b.emit(Instr{Op: op, Result: res, Args: []Value{lhs, rhs}})
	return res
}

func (b *Builder) FAdd(lhs, rhs Value) Value { return b.binFloat(OpFAdd, lhs, rhs) }
func (b *Builder) FSub(lhs, rhs Value) Value { return b.binFloat(OpFSub, lhs, rhs) }
func (b *Builder) FMul(lhs, rhs Value) Value { return b.binFloat(OpFMul, lhs, rhs) }
func (b *Builder) FDiv(lhs, rhs Value) Value { return b.binFloat(OpFDiv, lhs, rhs) }

// FCmp emits an ordered float compare, producing a 1-bit (Bool-kind) result.
func (b *Builder) FCmp(op Op, lhs, rhs Value) Value {
	res := b.value(Bool)
	b.emit(Instr{Op: op, Result: res, Args: []Value{lhs, rhs}})
	return res
}

// And/Or operate on already-widened (0.0/1.0) operands, per spec.md's
// intentional, caller-visible widen-AND/OR semantics (spec.md §4.D, §8
// scenario 3): the integer AND/OR of the 1-bit payloads is computed, then
// immediately re-widened.
func (b *Builder) And(lhs, rhs Value) Value { return b.binFloat(OpAnd, lhs, rhs) }
func (b *Builder) Or(lhs, rhs Value) Value  { return b.binFloat(OpOr, lhs, rhs) }

// Widen converts a 1-bit (Bool-kind) value back to double (0.0 or 1.0),
// modeling UIToFP.
func (b *Builder) Widen(v Value) Value {
	res := b.value(Float)
	b.emit(Instr{Op: OpWiden, Result: res, Args: []Value{v}})
	return res
}

// Call emits a call to callee with the given arguments.
func (b *Builder) Call(callee string, args []Value) Value {
	res := b.value(Float)
	b.emit(Instr{Op: OpCall, Result: res, Name: callee, Args: args})
	return res
}

// Br emits an unconditional branch to target.
func (b *Builder) Br(target *Block) {
	b.emit(Instr{Op: OpBr, Then: target})
}

// CondBr emits a conditional branch.
func (b *Builder) CondBr(cond Value, then, els *Block) {
	b.emit(Instr{Op: OpCondBr, Cond: cond, Then: then, Else: els})
}

// Ret emits a return of val, terminating the current block.
func (b *Builder) Ret(val Value) {
	b.emit(Instr{Op: OpRet, RetVal: val})
}

// Phi emits a φ-node with the given incoming (block, value) pairs.
func (b *Builder) Phi(incoming []PhiIncoming) Value {
	res := b.value(Float)
	b.emit(Instr{Op: OpPhi, Result: res, Incoming: incoming})
	return res
}
