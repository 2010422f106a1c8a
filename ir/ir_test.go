package ir

import (
	"bytes"
	"strings"
	"testing"
)

// buildAdd builds `define double @add(a, b)` whose entry block allocas a
// and b, stores the constants 1 and 2 into them, loads both, adds the
// loads with fadd, and returns the sum.
func buildAdd() *Function {
	m := NewModule("test", "e-m:e-p270:32:32-p271:32:32-p272:64:64-i64:64-f80:128-n8:16:32:64-S128")
	fn := m.NewFunction("add", []string{"a", "b"})
	b := NewBuilder()
	b.SetFunction(fn)
	entry := fn.NewBlock("entry")
	fn.Append(entry)
	b.SetBlock(entry)

	aAlloca := b.Alloca("a")
	bAlloca := b.Alloca("b")
	b.Store(LocalSlot(aAlloca), b.Const(1))
	b.Store(LocalSlot(bAlloca), b.Const(2))
	lhs := b.Load(LocalSlot(aAlloca))
	rhs := b.Load(LocalSlot(bAlloca))
	sum := b.FAdd(lhs, rhs)
	b.Ret(sum)

	return fn
}

func TestVerifyAcceptsWellFormedFunction(t *testing.T) {
	fn := buildAdd()
	if err := Verify(fn); err != nil {
		t.Fatalf("Verify() = %v, want nil", err)
	}
}

func TestVerifyRejectsEmptyFunction(t *testing.T) {
	m := NewModule("test", "layout")
	fn := m.NewFunction("empty", nil)
	if err := Verify(fn); err == nil {
		t.Fatal("Verify() = nil, want error for function with no blocks")
	}
}

func TestVerifyRejectsMissingTerminator(t *testing.T) {
	m := NewModule("test", "layout")
	fn := m.NewFunction("bad", nil)
	b := NewBuilder()
	b.SetFunction(fn)
	entry := fn.NewBlock("entry")
	fn.Append(entry)
	b.SetBlock(entry)
	b.Const(1) // no terminator

	err := Verify(fn)
	if err == nil {
		t.Fatal("Verify() = nil, want error for block missing a terminator")
	}
	if !strings.Contains(err.Error(), "does not end in a terminator") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVerifyRejectsBranchToForeignBlock(t *testing.T) {
	m := NewModule("test", "layout")
	fn := m.NewFunction("bad", nil)
	other := m.NewFunction("other", nil)

	b := NewBuilder()
	b.SetFunction(fn)
	entry := fn.NewBlock("entry")
	fn.Append(entry)
	b.SetBlock(entry)

	foreign := other.NewBlock("entry")
	other.Append(foreign)
	b.Br(foreign)

	err := Verify(fn)
	if err == nil {
		t.Fatal("Verify() = nil, want error for branch into a foreign function")
	}
}

func TestPrintProducesReadableIR(t *testing.T) {
	fn := buildAdd()
	var buf bytes.Buffer
	Print(&buf, fn)
	out := buf.String()

	for _, want := range []string{"define double @add(a, b)", "entry:", "fadd", "ret"} {
		if !strings.Contains(out, want) {
			t.Errorf("Print output missing %q, got:\n%s", want, out)
		}
	}
}

func TestBlockTerminatorAndSuccessors(t *testing.T) {
	fn := buildAdd()
	entry := fn.Blocks[0]

	term, ok := entry.Terminator()
	if !ok || term.Op != OpRet {
		t.Fatalf("Terminator() = %v, %v; want OpRet, true", term, ok)
	}
	if succs := entry.Successors(); succs != nil {
		t.Fatalf("Successors() = %v, want nil for a ret block", succs)
	}
}

func TestFunctionUniqueBlockNaming(t *testing.T) {
	m := NewModule("test", "layout")
	fn := m.NewFunction("f", nil)
	b1 := fn.NewBlock("then")
	fn.Append(b1)
	b2 := fn.NewBlock("then")
	fn.Append(b2)

	if b1.Name == b2.Name {
		t.Fatalf("expected disambiguated block names, got %q twice", b1.Name)
	}
}

func TestModuleFunctionsPreservesDeclarationOrder(t *testing.T) {
	m := NewModule("test", "layout")
	m.NewFunction("c", nil)
	m.NewFunction("a", nil)
	m.NewFunction("b", nil)

	var names []string
	for _, fn := range m.Functions() {
		names = append(names, fn.Name)
	}
	want := []string{"c", "a", "b"}
	if len(names) != len(want) {
		t.Fatalf("Functions() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Functions() = %v, want %v", names, want)
		}
	}
}

func TestModuleGetOrCreateGlobalIsIdempotent(t *testing.T) {
	m := NewModule("test", "layout")
	g1 := m.GetOrCreateGlobal("x")
	g2 := m.GetOrCreateGlobal("x")
	if g1 != g2 {
		t.Fatal("GetOrCreateGlobal returned distinct globals for the same name")
	}
	if len(m.Globals()) != 1 {
		t.Fatalf("Globals() = %v, want len 1", m.Globals())
	}
}
