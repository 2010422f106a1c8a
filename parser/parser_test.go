package parser

import (
	"testing"

	"kaleidoscope/ast"
	"kaleidoscope/lexer"
	"kaleidoscope/prec"
)

func parse(src string) *Parser {
	return New(lexer.New(src), prec.New())
}

func TestParseTopLevelExprPrecedence(t *testing.T) {
	p := parse("1 + 2 * 3")
	fn, err := p.ParseTopLevelExpr()
	if err != nil {
		t.Fatalf("ParseTopLevelExpr() error = %v", err)
	}
	bin, ok := fn.Body[0].(*ast.Binary)
	if !ok {
		t.Fatalf("body[0] = %T, want *ast.Binary", fn.Body[0])
	}
	if bin.Op != "+" {
		t.Fatalf("top operator = %q, want %q", bin.Op, "+")
	}
	rhs, ok := bin.Rhs.(*ast.Binary)
	if !ok || rhs.Op != "*" {
		t.Fatalf("rhs = %#v, want a '*' Binary (higher precedence binds tighter)", bin.Rhs)
	}
}

func TestParseBinOpRhsLeftAssociativeOnTie(t *testing.T) {
	p := parse("1 - 2 - 3")
	fn, err := p.ParseTopLevelExpr()
	if err != nil {
		t.Fatalf("ParseTopLevelExpr() error = %v", err)
	}
	top, ok := fn.Body[0].(*ast.Binary)
	if !ok || top.Op != "-" {
		t.Fatalf("top = %#v, want outer '-'", fn.Body[0])
	}
	lhs, ok := top.Lhs.(*ast.Binary)
	if !ok || lhs.Op != "-" {
		t.Fatalf("lhs = %#v, want (1 - 2) nested on the left, not the right", top.Lhs)
	}
}

func TestParseDefinitionPlainPrototype(t *testing.T) {
	p := parse("def add(a b) a + b end")
	fn, err := p.ParseDefinition()
	if err != nil {
		t.Fatalf("ParseDefinition() error = %v", err)
	}
	if fn.Proto.Name != "add" || len(fn.Proto.Params) != 2 {
		t.Fatalf("proto = %#v, want name=add params=[a b]", fn.Proto)
	}
	if fn.Proto.Kind != ast.ProtoPlain {
		t.Fatalf("proto.Kind = %v, want ProtoPlain", fn.Proto.Kind)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("body len = %d, want 1", len(fn.Body))
	}
}

func TestParseDefinitionBinaryPrototype(t *testing.T) {
	p := parse("def binary| 5 (a b) a + b end")
	fn, err := p.ParseDefinition()
	if err != nil {
		t.Fatalf("ParseDefinition() error = %v", err)
	}
	if fn.Proto.Kind != ast.ProtoBinaryOp {
		t.Fatalf("proto.Kind = %v, want ProtoBinaryOp", fn.Proto.Kind)
	}
	if fn.Proto.Name != "|" {
		t.Fatalf("proto.Name = %q, want %q", fn.Proto.Name, "|")
	}
	if fn.Proto.OpPrecedence != 5 {
		t.Fatalf("proto.OpPrecedence = %d, want 5", fn.Proto.OpPrecedence)
	}
}

func TestParseDefinitionUnaryPrototype(t *testing.T) {
	p := parse("def unary!(a) 0 - a end")
	fn, err := p.ParseDefinition()
	if err != nil {
		t.Fatalf("ParseDefinition() error = %v", err)
	}
	if fn.Proto.Kind != ast.ProtoUnaryOp {
		t.Fatalf("proto.Kind = %v, want ProtoUnaryOp", fn.Proto.Kind)
	}
	if len(fn.Proto.Params) != 1 {
		t.Fatalf("params = %v, want 1 param", fn.Proto.Params)
	}
}

func TestParseExternPrototype(t *testing.T) {
	p := parse("extern sin(x)")
	proto, err := p.ParseExtern()
	if err != nil {
		t.Fatalf("ParseExtern() error = %v", err)
	}
	if proto.Name != "sin" || len(proto.Params) != 1 {
		t.Fatalf("proto = %#v, want name=sin params=[x]", proto)
	}
}

func TestParseIfExpr(t *testing.T) {
	p := parse("if a < b then a else b end")
	fn, err := p.ParseTopLevelExpr()
	if err != nil {
		t.Fatalf("ParseTopLevelExpr() error = %v", err)
	}
	ifExpr, ok := fn.Body[0].(*ast.If)
	if !ok {
		t.Fatalf("body[0] = %T, want *ast.If", fn.Body[0])
	}
	if len(ifExpr.Then) != 1 || len(ifExpr.Else) != 1 {
		t.Fatalf("then/else bodies = %v/%v, want 1 expr each", ifExpr.Then, ifExpr.Else)
	}
}

func TestParseForExprRequiresAllThreeClauses(t *testing.T) {
	p := parse("for i = 1, i < 10, 1.0 in i end")
	fn, err := p.ParseTopLevelExpr()
	if err != nil {
		t.Fatalf("ParseTopLevelExpr() error = %v", err)
	}
	forExpr, ok := fn.Body[0].(*ast.For)
	if !ok {
		t.Fatalf("body[0] = %T, want *ast.For", fn.Body[0])
	}
	if forExpr.Step == nil {
		t.Fatal("Step = nil, want the explicit third clause")
	}
}

func TestParseForExprMissingStepIsSyntaxError(t *testing.T) {
	p := parse("for i = 1, i < 10 in i end")
	_, err := p.ParseTopLevelExpr()
	if err == nil {
		t.Fatal("ParseTopLevelExpr() = nil error, want *SyntaxError for missing mandatory step clause")
	}
	if _, ok := err.(*SyntaxError); !ok {
		t.Fatalf("error type = %T, want *SyntaxError", err)
	}
}

func TestParseCallExpr(t *testing.T) {
	p := parse("foo(1, 2 + 3)")
	fn, err := p.ParseTopLevelExpr()
	if err != nil {
		t.Fatalf("ParseTopLevelExpr() error = %v", err)
	}
	call, ok := fn.Body[0].(*ast.Call)
	if !ok {
		t.Fatalf("body[0] = %T, want *ast.Call", fn.Body[0])
	}
	if call.Callee != "foo" || len(call.Args) != 2 {
		t.Fatalf("call = %#v, want callee=foo with 2 args", call)
	}
}

func TestParseGlobalVariable(t *testing.T) {
	p := parse("global counter")
	fn, err := p.ParseTopLevelExpr()
	if err != nil {
		t.Fatalf("ParseTopLevelExpr() error = %v", err)
	}
	v, ok := fn.Body[0].(*ast.Variable)
	if !ok || !v.IsGlobal || v.Name != "counter" {
		t.Fatalf("body[0] = %#v, want global Variable named counter", fn.Body[0])
	}
}

func TestParseUsesSharedPrecedenceTableForUserOperators(t *testing.T) {
	table := prec.New()
	table.Set("|", 5)
	p := New(lexer.New("1 | 2 + 3"), table)
	fn, err := p.ParseTopLevelExpr()
	if err != nil {
		t.Fatalf("ParseTopLevelExpr() error = %v", err)
	}
	top, ok := fn.Body[0].(*ast.Binary)
	if !ok || top.Op != "|" {
		t.Fatalf("top = %#v, want outer '|' (lower precedence than '+')", fn.Body[0])
	}
	rhs, ok := top.Rhs.(*ast.Binary)
	if !ok || rhs.Op != "+" {
		t.Fatalf("rhs = %#v, want nested '+' binding tighter than '|'", top.Rhs)
	}
}

func TestParseAnonExprWrapsInFunction(t *testing.T) {
	p := parse("4 + 5")
	fn, err := p.ParseTopLevelExpr()
	if err != nil {
		t.Fatalf("ParseTopLevelExpr() error = %v", err)
	}
	if fn.Proto.Name != ast.AnonExprName {
		t.Fatalf("proto.Name = %q, want %q", fn.Proto.Name, ast.AnonExprName)
	}
	if !fn.IsAnonExpr() {
		t.Fatal("IsAnonExpr() = false, want true")
	}
}

func TestAdvanceConsumesCurrentToken(t *testing.T) {
	p := parse("1 2")
	first := p.Current()
	second := p.Advance()
	if second.Num != first.Num {
		t.Fatalf("Advance() returned %v, want the token that was current (%v)", second, first)
	}
	if p.Current().Num != 2 {
		t.Fatalf("Current() after Advance() = %v, want 2", p.Current())
	}
}
