package ast

// Printer renders an AST node into a JSON-friendly representation built
// from maps and slices, following the teacher's astPrinter visitor
// (parser/printer.go in the teacher tree) but adapted to this language's
// expression-only grammar.
type Printer struct{}

func (Printer) VisitNumber(n *Number) (Value, error) {
	return map[string]any{"type": "Number", "value": n.Value}, nil
}

func (Printer) VisitVariable(va *Variable) (Value, error) {
	return map[string]any{"type": "Variable", "name": va.Name, "global": va.IsGlobal}, nil
}

func (p Printer) VisitUnary(u *Unary) (Value, error) {
	operand, _ := u.Operand.Accept(p)
	return map[string]any{"type": "Unary", "op": u.Op, "operand": operand}, nil
}

func (p Printer) VisitBinary(b *Binary) (Value, error) {
	lhs, _ := b.Lhs.Accept(p)
	rhs, _ := b.Rhs.Accept(p)
	return map[string]any{"type": "Binary", "op": b.Op, "lhs": lhs, "rhs": rhs}, nil
}

func (p Printer) VisitCall(c *Call) (Value, error) {
	args := make([]any, 0, len(c.Args))
	for _, a := range c.Args {
		v, _ := a.Accept(p)
		args = append(args, v)
	}
	return map[string]any{"type": "Call", "callee": c.Callee, "args": args}, nil
}

func (p Printer) VisitIf(i *If) (Value, error) {
	cond, _ := i.Cond.Accept(p)
	return map[string]any{
		"type": "If",
		"cond": cond,
		"then": p.exprList(i.Then),
		"else": p.exprList(i.Else),
	}, nil
}

func (p Printer) VisitFor(f *For) (Value, error) {
	start, _ := f.Start.Accept(p)
	end, _ := f.End.Accept(p)
	step, _ := f.Step.Accept(p)
	return map[string]any{
		"type":  "For",
		"var":   f.Var,
		"start": start,
		"end":   end,
		"step":  step,
		"body":  p.exprList(f.Body),
	}, nil
}

func (p Printer) exprList(exprs []Expr) []any {
	out := make([]any, 0, len(exprs))
	for _, e := range exprs {
		v, _ := e.Accept(p)
		out = append(out, v)
	}
	return out
}

// VisitPrototype and VisitFunction implement ProtoVisitor so top-level
// items can be dumped uniformly via the `dump` CLI command.
func (Printer) VisitPrototype(proto *Prototype) (FuncValue, error) {
	return map[string]any{
		"type":   "Prototype",
		"name":   proto.Name,
		"params": proto.Params,
		"kind":   proto.Kind,
	}, nil
}

func (p Printer) VisitFunction(f *Function) (FuncValue, error) {
	protoJSON, _ := p.VisitPrototype(f.Proto)
	return map[string]any{
		"type":  "Function",
		"proto": protoJSON,
		"body":  p.exprList(f.Body),
	}, nil
}
