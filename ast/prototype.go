package ast

// FuncValue is the opaque result of lowering a Prototype or Function —
// a function handle in the IR, as opposed to a Value produced by lowering
// an expression. Declared as an empty interface for the same reason as
// Value: ast must not import package ir.
type FuncValue interface{}

// ProtoVisitor is implemented by the emitter to lower top-level items that
// are not expressions.
type ProtoVisitor interface {
	VisitPrototype(p *Prototype) (FuncValue, error)
	VisitFunction(f *Function) (FuncValue, error)
}

// Prototype is a function signature: name, parameter list, and — for
// user-defined operators — the operator kind and declared precedence.
//
// Invariant: Kind == ProtoBinaryOp implies len(Params) == 2;
// Kind == ProtoUnaryOp implies len(Params) == 1.
type Prototype struct {
	Name         string
	Params       []string
	Kind         ProtoKind
	OpPrecedence int
}

func (p *Prototype) Accept(v ProtoVisitor) (FuncValue, error) { return v.VisitPrototype(p) }

// OperatorName returns the symbol table name a user-defined unary/binary
// operator's Prototype is registered and called under, e.g. "binary|" or
// "unary!". Plain prototypes return their own Name unchanged.
func (p *Prototype) OperatorName() string {
	switch p.Kind {
	case ProtoUnaryOp:
		return "unary" + p.Name
	case ProtoBinaryOp:
		return "binary" + p.Name
	default:
		return p.Name
	}
}

// AnonExprName is the reserved name every top-level expression is wrapped
// under as a zero-parameter Function, per spec.md §3.
const AnonExprName = "__anon_expr"

// Function is a prototype plus its body: a sequence of expressions whose
// last value (or 0.0 if empty) is returned.
type Function struct {
	Proto *Prototype
	Body  []Expr
}

func (f *Function) Accept(v ProtoVisitor) (FuncValue, error) { return v.VisitFunction(f) }

// IsAnonExpr reports whether f wraps a top-level expression rather than a
// user `def`.
func (f *Function) IsAnonExpr() bool {
	return f.Proto.Name == AnonExprName
}
