// Package ast defines the tagged-variant abstract syntax tree produced by
// the parser. Every node implements Accept, dispatching to a Visitor; the
// Visitor implementation that matters is the IR emitter (package emitter),
// which performs the "lower" operation spec.md describes. This mirrors the
// teacher's visitor-based AST (ast.Expression.Accept(ExpressionVisitor)),
// generalized to a uni-typed numeric expression language.
package ast

// ProtoKind distinguishes an ordinary function prototype from a
// user-defined unary or binary operator.
type ProtoKind int

const (
	ProtoPlain ProtoKind = iota
	ProtoUnaryOp
	ProtoBinaryOp
)

// Expr is the base interface for every expression node.
type Expr interface {
	Accept(v Visitor) (Value, error)
}

// Value is the opaque result of lowering one expression. It is declared
// here (rather than imported from package ir) so that ast has no
// compile-time dependency on the IR representation; emitter.Emitter
// implements Visitor with ir.Value satisfying this interface.
type Value interface{}

// Visitor is implemented by whatever walks the AST to lower it — in this
// repository, only emitter.Emitter. One method per expression variant,
// exactly as spec.md §3 enumerates them.
type Visitor interface {
	VisitNumber(n *Number) (Value, error)
	VisitVariable(v *Variable) (Value, error)
	VisitUnary(u *Unary) (Value, error)
	VisitBinary(b *Binary) (Value, error)
	VisitCall(c *Call) (Value, error)
	VisitIf(i *If) (Value, error)
	VisitFor(f *For) (Value, error)
}

// Number is a literal double.
type Number struct {
	Value float64
}

func (n *Number) Accept(v Visitor) (Value, error) { return v.VisitNumber(n) }

// Variable is a named reference, resolved at lowering time against the
// local scope then the global scope. IsGlobal is set by a `global`
// prefix in the source and only matters when the variable doesn't exist
// yet and must be created by an assignment.
type Variable struct {
	Name     string
	IsGlobal bool
}

func (va *Variable) Accept(v Visitor) (Value, error) { return v.VisitVariable(va) }

// Unary is a prefix operator application, e.g. "-x" or "!x".
type Unary struct {
	Op      string
	Operand Expr
}

func (u *Unary) Accept(v Visitor) (Value, error) { return v.VisitUnary(u) }

// Binary is an infix operator application. Op == "=" is assignment and is
// special-cased at lowering: Lhs must be *Variable.
type Binary struct {
	Op  string
	Lhs Expr
	Rhs Expr
}

func (b *Binary) Accept(v Visitor) (Value, error) { return v.VisitBinary(b) }

// Call invokes a named function with the given argument expressions.
type Call struct {
	Callee string
	Args   []Expr
}

func (c *Call) Accept(v Visitor) (Value, error) { return v.VisitCall(c) }

// If is a conditional expression; Then/Else are expression sequences whose
// last expression's value is the branch's value (0.0 if empty).
type If struct {
	Cond Expr
	Then []Expr
	Else []Expr
}

func (i *If) Accept(v Visitor) (Value, error) { return v.VisitIf(i) }

// For is a counted loop: `for Var = Start, End, Step in Body end`. It
// always evaluates to 0.0.
type For struct {
	Var   string
	Start Expr
	End   Expr
	Step  Expr
	Body  []Expr
}

func (f *For) Accept(v Visitor) (Value, error) { return v.VisitFor(f) }
