// Package prec implements the mutable operator precedence table
// spec.md §4.B/§4.D shares between the parser (which climbs it) and
// the emitter (which grows it when lowering a binary-operator
// Prototype). Both sides hold the same *Table instance for the
// lifetime of one compilation context (spec.md §5's "operator
// precedence table" process-wide state).
package prec

// Table maps an operator's lexeme to its binding precedence. Higher
// binds tighter. Table.Get returns -1 for any operator it has never
// seen, which the parser's climb treats as "not an operator, stop".
type Table struct {
	m map[string]int
}

// New returns a Table seeded with the language's built-in operators,
// exactly as spec.md §4.B lists them: `=` at 1, `&& ||` at 5,
// comparisons at 10, `+ -` at 20, `* /` at 40.
func New() *Table {
	t := &Table{m: map[string]int{
		"=":  1,
		"&&": 5,
		"||": 5,
		"==": 10,
		"!=": 10,
		"<":  10,
		">":  10,
		"<=": 10,
		">=": 10,
		"+":  20,
		"-":  20,
		"*":  40,
		"/":  40,
	}}
	return t
}

// Get returns op's precedence, or -1 if op is not (yet) a known
// operator.
func (t *Table) Get(op string) int {
	if p, ok := t.m[op]; ok {
		return p
	}
	return -1
}

// Set records op's precedence, growing the table. Per spec.md §4.B
// this only ever happens when a binary-operator Prototype is lowered
// (never at parse time), and the table only grows monotonically —
// callers never remove an entry.
func (t *Table) Set(op string, precedence int) {
	t.m[op] = precedence
}

// IsOperator reports whether op is currently a known operator.
func (t *Table) IsOperator(op string) bool {
	_, ok := t.m[op]
	return ok
}
