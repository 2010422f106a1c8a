// Package driver implements spec.md §4.E's JIT Driver: the REPL-loop
// orchestration that consumes a leading token of each top-level item
// and dispatches to `def`, `extern`, or expression handling, managing
// the per-item module lifecycle spec.md §3 describes.
//
// Grounded on the teacher's cmd_repl_compiled.go compile-then-run-then
// -reset cycle, adapted from "one Bytecode buffer reused every line" to
// "one *ir.Module per top-level item, transferred to the JIT and
// replaced by a fresh one" per spec.md's module lifecycle.
package driver

import (
	"fmt"
	"io"

	"kaleidoscope/ast"
	"kaleidoscope/emitter"
	"kaleidoscope/ir"
	"kaleidoscope/jit"
	"kaleidoscope/lexer"
	"kaleidoscope/parser"
	"kaleidoscope/prec"
	"kaleidoscope/token"
)

// dataLayout is a fictitious target data layout tag every module
// created by this driver shares, standing in for the string a real
// native backend would need (spec.md §3's "bound to the same target
// data layout").
const dataLayout = "e-m:e-p270:32:32-p271:32:32-p272:64:64-i64:64-f80:128-n8:16:32:64-S128"

// Driver is the process-wide compilation context spec.md §5 and §9
// describe as "exactly one live compilation context at a time": the
// precedence table, emitter (prototype registry, scopes), JIT engine,
// and the current module are all fields here, threaded through a
// single instance for the program's lifetime.
type Driver struct {
	precedence *prec.Table
	emitter    *emitter.Emitter
	engine     *jit.Engine

	module    *ir.Module
	moduleSeq int

	out    io.Writer // results + printd output
	irOut  io.Writer // IR dumps; io.Discard suppresses
	errOut io.Writer // diagnostics
}

// New creates a Driver. irOut receives each compiled function's
// optimized IR, written before its module is transferred to the JIT
// (the unoptimized form is not written); pass io.Discard to honor the "optional boolean toggle
// (default false)" spec.md §6 describes for suppressing them.
func New(out, irOut, errOut io.Writer) *Driver {
	precedence := prec.New()
	d := &Driver{
		precedence: precedence,
		emitter:    emitter.New(precedence),
		engine:     jit.NewEngine(jit.DefaultHostFuncs(out)),
		out:        out,
		irOut:      irOut,
		errOut:     errOut,
	}
	d.freshModule()
	return d
}

func (d *Driver) freshModule() {
	d.moduleSeq++
	d.module = ir.NewModule(fmt.Sprintf("anon_module_%d", d.moduleSeq), dataLayout)
	d.emitter.SetModule(d.module)
}

// RunSource lexes, parses, and evaluates every top-level item in src
// in order, following spec.md §4.E's REPL loop exactly (minus the
// interactive console itself, which spec.md §1 treats as an external
// collaborator out of this core's scope). A lowering or JIT error
// aborts only the current item (spec.md §7's propagation policy): it
// is reported to errOut and the driver moves on to the next item.
func (d *Driver) RunSource(src string) {
	lex := lexer.New(src)
	p := parser.New(lex, d.precedence)
	d.run(p)
}

func (d *Driver) run(p *parser.Parser) {
	for {
		cur := p.Current()
		switch {
		case cur.Type == token.EOF:
			return
		case cur.Type == token.END:
			p.Advance()
		case cur.Type == token.OTHER && cur.Ch == ';':
			// A trailing `;` is inert punctuation, not its own item —
			// spec.md's examples use it purely as a human-readable
			// statement terminator alongside the real `end` sentinel.
			p.Advance()
		case cur.Type == token.DEF:
			d.handleDefinition(p)
		case cur.Type == token.EXTERN:
			d.handleExtern(p)
		default:
			d.handleTopLevelExpr(p)
		}
	}
}

func (d *Driver) reportAndResync(p *parser.Parser, err error) {
	fmt.Fprintln(d.errOut, err)
	if p.Current().Type != token.EOF {
		p.Advance()
	}
}

// handleDefinition implements spec.md §4.E's `def` case: parse a
// Function, lower it into the current module, dump its IR, then
// transfer the module to the JIT and start a fresh one. Named-function
// modules are never removed (spec.md §3: "Named-function modules
// remain in the JIT indefinitely").
func (d *Driver) handleDefinition(p *parser.Parser) {
	fn, err := p.ParseDefinition()
	if err != nil {
		d.reportAndResync(p, err)
		return
	}

	irFn, err := d.emitter.VisitFunction(fn)
	if err != nil {
		d.reportAndResync(p, err)
		d.resetModule()
		return
	}

	ir.Print(d.irOut, irFn.(*ir.Function))
	d.transferModule()
}

// handleExtern implements spec.md §4.E's `extern` case: lower a bare
// declaration into the current (not-yet-transferred) module and
// register it in the prototype registry. It does not trigger a module
// swap — spec.md §3 only lists `def` and top-level expressions as
// triggering the (a)/(b)/(c) module lifecycle.
func (d *Driver) handleExtern(p *parser.Parser) {
	proto, err := p.ParseExtern()
	if err != nil {
		d.reportAndResync(p, err)
		return
	}
	if _, err := d.emitter.VisitPrototype(proto); err != nil {
		d.reportAndResync(p, err)
		d.resetModule()
	}
}

// handleTopLevelExpr implements spec.md §4.E's "otherwise" case: parse
// the expression wrapped as __anon_expr, lower it, transfer the module,
// look up and invoke __anon_expr, print the result, then remove the
// now-spent anonymous module (spec.md §3: "Top-level (__anon_expr)
// modules are added, invoked once, then removed from the JIT").
func (d *Driver) handleTopLevelExpr(p *parser.Parser) {
	fn, err := p.ParseTopLevelExpr()
	if err != nil {
		d.reportAndResync(p, err)
		return
	}

	irFn, err := d.emitter.VisitFunction(fn)
	if err != nil {
		d.reportAndResync(p, err)
		d.resetModule()
		return
	}
	ir.Print(d.irOut, irFn.(*ir.Function))

	key, err := d.engine.AddModule(d.module)
	if err != nil {
		fmt.Fprintln(d.errOut, err)
		d.freshModule()
		return
	}
	d.freshModule()

	sym, ok := d.engine.FindSymbol(ast.AnonExprName)
	if !ok {
		fmt.Fprintln(d.errOut, &jit.Error{Msg: "internal error: __anon_expr not found after AddModule"})
		d.engine.RemoveModule(key)
		return
	}
	result, err := sym.Invoke()
	if err != nil {
		fmt.Fprintln(d.errOut, err)
	} else {
		fmt.Fprintf(d.out, "%g\n", result)
	}

	if err := d.engine.RemoveModule(key); err != nil {
		fmt.Fprintln(d.errOut, err)
	}
}

// transferModule hands the current module to the JIT and replaces it
// with a fresh one, the (b)+(c) steps spec.md §3 describes for `def`.
func (d *Driver) transferModule() {
	if _, err := d.engine.AddModule(d.module); err != nil {
		fmt.Fprintln(d.errOut, err)
	}
	d.freshModule()
}

// resetModule discards the current module and starts a fresh one,
// spec.md §7's "the current module should be discarded and a fresh
// one created" abort behavior for a lowering failure that occurred
// after the emitter had already mutated it.
func (d *Driver) resetModule() {
	d.freshModule()
}
