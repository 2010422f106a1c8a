package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"kaleidoscope/ast"
	"kaleidoscope/emitter"
	"kaleidoscope/ir"
	"kaleidoscope/lexer"
	"kaleidoscope/parser"
	"kaleidoscope/prec"
	"kaleidoscope/token"
)

// dumpCmd implements SPEC_FULL.md §6's `dump <file>` subcommand: parse
// a file and write each compiled function's unoptimized and optimized
// IR to stdout, a debugging aid analogous to the teacher's
// DiassembleBytecode/cmd_emit_bytecode.go. It never touches the JIT —
// only the lexer/parser/emitter/optimizer pipeline.
type dumpCmd struct{}

func (*dumpCmd) Name() string     { return "dump" }
func (*dumpCmd) Synopsis() string { return "Print unoptimized and optimized IR for a source file" }
func (*dumpCmd) Usage() string {
	return `dump <file>:
  Parse every def/extern/expression in a file and print each compiled
  function's IR before and after optimization.
`
}
func (*dumpCmd) SetFlags(f *flag.FlagSet) {}

func (*dumpCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 file not provided\n")
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}

	precedence := prec.New()
	e := emitter.New(precedence)
	e.OnUnoptimized = func(fn *ir.Function) {
		fmt.Println("; unoptimized")
		ir.Print(os.Stdout, fn)
	}

	lex := lexer.New(string(data))
	p := parser.New(lex, precedence)

	const dataLayout = "e-m:e-p270:32:32-p271:32:32-p272:64:64-i64:64-f80:128-n8:16:32:64-S128"
	moduleSeq := 0
	freshModule := func() *ir.Module {
		moduleSeq++
		m := ir.NewModule(fmt.Sprintf("anon_module_%d", moduleSeq), dataLayout)
		e.SetModule(m)
		return m
	}
	freshModule()

	for {
		cur := p.Current()
		switch {
		case cur.Type == token.EOF:
			return subcommands.ExitSuccess
		case cur.Type == token.END:
			p.Advance()
		case cur.Type == token.OTHER && cur.Ch == ';':
			p.Advance()
		case cur.Type == token.EXTERN:
			proto, err := p.ParseExtern()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				p.Advance()
				continue
			}
			if _, err := e.VisitPrototype(proto); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		default:
			var fn *ast.Function
			var err error
			if p.Current().Type == token.DEF {
				fn, err = p.ParseDefinition()
			} else {
				fn, err = p.ParseTopLevelExpr()
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				p.Advance()
				continue
			}
			irFn, err := e.VisitFunction(fn)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				freshModule()
				continue
			}
			fmt.Println("; optimized")
			ir.Print(os.Stdout, irFn.(*ir.Function))
			fmt.Println()
			freshModule()
		}
	}
}
