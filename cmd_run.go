package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"kaleidoscope/driver"
)

// runCmd implements SPEC_FULL.md §6's `run <file>` subcommand: lex,
// parse, emit, and JIT every top-level item in a file in sequence, no
// prompt. Grounded on the teacher's cmd_run.go (read-file-then-
// lex-parse-interpret), retargeted at driver.Driver instead of an
// interpreter.
type runCmd struct {
	quietIR bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Compile and run every item in a source file" }
func (*runCmd) Usage() string {
	return `run [-quiet-ir] <file>:
  Lex, parse, emit, and JIT every top-level item in a file in order.
`
}

func (r *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.quietIR, "quiet-ir", false, "suppress IR dumps to stderr")
	f.BoolVar(&r.quietIR, "q", false, "shorthand for -quiet-ir")
}

func (r *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	irOut := io.Writer(os.Stderr)
	if r.quietIR {
		irOut = io.Discard
	}
	d := driver.New(os.Stdout, irOut, os.Stderr)
	d.RunSource(string(data))
	return subcommands.ExitSuccess
}
