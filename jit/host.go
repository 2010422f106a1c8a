package jit

import (
	"fmt"
	"io"
)

// DefaultHostFuncs returns the standard host intrinsic table: just
// `printd`, the only built-in spec.md §6 seeds into the host table.
// printd writes its argument formatted with %f and a newline, and
// returns 0.0.
// out receives printd's stdout write (normally os.Stdout; tests pass a
// bytes.Buffer).
func DefaultHostFuncs(out io.Writer) map[string]HostFunc {
	return map[string]HostFunc{
		"printd": func(args []float64) (float64, error) {
			if len(args) != 1 {
				return 0, &Error{Msg: fmt.Sprintf("printd expects 1 argument, got %d", len(args))}
			}
			fmt.Fprintf(out, "%f\n", args[0])
			return 0, nil
		},
	}
}
