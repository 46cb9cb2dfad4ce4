package vm

import (
	"fmt"
	"strings"
)

// frameTrace is one line of a RuntimeError's stack trace: the function that
// was executing and the source line its ip had reached.
type frameTrace struct {
	funcName string
	line     int
}

// RuntimeError is a type mismatch, undefined reference, arity mismatch, or
// other failure detected while executing bytecode (§7). It carries the
// frame stack at the point of failure, innermost frame first, the way the
// VM prints a stack trace before resetting.
type RuntimeError struct {
	Message string
	Trace   []frameTrace
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	fmt.Fprintln(&b, e.Message)
	for _, f := range e.Trace {
		if f.funcName == "" {
			fmt.Fprintf(&b, "[line %d] in script\n", f.line)
		} else {
			fmt.Fprintf(&b, "[line %d] in %s()\n", f.line, f.funcName)
		}
	}
	return b.String()
}
