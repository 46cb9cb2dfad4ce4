package compiler

import "fmt"

// CompileError is a single reported syntax or semantic error, attributed to
// the token where panic-mode recovery began.
type CompileError struct {
	Line    int
	Where   string // token lexeme, or "" for EOF
	Message string
}

func (e *CompileError) Error() string {
	if e.Where == "" {
		return fmt.Sprintf("[line %d] Error: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("[line %d] Error at '%s': %s", e.Line, e.Where, e.Message)
}
