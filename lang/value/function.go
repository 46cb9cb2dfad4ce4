package value

import "fmt"

// Function is a compiled function prototype: its arity, the number of
// upvalues its closures must capture, its own chunk of bytecode, and an
// optional name (absent for the implicit top-level script function).
type Function struct {
	Header
	Name         *String
	Arity        int
	UpvalueCount int
	Chunk        Chunk
}

// NewFunction allocates an unlinked Function object with an empty chunk.
func NewFunction(name *String) *Function {
	return &Function{Header: Header{Kind: ObjFunction}, Name: name}
}

func (f *Function) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name.Chars)
}
func (*Function) Type() string { return "function" }

// NativeFn is the signature a host routine must implement to be callable
// from machine code as a NativeFunction.
type NativeFn func(args []Value) (Value, error)

// Variadic marks a NativeFunction's Arity as accepting any number of
// arguments.
const Variadic = -1

// Native is a function implemented by the host rather than compiled
// bytecode (e.g. clock()).
type Native struct {
	Header
	Name  string
	Arity int // Variadic for any arity
	Fn    NativeFn
}

// NewNative allocates an unlinked Native object.
func NewNative(name string, arity int, fn NativeFn) *Native {
	return &Native{Header: Header{Kind: ObjNative}, Name: name, Arity: arity, Fn: fn}
}

func (*Native) String() string { return "<native fn>" }
func (*Native) Type() string   { return "native function" }
