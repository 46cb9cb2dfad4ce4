// Package vm implements the stack-based bytecode interpreter: the value
// stack, call-frame stack, open-upvalue list, and the opcode dispatch loop.
package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/emberlang/ember/lang/heap"
	"github.com/emberlang/ember/lang/value"
)

// MaxStack is the value stack's fixed capacity (§5's resource bound).
const MaxStack = 16384

// MaxFrames is the call-frame stack's fixed capacity (§5's resource bound).
const MaxFrames = 64

// frame is one call-frame stack entry: the running closure, its
// instruction pointer into that closure's chunk, and the base index into
// the value stack where its receiver/parameters/locals begin (slot 0).
type frame struct {
	closure   *value.Closure
	ip        int
	slotsBase int
}

// VM is one bytecode interpreter instance. It owns its value stack, its
// frame stack, its open-upvalue list, its global environment, and (by
// reference) the Heap it allocates from. Two VMs must never share a Heap or
// any heap object (§5): nothing here is safe for concurrent use.
type VM struct {
	stack    [MaxStack]value.Value
	stackTop int

	frames     [MaxFrames]frame
	frameCount int

	openUpvalues *value.Upvalue // head of the open list, ordered by descending stack address

	globals *value.Table
	heap    *heap.Heap
	natives *nativeCache

	stdout io.Writer
	stderr io.Writer

	// Debug gates per-instruction disassembly tracing to stderr, the
	// runtime equivalent of clox's DEBUG_TRACE_EXECUTION build switch
	// (toggled here instead of a compile-time flag, since Go has none).
	Debug bool
}

// New returns a VM allocating from h and printing PRINT output to stdout
// (os.Stdout if nil). The VM registers itself as a GC root for the lifetime
// of the process; callers never need to unregister it.
func New(h *heap.Heap, stdout io.Writer) *VM {
	if stdout == nil {
		stdout = os.Stdout
	}
	vm := &VM{globals: value.NewTable(), heap: h, stdout: stdout, stderr: os.Stderr, natives: newNativeCache()}
	h.AddRoot(vm)
	vm.defineNatives()
	return vm
}

// SetStderr overrides where trace output goes when Debug is set (os.Stderr
// by default).
func (vm *VM) SetStderr(w io.Writer) { vm.stderr = w }

// GCRoots implements heap.RootSource (§4.5 phase 1): every value on the
// stack, every frame's closure, every open upvalue, and every global.
func (vm *VM) GCRoots(mark func(value.Value)) {
	for i := 0; i < vm.stackTop; i++ {
		mark(vm.stack[i])
	}
	for i := 0; i < vm.frameCount; i++ {
		mark(vm.frames[i].closure)
	}
	for uv := vm.openUpvalues; uv != nil; uv = uv.Next {
		mark(uv)
	}
	vm.globals.Each(func(k *value.String, v value.Value) {
		mark(k)
		mark(v)
	})
}

// reset clears the value stack, frame stack, and open-upvalue list, the
// state a runtime error leaves behind so the next REPL line (or file run)
// starts clean (§7's propagation rule). Globals and interned strings survive.
func (vm *VM) reset() {
	vm.stackTop = 0
	vm.frameCount = 0
	vm.openUpvalues = nil
}

// Interpret wraps fn in a Closure and runs it to completion as the
// top-level program.
func (vm *VM) Interpret(fn *value.Function) (value.Value, *RuntimeError) {
	closure := vm.heap.NewClosure(fn)
	vm.push(closure)
	vm.callClosure(closure, 0)
	return vm.run()
}

func (vm *VM) push(v value.Value) {
	vm.stack[vm.stackTop] = v
	vm.stackTop++
}

func (vm *VM) pop() value.Value {
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.stackTop-1-distance]
}

func (vm *VM) currentFrame() *frame { return &vm.frames[vm.frameCount-1] }

// runtimeError builds a RuntimeError with a stack trace of every active
// frame, innermost first, then resets the VM (§7).
func (vm *VM) runtimeError(format string, args ...any) *RuntimeError {
	err := &RuntimeError{Message: fmt.Sprintf(format, args...)}
	for i := vm.frameCount - 1; i >= 0; i-- {
		fr := &vm.frames[i]
		fn := fr.closure.Fn
		line := fn.Chunk.Line(fr.ip - 1)
		name := ""
		if fn.Name != nil {
			name = fn.Name.Chars
		}
		err.Trace = append(err.Trace, frameTrace{funcName: name, line: line})
	}
	vm.reset()
	return err
}
