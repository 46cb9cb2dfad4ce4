package vm

import (
	"time"

	"github.com/emberlang/ember/lang/value"
)

// defineNatives installs the host-implemented globals every program starts
// with. clock() is the only one the language's surface actually needs;
// it exists so scripts can measure their own running time without any
// language-level notion of wall-clock time.
func (vm *VM) defineNatives() {
	vm.defineNative("clock", 0, func(args []value.Value) (value.Value, error) {
		return value.Number(float64(time.Now().UnixNano()) / 1e9), nil
	})
}

func (vm *VM) defineNative(name string, arity int, fn value.NativeFn) {
	// Intern the name before allocating the native: InternString can trigger
	// a collection, and until it's reachable from globals a freshly
	// allocated native is rooted nowhere but this Go stack frame (§4.5).
	interned := vm.heap.InternString(name)
	native, ok := vm.natives.get(name)
	if !ok {
		native = vm.heap.NewNative(name, arity, fn)
		vm.natives.put(name, native)
	}
	vm.globals.Set(interned, native)
}
