package vm

import "github.com/emberlang/ember/lang/value"

// callValue dispatches a CALL instruction's callee, which sits at
// stack[top-argCount-1] with its arguments above it (§4.2's CALL contract).
func (vm *VM) callValue(callee value.Value, argCount int) *RuntimeError {
	switch c := callee.(type) {
	case *value.Closure:
		return vm.callClosure(c, argCount)
	case *value.Native:
		return vm.callNative(c, argCount)
	case *value.Class:
		return vm.instantiate(c, argCount)
	case *value.BoundMethod:
		vm.stack[vm.stackTop-argCount-1] = c.Receiver
		return vm.callClosure(c.Method, argCount)
	default:
		return vm.runtimeError("can only call functions and classes")
	}
}

func (vm *VM) callClosure(closure *value.Closure, argCount int) *RuntimeError {
	if argCount != closure.Fn.Arity {
		return vm.runtimeError("expected %d arguments but got %d", closure.Fn.Arity, argCount)
	}
	if vm.frameCount >= MaxFrames {
		return vm.runtimeError("stack overflow")
	}

	vm.frames[vm.frameCount] = frame{
		closure:   closure,
		ip:        0,
		slotsBase: vm.stackTop - argCount - 1,
	}
	vm.frameCount++
	return nil
}

func (vm *VM) callNative(n *value.Native, argCount int) *RuntimeError {
	if n.Arity != value.Variadic && argCount != n.Arity {
		return vm.runtimeError("expected %d arguments but got %d", n.Arity, argCount)
	}
	args := make([]value.Value, argCount)
	copy(args, vm.stack[vm.stackTop-argCount:vm.stackTop])

	result, err := n.Fn(args)
	if err != nil {
		return vm.runtimeError("%s", err.Error())
	}

	vm.stackTop -= argCount + 1
	vm.push(result)
	return nil
}

// instantiate handles calling a Class as a constructor: allocate an
// Instance, replace the callee slot with it, then run init() if the class
// defines one (§4.2's CALL contract for Class callees).
func (vm *VM) instantiate(class *value.Class, argCount int) *RuntimeError {
	inst := vm.heap.NewInstance(class)
	vm.stack[vm.stackTop-argCount-1] = inst

	if initializer, ok := class.Methods.Get(vm.heap.InitString); ok {
		return vm.callClosure(initializer.(*value.Closure), argCount)
	}
	if argCount != 0 {
		return vm.runtimeError("expected 0 arguments but got %d", argCount)
	}
	return nil
}

// bindMethod looks up name on class's method table and, if found, replaces
// the top-of-stack receiver with a BoundMethod.
func (vm *VM) bindMethod(class *value.Class, name *value.String) *RuntimeError {
	method, ok := class.Methods.Get(name)
	if !ok {
		return vm.runtimeError("undefined property '%s'", name.Chars)
	}
	bound := vm.heap.NewBoundMethod(vm.peek(0), method.(*value.Closure))
	vm.pop()
	vm.push(bound)
	return nil
}

// invoke fuses `receiver.name(args...)` into one dispatch: if name is a
// field holding a callable, it's called as a value; otherwise name is
// looked up as a method and called directly, without allocating a
// BoundMethod (§4.2's INVOKE contract).
func (vm *VM) invoke(name *value.String, argCount int) *RuntimeError {
	receiver := vm.peek(argCount)
	inst, ok := receiver.(*value.Instance)
	if !ok {
		return vm.runtimeError("only instances have methods")
	}

	if field, ok := inst.Fields.Get(name); ok {
		vm.stack[vm.stackTop-argCount-1] = field
		return vm.callValue(field, argCount)
	}
	return vm.invokeFromClass(inst.Class, name, argCount)
}

func (vm *VM) invokeFromClass(class *value.Class, name *value.String, argCount int) *RuntimeError {
	method, ok := class.Methods.Get(name)
	if !ok {
		return vm.runtimeError("undefined property '%s'", name.Chars)
	}
	return vm.callClosure(method.(*value.Closure), argCount)
}

// captureUpvalue returns the open Upvalue for the given stack slot,
// reusing an existing one if the open list already has it, preserving the
// descending-stack-address ordering invariant (§3.2).
func (vm *VM) captureUpvalue(local int) *value.Upvalue {
	var prev *value.Upvalue
	uv := vm.openUpvalues
	for uv != nil && uv.StackIndex > local {
		prev = uv
		uv = uv.Next
	}
	if uv != nil && uv.StackIndex == local {
		return uv
	}

	created := vm.heap.NewUpvalue(&vm.stack[local], local)
	created.Next = uv
	if prev == nil {
		vm.openUpvalues = created
	} else {
		prev.Next = created
	}
	return created
}

// closeUpvalues closes every open upvalue at or above the given stack
// slot, copying each one's value out of the stack before that slot is
// reused or discarded.
func (vm *VM) closeUpvalues(last int) {
	for vm.openUpvalues != nil && vm.openUpvalues.StackIndex >= last {
		uv := vm.openUpvalues
		uv.Close()
		vm.openUpvalues = uv.Next
	}
}
