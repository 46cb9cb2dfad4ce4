package vm

import (
	"fmt"

	"github.com/emberlang/ember/lang/compiler"
	"github.com/emberlang/ember/lang/opcode"
	"github.com/emberlang/ember/lang/value"
)

func (vm *VM) readByte() byte {
	fr := vm.currentFrame()
	b := fr.closure.Fn.Chunk.Code[fr.ip]
	fr.ip++
	return b
}

func (vm *VM) readUint16() uint16 {
	fr := vm.currentFrame()
	v := opcode.Uint16(fr.closure.Fn.Chunk.Code[fr.ip : fr.ip+2])
	fr.ip += 2
	return v
}

func (vm *VM) readUint24() uint32 {
	fr := vm.currentFrame()
	v := opcode.Uint24(fr.closure.Fn.Chunk.Code[fr.ip : fr.ip+3])
	fr.ip += 3
	return v
}

// readIndex reads a short or long index operand depending on long, the
// pairing every indexed opcode shares (§6).
func (vm *VM) readIndex(long bool) int {
	if long {
		return int(vm.readUint24())
	}
	return int(vm.readByte())
}

func (vm *VM) readConstant(idx int) value.Value {
	return vm.currentFrame().closure.Fn.Chunk.Constants[idx]
}

func (vm *VM) readString(idx int) *value.String {
	return vm.readConstant(idx).(*value.String)
}

// run is the dispatch loop: it decodes and executes one instruction per
// iteration until the outermost call frame returns or a runtime error
// occurs (§4.2).
func (vm *VM) run() (value.Value, *RuntimeError) {
	for {
		if vm.Debug {
			fr := vm.currentFrame()
			compiler.DisassembleInstruction(vm.stderr, &fr.closure.Fn.Chunk, fr.ip)
		}

		op := opcode.Opcode(vm.readByte())
		switch op {
		case opcode.CONSTANT:
			vm.push(vm.readConstant(vm.readIndex(false)))
		case opcode.CONSTANT_LONG:
			vm.push(vm.readConstant(vm.readIndex(true)))

		case opcode.NIL:
			vm.push(value.NilValue)
		case opcode.TRUE:
			vm.push(value.True)
		case opcode.FALSE:
			vm.push(value.False)

		case opcode.POP:
			vm.pop()
		case opcode.POPN:
			n := int(vm.readByte())
			vm.stackTop -= n

		case opcode.GET_LOCAL, opcode.GET_LOCAL_LONG:
			slot := vm.readIndex(op == opcode.GET_LOCAL_LONG)
			vm.push(vm.stack[vm.currentFrame().slotsBase+slot])
		case opcode.SET_LOCAL, opcode.SET_LOCAL_LONG:
			slot := vm.readIndex(op == opcode.SET_LOCAL_LONG)
			vm.stack[vm.currentFrame().slotsBase+slot] = vm.peek(0)

		case opcode.GET_GLOBAL, opcode.GET_GLOBAL_LONG:
			name := vm.readString(vm.readIndex(op == opcode.GET_GLOBAL_LONG))
			v, ok := vm.globals.Get(name)
			if !ok {
				return nil, vm.runtimeError("undefined variable '%s'", name.Chars)
			}
			vm.push(v)
		case opcode.DEFINE_GLOBAL, opcode.DEFINE_GLOBAL_LONG:
			name := vm.readString(vm.readIndex(op == opcode.DEFINE_GLOBAL_LONG))
			vm.globals.Set(name, vm.peek(0))
			vm.pop()
		case opcode.SET_GLOBAL, opcode.SET_GLOBAL_LONG:
			name := vm.readString(vm.readIndex(op == opcode.SET_GLOBAL_LONG))
			if !vm.globals.SetIfExists(name, vm.peek(0)) {
				return nil, vm.runtimeError("undefined variable '%s'", name.Chars)
			}

		case opcode.GET_UPVALUE, opcode.GET_UPVALUE_LONG:
			slot := vm.readIndex(op == opcode.GET_UPVALUE_LONG)
			vm.push(vm.currentFrame().closure.Upvalues[slot].Get())
		case opcode.SET_UPVALUE, opcode.SET_UPVALUE_LONG:
			slot := vm.readIndex(op == opcode.SET_UPVALUE_LONG)
			vm.currentFrame().closure.Upvalues[slot].Set(vm.peek(0))

		case opcode.GET_PROPERTY, opcode.GET_PROPERTY_LONG:
			if err := vm.getProperty(vm.readIndex(op == opcode.GET_PROPERTY_LONG)); err != nil {
				return nil, err
			}
		case opcode.SET_PROPERTY, opcode.SET_PROPERTY_LONG:
			if err := vm.setProperty(vm.readIndex(op == opcode.SET_PROPERTY_LONG)); err != nil {
				return nil, err
			}
		case opcode.GET_SUPER, opcode.GET_SUPER_LONG:
			name := vm.readString(vm.readIndex(op == opcode.GET_SUPER_LONG))
			superclass := vm.pop().(*value.Class)
			if err := vm.bindMethod(superclass, name); err != nil {
				return nil, err
			}

		case opcode.EQUAL:
			b, a := vm.pop(), vm.pop()
			vm.push(value.Bool(value.Equal(a, b)))
		case opcode.GREATER, opcode.LESS:
			if err := vm.numericCompare(op); err != nil {
				return nil, err
			}
		case opcode.ADD:
			if err := vm.add(); err != nil {
				return nil, err
			}
		case opcode.SUBTRACT, opcode.MULTIPLY, opcode.DIVIDE:
			if err := vm.arithmetic(op); err != nil {
				return nil, err
			}
		case opcode.NOT:
			vm.push(value.Bool(!value.Truthy(vm.pop())))
		case opcode.NEGATE:
			n, ok := vm.peek(0).(value.Number)
			if !ok {
				return nil, vm.runtimeError("operand must be a number")
			}
			vm.pop()
			vm.push(-n)

		case opcode.PRINT:
			fmt.Fprintln(vm.stdout, vm.pop().String())

		case opcode.JUMP:
			offset := vm.readUint16()
			vm.currentFrame().ip += int(offset)
		case opcode.JUMP_IF_FALSE:
			offset := vm.readUint16()
			if !value.Truthy(vm.peek(0)) {
				vm.currentFrame().ip += int(offset)
			}
		case opcode.LOOP:
			offset := vm.readUint16()
			vm.currentFrame().ip -= int(offset)

		case opcode.CALL:
			argCount := int(vm.readByte())
			if err := vm.callValue(vm.peek(argCount), argCount); err != nil {
				return nil, err
			}

		case opcode.INVOKE, opcode.INVOKE_LONG:
			name := vm.readString(vm.readIndex(op == opcode.INVOKE_LONG))
			argCount := int(vm.readByte())
			if err := vm.invoke(name, argCount); err != nil {
				return nil, err
			}
		case opcode.SUPER_INVOKE, opcode.SUPER_INVOKE_LONG:
			name := vm.readString(vm.readIndex(op == opcode.SUPER_INVOKE_LONG))
			argCount := int(vm.readByte())
			superclass := vm.pop().(*value.Class)
			if err := vm.invokeFromClass(superclass, name, argCount); err != nil {
				return nil, err
			}

		case opcode.CLOSURE, opcode.CLOSURE_LONG:
			long := op == opcode.CLOSURE_LONG
			fn := vm.readConstant(vm.readIndex(long)).(*value.Function)
			closure := vm.heap.NewClosure(fn)
			vm.push(closure)
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal := vm.readByte()
				idx := vm.readIndex(long)
				if isLocal != 0 {
					closure.Upvalues[i] = vm.captureUpvalue(vm.currentFrame().slotsBase + idx)
				} else {
					closure.Upvalues[i] = vm.currentFrame().closure.Upvalues[idx]
				}
			}
		case opcode.CLOSE_UPVALUE:
			vm.closeUpvalues(vm.stackTop - 1)
			vm.pop()

		case opcode.RETURN:
			result := vm.pop()
			fr := vm.currentFrame()
			vm.closeUpvalues(fr.slotsBase)
			vm.frameCount--
			if vm.frameCount == 0 {
				vm.pop() // discard the top-level script closure
				return result, nil
			}
			vm.stackTop = fr.slotsBase
			vm.push(result)

		case opcode.CLASS, opcode.CLASS_LONG:
			name := vm.readString(vm.readIndex(op == opcode.CLASS_LONG))
			vm.push(vm.heap.NewClass(name))
		case opcode.INHERIT:
			superVal := vm.peek(1)
			superclass, ok := superVal.(*value.Class)
			if !ok {
				return nil, vm.runtimeError("superclass must be a class")
			}
			subclass := vm.peek(0).(*value.Class)
			value.AddAll(superclass.Methods, subclass.Methods)
			vm.pop() // pops only the subclass; superclass stays for the "super" local
		case opcode.METHOD, opcode.METHOD_LONG:
			name := vm.readString(vm.readIndex(op == opcode.METHOD_LONG))
			vm.defineMethod(name)

		default:
			return nil, vm.runtimeError("unknown opcode %d", op)
		}
	}
}

func (vm *VM) getProperty(idx int) *RuntimeError {
	inst, ok := vm.peek(0).(*value.Instance)
	if !ok {
		return vm.runtimeError("only instances have properties")
	}
	name := vm.readString(idx)
	if field, ok := inst.Fields.Get(name); ok {
		vm.pop()
		vm.push(field)
		return nil
	}
	return vm.bindMethod(inst.Class, name)
}

func (vm *VM) setProperty(idx int) *RuntimeError {
	inst, ok := vm.peek(1).(*value.Instance)
	if !ok {
		return vm.runtimeError("only instances have fields")
	}
	name := vm.readString(idx)
	v := vm.pop()
	inst.Fields.Set(name, v)
	vm.pop()
	vm.push(v)
	return nil
}

func (vm *VM) defineMethod(name *value.String) {
	method := vm.pop().(*value.Closure)
	class := vm.peek(0).(*value.Class)
	class.Methods.Set(name, method)
}

func (vm *VM) numericCompare(op opcode.Opcode) *RuntimeError {
	b, ok1 := vm.peek(0).(value.Number)
	a, ok2 := vm.peek(1).(value.Number)
	if !ok1 || !ok2 {
		return vm.runtimeError("operands must be numbers")
	}
	vm.pop()
	vm.pop()
	if op == opcode.GREATER {
		vm.push(value.Bool(a > b))
	} else {
		vm.push(value.Bool(a < b))
	}
	return nil
}

// add implements ADD's two overloads: numeric addition and string
// concatenation, the one opcode in the set whose behavior depends on its
// operands' runtime type (§4.2).
func (vm *VM) add() *RuntimeError {
	b, c := vm.peek(0), vm.peek(1)
	switch bv := b.(type) {
	case value.Number:
		av, ok := c.(value.Number)
		if !ok {
			return vm.runtimeError("operands must be two numbers or two strings")
		}
		vm.pop()
		vm.pop()
		vm.push(av + bv)
		return nil
	case *value.String:
		av, ok := c.(*value.String)
		if !ok {
			return vm.runtimeError("operands must be two numbers or two strings")
		}
		vm.pop()
		vm.pop()
		vm.push(vm.heap.InternString(av.Chars + bv.Chars))
		return nil
	default:
		return vm.runtimeError("operands must be two numbers or two strings")
	}
}

func (vm *VM) arithmetic(op opcode.Opcode) *RuntimeError {
	b, ok1 := vm.peek(0).(value.Number)
	a, ok2 := vm.peek(1).(value.Number)
	if !ok1 || !ok2 {
		return vm.runtimeError("operands must be numbers")
	}
	vm.pop()
	vm.pop()
	switch op {
	case opcode.SUBTRACT:
		vm.push(a - b)
	case opcode.MULTIPLY:
		vm.push(a * b)
	case opcode.DIVIDE:
		vm.push(a / b)
	}
	return nil
}
