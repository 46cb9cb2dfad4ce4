package compiler

import (
	"fmt"
	"io"

	"github.com/emberlang/ember/lang/opcode"
	"github.com/emberlang/ember/lang/value"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Disassemble writes a human-readable listing of every instruction in
// chunk to w, labeled name. It is debug tooling only, never used on the
// interpreter's hot path.
func Disassemble(w io.Writer, chunk *value.Chunk, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < len(chunk.Code); {
		offset = DisassembleInstruction(w, chunk, offset)
	}
}

// DisassembleInstruction writes one instruction at offset and returns the
// offset of the next instruction.
func DisassembleInstruction(w io.Writer, chunk *value.Chunk, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)

	line := chunk.Line(offset)
	if offset > 0 && line == chunk.Line(offset-1) {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", line)
	}

	op := opcode.Opcode(chunk.Code[offset])
	switch op {
	case opcode.CONSTANT:
		return constantInstruction(w, op, chunk, offset, false)
	case opcode.CONSTANT_LONG:
		return constantInstruction(w, op, chunk, offset, true)
	case opcode.NIL, opcode.TRUE, opcode.FALSE, opcode.POP, opcode.EQUAL, opcode.GREATER, opcode.LESS,
		opcode.NEGATE, opcode.ADD, opcode.SUBTRACT, opcode.MULTIPLY, opcode.DIVIDE, opcode.NOT,
		opcode.PRINT, opcode.CLOSE_UPVALUE, opcode.RETURN, opcode.INHERIT:
		return simpleInstruction(w, op, offset)
	case opcode.POPN, opcode.CALL:
		return byteInstruction(w, op, chunk, offset, false)
	case opcode.GET_LOCAL, opcode.SET_LOCAL, opcode.GET_UPVALUE, opcode.SET_UPVALUE:
		return byteInstruction(w, op, chunk, offset, false)
	case opcode.GET_LOCAL_LONG, opcode.SET_LOCAL_LONG, opcode.GET_UPVALUE_LONG, opcode.SET_UPVALUE_LONG:
		return byteInstruction(w, op, chunk, offset, true)
	case opcode.GET_GLOBAL, opcode.DEFINE_GLOBAL, opcode.SET_GLOBAL,
		opcode.GET_PROPERTY, opcode.SET_PROPERTY, opcode.GET_SUPER, opcode.CLASS, opcode.METHOD:
		return constantInstruction(w, op, chunk, offset, false)
	case opcode.GET_GLOBAL_LONG, opcode.DEFINE_GLOBAL_LONG, opcode.SET_GLOBAL_LONG,
		opcode.GET_PROPERTY_LONG, opcode.SET_PROPERTY_LONG, opcode.GET_SUPER_LONG, opcode.CLASS_LONG, opcode.METHOD_LONG:
		return constantInstruction(w, op, chunk, offset, true)
	case opcode.JUMP, opcode.JUMP_IF_FALSE:
		return jumpInstruction(w, op, 1, chunk, offset)
	case opcode.LOOP:
		return jumpInstruction(w, op, -1, chunk, offset)
	case opcode.INVOKE, opcode.SUPER_INVOKE:
		return invokeInstruction(w, op, chunk, offset, false)
	case opcode.INVOKE_LONG, opcode.SUPER_INVOKE_LONG:
		return invokeInstruction(w, op, chunk, offset, true)
	case opcode.CLOSURE:
		return closureInstruction(w, op, chunk, offset, false)
	case opcode.CLOSURE_LONG:
		return closureInstruction(w, op, chunk, offset, true)
	default:
		fmt.Fprintf(w, "unknown opcode %d\n", op)
		return offset + 1
	}
}

// DisassembleClass writes every method of class in deterministic,
// alphabetical order. class.Methods iterates in the table's internal
// bucket order, which shifts across resizes, so callers that need stable
// debug output (this one, and anything diffing golden files) go through a
// plain Go map and sort its keys rather than trusting table order.
func DisassembleClass(w io.Writer, class *value.Class) {
	byName := make(map[string]*value.Closure)
	class.Methods.Each(func(k *value.String, v value.Value) {
		byName[k.Chars] = v.(*value.Closure)
	})

	names := maps.Keys(byName)
	slices.Sort(names)

	for _, name := range names {
		closure := byName[name]
		Disassemble(w, &closure.Fn.Chunk, class.Name.Chars+"."+name)
	}
}

func simpleInstruction(w io.Writer, op opcode.Opcode, offset int) int {
	fmt.Fprintf(w, "%s\n", op)
	return offset + 1
}

func readIndex(chunk *value.Chunk, offset int, long bool) (int, int) {
	if long {
		return int(opcode.Uint24(chunk.Code[offset : offset+3])), offset + 3
	}
	return int(chunk.Code[offset]), offset + 1
}

func constantInstruction(w io.Writer, op opcode.Opcode, chunk *value.Chunk, offset int, long bool) int {
	offset++
	idx, next := readIndex(chunk, offset, long)
	fmt.Fprintf(w, "%-18s %4d '%s'\n", op, idx, chunk.Constants[idx].String())
	return next
}

func byteInstruction(w io.Writer, op opcode.Opcode, chunk *value.Chunk, offset int, long bool) int {
	offset++
	idx, next := readIndex(chunk, offset, long)
	fmt.Fprintf(w, "%-18s %4d\n", op, idx)
	return next
}

func jumpInstruction(w io.Writer, op opcode.Opcode, sign int, chunk *value.Chunk, offset int) int {
	jump := int(opcode.Uint16(chunk.Code[offset+1 : offset+3]))
	fmt.Fprintf(w, "%-18s %4d -> %d\n", op, offset, offset+3+sign*jump)
	return offset + 3
}

func invokeInstruction(w io.Writer, op opcode.Opcode, chunk *value.Chunk, offset int, long bool) int {
	offset++
	idx, next := readIndex(chunk, offset, long)
	argCount := chunk.Code[next]
	fmt.Fprintf(w, "%-18s %4d '%s' (%d args)\n", op, idx, chunk.Constants[idx].String(), argCount)
	return next + 1
}

func closureInstruction(w io.Writer, op opcode.Opcode, chunk *value.Chunk, offset int, long bool) int {
	offset++
	idx, next := readIndex(chunk, offset, long)
	fmt.Fprintf(w, "%-18s %4d '%s'\n", op, idx, chunk.Constants[idx].String())

	fn := chunk.Constants[idx].(*value.Function)
	for i := 0; i < fn.UpvalueCount; i++ {
		isLocal := chunk.Code[next]
		next++
		var uvIdx int
		uvIdx, next = readIndex(chunk, next, long)
		kind := "upvalue"
		if isLocal != 0 {
			kind = "local"
		}
		fmt.Fprintf(w, "%04d      |                     %s %d\n", next-1, kind, uvIdx)
	}
	return next
}
