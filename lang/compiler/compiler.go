// Package compiler implements the single-pass Pratt-parser bytecode
// compiler: it consumes tokens directly from the scanner and emits bytecode
// into a value.Chunk as it goes, without ever building an intermediate
// syntax tree.
package compiler

import (
	"strconv"

	"github.com/emberlang/ember/lang/heap"
	"github.com/emberlang/ember/lang/opcode"
	"github.com/emberlang/ember/lang/scanner"
	"github.com/emberlang/ember/lang/token"
	"github.com/emberlang/ember/lang/value"
	"github.com/mna/swiss"
)

// FuncType distinguishes the four shapes a compiled function can take, which
// changes how its implicit receiver slot and implicit return are compiled.
type FuncType int

const (
	TypeFunction FuncType = iota
	TypeInitializer
	TypeMethod
	TypeScript
)

const maxLocals = 1 << 24 // locals per function (§5's resource bound)

type localVar struct {
	name       string
	depth      int // -1 while declared-but-not-yet-defined
	isCaptured bool
}

type upvalueRef struct {
	index   int
	isLocal bool
}

// funcState is the compiler's per-function scratchpad: the Function being
// built, its locals and upvalues, and a link to the enclosing function being
// compiled (nil for the top-level script), which the upvalue resolver walks.
type funcState struct {
	enclosing *funcState
	function  *value.Function
	typ       FuncType

	locals     []localVar
	upvalues   []upvalueRef
	scopeDepth int

	// constIndex dedups this chunk's constant pool: repeated number/string
	// literals (common in loop bodies and method names) reuse one slot
	// instead of growing the pool on every occurrence. Not spec-mandated
	// (unlike the globals/fields/intern table), so it's a plain swiss.Map
	// rather than a hand-rolled table.
	constIndex *swiss.Map[constKey, int]
}

// constKey identifies a deduplicable constant-pool entry. Functions and
// other heap objects are never deduped this way — only the value kinds the
// compiler itself produces repeatedly from literals.
type constKey struct {
	isString bool
	num      value.Number
	str      string
}

// classState tracks the compiler's nesting of `class ... { }` bodies, so
// `this`/`super` can be rejected outside one and INHERIT's synthetic `super`
// local can be threaded into method bodies.
type classState struct {
	enclosing     *classState
	hasSuperclass bool
}

// Compiler compiles one source unit at a time. Each Compile call is
// independent; a Compiler holds no state across calls except the Heap it
// allocates into.
type Compiler struct {
	heap    *heap.Heap
	scanner scanner.Scanner

	current  token.Token
	previous token.Token

	hadError  bool
	panicMode bool
	errors    []*CompileError

	fs *funcState
	cs *classState
}

// New returns a Compiler that allocates compiled Functions and interned
// strings from h.
func New(h *heap.Heap) *Compiler {
	return &Compiler{heap: h}
}

// GCRoots implements heap.RootSource: a collection may land mid-compile,
// with just-built constants not yet reachable from anywhere but the
// in-progress function chain (§4.5 phase 1).
func (c *Compiler) GCRoots(mark func(value.Value)) {
	for fs := c.fs; fs != nil; fs = fs.enclosing {
		mark(fs.function)
	}
}

// Compile compiles src as a top-level script and returns the resulting
// Function wrapping an implicit top-level body. On any error it returns nil
// and the accumulated errors; per §4.1, a run that reported any error
// produces no Function.
func (c *Compiler) Compile(src []byte) (*value.Function, []*CompileError) {
	c.scanner.Init(src)
	c.hadError, c.panicMode, c.errors = false, false, nil
	c.heap.AddRoot(c)
	defer c.heap.RemoveRoot(c)

	c.pushFunc(TypeScript, "")
	c.advance()

	for !c.match(token.EOF) {
		c.declaration()
	}

	fn := c.endFunc()
	if c.hadError {
		return nil, c.errors
	}
	return fn, nil
}

func (c *Compiler) pushFunc(typ FuncType, name string) {
	fn := c.heap.NewFunction(nil)
	if name != "" {
		fn.Name = c.heap.InternString(name)
	}
	fs := &funcState{enclosing: c.fs, function: fn, typ: typ, constIndex: swiss.NewMap[constKey, int](8)}

	// slot 0 is reserved for the receiver in methods/initializers, and for
	// the (unnamed, inaccessible) callee in plain functions and the script.
	recv := ""
	if typ == TypeMethod || typ == TypeInitializer {
		recv = "this"
	}
	fs.locals = append(fs.locals, localVar{name: recv, depth: 0})

	c.fs = fs
}

func (c *Compiler) endFunc() *value.Function {
	c.emitReturn()
	fn := c.fs.function
	fn.UpvalueCount = len(c.fs.upvalues)
	c.fs = c.fs.enclosing
	return fn
}

// --- token stream plumbing -------------------------------------------------

func (c *Compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.scanner.Scan()
		if c.current.Kind != token.ERROR {
			break
		}
		c.errorAtCurrent(c.current.Lexeme)
	}
}

func (c *Compiler) check(k token.Kind) bool { return c.current.Kind == k }

func (c *Compiler) match(k token.Kind) bool {
	if !c.check(k) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(k token.Kind, message string) {
	if c.current.Kind == k {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

func (c *Compiler) errorAtCurrent(message string) { c.errorAt(c.current, message) }
func (c *Compiler) error(message string)          { c.errorAt(c.previous, message) }

func (c *Compiler) errorAt(tok token.Token, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true

	where := tok.Lexeme
	if tok.Kind == token.EOF {
		where = ""
	}
	c.errors = append(c.errors, &CompileError{Line: tok.Line, Where: where, Message: message})
}

// synchronize discards tokens until a statement boundary, so one compile
// pass can surface more than one error (§4.1's panic-mode recovery).
func (c *Compiler) synchronize() {
	c.panicMode = false
	for c.current.Kind != token.EOF {
		if c.previous.Kind == token.SEMICOLON {
			return
		}
		switch c.current.Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		c.advance()
	}
}

// --- emission helpers -------------------------------------------------------

func (c *Compiler) chunk() *value.Chunk { return &c.fs.function.Chunk }

func (c *Compiler) emitByte(b byte) int         { return c.chunk().WriteByte(b, c.previous.Line) }
func (c *Compiler) emitOp(op opcode.Opcode) int { return c.emitByte(byte(op)) }

func (c *Compiler) emitOpByte(op opcode.Opcode, b byte) {
	c.emitOp(op)
	c.emitByte(b)
}

func (c *Compiler) emitReturn() {
	if c.fs.typ == TypeInitializer {
		c.emitOpByte(opcode.GET_LOCAL, 0)
	} else {
		c.emitOp(opcode.NIL)
	}
	c.emitOp(opcode.RETURN)
}

// emitConstant adds v to the current chunk's constant pool and emits the
// short or long CONSTANT form depending on how large the pool has grown.
func (c *Compiler) emitConstant(v value.Value) {
	c.emitIndexedOp(opcode.CONSTANT, opcode.CONSTANT_LONG, c.makeConstant(v))
}

func (c *Compiler) makeConstant(v value.Value) int {
	key, dedupable := constKeyOf(v)
	if dedupable {
		if idx, ok := c.fs.constIndex.Get(key); ok {
			return idx
		}
	}

	idx := c.chunk().AddConstant(v)
	if idx >= value.MaxConstants {
		c.error("too many constants in one chunk")
		return 0
	}
	if dedupable {
		c.fs.constIndex.Put(key, idx)
	}
	return idx
}

func constKeyOf(v value.Value) (constKey, bool) {
	switch v := v.(type) {
	case value.Number:
		return constKey{num: v}, true
	case *value.String:
		return constKey{isString: true, str: v.Chars}, true
	default:
		return constKey{}, false
	}
}

// emitIndexedOp emits short if idx fits in a byte, else the long 24-bit
// big-endian form (§6's bytecode format).
func (c *Compiler) emitIndexedOp(short, long opcode.Opcode, idx int) {
	if idx < 256 {
		c.emitOpByte(short, byte(idx))
		return
	}
	c.emitOp(long)
	buf := make([]byte, 3)
	opcode.PutUint24(buf, uint32(idx))
	c.emitByte(buf[0])
	c.emitByte(buf[1])
	c.emitByte(buf[2])
}

// emitJump emits op followed by a 2-byte placeholder and returns the offset
// of the placeholder's first byte, for patchJump to fill in later.
func (c *Compiler) emitJump(op opcode.Opcode) int {
	c.emitOp(op)
	c.emitByte(0xff)
	c.emitByte(0xff)
	return len(c.chunk().Code) - 2
}

// patchJump backpatches the placeholder at offset with the distance from
// just after the placeholder to the current code position.
func (c *Compiler) patchJump(offset int) {
	jump := len(c.chunk().Code) - offset - 2
	if jump > 65535 {
		c.error("too much code to jump over")
		return
	}
	buf := make([]byte, 2)
	opcode.PutUint16(buf, uint16(jump))
	c.chunk().Code[offset] = buf[0]
	c.chunk().Code[offset+1] = buf[1]
}

// emitLoop emits a LOOP instruction jumping back to loopStart.
func (c *Compiler) emitLoop(loopStart int) {
	c.emitOp(opcode.LOOP)
	offset := len(c.chunk().Code) - loopStart + 2
	if offset > 65535 {
		c.error("loop body too large")
	}
	buf := make([]byte, 2)
	opcode.PutUint16(buf, uint16(offset))
	c.emitByte(buf[0])
	c.emitByte(buf[1])
}

func parseDouble(lexeme string) value.Number {
	f, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return value.Number(0)
	}
	return value.Number(f)
}
