package compiler

import (
	"github.com/emberlang/ember/lang/opcode"
	"github.com/emberlang/ember/lang/token"
)

func (c *Compiler) declaration() {
	switch {
	case c.match(token.CLASS):
		c.classDeclaration()
	case c.match(token.FUN):
		c.funDeclaration()
	case c.match(token.VAR):
		c.varDeclaration()
	default:
		c.statement()
	}

	if c.panicMode {
		c.synchronize()
	}
}

// parseVariable consumes an identifier, declares it as a local if inside a
// scope, and returns the constant-pool index of its name for globals (the
// index is meaningless, and unused, for locals).
func (c *Compiler) parseVariable(message string) int {
	c.consume(token.IDENT, message)
	c.declareVariable(c.previous.Lexeme)
	if c.fs.scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(c.previous.Lexeme)
}

func (c *Compiler) defineVariable(global int) {
	if c.fs.scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.emitIndexedOp(opcode.DEFINE_GLOBAL, opcode.DEFINE_GLOBAL_LONG, global)
}

func (c *Compiler) varDeclaration() {
	global := c.parseVariable("expect variable name")

	if c.match(token.EQ) {
		c.expression()
	} else {
		c.emitOp(opcode.NIL)
	}
	c.consume(token.SEMICOLON, "expect ';' after variable declaration")

	c.defineVariable(global)
}

func (c *Compiler) funDeclaration() {
	global := c.parseVariable("expect function name")
	c.markInitialized()
	c.function(TypeFunction)
	c.defineVariable(global)
}

// function compiles a function's parameter list and body into a new
// funcState, then emits CLOSURE with its upvalue descriptors (§4.2).
func (c *Compiler) function(typ FuncType) {
	name := c.previous.Lexeme
	c.pushFunc(typ, name)
	c.beginScope()

	c.consume(token.LPAREN, "expect '(' after function name")
	if !c.check(token.RPAREN) {
		for {
			c.fs.function.Arity++
			if c.fs.function.Arity > 255 {
				c.errorAtCurrent("can't have more than 255 parameters")
			}
			paramConst := c.parseVariable("expect parameter name")
			c.defineVariable(paramConst)
			if !c.match(token.COMMA) {
				break
			}
		}
	}
	c.consume(token.RPAREN, "expect ')' after parameters")
	c.consume(token.LBRACE, "expect '{' before function body")
	c.block()

	upvalues := c.fs.upvalues
	fn := c.endFunc()

	constIdx := c.makeConstant(fn)
	long := constIdx >= 256
	c.emitIndexedOp(opcode.CLOSURE, opcode.CLOSURE_LONG, constIdx)

	// §6: CLOSURE's upvalue descriptors are (is_local, index) pairs whose
	// index width follows the CLOSURE opcode variant just chosen — 1 byte
	// for CLOSURE, 3 for CLOSURE_LONG — not decided per descriptor.
	for _, uv := range upvalues {
		isLocal := byte(0)
		if uv.isLocal {
			isLocal = 1
		}
		c.emitByte(isLocal)
		if !long {
			c.emitByte(byte(uv.index))
		} else {
			buf := make([]byte, 3)
			opcode.PutUint24(buf, uint32(uv.index))
			c.emitByte(buf[0])
			c.emitByte(buf[1])
			c.emitByte(buf[2])
		}
	}
}

func (c *Compiler) block() {
	for !c.check(token.RBRACE) && !c.check(token.EOF) {
		c.declaration()
	}
	c.consume(token.RBRACE, "expect '}' after block")
}
