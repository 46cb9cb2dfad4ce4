package compiler

import (
	"github.com/emberlang/ember/lang/opcode"
	"github.com/emberlang/ember/lang/token"
)

// classDeclaration compiles `class Name [< Super] { methods... }` (§4.1's
// class compiler): it emits CLASS, an optional INHERIT, one CLOSURE+METHOD
// pair per method body, and pops the class value it reloaded onto the stack
// for METHOD to index into.
func (c *Compiler) classDeclaration() {
	c.consume(token.IDENT, "expect class name")
	nameTok := c.previous
	nameConst := c.identifierConstant(nameTok.Lexeme)
	c.declareVariable(nameTok.Lexeme)

	c.emitIndexedOp(opcode.CLASS, opcode.CLASS_LONG, nameConst)
	c.defineVariable(nameConst)

	cs := &classState{enclosing: c.cs}
	c.cs = cs

	if c.match(token.LESS) {
		c.consume(token.IDENT, "expect superclass name")
		c.variable(false)
		if c.previous.Lexeme == nameTok.Lexeme {
			c.error("a class can't inherit from itself")
		}

		c.beginScope()
		c.addLocal("super")
		c.defineVariable(0)

		c.namedVariable(nameTok.Lexeme, false)
		c.emitOp(opcode.INHERIT)
		cs.hasSuperclass = true
	}

	c.namedVariable(nameTok.Lexeme, false)
	c.consume(token.LBRACE, "expect '{' before class body")
	for !c.check(token.RBRACE) && !c.check(token.EOF) {
		c.method()
	}
	c.consume(token.RBRACE, "expect '}' after class body")
	c.emitOp(opcode.POP) // the class value pushed for method()'s benefit

	if cs.hasSuperclass {
		c.endScope()
	}
	c.cs = cs.enclosing
}

func (c *Compiler) method() {
	c.consume(token.IDENT, "expect method name")
	name := c.previous.Lexeme
	nameConst := c.identifierConstant(name)

	typ := TypeMethod
	if name == "init" {
		typ = TypeInitializer
	}
	c.function(typ)
	c.emitIndexedOp(opcode.METHOD, opcode.METHOD_LONG, nameConst)
}
