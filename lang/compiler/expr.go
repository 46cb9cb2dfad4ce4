package compiler

import (
	"strings"

	"github.com/emberlang/ember/lang/opcode"
	"github.com/emberlang/ember/lang/token"
)

// precedence is the Pratt parser's ladder, lowest to highest (§4.1).
type precedence int

const (
	precNone       precedence = iota
	precAssignment            // =
	precOr                    // or
	precAnd                   // and
	precEquality              // == !=
	precComparison            // < > <= >=
	precTerm                  // + -
	precFactor                // * /
	precUnary                 // ! -
	precCall                  // . ()
	precPrimary
)

type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix parseFn
	infix  parseFn
	prec   precedence
}

var rules map[token.Kind]parseRule

func init() {
	rules = map[token.Kind]parseRule{
		token.LPAREN:    {prefix: (*Compiler).grouping, infix: (*Compiler).call, prec: precCall},
		token.DOT:       {infix: (*Compiler).dot, prec: precCall},
		token.MINUS:     {prefix: (*Compiler).unary, infix: (*Compiler).binary, prec: precTerm},
		token.PLUS:      {infix: (*Compiler).binary, prec: precTerm},
		token.SLASH:     {infix: (*Compiler).binary, prec: precFactor},
		token.STAR:      {infix: (*Compiler).binary, prec: precFactor},
		token.BANG:      {prefix: (*Compiler).unary},
		token.BANG_EQ:   {infix: (*Compiler).binary, prec: precEquality},
		token.EQ_EQ:     {infix: (*Compiler).binary, prec: precEquality},
		token.GREATER:   {infix: (*Compiler).binary, prec: precComparison},
		token.GREATER_EQ: {infix: (*Compiler).binary, prec: precComparison},
		token.LESS:      {infix: (*Compiler).binary, prec: precComparison},
		token.LESS_EQ:   {infix: (*Compiler).binary, prec: precComparison},
		token.IDENT:     {prefix: (*Compiler).variable},
		token.STRING:    {prefix: (*Compiler).stringLiteral},
		token.NUMBER:    {prefix: (*Compiler).number},
		token.AND:       {infix: (*Compiler).and_, prec: precAnd},
		token.OR:        {infix: (*Compiler).or_, prec: precOr},
		token.FALSE:     {prefix: (*Compiler).literal},
		token.NIL:       {prefix: (*Compiler).literal},
		token.TRUE:      {prefix: (*Compiler).literal},
		token.THIS:      {prefix: (*Compiler).this_},
		token.SUPER:     {prefix: (*Compiler).super_},
	}
}

func getRule(k token.Kind) parseRule { return rules[k] }

// parsePrecedence is the Pratt parser's core loop (§4.1).
func (c *Compiler) parsePrecedence(prec precedence) {
	c.advance()
	prefix := getRule(c.previous.Kind).prefix
	if prefix == nil {
		c.error("expect expression")
		return
	}

	canAssign := prec <= precAssignment
	prefix(c, canAssign)

	for prec <= getRule(c.current.Kind).prec {
		c.advance()
		infix := getRule(c.previous.Kind).infix
		infix(c, canAssign)
	}

	if canAssign && c.match(token.EQ) {
		c.error("invalid assignment target")
	}
}

func (c *Compiler) expression() { c.parsePrecedence(precAssignment) }

func (c *Compiler) grouping(_ bool) {
	c.expression()
	c.consume(token.RPAREN, "expect ')' after expression")
}

func (c *Compiler) number(_ bool) {
	c.emitConstant(parseDouble(c.previous.Lexeme))
}

// stringLiteral strips the surrounding quotes, unescapes \n \t \\ \" (the
// same four sequences clox's copyString recognizes — the scanner itself
// only guarantees an escaped quote doesn't terminate the literal early),
// and interns the result.
func (c *Compiler) stringLiteral(_ bool) {
	lexeme := c.previous.Lexeme
	content := lexeme[1 : len(lexeme)-1]
	c.emitConstant(c.heap.InternString(unescape(content)))
}

func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			default:
				b.WriteByte('\\')
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}

func (c *Compiler) literal(_ bool) {
	switch c.previous.Kind {
	case token.FALSE:
		c.emitOp(opcode.FALSE)
	case token.TRUE:
		c.emitOp(opcode.TRUE)
	case token.NIL:
		c.emitOp(opcode.NIL)
	}
}

func (c *Compiler) unary(_ bool) {
	opKind := c.previous.Kind
	c.parsePrecedence(precUnary)
	switch opKind {
	case token.MINUS:
		c.emitOp(opcode.NEGATE)
	case token.BANG:
		c.emitOp(opcode.NOT)
	}
}

func (c *Compiler) binary(_ bool) {
	opKind := c.previous.Kind
	rule := getRule(opKind)
	c.parsePrecedence(rule.prec + 1)

	switch opKind {
	case token.BANG_EQ:
		c.emitOp(opcode.EQUAL)
		c.emitOp(opcode.NOT)
	case token.EQ_EQ:
		c.emitOp(opcode.EQUAL)
	case token.GREATER:
		c.emitOp(opcode.GREATER)
	case token.GREATER_EQ:
		c.emitOp(opcode.LESS)
		c.emitOp(opcode.NOT)
	case token.LESS:
		c.emitOp(opcode.LESS)
	case token.LESS_EQ:
		c.emitOp(opcode.GREATER)
		c.emitOp(opcode.NOT)
	case token.PLUS:
		c.emitOp(opcode.ADD)
	case token.MINUS:
		c.emitOp(opcode.SUBTRACT)
	case token.STAR:
		c.emitOp(opcode.MULTIPLY)
	case token.SLASH:
		c.emitOp(opcode.DIVIDE)
	}
}

// and_ short-circuits: if the left operand is false, jump over the right
// operand leaving it (the false) as the result; otherwise discard it and
// evaluate the right.
func (c *Compiler) and_(_ bool) {
	endJump := c.emitJump(opcode.JUMP_IF_FALSE)
	c.emitOp(opcode.POP)
	c.parsePrecedence(precAnd)
	c.patchJump(endJump)
}

// or_ short-circuits the opposite way: if the left is false, jump past the
// short-circuit and evaluate the right; otherwise keep the left as-is.
func (c *Compiler) or_(_ bool) {
	elseJump := c.emitJump(opcode.JUMP_IF_FALSE)
	endJump := c.emitJump(opcode.JUMP)

	c.patchJump(elseJump)
	c.emitOp(opcode.POP)
	c.parsePrecedence(precOr)
	c.patchJump(endJump)
}

func (c *Compiler) call(_ bool) {
	argCount := c.argumentList()
	c.emitOpByte(opcode.CALL, byte(argCount))
}

func (c *Compiler) argumentList() int {
	argCount := 0
	if !c.check(token.RPAREN) {
		for {
			c.expression()
			if argCount == 255 {
				c.error("can't have more than 255 arguments")
			}
			argCount++
			if !c.match(token.COMMA) {
				break
			}
		}
	}
	c.consume(token.RPAREN, "expect ')' after arguments")
	return argCount
}

// dot compiles `expr.name`, `expr.name = v`, and the fused `expr.name(args)`
// INVOKE path (§4.2's dedicated opcode avoiding a BoundMethod allocation).
func (c *Compiler) dot(canAssign bool) {
	c.consume(token.IDENT, "expect property name after '.'")
	name := c.identifierConstant(c.previous.Lexeme)

	switch {
	case canAssign && c.match(token.EQ):
		c.expression()
		c.emitIndexedOp(opcode.SET_PROPERTY, opcode.SET_PROPERTY_LONG, name)
	case c.match(token.LPAREN):
		argCount := c.argumentList()
		c.emitIndexedOp(opcode.INVOKE, opcode.INVOKE_LONG, name)
		c.emitByte(byte(argCount))
	default:
		c.emitIndexedOp(opcode.GET_PROPERTY, opcode.GET_PROPERTY_LONG, name)
	}
}

func (c *Compiler) identifierConstant(name string) int {
	return c.makeConstant(c.heap.InternString(name))
}

// variable compiles an identifier reference, resolving it as local,
// upvalue, or global in that order (§4.1's upvalue resolver).
func (c *Compiler) variable(canAssign bool) {
	c.namedVariable(c.previous.Lexeme, canAssign)
}

func (c *Compiler) namedVariable(name string, canAssign bool) {
	var getOp, setOp, getLong, setLong opcode.Opcode
	arg := c.resolveLocal(c.fs, name)
	if arg != -1 {
		getOp, setOp = opcode.GET_LOCAL, opcode.SET_LOCAL
		getLong, setLong = opcode.GET_LOCAL_LONG, opcode.SET_LOCAL_LONG
	} else if arg = c.resolveUpvalue(c.fs, name); arg != -1 {
		getOp, setOp = opcode.GET_UPVALUE, opcode.SET_UPVALUE
		getLong, setLong = opcode.GET_UPVALUE_LONG, opcode.SET_UPVALUE_LONG
	} else {
		arg = c.identifierConstant(name)
		getOp, setOp = opcode.GET_GLOBAL, opcode.SET_GLOBAL
		getLong, setLong = opcode.GET_GLOBAL_LONG, opcode.SET_GLOBAL_LONG
	}

	if canAssign && c.match(token.EQ) {
		c.expression()
		c.emitIndexedOp(setOp, setLong, arg)
	} else {
		c.emitIndexedOp(getOp, getLong, arg)
	}
}

func (c *Compiler) this_(_ bool) {
	if c.cs == nil {
		c.error("can't use 'this' outside of a class")
		return
	}
	c.namedVariable("this", false)
}

func (c *Compiler) super_(_ bool) {
	switch {
	case c.cs == nil:
		c.error("can't use 'super' outside of a class")
	case !c.cs.hasSuperclass:
		c.error("can't use 'super' in a class with no superclass")
	}

	c.consume(token.DOT, "expect '.' after 'super'")
	c.consume(token.IDENT, "expect superclass method name")
	name := c.identifierConstant(c.previous.Lexeme)

	c.namedVariable("this", false)
	if c.match(token.LPAREN) {
		argCount := c.argumentList()
		c.namedVariable("super", false)
		c.emitIndexedOp(opcode.SUPER_INVOKE, opcode.SUPER_INVOKE_LONG, name)
		c.emitByte(byte(argCount))
		return
	}
	c.namedVariable("super", false)
	c.emitIndexedOp(opcode.GET_SUPER, opcode.GET_SUPER_LONG, name)
}
