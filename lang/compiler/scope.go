package compiler

import (
	"github.com/emberlang/ember/lang/opcode"
	"golang.org/x/exp/slices"
)

func (c *Compiler) beginScope() { c.fs.scopeDepth++ }

// endScope pops every local declared at or above the scope being closed.
// Captured locals must survive as heap-allocated upvalue cells, so they
// close instead of simply popping (§4.1's scope resolver).
func (c *Compiler) endScope() {
	c.fs.scopeDepth--

	fs := c.fs
	n := 0
	for len(fs.locals) > 0 && fs.locals[len(fs.locals)-1].depth > fs.scopeDepth {
		last := fs.locals[len(fs.locals)-1]
		fs.locals = fs.locals[:len(fs.locals)-1]
		if last.isCaptured {
			if n > 0 {
				c.emitPopN(n)
				n = 0
			}
			c.emitOp(opcode.CLOSE_UPVALUE)
		} else {
			n++
		}
	}
	if n > 0 {
		c.emitPopN(n)
	}
}

func (c *Compiler) emitPopN(n int) {
	if n == 1 {
		c.emitOp(opcode.POP)
		return
	}
	c.emitOpByte(opcode.POPN, byte(n))
}

// declareVariable registers name as a new local in the current scope (a
// no-op at global scope, where the identifier is looked up by name in the
// globals table instead of by slot). It is an error to redeclare a name
// already bound in the same scope.
func (c *Compiler) declareVariable(name string) {
	if c.fs.scopeDepth == 0 {
		return
	}
	for i := len(c.fs.locals) - 1; i >= 0; i-- {
		l := c.fs.locals[i]
		if l.depth != -1 && l.depth < c.fs.scopeDepth {
			break
		}
		if l.name == name {
			c.error("already a variable with this name in this scope")
		}
	}
	c.addLocal(name)
}

func (c *Compiler) addLocal(name string) {
	if len(c.fs.locals) >= maxLocals {
		c.error("too many local variables in function")
		return
	}
	c.fs.locals = append(c.fs.locals, localVar{name: name, depth: -1})
}

// markInitialized transitions the most recently declared local from
// "declared" (depth -1) to "defined" (current depth), making it visible to
// its own initializer's successors. A no-op at global scope.
func (c *Compiler) markInitialized() {
	if c.fs.scopeDepth == 0 {
		return
	}
	c.fs.locals[len(c.fs.locals)-1].depth = c.fs.scopeDepth
}

// resolveLocal returns the slot index of name in fs, or -1 if it isn't a
// local there. Reading a local whose depth is still -1 (mid-initializer
// self-reference, e.g. `var a = a;`) is an error.
func resolveLocal(fs *funcState, name string) int {
	for i := len(fs.locals) - 1; i >= 0; i-- {
		if fs.locals[i].name == name {
			return i
		}
	}
	return -1
}

func (c *Compiler) resolveLocal(fs *funcState, name string) int {
	idx := resolveLocal(fs, name)
	if idx != -1 && fs.locals[idx].depth == -1 {
		c.error("can't read local variable in its own initializer")
	}
	return idx
}

// resolveUpvalue implements §4.1's upvalue resolver: it walks the enclosing
// function chain looking for name as a local, marking it captured and
// threading an upvalue reference through every intervening function, and
// coalescing duplicate (is_local, index) pairs.
func (c *Compiler) resolveUpvalue(fs *funcState, name string) int {
	if fs.enclosing == nil {
		return -1
	}
	if local := c.resolveLocal(fs.enclosing, name); local != -1 {
		fs.enclosing.locals[local].isCaptured = true
		return addUpvalue(fs, local, true)
	}
	if up := c.resolveUpvalue(fs.enclosing, name); up != -1 {
		return addUpvalue(fs, up, false)
	}
	return -1
}

func addUpvalue(fs *funcState, index int, isLocal bool) int {
	if i := slices.IndexFunc(fs.upvalues, func(u upvalueRef) bool {
		return u.index == index && u.isLocal == isLocal
	}); i != -1 {
		return i
	}
	fs.upvalues = append(fs.upvalues, upvalueRef{index: index, isLocal: isLocal})
	return len(fs.upvalues) - 1
}
