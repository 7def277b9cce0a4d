package compiler

import (
	"github.com/wyvernscript/smog/pkg/chunk"
	"github.com/wyvernscript/smog/pkg/token"
)

// addLocal reserves a local slot with the depth sentinel -1. The
// sentinel must survive until markInitialized assigns the real depth —
// overwriting it here would defeat the "reading your own initializer"
// check that relies on seeing an uninitialized local mid-declaration.
func (c *Compiler) addLocal(name token.Token) {
	if c.frame.localCount >= maxLocals {
		c.error("Too many local variables in function.")
		return
	}
	c.frame.locals[c.frame.localCount] = local{name: name, depth: -1}
	c.frame.localCount++
}

func identifiersEqual(a, b token.Token) bool { return a.Lexeme == b.Lexeme }

func (c *Compiler) declareVariable() {
	if c.frame.scopeDepth == 0 {
		return
	}
	name := c.previous
	for i := c.frame.localCount - 1; i >= 0; i-- {
		l := &c.frame.locals[i]
		if l.depth != -1 && l.depth < c.frame.scopeDepth {
			break
		}
		if identifiersEqual(name, l.name) {
			c.error("Already a variable with this name in this scope.")
		}
	}
	c.addLocal(name)
}

func (c *Compiler) parseVariable(message string) byte {
	c.consume(token.Identifier, message)
	c.declareVariable()
	if c.frame.scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(c.previous)
}

func (c *Compiler) markInitialized() {
	if c.frame.scopeDepth == 0 {
		return
	}
	c.frame.locals[c.frame.localCount-1].depth = c.frame.scopeDepth
}

func (c *Compiler) defineVariable(global byte) {
	if c.frame.scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.emitOpByte(chunk.OpDefineGlobal, global)
}

func (c *Compiler) resolveLocal(f *frame, name token.Token) int {
	for i := f.localCount - 1; i >= 0; i-- {
		l := &f.locals[i]
		if identifiersEqual(name, l.name) {
			if l.depth == -1 {
				c.error("Can't read local variable in its own initializer.")
			}
			return i
		}
	}
	return -1
}

// addUpvalue records a captured variable in f's upvalue array,
// deduplicating against any upvalue that already targets the same
// local/upvalue index.
func (c *Compiler) addUpvalue(f *frame, index uint8, isLocal bool) int {
	count := f.function.UpvalueCount
	for i := 0; i < count; i++ {
		u := &f.upvalues[i]
		if int(u.index) == int(index) && u.isLocal == isLocal {
			return i
		}
	}
	if count >= maxUpvalues {
		c.error("Too many closure variables in function.")
		return 0
	}
	f.upvalues[count] = upvalueRef{index: index, isLocal: isLocal}
	f.function.UpvalueCount++
	return count
}

// resolveUpvalue looks up name in f's enclosing frame. On a local hit it
// marks that local captured and records a local-backed upvalue; on miss
// it recurses outward and, if the outer frame resolves an upvalue of
// its own, threads it through as a non-local upvalue reference.
func (c *Compiler) resolveUpvalue(f *frame, name token.Token) int {
	if f.enclosing == nil {
		return -1
	}
	if local := c.resolveLocal(f.enclosing, name); local != -1 {
		f.enclosing.locals[local].isCaptured = true
		return c.addUpvalue(f, uint8(local), true)
	}
	if up := c.resolveUpvalue(f.enclosing, name); up != -1 {
		return c.addUpvalue(f, uint8(up), false)
	}
	return -1
}

func (c *Compiler) namedVariable(name token.Token, canAssign bool) {
	var getOp, setOp chunk.OpCode
	arg := c.resolveLocal(c.frame, name)
	if arg != -1 {
		getOp, setOp = chunk.OpGetLocal, chunk.OpSetLocal
	} else if arg = c.resolveUpvalue(c.frame, name); arg != -1 {
		getOp, setOp = chunk.OpGetUpvalue, chunk.OpSetUpvalue
	} else {
		arg = int(c.identifierConstant(name))
		getOp, setOp = chunk.OpGetGlobal, chunk.OpSetGlobal
	}

	if canAssign && c.match(token.Equal) {
		c.expression()
		c.emitOpByte(setOp, byte(arg))
	} else {
		c.emitOpByte(getOp, byte(arg))
	}
}
