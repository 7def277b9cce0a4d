// Package compiler implements the single-pass Pratt-precedence
// compiler: it scans and emits bytecode in the same pass, with no
// intermediate syntax tree, mirroring clox's compiler.c.
package compiler

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/wyvernscript/smog/pkg/chunk"
	"github.com/wyvernscript/smog/pkg/heap"
	"github.com/wyvernscript/smog/pkg/object"
	"github.com/wyvernscript/smog/pkg/scanner"
	"github.com/wyvernscript/smog/pkg/token"
	"github.com/wyvernscript/smog/pkg/value"
)

const maxLocals = 256
const maxUpvalues = 256
const maxArity = 255

// local tracks a declared local variable within a function frame. depth
// holds the sentinel -1 from declaration until markInitialized assigns
// the real scope depth once its initializer has compiled — this is what
// lets the compiler detect `var x = x;` reading its own uninitialized
// slot, a check that a premature depth assignment would silently defeat.
type local struct {
	name       token.Token
	depth      int
	isCaptured bool
}

type upvalueRef struct {
	index   uint8
	isLocal bool
}

// frame is a per-function compiler frame: the nested scope state the
// data model calls a "Compiler frame." Frames chain through enclosing
// to the top-level script frame.
type frame struct {
	enclosing *frame
	function  *object.ObjFunction
	funcType  object.FunctionType

	locals     [maxLocals]local
	localCount int
	scopeDepth int

	upvalues [maxUpvalues]upvalueRef
}

// classState tracks the chain of classes currently being compiled, used
// to validate `this` (only inside a method) and `super` (only inside a
// class that declares a superclass).
type classState struct {
	enclosing     *classState
	hasSuperclass bool
}

// Compiler drives one compilation of a single source string into a
// top-level function. It is not reused across compilations.
type Compiler struct {
	scanner *scanner.Scanner
	heap    *heap.Heap

	current  token.Token
	previous token.Token

	hadError  bool
	panicMode bool

	frame *frame
	class *classState

	stderr io.Writer
}

// SetStderr redirects compile-error diagnostics, used by the VM to
// route them through whichever writer it was configured with.
func (c *Compiler) SetStderr(w io.Writer) { c.stderr = w }

// New prepares a Compiler for source. Call Compile to run it. Splitting
// construction from compilation lets a caller (the VM) hold a reference
// to the in-progress Compiler for the duration of Compile, which is
// what makes it reachable as a GC root if an allocation mid-parse
// triggers a collection.
func New(source string, h *heap.Heap) *Compiler {
	c := &Compiler{
		scanner: scanner.New(source),
		heap:    h,
		stderr:  os.Stderr,
	}
	c.frame = newFrame(nil, object.FuncTypeScript, h, "")
	return c
}

// Compile compiles the source given to New into a top-level script
// function. It reports true on success; on failure the returned
// function is nil and diagnostics have already been written to stderr
// in the exact `[line L] Error at <context>: <message>` form the error
// design requires.
func (c *Compiler) Compile() (*object.ObjFunction, bool) {
	c.advance()
	for !c.match(token.EOF) {
		c.declaration()
	}
	fn := c.endFrame()
	if c.hadError {
		return nil, false
	}
	return fn, true
}

func newFrame(enclosing *frame, funcType object.FunctionType, h *heap.Heap, name string) *frame {
	f := &frame{enclosing: enclosing, funcType: funcType, function: h.NewFunction()}
	if name != "" {
		f.function.Name = h.InternString(name)
	}
	f.function.Type = funcType
	// Slot 0 is reserved: blank for scripts/functions, `this` for
	// methods and initializers.
	slotName := ""
	if funcType == object.FuncTypeMethod || funcType == object.FuncTypeInitializer {
		slotName = "this"
	}
	f.locals[0] = local{name: token.Token{Lexeme: slotName}, depth: 0}
	f.localCount = 1
	return f
}

func (c *Compiler) currentChunk() *chunk.Chunk { return c.frame.function.Chunk }

// MarkRoots implements the GC root-enumeration callback's compiler half:
// it walks the frame chain (the "head of its frame chain" the design
// note refers to) marking each in-progress function, since the compiler
// allocates heap objects — functions, interned strings — mid-parse,
// before they are reachable from any VM root.
func (c *Compiler) MarkRoots(mark func(value.Obj)) {
	for f := c.frame; f != nil; f = f.enclosing {
		mark(f.function)
	}
}

// --- token stream -----------------------------------------------------

func (c *Compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.scanner.ScanToken()
		if c.current.Type != token.Error {
			break
		}
		c.errorAtCurrent(c.current.Lexeme)
	}
}

func (c *Compiler) check(t token.Type) bool { return c.current.Type == t }

func (c *Compiler) match(t token.Type) bool {
	if !c.check(t) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(t token.Type, message string) {
	if c.current.Type == t {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

// --- error reporting ---------------------------------------------------

func (c *Compiler) errorAtCurrent(message string) { c.errorAt(c.current, message) }
func (c *Compiler) error(message string)          { c.errorAt(c.previous, message) }

func (c *Compiler) errorAt(t token.Token, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true

	var context string
	switch {
	case t.Type == token.EOF:
		context = "end"
	case t.Type == token.Error:
		fmt.Fprintf(c.stderr, "[line %d] Error: %s\n", t.Line, message)
		return
	default:
		context = t.Lexeme
	}
	fmt.Fprintf(c.stderr, "[line %d] Error at %s: %s\n", t.Line, context, message)
}

// synchronize recovers from a syntax error at the next statement
// boundary: after a semicolon, or before a statement-starting keyword.
func (c *Compiler) synchronize() {
	c.panicMode = false
	for c.current.Type != token.EOF {
		if c.previous.Type == token.Semicolon {
			return
		}
		switch c.current.Type {
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return:
			return
		}
		c.advance()
	}
}

// --- emission helpers ---------------------------------------------------

func (c *Compiler) emitByte(b byte) { c.currentChunk().Write(b, c.previous.Line) }
func (c *Compiler) emitOp(op chunk.OpCode) { c.currentChunk().WriteOp(op, c.previous.Line) }

func (c *Compiler) emitOps(op1, op2 chunk.OpCode) {
	c.emitOp(op1)
	c.emitOp(op2)
}

func (c *Compiler) emitOpByte(op chunk.OpCode, b byte) {
	c.emitOp(op)
	c.emitByte(b)
}

func (c *Compiler) emitLoop(loopStart int) {
	c.emitOp(chunk.OpLoop)
	offset := len(c.currentChunk().Code) - loopStart + 2
	if offset > 0xffff {
		c.error("Loop body too large.")
	}
	c.emitByte(byte(offset >> 8))
	c.emitByte(byte(offset & 0xff))
}

// emitJump emits op followed by a placeholder 16-bit operand and
// returns the offset of the first placeholder byte, to be patched later.
func (c *Compiler) emitJump(op chunk.OpCode) int {
	c.emitOp(op)
	c.emitByte(0xff)
	c.emitByte(0xff)
	return len(c.currentChunk().Code) - 2
}

// patchJump backfills the jump at offset with the distance from just
// after its operand bytes to the current end of the chunk.
func (c *Compiler) patchJump(offset int) {
	jump := len(c.currentChunk().Code) - offset - 2
	if jump > 0xffff {
		c.error("Too much code to jump over.")
	}
	c.currentChunk().Code[offset] = byte(jump >> 8)
	c.currentChunk().Code[offset+1] = byte(jump & 0xff)
}

func (c *Compiler) emitReturn() {
	if c.frame.funcType == object.FuncTypeInitializer {
		c.emitOpByte(chunk.OpGetLocal, 0)
	} else {
		c.emitOp(chunk.OpNil)
	}
	c.emitOp(chunk.OpReturn)
}

func (c *Compiler) makeConstant(v value.Value) byte {
	if len(c.currentChunk().Constants) >= chunk.MaxConstants() {
		c.error("Too many constants in one chunk.")
		return 0
	}
	return byte(c.currentChunk().AddConstant(v))
}

func (c *Compiler) emitConstant(v value.Value) {
	c.emitOpByte(chunk.OpConstant, c.makeConstant(v))
}

func (c *Compiler) identifierConstant(t token.Token) byte {
	return c.makeConstant(value.FromObj(c.heap.InternString(t.Lexeme)))
}

func (c *Compiler) endFrame() *object.ObjFunction {
	c.emitReturn()
	fn := c.frame.function
	c.frame = c.frame.enclosing
	return fn
}

// --- scope management ---------------------------------------------------

func (c *Compiler) beginScope() { c.frame.scopeDepth++ }

func (c *Compiler) endScope() {
	c.frame.scopeDepth--
	for c.frame.localCount > 0 && c.frame.locals[c.frame.localCount-1].depth > c.frame.scopeDepth {
		if c.frame.locals[c.frame.localCount-1].isCaptured {
			c.emitOp(chunk.OpCloseUpvalue)
		} else {
			c.emitOp(chunk.OpPop)
		}
		c.frame.localCount--
	}
}

// parseNumber converts a scanned Number token's lexeme into a Value.
func parseNumber(lexeme string) value.Value {
	n, _ := strconv.ParseFloat(lexeme, 64)
	return value.Number(n)
}
