package vm

import (
	"io"
	"os"

	"github.com/wyvernscript/smog/pkg/compiler"
	"github.com/wyvernscript/smog/pkg/heap"
	"github.com/wyvernscript/smog/pkg/object"
	"github.com/wyvernscript/smog/pkg/table"
	"github.com/wyvernscript/smog/pkg/value"
)

const (
	maxStack  = 16384
	maxFrames = 64
)

// callFrame is a single activation: the closure being run, the
// instruction pointer into its chunk, and the base slot on the value
// stack (slot 0 holds the callee/receiver, slots 1..arity the
// arguments, the rest locals and temporaries).
type callFrame struct {
	closure *object.ObjClosure
	ip      int
	slots   int
}

// VM is the global singleton execution state: the value stack, the
// call-frame stack, globals, the interned-string/heap allocator, and
// the open-upvalue list.
type VM struct {
	stack    []value.Value
	stackTop int

	frames     []callFrame
	frameCount int

	globals *table.Table
	heap    *heap.Heap

	openUpvalues *object.ObjUpvalue

	// activeCompiler is non-nil only while a Compile call is in flight;
	// the heap's root marker delegates to it so mid-parse allocations
	// stay reachable across a collection.
	activeCompiler *compiler.Compiler

	stdout io.Writer
	stderr io.Writer
}

// Option configures a VM at construction, following the teacher's
// plain-constructor convention rather than a config file.
type Option func(*VM)

func WithStdout(w io.Writer) Option { return func(vm *VM) { vm.stdout = w } }
func WithStderr(w io.Writer) Option { return func(vm *VM) { vm.stderr = w } }

// WithHeap installs a pre-configured heap (for example one built with
// heap.WithStress(true) for GC-soundness tests) instead of the default.
func WithHeap(h *heap.Heap) Option { return func(vm *VM) { vm.heap = h } }

func New(opts ...Option) *VM {
	vm := &VM{
		stack:   make([]value.Value, maxStack),
		frames:  make([]callFrame, maxFrames),
		globals: table.New(),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	for _, opt := range opts {
		opt(vm)
	}
	if vm.heap == nil {
		vm.heap = heap.New()
	}
	vm.heap.SetRootMarker(vm.markRoots)
	vm.defineNative("clock", clockNative)
	return vm
}

func (vm *VM) resetStack() {
	vm.stackTop = 0
	vm.frameCount = 0
	vm.openUpvalues = nil
}

func (vm *VM) push(v value.Value) {
	vm.stack[vm.stackTop] = v
	vm.stackTop++
}

func (vm *VM) pop() value.Value {
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.stackTop-1-distance]
}

// Interpret compiles and runs one unit of source — a whole script file,
// or a single REPL line — against this VM's persistent state (globals,
// interned strings, heap all survive across calls).
func (vm *VM) Interpret(source string) error {
	c := compiler.New(source, vm.heap)
	c.SetStderr(vm.stderr)
	vm.activeCompiler = c
	fn, ok := c.Compile()
	vm.activeCompiler = nil
	if !ok {
		return CompileError{}
	}

	closure := vm.heap.NewClosure(fn)
	vm.push(value.FromObj(closure))
	vm.callClosure(closure, 0)

	return vm.run()
}

// markRoots is the single callback the collector invokes: the value
// stack, every frame's closure, every open upvalue, the globals table,
// and — while a compile is in flight — the compiler's own frame chain.
func (vm *VM) markRoots(mark func(value.Obj)) {
	for i := 0; i < vm.stackTop; i++ {
		v := vm.stack[i]
		if v.Kind == value.KindObj {
			mark(v.Obj)
		}
	}
	for i := 0; i < vm.frameCount; i++ {
		mark(vm.frames[i].closure)
	}
	for up := vm.openUpvalues; up != nil; up = up.Next {
		mark(up)
	}
	vm.globals.Each(func(key *value.ObjString, v value.Value) {
		mark(key)
		if v.Kind == value.KindObj {
			mark(v.Obj)
		}
	})
	if vm.activeCompiler != nil {
		vm.activeCompiler.MarkRoots(mark)
	}
}
