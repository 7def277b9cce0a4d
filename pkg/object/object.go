// Package object holds the heap object variants layered on top of
// pkg/value's Header and pkg/table's Table: functions, natives,
// upvalues, closures, classes, instances, and bound methods.
package object

import (
	"fmt"

	"github.com/wyvernscript/smog/pkg/chunk"
	"github.com/wyvernscript/smog/pkg/table"
	"github.com/wyvernscript/smog/pkg/value"
)

// FunctionType distinguishes the kind of function a chunk was compiled
// for — used by the compiler, carried here so the VM can tell an
// initializer apart from a plain method at call time.
type FunctionType uint8

const (
	FuncTypeScript FunctionType = iota
	FuncTypeFunction
	FuncTypeMethod
	FuncTypeInitializer
)

// ObjFunction is a compiled function: its arity, the number of upvalues
// its closures must capture, its chunk of bytecode, and an optional
// name (nil for the top-level script).
type ObjFunction struct {
	value.Header
	Arity        int
	UpvalueCount int
	Chunk        *chunk.Chunk
	Name         *value.ObjString
	Type         FunctionType
}

func NewFunction() *ObjFunction {
	return &ObjFunction{Header: value.Header{Type: value.ObjTypeFunction}, Chunk: chunk.New()}
}

func (f *ObjFunction) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name.Chars)
}

// NativeFn is a function pointer taking the argument slice and
// returning a Value, the shape every native binding (just clock, per
// the builtin contract) implements.
type NativeFn func(args []value.Value) (value.Value, error)

// ObjNative wraps a NativeFn as a heap object so it can live in the
// globals table and the value stack like any callable.
type ObjNative struct {
	value.Header
	Name string
	Fn   NativeFn
}

func NewNative(name string, fn NativeFn) *ObjNative {
	return &ObjNative{Header: value.Header{Type: value.ObjTypeNative}, Name: name, Fn: fn}
}

func (n *ObjNative) String() string { return "<native fn>" }

// ObjUpvalue indirects a closure's reference to a variable that was
// local to an enclosing function. While open, Location points at a live
// stack slot; Next threads the VM's open-upvalue list, kept sorted by
// descending stack address. Close copies the slot's value into Closed
// and repoints Location at it.
type ObjUpvalue struct {
	value.Header
	Location *value.Value
	Closed   value.Value
	Next     *ObjUpvalue

	// Slot records which stack index Location aliases while the upvalue
	// is open. It is the VM's bookkeeping for keeping the open-upvalue
	// list sorted by descending stack address and for matching an
	// existing upvalue against a requested slot; it has no meaning once
	// the upvalue is closed.
	Slot int
}

func NewUpvalue(slot *value.Value, slotIndex int) *ObjUpvalue {
	return &ObjUpvalue{Header: value.Header{Type: value.ObjTypeUpvalue}, Location: slot, Slot: slotIndex}
}

func (u *ObjUpvalue) String() string { return "upvalue" }

// Close copies the aliased slot into the upvalue's own storage and
// retargets Location at that copy, making the upvalue self-owning.
func (u *ObjUpvalue) Close() {
	u.Closed = *u.Location
	u.Location = &u.Closed
}

// ObjClosure pairs a function with the upvalues its body captured. It
// owns the upvalue array (the slice itself) but not the upvalues, which
// may be shared with other closures via captureUpvalue's reuse rule.
type ObjClosure struct {
	value.Header
	Function *ObjFunction
	Upvalues []*ObjUpvalue
}

func NewClosure(fn *ObjFunction) *ObjClosure {
	return &ObjClosure{
		Header:   value.Header{Type: value.ObjTypeClosure},
		Function: fn,
		Upvalues: make([]*ObjUpvalue, fn.UpvalueCount),
	}
}

func (c *ObjClosure) String() string { return c.Function.String() }

// ObjClass is a named class with a method table (String -> Closure,
// stored as Value since Table is value-typed).
type ObjClass struct {
	value.Header
	Name    *value.ObjString
	Methods *table.Table
}

func NewClass(name *value.ObjString) *ObjClass {
	return &ObjClass{Header: value.Header{Type: value.ObjTypeClass}, Name: name, Methods: table.New()}
}

func (c *ObjClass) String() string { return c.Name.Chars }

// ObjInstance is an instance of a class with its own field table.
type ObjInstance struct {
	value.Header
	Class  *ObjClass
	Fields *table.Table
}

func NewInstance(class *ObjClass) *ObjInstance {
	return &ObjInstance{Header: value.Header{Type: value.ObjTypeInstance}, Class: class, Fields: table.New()}
}

func (i *ObjInstance) String() string { return fmt.Sprintf("<%s instance>", i.Class.Name.Chars) }

// ObjBoundMethod pairs a receiver with the closure looked up off its
// class, produced when GET_PROPERTY resolves a method instead of a
// field. It is reference-only: it owns neither the receiver nor the
// closure.
type ObjBoundMethod struct {
	value.Header
	Receiver value.Value
	Method   *ObjClosure
}

func NewBoundMethod(receiver value.Value, method *ObjClosure) *ObjBoundMethod {
	return &ObjBoundMethod{Header: value.Header{Type: value.ObjTypeBoundMethod}, Receiver: receiver, Method: method}
}

func (b *ObjBoundMethod) String() string { return b.Method.String() }
