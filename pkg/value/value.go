// Package value defines the tagged runtime value and the heap-object
// header shared by every object variant in the language.
package value

import (
	"math"
	"strconv"
)

// Kind discriminates the variants a Value can hold.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindObj
)

// Value is a uniformly-sized tagged datum. Only the field matching Kind
// is meaningful.
type Value struct {
	Kind   Kind
	Bool   bool
	Number float64
	Obj    Obj
}

func Nil() Value                 { return Value{Kind: KindNil} }
func Bool(b bool) Value          { return Value{Kind: KindBool, Bool: b} }
func Number(n float64) Value     { return Value{Kind: KindNumber, Number: n} }
func FromObj(o Obj) Value        { return Value{Kind: KindObj, Obj: o} }

func (v Value) IsNil() bool    { return v.Kind == KindNil }
func (v Value) IsBool() bool   { return v.Kind == KindBool }
func (v Value) IsNumber() bool { return v.Kind == KindNumber }
func (v Value) IsObj() bool    { return v.Kind == KindObj }

// IsFalsey implements the language's truthiness rule: nil and false are
// falsey, everything else is truthy.
func (v Value) IsFalsey() bool {
	return v.Kind == KindNil || (v.Kind == KindBool && !v.Bool)
}

// Equal implements the value-equality law from the data model: numbers
// compare by IEEE-754 equality (so NaN != NaN), booleans and nil compare
// logically, and heap objects compare by pointer identity (interned
// strings are therefore equal iff they are byte-equal, since interning
// guarantees a single canonical instance per content).
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNil:
		return true
	case KindBool:
		return a.Bool == b.Bool
	case KindNumber:
		return a.Number == b.Number
	case KindObj:
		return a.Obj == b.Obj
	default:
		return false
	}
}

// String renders a Value the way the print statement does (§6.2):
// numbers in shortest round-trip decimal form, literals spelled out,
// and objects deferring to their own String method.
func (v Value) String() string {
	switch v.Kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNumber:
		return formatNumber(v.Number)
	case KindObj:
		if v.Obj == nil {
			return "nil"
		}
		return v.Obj.String()
	default:
		return "<unknown>"
	}
}

func formatNumber(n float64) string {
	if math.IsNaN(n) {
		return "nan"
	}
	if math.IsInf(n, 1) {
		return "inf"
	}
	if math.IsInf(n, -1) {
		return "-inf"
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// ObjType discriminates heap object variants.
type ObjType uint8

const (
	ObjTypeString ObjType = iota
	ObjTypeFunction
	ObjTypeNative
	ObjTypeUpvalue
	ObjTypeClosure
	ObjTypeClass
	ObjTypeInstance
	ObjTypeBoundMethod
)

// Header is embedded at the front of every heap object. It carries the
// variant discriminant, the tri-color mark bit used by the collector,
// and the forward link in the heap's all-objects list — the same
// layout clox's Obj struct uses for its intrusive list.
type Header struct {
	Type   ObjType
	Marked bool
	Next   Obj
}

// Obj is satisfied structurally by every heap object variant. A bare
// interface comparison (==) on two Obj values compares pointer
// identity of the underlying concrete pointers, which is exactly the
// object-equality rule the data model specifies.
type Obj interface {
	objHeader() *Header
	ObjType() ObjType
	String() string
}

// Head returns the object's embedded header. Concrete types implement
// this via embedding Header and get it for free; it exists so code in
// other packages (table, heap) can reach the header through the Obj
// interface without a type switch.
func Head(o Obj) *Header { return o.objHeader() }

func (h *Header) objHeader() *Header { return h }
func (h *Header) ObjType() ObjType   { return h.Type }

// ObjString is the canonical heap string: an immutable byte buffer with
// a precomputed hash, deduplicated through the heap's intern table. It
// lives in this package (rather than pkg/object) because pkg/table
// needs it as a key type without importing the rest of the object
// variants.
type ObjString struct {
	Header
	Chars string
	Hash  uint32
}

func NewObjString(chars string, hash uint32) *ObjString {
	return &ObjString{Header: Header{Type: ObjTypeString}, Chars: chars, Hash: hash}
}

func (s *ObjString) String() string { return s.Chars }

// HashString implements the FNV-1a variant clox uses for string hashing.
func HashString(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}
