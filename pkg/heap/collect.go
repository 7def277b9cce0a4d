package heap

import (
	"github.com/wyvernscript/smog/pkg/object"
	"github.com/wyvernscript/smog/pkg/value"
)

// Collect runs one full tri-color mark-sweep cycle: mark roots, trace
// the gray worklist to black, weak-clear the intern table, then sweep
// every white object from the all-objects list.
func (h *Heap) Collect() {
	h.gray = h.gray[:0]

	if h.rootMarker != nil {
		h.rootMarker(h.mark)
	}
	h.trace()
	h.strings.DeleteWhite()
	h.sweep()

	h.nextGC = h.bytesAllocated * h.growthFactor
	if h.Log != nil {
		h.Log("gc: collected, %d objects live, next at %d bytes", h.count, h.nextGC)
	}
}

// mark transitions a white object to gray by setting its mark bit and
// queuing it for trace. Marking an already-marked object is a no-op,
// which is what keeps cyclic graphs from looping forever.
func (h *Heap) mark(o value.Obj) {
	if o == nil {
		return
	}
	head := value.Head(o)
	if head.Marked {
		return
	}
	head.Marked = true
	h.gray = append(h.gray, o)
}

func (h *Heap) markValue(v value.Value) {
	if v.Kind == value.KindObj {
		h.mark(v.Obj)
	}
}

// trace drains the gray worklist, blackening each object by marking
// everything it refers to.
func (h *Heap) trace() {
	for len(h.gray) > 0 {
		n := len(h.gray) - 1
		o := h.gray[n]
		h.gray = h.gray[:n]
		h.blacken(o)
	}
}

func (h *Heap) blacken(o value.Obj) {
	switch obj := o.(type) {
	case *value.ObjString:
		// no outgoing references
	case *object.ObjNative:
		// stateless
	case *object.ObjFunction:
		if obj.Name != nil {
			h.mark(obj.Name)
		}
		for _, c := range obj.Chunk.Constants {
			h.markValue(c)
		}
	case *object.ObjUpvalue:
		h.markValue(*obj.Location)
	case *object.ObjClosure:
		h.mark(obj.Function)
		for _, up := range obj.Upvalues {
			if up != nil {
				h.mark(up)
			}
		}
	case *object.ObjClass:
		h.mark(obj.Name)
		obj.Methods.Each(func(key *value.ObjString, v value.Value) {
			h.mark(key)
			h.markValue(v)
		})
	case *object.ObjInstance:
		h.mark(obj.Class)
		obj.Fields.Each(func(key *value.ObjString, v value.Value) {
			h.mark(key)
			h.markValue(v)
		})
	case *object.ObjBoundMethod:
		h.markValue(obj.Receiver)
		h.mark(obj.Method)
	}
}

// sweep walks the all-objects list, unlinking and dropping every white
// object so Go's own collector can reclaim it, and flips every
// surviving (black) object back to white for the next cycle.
func (h *Heap) sweep() {
	var prev value.Obj
	cur := h.all
	for cur != nil {
		head := value.Head(cur)
		next := head.Next
		if head.Marked {
			head.Marked = false
			prev = cur
		} else {
			if prev == nil {
				h.all = next
			} else {
				value.Head(prev).Next = next
			}
			h.count--
			head.Next = nil
		}
		cur = next
	}
}
