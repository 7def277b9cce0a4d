package heap_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wyvernscript/smog/pkg/heap"
	"github.com/wyvernscript/smog/pkg/value"
)

func TestInternStringDeduplicates(t *testing.T) {
	h := heap.New()
	a := h.InternString("hello")
	b := h.InternString("hello")
	require.Same(t, a, b, "equal byte sequences must intern to the same object")
}

func TestConcatProducesInternedResult(t *testing.T) {
	h := heap.New()
	a := h.InternString("foo")
	b := h.InternString("bar")
	c := h.Concat(a, b)
	require.Equal(t, "foobar", c.Chars)
	require.Same(t, c, h.InternString("foobar"))
}

func TestCollectSweepsUnreachableObjects(t *testing.T) {
	h := heap.New()
	h.SetRootMarker(func(mark func(value.Obj)) {
		// no roots: everything allocated below should be swept.
	})

	h.NewFunction()
	h.NewFunction()
	require.Equal(t, 2, h.Count())

	h.Collect()
	require.Equal(t, 0, h.Count())
}

func TestCollectPreservesRootedObjects(t *testing.T) {
	h := heap.New()
	fn := h.NewFunction()
	h.SetRootMarker(func(mark func(value.Obj)) {
		mark(fn)
	})

	other := h.NewFunction()
	_ = other
	require.Equal(t, 2, h.Count())

	h.Collect()
	require.Equal(t, 1, h.Count(), "only the rooted function should survive")
}

func TestStressModeCollectsOnEveryAllocation(t *testing.T) {
	h := heap.New(heap.WithStress(true))
	h.SetRootMarker(func(mark func(value.Obj)) {})

	h.NewFunction()
	require.Equal(t, 1, h.Count(), "maybeCollect runs before the new object is tracked, so it survives its own allocation")

	h.NewFunction()
	require.Equal(t, 1, h.Count(), "stress mode collects before this allocation too, sweeping the prior unrooted object before tracking the new one")
}

func TestWeakClearRemovesUnreferencedInternedStrings(t *testing.T) {
	h := heap.New()
	h.SetRootMarker(func(mark func(value.Obj)) {})

	h.InternString("orphan")
	require.Equal(t, 1, h.Strings().Len())

	h.Collect()
	require.Equal(t, 0, h.Strings().Len())
}
