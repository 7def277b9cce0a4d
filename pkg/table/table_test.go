package table_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wyvernscript/smog/pkg/table"
	"github.com/wyvernscript/smog/pkg/value"
)

func key(t *testing.T, s string) *value.ObjString {
	t.Helper()
	return value.NewObjString(s, value.HashString(s))
}

func TestSetAndGet(t *testing.T) {
	tbl := table.New()
	k := key(t, "x")
	require.True(t, tbl.Set(k, value.Number(42)))

	v, ok := tbl.Get(k)
	require.True(t, ok)
	require.Equal(t, 42.0, v.Number)
}

func TestSetOverwriteReturnsFalse(t *testing.T) {
	tbl := table.New()
	k := key(t, "x")
	require.True(t, tbl.Set(k, value.Number(1)))
	require.False(t, tbl.Set(k, value.Number(2)))

	v, _ := tbl.Get(k)
	require.Equal(t, 2.0, v.Number)
}

func TestDeleteLeavesTombstoneProbePath(t *testing.T) {
	tbl := table.New()
	a := key(t, "a")
	// "i" hashes to the same home slot as "a" in an 8-entry table, so b
	// is stored one slot past a and is only reachable by probing past it.
	b := key(t, "i")
	tbl.Set(a, value.Number(1))
	tbl.Set(b, value.Number(2))

	require.True(t, tbl.Delete(a))
	_, ok := tbl.Get(a)
	require.False(t, ok)

	v, ok := tbl.Get(b)
	require.True(t, ok, "deleting a sits a tombstone that must not block probing to b")
	require.Equal(t, 2.0, v.Number)
}

func TestLenCountsAllKeysAcrossGrowth(t *testing.T) {
	tbl := table.New()
	for i := 0; i < 500; i++ {
		tbl.Set(key(t, fmt.Sprintf("k%d", i)), value.Number(float64(i)))
	}
	require.Equal(t, 500, tbl.Len())
}

func TestFindStringStructuralLookup(t *testing.T) {
	tbl := table.New()
	canonical := key(t, "hello")
	tbl.Set(canonical, value.Bool(true))

	found := tbl.FindString("hello", value.HashString("hello"))
	require.Same(t, canonical, found)

	require.Nil(t, tbl.FindString("goodbye", value.HashString("goodbye")))
}

func TestAddAllCopiesMethods(t *testing.T) {
	src := table.New()
	greet := key(t, "greet")
	src.Set(greet, value.Number(1))

	dst := table.New()
	dst.AddAll(src)

	v, ok := dst.Get(greet)
	require.True(t, ok)
	require.Equal(t, 1.0, v.Number)

	_, ok = dst.Get(key(t, "greet"))
	// distinct key allocations are not pointer-identical, so this must
	// miss: AddAll copies entries by key object, not by string content.
	require.False(t, ok)
}
