package value_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wyvernscript/smog/pkg/value"
)

func TestEqualNumbers(t *testing.T) {
	require.True(t, value.Equal(value.Number(1), value.Number(1)))
	require.False(t, value.Equal(value.Number(1), value.Number(2)))
}

func TestEqualNaNIsNeverEqual(t *testing.T) {
	nan := value.Number(math.NaN())
	require.False(t, value.Equal(nan, nan))
}

func TestEqualNilOnlyEqualsNil(t *testing.T) {
	require.True(t, value.Equal(value.Nil(), value.Nil()))
	require.False(t, value.Equal(value.Nil(), value.Bool(false)))
}

func TestEqualObjectsArePointerIdentity(t *testing.T) {
	a := value.NewObjString("hi", value.HashString("hi"))
	b := value.NewObjString("hi", value.HashString("hi"))
	require.False(t, value.Equal(value.FromObj(a), value.FromObj(b)), "distinct allocations must not be equal without interning")
	require.True(t, value.Equal(value.FromObj(a), value.FromObj(a)))
}

func TestIsFalsey(t *testing.T) {
	require.True(t, value.Nil().IsFalsey())
	require.True(t, value.Bool(false).IsFalsey())
	require.False(t, value.Bool(true).IsFalsey())
	require.False(t, value.Number(0).IsFalsey())
}

func TestStringFormatting(t *testing.T) {
	require.Equal(t, "nil", value.Nil().String())
	require.Equal(t, "true", value.Bool(true).String())
	require.Equal(t, "1", value.Number(1).String())
	require.Equal(t, "1.5", value.Number(1.5).String())
}
