package chunk_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wyvernscript/smog/pkg/chunk"
	"github.com/wyvernscript/smog/pkg/value"
)

func TestWriteTracksParallelLines(t *testing.T) {
	c := chunk.New()
	c.WriteOp(chunk.OpNil, 1)
	c.WriteOp(chunk.OpReturn, 1)
	c.WriteOp(chunk.OpPop, 2)

	require.Equal(t, []int{1, 1, 2}, c.Lines)
}

func TestAddConstantReturnsStableIndex(t *testing.T) {
	c := chunk.New()
	i1 := c.AddConstant(value.Number(1))
	i2 := c.AddConstant(value.Number(2))
	require.Equal(t, 0, i1)
	require.Equal(t, 1, i2)
	require.Equal(t, 1.0, c.Constants[i1].Number)
}

func TestDisassembleDoesNotPanic(t *testing.T) {
	c := chunk.New()
	idx := c.AddConstant(value.Number(7))
	c.WriteOp(chunk.OpConstant, 1)
	c.Write(byte(idx), 1)
	c.WriteOp(chunk.OpReturn, 1)

	var buf bytes.Buffer
	c.Disassemble(&buf, "test")
	require.Contains(t, buf.String(), "OP_CONSTANT")
	require.Contains(t, buf.String(), "OP_RETURN")
}
