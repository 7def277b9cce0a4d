package chunk

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Disassemble writes a human-readable listing of every instruction in c
// to w, prefixed by name. It is optional instrumentation, not part of
// the execution contract.
func (c *Chunk) Disassemble(w io.Writer, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < len(c.Code); {
		offset = c.disassembleInstruction(w, offset)
	}
}

func (c *Chunk) disassembleInstruction(w io.Writer, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)
	if offset > 0 && c.Lines[offset] == c.Lines[offset-1] {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", c.Lines[offset])
	}

	op := OpCode(c.Code[offset])
	switch op {
	case OpConstant:
		return c.constantInstruction("OP_CONSTANT", w, offset)
	case OpNil:
		return simpleInstruction("OP_NIL", w, offset)
	case OpTrue:
		return simpleInstruction("OP_TRUE", w, offset)
	case OpFalse:
		return simpleInstruction("OP_FALSE", w, offset)
	case OpPop:
		return simpleInstruction("OP_POP", w, offset)
	case OpGetLocal:
		return byteInstruction("OP_GET_LOCAL", w, c, offset)
	case OpSetLocal:
		return byteInstruction("OP_SET_LOCAL", w, c, offset)
	case OpGetGlobal:
		return c.constantInstruction("OP_GET_GLOBAL", w, offset)
	case OpDefineGlobal:
		return c.constantInstruction("OP_DEFINE_GLOBAL", w, offset)
	case OpSetGlobal:
		return c.constantInstruction("OP_SET_GLOBAL", w, offset)
	case OpGetUpvalue:
		return byteInstruction("OP_GET_UPVALUE", w, c, offset)
	case OpSetUpvalue:
		return byteInstruction("OP_SET_UPVALUE", w, c, offset)
	case OpGetProperty:
		return c.constantInstruction("OP_GET_PROPERTY", w, offset)
	case OpSetProperty:
		return c.constantInstruction("OP_SET_PROPERTY", w, offset)
	case OpGetSuper:
		return c.constantInstruction("OP_GET_SUPER", w, offset)
	case OpEqual:
		return simpleInstruction("OP_EQUAL", w, offset)
	case OpGreater:
		return simpleInstruction("OP_GREATER", w, offset)
	case OpLess:
		return simpleInstruction("OP_LESS", w, offset)
	case OpAdd:
		return simpleInstruction("OP_ADD", w, offset)
	case OpSubtract:
		return simpleInstruction("OP_SUBTRACT", w, offset)
	case OpMultiply:
		return simpleInstruction("OP_MULTIPLY", w, offset)
	case OpDivide:
		return simpleInstruction("OP_DIVIDE", w, offset)
	case OpNot:
		return simpleInstruction("OP_NOT", w, offset)
	case OpNegate:
		return simpleInstruction("OP_NEGATE", w, offset)
	case OpPrint:
		return simpleInstruction("OP_PRINT", w, offset)
	case OpJump:
		return jumpInstruction("OP_JUMP", 1, w, c, offset)
	case OpJumpIfFalse:
		return jumpInstruction("OP_JUMP_IF_FALSE", 1, w, c, offset)
	case OpLoop:
		return jumpInstruction("OP_LOOP", -1, w, c, offset)
	case OpCall:
		return byteInstruction("OP_CALL", w, c, offset)
	case OpInvoke:
		return invokeInstruction("OP_INVOKE", w, c, offset)
	case OpSuperInvoke:
		return invokeInstruction("OP_SUPER_INVOKE", w, c, offset)
	case OpClosure:
		return c.closureInstruction(w, offset)
	case OpCloseUpvalue:
		return simpleInstruction("OP_CLOSE_UPVALUE", w, offset)
	case OpReturn:
		return simpleInstruction("OP_RETURN", w, offset)
	case OpClass:
		return c.constantInstruction("OP_CLASS", w, offset)
	case OpInherit:
		return simpleInstruction("OP_INHERIT", w, offset)
	case OpMethod:
		return c.constantInstruction("OP_METHOD", w, offset)
	default:
		fmt.Fprintf(w, "Unknown opcode %d\n", op)
		return offset + 1
	}
}

func simpleInstruction(name string, w io.Writer, offset int) int {
	fmt.Fprintf(w, "%s\n", name)
	return offset + 1
}

func byteInstruction(name string, w io.Writer, c *Chunk, offset int) int {
	slot := c.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d\n", name, slot)
	return offset + 2
}

func (c *Chunk) constantInstruction(name string, w io.Writer, offset int) int {
	idx := c.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d '%s'\n", name, idx, c.Constants[idx].String())
	return offset + 2
}

func jumpInstruction(name string, sign int, w io.Writer, c *Chunk, offset int) int {
	jump := int(binary.BigEndian.Uint16(c.Code[offset+1 : offset+3]))
	target := offset + 3 + sign*jump
	fmt.Fprintf(w, "%-16s %4d -> %d\n", name, offset, target)
	return offset + 3
}

func invokeInstruction(name string, w io.Writer, c *Chunk, offset int) int {
	constant := c.Code[offset+1]
	argCount := c.Code[offset+2]
	fmt.Fprintf(w, "%-16s (%d args) %4d '%s'\n", name, argCount, constant, c.Constants[constant].String())
	return offset + 3
}

func (c *Chunk) closureInstruction(w io.Writer, offset int) int {
	offset++
	constant := c.Code[offset]
	offset++
	fmt.Fprintf(w, "%-16s %4d '%s'\n", "OP_CLOSURE", constant, c.Constants[constant].String())

	return offset
}
