// Package vm implements the stack-based bytecode interpreter: call
// frames, the value stack, global resolution, upvalue management, and
// GC root orchestration.
package vm

import (
	"fmt"
	"strings"
)

// Frame is a single entry in a runtime error's stack trace: the
// function name ("script" for the top-level frame) and the source line
// active in that frame when the error was raised.
type Frame struct {
	Name string
	Line int
}

// RuntimeError carries the error message plus the call stack active
// when it was raised, adapted from the teacher's StackTrace-bearing
// error type but reshaped to the exact one-line-per-frame,
// innermost-first format the error design specifies.
type RuntimeError struct {
	Message string
	Frames  []Frame
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	for i := len(e.Frames) - 1; i >= 0; i-- {
		f := e.Frames[i]
		b.WriteString("\n")
		fmt.Fprintf(&b, "[line %d] in %s", f.Line, f.Name)
	}
	return b.String()
}

func newRuntimeError(message string, frames []Frame) *RuntimeError {
	return &RuntimeError{Message: message, Frames: frames}
}

// CompileError is returned by Interpret when compilation fails; the
// compiler has already written its diagnostics to stderr, so this value
// carries no message of its own — it exists only to let the driver pick
// exit code 65.
type CompileError struct{}

func (CompileError) Error() string { return "compile error" }
