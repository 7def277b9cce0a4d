package compiler_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wyvernscript/smog/pkg/compiler"
	"github.com/wyvernscript/smog/pkg/heap"
)

func compile(t *testing.T, source string) (ok bool) {
	t.Helper()
	h := heap.New()
	c := compiler.New(source, h)
	_, ok = c.Compile()
	return ok
}

func TestCompilesArithmeticExpression(t *testing.T) {
	require.True(t, compile(t, "print 1 + 2 * 3;"))
}

func TestCompilesClassWithInheritanceAndSuper(t *testing.T) {
	source := `
		class A { greet() { print "hi"; } }
		class B < A { greet() { super.greet(); print "bye"; } }
		B().greet();
	`
	require.True(t, compile(t, source))
}

func TestReadingUninitializedLocalIsCompileError(t *testing.T) {
	require.False(t, compile(t, "{ var a = a; }"))
}

func TestSuperOutsideClassIsCompileError(t *testing.T) {
	require.False(t, compile(t, "fun f() { super.greet(); }"))
}

func TestThisOutsideClassIsCompileError(t *testing.T) {
	require.False(t, compile(t, "print this;"))
}

func TestClassInheritingFromItselfIsCompileError(t *testing.T) {
	require.False(t, compile(t, "class A < A {}"))
}

func TestInvalidAssignmentTargetIsCompileError(t *testing.T) {
	require.False(t, compile(t, "1 + 2 = 3;"))
}

func TestReturnFromTopLevelIsCompileError(t *testing.T) {
	require.False(t, compile(t, "return 1;"))
}

func TestSyntaxErrorRecoversAtNextStatement(t *testing.T) {
	// the first statement is malformed, but the compiler should still
	// finish scanning the (valid) second statement instead of giving up.
	ok := compile(t, "var; print 1;")
	require.False(t, ok)

	// with an error in each statement, recovery at the ';' clears panic
	// mode, so the second error is reported too.
	var errOut bytes.Buffer
	c := compiler.New("var; print ;", heap.New())
	c.SetStderr(&errOut)
	_, ok = c.Compile()
	require.False(t, ok)
	require.Equal(t, 2, strings.Count(errOut.String(), "\n"))
}
