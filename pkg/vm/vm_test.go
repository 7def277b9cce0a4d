package vm_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wyvernscript/smog/pkg/vm"
)

func run(t *testing.T, source string) (stdout string, err error) {
	t.Helper()
	var out bytes.Buffer
	var errOut bytes.Buffer
	machine := vm.New(vm.WithStdout(&out), vm.WithStderr(&errOut))
	err = machine.Interpret(source)
	return out.String(), err
}

func TestArithmeticPrecedence(t *testing.T) {
	out, err := run(t, "print 1 + 2 * 3;")
	require.NoError(t, err)
	require.Equal(t, "7\n", out)
}

func TestStringConcatenationIdentity(t *testing.T) {
	out, err := run(t, `var a = "foo"; var b = "bar"; print a + b;`)
	require.NoError(t, err)
	require.Equal(t, "foobar\n", out)

	out, err = run(t, `print "foo" + "bar" == "foobar";`)
	require.NoError(t, err)
	require.Equal(t, "true\n", out)
}

func TestClosureSharedCaptureAcrossCalls(t *testing.T) {
	source := `
		fun f() {
			var x = 0;
			fun g() { x = x + 1; return x; }
			return g;
		}
		var h = f();
		print h();
		print h();
		print h();
	`
	out, err := run(t, source)
	require.NoError(t, err)
	require.Equal(t, "1\n2\n3\n", out)
}

func TestSuperDispatch(t *testing.T) {
	source := `
		class A { greet() { print "hi"; } }
		class B < A { greet() { super.greet(); print "bye"; } }
		B().greet();
	`
	out, err := run(t, source)
	require.NoError(t, err)
	require.Equal(t, "hi\nbye\n", out)
}

func TestWhileLoop(t *testing.T) {
	source := `var i = 0; while (i < 3) { print i; i = i + 1; }`
	out, err := run(t, source)
	require.NoError(t, err)
	require.Equal(t, "0\n1\n2\n", out)
}

func TestArityMismatchIsRuntimeError(t *testing.T) {
	source := `fun bad(x) { return x; } bad();`
	out, err := run(t, source)
	require.Equal(t, "", out)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Expected 1 arguments but got 0.")
}

func TestUndefinedGlobalIsRuntimeError(t *testing.T) {
	_, err := run(t, "print missing;")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Undefined variable 'missing'.")
}

func TestSetGlobalOnUndefinedDoesNotCreateBinding(t *testing.T) {
	_, err := run(t, "x = 1;")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Undefined variable 'x'.")
}

func TestFieldShadowsMethod(t *testing.T) {
	source := `
		class A { greet() { return "method"; } }
		var a = A();
		a.greet = "field";
		print a.greet;
	`
	out, err := run(t, source)
	require.NoError(t, err)
	require.Equal(t, "field\n", out)
}

func TestForLoop(t *testing.T) {
	source := `for (var i = 0; i < 3; i = i + 1) { print i; }`
	out, err := run(t, source)
	require.NoError(t, err)
	require.Equal(t, "0\n1\n2\n", out)
}

func TestClockNativeReturnsNumber(t *testing.T) {
	out, err := run(t, "print clock() >= 0;")
	require.NoError(t, err)
	require.Equal(t, "true\n", out)
}

func TestVMIsReusableAfterRuntimeError(t *testing.T) {
	var out bytes.Buffer
	var errOut bytes.Buffer
	machine := vm.New(vm.WithStdout(&out), vm.WithStderr(&errOut))

	err := machine.Interpret("fun bad(x) { return x; } bad();")
	require.Error(t, err)

	err = machine.Interpret(`print "still alive";`)
	require.NoError(t, err)
	require.Equal(t, "still alive\n", out.String())
}
