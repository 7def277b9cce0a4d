package driver_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wyvernscript/smog/internal/driver"
)

func writeSource(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "source.smog")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestRunFileSuccessExitsZero(t *testing.T) {
	path := writeSource(t, `print 1 + 2 * 3;`)
	var out, errOut bytes.Buffer

	code := driver.RunFile(path, &out, &errOut)

	require.Equal(t, driver.ExitOK, code)
	require.Equal(t, "7\n", out.String())
	require.Empty(t, errOut.String())
}

func TestRunFileCompileErrorExits65(t *testing.T) {
	path := writeSource(t, `var ;`)
	var out, errOut bytes.Buffer

	code := driver.RunFile(path, &out, &errOut)

	require.Equal(t, driver.ExitCompileError, code)
	require.NotEmpty(t, errOut.String())
}

func TestRunFileRuntimeErrorExits70(t *testing.T) {
	path := writeSource(t, `fun bad(x) { return x; } bad();`)
	var out, errOut bytes.Buffer

	code := driver.RunFile(path, &out, &errOut)

	require.Equal(t, driver.ExitRuntimeError, code)
	require.Contains(t, errOut.String(), "Expected 1 arguments but got 0.")
}

func TestRunFileMissingPathExits74(t *testing.T) {
	var out, errOut bytes.Buffer

	code := driver.RunFile(filepath.Join(t.TempDir(), "does-not-exist.smog"), &out, &errOut)

	require.Equal(t, driver.ExitIOError, code)
	require.NotEmpty(t, errOut.String())
}
