// Package driver implements the outer REPL/file driver: reading a file
// or a line of interactive input and calling Interpret on it, and
// translating the result into the exit codes the CLI contract
// specifies.
package driver

import (
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"

	"github.com/wyvernscript/smog/pkg/vm"
)

// Exit codes per the driver/CLI contract.
const (
	ExitOK            = 0
	ExitCompileError  = 65
	ExitRuntimeError  = 70
	ExitIOError       = 74
)

// RunFile reads path's contents and interprets them once against a
// fresh VM, returning the process exit code.
func RunFile(path string, stdout, stderr io.Writer) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "Could not read file %q: %v\n", path, err)
		return ExitIOError
	}
	machine := vm.New(vm.WithStdout(stdout), vm.WithStderr(stderr))
	return interpretAndReport(machine, string(source), stderr)
}

func interpretAndReport(machine *vm.VM, source string, stderr io.Writer) int {
	err := machine.Interpret(source)
	if err == nil {
		return ExitOK
	}
	if _, ok := err.(vm.CompileError); ok {
		return ExitCompileError
	}
	fmt.Fprintln(stderr, err.Error())
	return ExitRuntimeError
}

// REPL reads lines from standard input with history and line editing,
// calling Interpret on each against one persistent VM — globals,
// interned strings, and the heap all survive from line to line.
// Compile and runtime errors are reported but do not end the session.
// End of input or an interrupt ends it with ExitOK; a failure to start
// the line editor or to read a line ends it with ExitIOError.
func REPL(stdout, stderr io.Writer) int {
	machine := vm.New(vm.WithStdout(stdout), vm.WithStderr(stderr))

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFilePath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "",
		Stdout:          stdout,
		Stderr:          stderr,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Could not start REPL: %v\n", err)
		return ExitIOError
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return ExitOK
		}
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitIOError
		}
		if line == "" {
			continue
		}
		interpretAndReport(machine, line, stderr)
	}
}

func historyFilePath() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return dir + "/.smog_history"
}
