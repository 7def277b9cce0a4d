// Command smog is the CLI entry point: a REPL when run with no
// arguments, a one-shot file runner via the run subcommand, and a
// version subcommand.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wyvernscript/smog/internal/driver"
)

const version = "0.1.0"

func main() {
	os.Exit(execute())
}

func execute() int {
	exitCode := driver.ExitOK

	root := &cobra.Command{
		Use:   "smog",
		Short: "smog is a bytecode-compiled scripting language interpreter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exitCode = driver.REPL(os.Stdout, os.Stderr)
			return nil
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "run <file>",
		Short: "compile and run a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exitCode = driver.RunFile(args[0], os.Stdout, os.Stderr)
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "print the smog version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(os.Stdout, version)
			return nil
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if exitCode == driver.ExitOK {
			exitCode = driver.ExitIOError
		}
	}
	return exitCode
}
