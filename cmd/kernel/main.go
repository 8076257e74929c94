// Command kernel is a thin demonstration CLI over pkg/eval. It is
// deliberately not a REPL and has no reader: it builds a handful of
// fixed Kernel abstract syntax trees directly as *value.Value graphs
// and evaluates them, to give the evaluator core something runnable
// without pulling a parser into scope.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kernelgo/pkg/kerror"
)

// version is a hardcoded literal rather than read from build info or
// ldflags; it is meant to be bumped by hand at release time.
const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "kernel",
		Short: "Demonstration CLI for the Kernel evaluator core",
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print extra diagnostics on error")

	root.AddCommand(newDemoCmd(&verbose))
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the module version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}

func newDemoCmd(verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "demo <name>",
		Short:     "Evaluate one of the built-in demonstration scenarios",
		ValidArgs: demoNames(),
		Args:      cobra.ExactValidArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, ok := demos[args[0]]
			if !ok {
				return fmt.Errorf("unknown demo %q", args[0])
			}
			result, err := scenario.Run()
			if err != nil {
				if ke, ok := kerror.As(err); ok {
					kerror.Report(ke, *verbose)
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "*ERROR*: %s\n", err)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.String())
			return nil
		},
	}
	return cmd
}
