// Package main provides the entry point for the abyss CLI tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kj114022/abyss/cmd/abyss/commands"
	"github.com/kj114022/abyss/pkg/version"
)

var (
	verbose bool
	quiet   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "abyss",
		Short: "abyss compiles a repository into a single LLM-context artifact",
		Long: `abyss walks a repository, ranks and budgets its files, and emits one
ordered, token-budgeted artifact suitable as context for a large
language model.

Commands:
  scan   Compile a repository (or workspace) into an output artifact
  config Show the resolved configuration abyss would run with
  version Show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output")

	rootCmd.AddCommand(commands.NewScanCommand(&verbose, &quiet))
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps a command error onto the exit codes the
// specification's error handling design requires: 0 success, 1
// usage/validation, 2 I/O. Errors that don't carry a commands.ExitError
// (a cobra parse failure, for instance) default to the usage code.
func exitCodeFor(err error) int {
	var exitErr *commands.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return commands.ExitUsage
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "abyss %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
