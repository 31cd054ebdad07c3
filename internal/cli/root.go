package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/fermicfg/internal/resolve"
	"github.com/dshills/fermicfg/internal/snapshot"
)

const version = "0.3.0"

// Exit codes
const (
	ExitSuccess      = 0
	ExitValidation   = 1
	ExitUsageError   = 2
	ExitNotFound     = 3
	ExitRuntimeError = 4
)

var rootCmd = &cobra.Command{
	Use:   "fermicfg",
	Short: "Resolve Fermi-LAT analysis configurations",
	Long: "fermicfg merges analysis configuration documents with defaults, override files and\n" +
		"keyword overrides, validates them against the option schema and expands the\n" +
		"components section into one resolved configuration per analysis component.",
	SilenceUsage:  true,
}

// Run executes the root command and returns an exit code.
func Run() int {
	exitCode = ExitSuccess
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}
	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

// exitCodeFor maps an error onto the exit code contract.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, resolve.ErrNotFound), errors.Is(err, snapshot.ErrNotFound), errors.Is(err, errUnknownComponent):
		return ExitNotFound
	case errors.Is(err, resolve.ErrValidation):
		return ExitValidation
	default:
		return ExitRuntimeError
	}
}

// report prints err and records its exit code. Validation failures are
// listed one per line.
func report(w io.Writer, err error) {
	if verrs := resolve.ValidationErrors(err); len(verrs) > 1 {
		fmt.Fprintf(w, "Error: %d validation errors:\n", len(verrs))
		for _, v := range verrs {
			fmt.Fprintf(w, "  %v\n", v)
		}
	} else {
		fmt.Fprintf(w, "Error: %v\n", err)
	}
	if code := exitCodeFor(err); code > exitCode {
		exitCode = code
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print fermicfg version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "fermicfg version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error or verbosity 0-4)")
	rootCmd.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagLenient, "lenient", false, "Drop unknown sections and options with a warning instead of failing")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(componentsCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(defaultsCmd)
	rootCmd.AddCommand(docCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(finalizeCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
