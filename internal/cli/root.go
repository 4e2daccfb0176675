// Package cli implements the shiplog command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	clierrors "github.com/shiplog/shiplog/internal/errors"
	"github.com/shiplog/shiplog/internal/git"
)

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "shiplog",
	Short: "AI-powered changelog generator",
	Long: `Shiplog fetches Git commit metadata and turns commit messages into
end-user changelog entries with the help of a language model.

Fetch commit JSON with 'fetch-commits', or go straight to rendered
changelog bullets with 'summarize'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugFlag {
			git.SetDebugLogger(func(format string, args ...any) {
				fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
			})
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging on stderr")
}

// Execute runs the root command and returns the process exit code.
// Structured errors are printed to stderr with category and remediation;
// anything else that escapes a command is treated as a usage error.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	if cliErr := findCLIError(err); cliErr != nil {
		clierrors.PrintError(cliErr)
		return ExitCodeOf(err)
	}

	// Cobra flag/usage errors arrive unwrapped.
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return ExitInvalidArguments
}
