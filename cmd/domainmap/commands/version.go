package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build metadata, overridden at link time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// NewVersionCommand constructs the 'version' command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (commit %s, built %s, %s/%s)\n",
				cliExecutable, version, commit, date, runtime.GOOS, runtime.GOARCH)
		},
	}
}
