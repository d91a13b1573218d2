// Package format renders the one-line failure summary every command prints
// on a fatal error, in human or JSON form depending on the --json flag.
package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Formatter prints command failure summaries.
type Formatter struct {
	jsonMode bool
	stderr   io.Writer
}

// FromCommand derives a Formatter from the command's --json flag and error
// stream.
func FromCommand(cmd *cobra.Command) Formatter {
	jsonMode, _ := cmd.Flags().GetBool("json")
	return Formatter{jsonMode: jsonMode, stderr: cmd.ErrOrStderr()}
}

// PrintTotalFailureSummary prints a single human-readable (or JSON) failure
// line for the command and returns the original error so cobra propagates
// it to the exit-code mapping.
func (f Formatter) PrintTotalFailureSummary(command string, err error, code int) error {
	if f.jsonMode {
		line, marshalErr := json.Marshal(map[string]any{
			"command":   command,
			"error":     err.Error(),
			"exit_code": code,
		})
		if marshalErr == nil {
			fmt.Fprintln(f.stderr, string(line))
		}
		return err
	}

	fmt.Fprintf(f.stderr, "%s failed: %v\n", command, err)
	return err
}
