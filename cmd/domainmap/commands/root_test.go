package commands

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newColorTestCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Bool("json", false, "")
	return cmd
}

func TestColorEnabled_OffForJSONOutput(t *testing.T) {
	cmd := newColorTestCommand()
	require.NoError(t, cmd.Flags().Set("json", "true"))

	assert.False(t, colorEnabled(cmd), "machine-readable output must never carry styling")
}

func TestColorEnabled_OffForNonTerminalStdout(t *testing.T) {
	cmd := newColorTestCommand()
	cmd.SetOut(&bytes.Buffer{})

	assert.False(t, colorEnabled(cmd), "a buffer is not a terminal")
}
