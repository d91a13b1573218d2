package bind

import (
	"github.com/spf13/cobra"

	"github.com/domainmap/domainmap/pkg/mapexec"
)

// BindGraphOptions extracts the graph command flags.
//
// Flags read:
//   - --format: dump format (yaml, json)
//   - --output: write the dump to a file instead of stdout
//   - --root: override root inference
func BindGraphOptions(cmd *cobra.Command, input string) (mapexec.GraphParams, error) {
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	root, _ := cmd.Flags().GetString("root")

	return mapexec.GraphParams{
		InputPath:  input,
		Root:       root,
		Format:     format,
		OutputPath: outputPath,
	}, nil
}
