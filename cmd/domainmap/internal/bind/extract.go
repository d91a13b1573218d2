package bind

import (
	"github.com/spf13/cobra"

	"github.com/domainmap/domainmap/pkg/export"
	"github.com/domainmap/domainmap/pkg/mapexec"
)

// BindExtractOptions extracts and validates extract command flags.
//
// Flags read:
//   - --simple / --categorized / --detailed: listing mode (at most one)
//   - --export: write the listing to a file instead of stdout
//   - --export-ips: also write the with-ips listing next to --export
//   - --export-clean: also write the clean listing to the given file
//   - --root: override root inference
func BindExtractOptions(cmd *cobra.Command, input string) (mapexec.ExtractParams, error) {
	simple, _ := cmd.Flags().GetBool("simple")
	categorized, _ := cmd.Flags().GetBool("categorized")
	detailed, _ := cmd.Flags().GetBool("detailed")
	exportPath, _ := cmd.Flags().GetString("export")
	exportIPs, _ := cmd.Flags().GetBool("export-ips")
	exportClean, _ := cmd.Flags().GetString("export-clean")
	root, _ := cmd.Flags().GetString("root")

	modeFlags := 0
	for _, set := range []bool{simple, categorized, detailed} {
		if set {
			modeFlags++
		}
	}
	if modeFlags > 1 {
		return mapexec.ExtractParams{}, mapexec.ErrConflictingModeFlags
	}

	mode := export.ModeCategorized
	switch {
	case simple:
		mode = export.ModeSimple
	case detailed:
		mode = export.ModeDetailed
	}

	return mapexec.ExtractParams{
		InputPath:       input,
		Root:            root,
		Mode:            mode,
		ExportPath:      exportPath,
		ExportIPs:       exportIPs,
		ExportCleanPath: exportClean,
	}, nil
}
