package bind

import (
	"github.com/spf13/cobra"

	"github.com/domainmap/domainmap/pkg/config"
	"github.com/domainmap/domainmap/pkg/mapexec"
)

// BindMapOptions extracts and validates map command flags, falling back to
// configured render defaults for the artifact format and output directory.
//
// Flags read:
//   - --graphviz / --html / --text: renderer mode (at most one)
//   - --format: graphviz artifact format (svg, png, pdf)
//   - --no-ips: hide resolved address nodes
//   - --show-orgs: include registry organization nodes
//   - --output-dir: artifact directory
//   - --root: override root inference
func BindMapOptions(cmd *cobra.Command, input string, cfg config.Config) (mapexec.MapParams, error) {
	graphviz, _ := cmd.Flags().GetBool("graphviz")
	html, _ := cmd.Flags().GetBool("html")
	text, _ := cmd.Flags().GetBool("text")
	format, _ := cmd.Flags().GetString("format")
	noIPs, _ := cmd.Flags().GetBool("no-ips")
	showOrgs, _ := cmd.Flags().GetBool("show-orgs")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	root, _ := cmd.Flags().GetString("root")

	modeFlags := 0
	for _, set := range []bool{graphviz, html, text} {
		if set {
			modeFlags++
		}
	}
	if modeFlags > 1 {
		return mapexec.MapParams{}, mapexec.ErrConflictingModeFlags
	}

	mode := mapexec.MapModeGraphviz
	switch {
	case html:
		mode = mapexec.MapModeHTML
	case text:
		mode = mapexec.MapModeText
	}

	if format == "" {
		format = cfg.Render.Format
	}
	if outputDir == "" {
		outputDir = cfg.Render.OutputDir
	}

	return mapexec.MapParams{
		InputPath: input,
		Root:      root,
		Mode:      mode,
		Format:    format,
		OutputDir: outputDir,
		ShowIPs:   !noIPs,
		ShowOrgs:  showOrgs,
	}, nil
}
