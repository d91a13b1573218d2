package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/domainmap/domainmap/cmd/domainmap/internal/bind"
	"github.com/domainmap/domainmap/cmd/domainmap/internal/format"
	"github.com/domainmap/domainmap/pkg/mapexec"
	"github.com/domainmap/domainmap/pkg/output"
	"github.com/domainmap/domainmap/pkg/render"
)

// NewMapCommand constructs the 'map' command: the relationship diagram side
// of the tool.
func NewMapCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map <scan-file>",
		Short: "Render the domain relationship map",
		Long: `Builds the relationship graph from recon scan output and renders it as a
graphviz diagram, an interactive HTML page, or a console tree. Without
graphviz installed the diagram mode degrades to the console tree.`,
		Args: cobra.ExactArgs(1),
		RunE: runMapCommand,
	}

	cmd.Flags().Bool("graphviz", false, "Render a graphviz diagram (default)")
	cmd.Flags().Bool("html", false, "Render a self-contained interactive HTML page")
	cmd.Flags().Bool("text", false, "Render a console tree to stdout")
	cmd.Flags().String("format", "", "Diagram format: svg, png, pdf (default from config)")
	cmd.Flags().Bool("no-ips", false, "Hide resolved address nodes")
	cmd.Flags().Bool("show-orgs", false, "Include registry organization nodes")
	cmd.Flags().String("output-dir", "", "Directory for diagram artifacts (default from config)")
	cmd.Flags().String("root", "", "Root domain (inferred from the scan when omitted)")
	cmd.MarkFlagsMutuallyExclusive("graphviz", "html", "text")

	return cmd
}

func runMapCommand(cmd *cobra.Command, args []string) error {
	formatter := format.FromCommand(cmd)
	out := setupOutputPipeline(cmd)
	logger := log.With().Str("command", "map").Logger()

	cfg := configFromCommand(cmd)
	params, err := bind.BindMapOptions(cmd, args[0], cfg)
	if err != nil {
		logger.Error().Err(err).Msg("failed to bind map options")
		return formatter.PrintTotalFailureSummary("map", err, mapexec.ErrorCode(err))
	}

	svc := mapexec.NewService().
		WithOutput(out).
		WithRuleset(cfg.Ruleset()).
		WithPalette(cfg.EdgePalette()).
		WithEngine(render.NewGraphvizEngineFor(cfg.Render.Engine)).
		WithColor(colorEnabled(cmd)).
		WithStdio(cmd.InOrStdin(), cmd.OutOrStdout())

	out.Diag(output.LevelVerbose, "rendering relationship map", map[string]any{
		"input": params.InputPath,
		"mode":  string(params.Mode),
	})

	res, err := svc.RunMap(cmd.Context(), params)
	if err != nil {
		logger.Error().Err(err).Msg("map run failed")
		out.Error(err)
		return formatter.PrintTotalFailureSummary("map", err, mapexec.ErrorCode(err))
	}

	for _, artifact := range res.Artifacts {
		out.Info(fmt.Sprintf("wrote %s", artifact))
	}
	logger.Info().Str("root", res.Root).Bool("degraded", res.Degraded).Msg("map run completed")
	return nil
}
