package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/domainmap/domainmap/cmd/domainmap/internal/bind"
	"github.com/domainmap/domainmap/cmd/domainmap/internal/format"
	"github.com/domainmap/domainmap/pkg/mapexec"
	"github.com/domainmap/domainmap/pkg/output"
)

// NewExtractCommand constructs the 'extract' command: the domain listing
// side of the tool.
func NewExtractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <scan-file>",
		Short: "Extract and categorize domains from recon scan output",
		Long: `Parses the textual output of a domain reconnaissance scan, builds the
relationship graph and prints the discovered domains as a simple,
categorized or detailed listing. Use "-" to read stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: runExtractCommand,
	}

	cmd.Flags().Bool("simple", false, "Plain 'domain → addresses' listing")
	cmd.Flags().Bool("categorized", false, "Group domains by functional category (default)")
	cmd.Flags().Bool("detailed", false, "Categorized listing plus every relation per domain")
	cmd.Flags().String("export", "", "Write the listing to a file instead of stdout")
	cmd.Flags().Bool("export-ips", false, "Also write the listing with resolved addresses next to --export")
	cmd.Flags().String("export-clean", "", "Also write the bare domain list to the given file")
	cmd.Flags().String("root", "", "Root domain (inferred from the scan when omitted)")
	cmd.MarkFlagsMutuallyExclusive("simple", "categorized", "detailed")

	return cmd
}

func runExtractCommand(cmd *cobra.Command, args []string) error {
	formatter := format.FromCommand(cmd)
	out := setupOutputPipeline(cmd)
	logger := log.With().Str("command", "extract").Logger()

	params, err := bind.BindExtractOptions(cmd, args[0])
	if err != nil {
		logger.Error().Err(err).Msg("failed to bind extract options")
		return formatter.PrintTotalFailureSummary("extract", err, mapexec.ErrorCode(err))
	}

	cfg := configFromCommand(cmd)
	svc := mapexec.NewService().
		WithOutput(out).
		WithRuleset(cfg.Ruleset()).
		WithStdio(cmd.InOrStdin(), cmd.OutOrStdout())

	out.Diag(output.LevelVerbose, "extracting domains", map[string]any{
		"input": params.InputPath,
		"mode":  string(params.Mode),
	})

	res, err := svc.RunExtract(cmd.Context(), params)
	if err != nil {
		logger.Error().Err(err).Msg("extract run failed")
		out.Error(err)
		return formatter.PrintTotalFailureSummary("extract", err, mapexec.ErrorCode(err))
	}

	for _, artifact := range res.Artifacts {
		out.Info(fmt.Sprintf("wrote %s", artifact))
	}
	logger.Info().Str("root", res.Root).Int("domains", res.Domains).Msg("extract run completed")
	return nil
}
