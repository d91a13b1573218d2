package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/domainmap/domainmap/cmd/domainmap/internal/bind"
	"github.com/domainmap/domainmap/cmd/domainmap/internal/format"
	"github.com/domainmap/domainmap/pkg/mapexec"
)

// NewGraphCommand constructs the 'graph' command, which dumps the built
// relationship graph for downstream tooling.
func NewGraphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph <scan-file>",
		Short: "Dump the categorized relationship graph as YAML or JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runGraphCommand,
	}

	cmd.Flags().String("format", "yaml", "Dump format: yaml, json")
	cmd.Flags().String("output", "", "Write the dump to a file instead of stdout")
	cmd.Flags().String("root", "", "Root domain (inferred from the scan when omitted)")

	return cmd
}

func runGraphCommand(cmd *cobra.Command, args []string) error {
	formatter := format.FromCommand(cmd)
	out := setupOutputPipeline(cmd)
	logger := log.With().Str("command", "graph").Logger()

	params, err := bind.BindGraphOptions(cmd, args[0])
	if err != nil {
		return formatter.PrintTotalFailureSummary("graph", err, mapexec.ErrorCode(err))
	}

	cfg := configFromCommand(cmd)
	svc := mapexec.NewService().
		WithRuleset(cfg.Ruleset()).
		WithStdio(cmd.InOrStdin(), cmd.OutOrStdout())

	res, err := svc.RunGraph(cmd.Context(), params)
	if err != nil {
		logger.Error().Err(err).Msg("graph dump failed")
		out.Error(err)
		return formatter.PrintTotalFailureSummary("graph", err, mapexec.ErrorCode(err))
	}

	for _, artifact := range res.Artifacts {
		out.Info(fmt.Sprintf("wrote %s", artifact))
	}
	return nil
}
