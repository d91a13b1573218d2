package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/domainmap/domainmap/pkg/config"
	"github.com/domainmap/domainmap/pkg/output"
	"github.com/domainmap/domainmap/pkg/output/subscribers"
)

const cliExecutable = "domainmap"

type contextKey string

// configKey carries the loaded configuration through the command context.
const configKey contextKey = "config"

// NewCommand constructs the top-level domainmap CLI command, wiring global
// flags, configuration loading and log level selection.
func NewCommand() *cobra.Command {
	var (
		configFile     string
		verbosityCount int
		verbose        bool
		jsonOutput     bool
	)

	cmd := &cobra.Command{
		Use:   cliExecutable,
		Short: "Domainmap turns recon scan output into domain listings and relationship maps",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			manager := config.NewManager()
			if err := manager.Load(cmd.Flags(), configFile); err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			cfg := manager.Get()

			// Explicit --verbose shows debug and above; otherwise the
			// -v count decides: 0=>Error, 1=>Info, 2+=>Debug.
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				switch {
				case verbosityCount <= 0:
					zerolog.SetGlobalLevel(zerolog.ErrorLevel)
				case verbosityCount == 1:
					zerolog.SetGlobalLevel(zerolog.InfoLevel)
				default:
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
			}
			if cfg.Log.Format == "console" && !jsonOutput {
				log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
			}

			ctx := context.WithValue(cmd.Context(), configKey, cfg)
			cmd.SetContext(ctx)
			if root := cmd.Root(); root != nil && root != cmd {
				root.SetContext(ctx)
			}
			return nil
		},
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path")
	cmd.PersistentFlags().CountVarP(&verbosityCount, "verbosity", "v", "Increase logging verbosity (repeatable)")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging (shows service layer logs)")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON lines instead of styled output")

	config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewExtractCommand())
	cmd.AddCommand(NewMapCommand())
	cmd.AddCommand(NewGraphCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// configFromCommand returns the configuration stashed by the root command,
// falling back to the defaults when a command runs outside the root
// lifecycle (tests).
func configFromCommand(cmd *cobra.Command) config.Config {
	ctx := cmd.Context()
	if ctx == nil && cmd.Root() != nil {
		ctx = cmd.Root().Context()
	}
	if ctx != nil {
		if cfg, ok := ctx.Value(configKey).(config.Config); ok {
			return cfg
		}
	}
	return config.DefaultConfig()
}

// setupOutputPipeline builds the user-facing output pipeline: a JSON-lines
// formatter under --json, the styled human formatter otherwise, plus the
// stderr diagnostic subscriber driven by the -v count.
func setupOutputPipeline(cmd *cobra.Command) output.Output {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	verbosityCount, _ := cmd.Flags().GetCount("verbosity")

	stream := output.NewOutputEventStream()
	if jsonOutput {
		stream.Subscribe(subscribers.NewJSONFormatter(cmd.OutOrStdout()))
	} else {
		stream.Subscribe(subscribers.NewHumanFormatter(cmd.OutOrStdout(), cmd.ErrOrStderr(), colorEnabled(cmd)))
	}
	stream.Subscribe(subscribers.NewDiagnosticSubscriber(cmd.ErrOrStderr(), output.OutputLevel(verbosityCount)))

	return output.NewDefaultOutput(stream)
}

// colorEnabled reports whether styled output should be produced: never
// under --json, and only when stdout is an actual terminal.
func colorEnabled(cmd *cobra.Command) bool {
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return false
	}
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
