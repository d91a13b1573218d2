// Package mapexec is the service layer behind the CLI commands: it loads a
// scan output file, builds and categorizes the relationship graph, and
// drives the exporters and renderers.
package mapexec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/domainmap/domainmap/pkg/categorize"
	"github.com/domainmap/domainmap/pkg/export"
	"github.com/domainmap/domainmap/pkg/graph"
	"github.com/domainmap/domainmap/pkg/output"
	"github.com/domainmap/domainmap/pkg/parse"
	"github.com/domainmap/domainmap/pkg/render"
)

// Service orchestrates extract, map and graph runs.
type Service struct {
	engine  render.Engine
	rules   categorize.Ruleset
	palette map[graph.RelationKind]string
	out     output.Output
	stdout  io.Writer
	stdin   io.Reader
	color   bool
}

// NewService builds a Service with default dependencies: the graphviz
// engine, the built-in ruleset, and process stdio.
func NewService() *Service {
	return &Service{
		engine: render.NewGraphvizEngine(),
		stdout: os.Stdout,
		stdin:  os.Stdin,
	}
}

// WithEngine overrides the diagram engine (useful for tests).
func (s *Service) WithEngine(engine render.Engine) *Service {
	s.engine = engine
	return s
}

// WithRuleset overrides the categorization rules.
func (s *Service) WithRuleset(rules categorize.Ruleset) *Service {
	s.rules = rules
	return s
}

// WithPalette overrides the edge color palette.
func (s *Service) WithPalette(palette map[graph.RelationKind]string) *Service {
	s.palette = palette
	return s
}

// WithOutput attaches the user-facing output pipeline.
func (s *Service) WithOutput(out output.Output) *Service {
	s.out = out
	return s
}

// WithColor enables styled console trees. Callers keep it off when stdout
// is not a terminal.
func (s *Service) WithColor(enabled bool) *Service {
	s.color = enabled
	return s
}

// WithStdio overrides process stdio (useful for tests).
func (s *Service) WithStdio(stdin io.Reader, stdout io.Writer) *Service {
	s.stdin = stdin
	s.stdout = stdout
	return s
}

// RunExtract parses the scan output and writes the requested listing to
// stdout or the export files.
func (s *Service) RunExtract(ctx context.Context, params ExtractParams) (*Result, error) {
	runID := uuid.New().String()
	logger := log.With().Str("run_id", runID).Str("command", "extract").Logger()

	res, err := s.load(params.InputPath, params.Root)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("root", res.Root).Int("domains", res.Summary.Domains).Msg("relationship graph built")

	exporter := export.New(categorize.New(res.Root, s.rules))
	result := s.newResult(runID, res)

	if params.ExportPath == "" {
		if err := exporter.Write(s.stdout, res, params.Mode); err != nil {
			return nil, err
		}
	} else {
		if err := s.exportFile(exporter, res, params.Mode, params.ExportPath, result); err != nil {
			return nil, err
		}
	}

	if params.ExportIPs {
		path := siblingArtifact(params.ExportPath, res.Root, "ips.txt")
		if err := s.exportFile(exporter, res, export.ModeWithIPs, path, result); err != nil {
			return nil, err
		}
	}
	if params.ExportCleanPath != "" {
		if err := s.exportFile(exporter, res, export.ModeClean, params.ExportCleanPath, result); err != nil {
			return nil, err
		}
	}

	s.emitSummary(res)
	return result, nil
}

// RunMap renders the relationship graph as a diagram, an interactive HTML
// page, or a console tree. A missing graphviz installation degrades to the
// text renderer with a warning instead of failing the run.
func (s *Service) RunMap(ctx context.Context, params MapParams) (*Result, error) {
	runID := uuid.New().String()
	logger := log.With().Str("run_id", runID).Str("command", "map").Logger()

	res, err := s.load(params.InputPath, params.Root)
	if err != nil {
		return nil, err
	}
	categorize.New(res.Root, s.rules).Annotate(res)
	logger.Info().Str("root", res.Root).Str("mode", string(params.Mode)).Msg("rendering relationship map")

	opts := render.Options{
		ShowIPs:   params.ShowIPs,
		ShowOrgs:  params.ShowOrgs,
		Format:    params.Format,
		OutputDir: params.OutputDir,
		Palette:   s.palette,
	}
	result := s.newResult(runID, res)
	base := render.ArtifactBase(res.Root)

	switch params.Mode {
	case MapModeText:
		if err := render.NewTextRenderer(s.color).Render(s.stdout, res, opts); err != nil {
			return nil, err
		}

	case MapModeHTML:
		if err := s.ensureDir(params.OutputDir); err != nil {
			return nil, err
		}
		path, err := render.NewHTMLRenderer().RenderFile(res, opts, params.OutputDir, base)
		if err != nil {
			return nil, &WriteError{Path: path, Err: err}
		}
		result.Artifacts = append(result.Artifacts, path)

	case MapModeGraphviz:
		if err := s.ensureDir(params.OutputDir); err != nil {
			return nil, err
		}
		dot := render.BuildDOT(res, opts)

		dotPath := filepath.Join(params.OutputDir, base+".dot")
		if err := os.WriteFile(dotPath, []byte(dot), 0o644); err != nil {
			return nil, &WriteError{Path: dotPath, Err: err}
		}
		result.Artifacts = append(result.Artifacts, dotPath)

		artifact, err := s.engine.Render(ctx, dot, params.OutputDir, base, params.Format)
		if err != nil {
			// Keep the run useful without graphviz: warn and fall
			// back to the console tree.
			logger.Warn().Err(err).Msg("diagram engine unavailable, falling back to text output")
			s.warn(fmt.Sprintf("%s unavailable, falling back to text output", s.engine.Name()))
			result.Degraded = true
			if err := render.NewTextRenderer(s.color).Render(s.stdout, res, opts); err != nil {
				return nil, err
			}
		} else {
			result.Artifacts = append(result.Artifacts, artifact)
		}

	default:
		return nil, fmt.Errorf("unknown map mode %q", params.Mode)
	}

	s.emitSummary(res)
	return result, nil
}

// RunGraph dumps the full categorized graph as YAML or JSON.
func (s *Service) RunGraph(ctx context.Context, params GraphParams) (*Result, error) {
	runID := uuid.New().String()

	res, err := s.load(params.InputPath, params.Root)
	if err != nil {
		return nil, err
	}
	categorize.New(res.Root, s.rules).Annotate(res)

	data, err := export.Marshal(res, params.Format)
	if err != nil {
		return nil, err
	}

	result := s.newResult(runID, res)
	if params.OutputPath == "" {
		if _, err := s.stdout.Write(data); err != nil {
			return nil, err
		}
	} else {
		if err := os.WriteFile(params.OutputPath, data, 0o644); err != nil {
			return nil, &WriteError{Path: params.OutputPath, Err: err}
		}
		result.Artifacts = append(result.Artifacts, params.OutputPath)
	}
	return result, nil
}

// load parses the input and builds the annotated graph. "-" reads stdin.
func (s *Service) load(path, root string) (*graph.ScanResult, error) {
	var (
		tuples []parse.Tuple
		err    error
	)
	if path == "-" {
		tuples, err = parse.Reader(s.stdin)
	} else {
		tuples, err = parse.File(path)
	}
	if err != nil {
		// Unparseable content is malformed input; an unreadable file is
		// its own condition and keeps the OS error message.
		if errors.Is(err, parse.ErrNoRelations) {
			return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
		}
		return nil, fmt.Errorf("read scan output: %w", err)
	}

	return graph.Build(tuples, graph.BuildOptions{Root: root})
}

func (s *Service) exportFile(exporter *export.Exporter, res *graph.ScanResult, mode export.Mode, path string, result *Result) error {
	if err := exporter.WriteFile(path, res, mode); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	result.Artifacts = append(result.Artifacts, path)
	return nil
}

func (s *Service) ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &WriteError{Path: dir, Err: err}
	}
	return nil
}

func (s *Service) newResult(runID string, res *graph.ScanResult) *Result {
	return &Result{
		RunID:           runID,
		Root:            res.Root,
		Domains:         res.Summary.Domains,
		Subdomains:      res.Summary.Subdomains,
		ExternalDomains: res.Summary.ExternalDomains,
		UniqueIPs:       res.Summary.UniqueIPs,
		Relations:       res.Summary.Relations,
	}
}

func (s *Service) warn(msg string) {
	if s.out != nil {
		s.out.Warning(msg)
	}
}

func (s *Service) emitSummary(res *graph.ScanResult) {
	if s.out == nil {
		return
	}
	s.out.Summary(fmt.Sprintf("Map of %s", res.Root), []output.Stat{
		{Name: "Domains", Value: res.Summary.Domains},
		{Name: "Subdomains", Value: res.Summary.Subdomains},
		{Name: "External domains", Value: res.Summary.ExternalDomains},
		{Name: "Unique IPs", Value: res.Summary.UniqueIPs},
		{Name: "Relations", Value: res.Summary.Relations},
	})
}

// siblingArtifact derives the companion export path: next to the primary
// export when one was requested, otherwise a deterministic name in the
// working directory.
func siblingArtifact(exportPath, root, suffix string) string {
	name := render.ArtifactBase(root) + "_" + suffix
	if exportPath == "" {
		return name
	}
	return filepath.Join(filepath.Dir(exportPath), name)
}
