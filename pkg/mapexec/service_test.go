package mapexec

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domainmap/domainmap/pkg/export"
	"github.com/domainmap/domainmap/pkg/graph"
	"github.com/domainmap/domainmap/pkg/output"
	"github.com/domainmap/domainmap/pkg/parse"
	"github.com/domainmap/domainmap/pkg/render"
)

const threeDomainScan = `example.com (FQDN) --> a_record --> 93.184.216.34 (IPAddress)
www.example.com (FQDN) --> a_record --> 93.184.216.34 (IPAddress)
mail.example.com (FQDN) --> mx_record --> 93.184.216.34 (IPAddress)
`

type stubEngine struct {
	fail     bool
	lastDOT  string
	rendered int
}

func (e *stubEngine) Name() string    { return "stub" }
func (e *stubEngine) Available() bool { return !e.fail }

func (e *stubEngine) Render(_ context.Context, dot, dir, base, format string) (string, error) {
	if e.fail {
		return "", render.ErrRendererUnavailable
	}
	e.lastDOT = dot
	e.rendered++
	path := filepath.Join(dir, base+"."+format)
	if err := os.WriteFile(path, []byte("artifact"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

type recordingOutput struct {
	warnings []string
	titles   []string
	stats    [][]output.Stat
}

func (r *recordingOutput) Info(string)                                     {}
func (r *recordingOutput) Error(error)                                     {}
func (r *recordingOutput) Warning(msg string)                              { r.warnings = append(r.warnings, msg) }
func (r *recordingOutput) Table([]string, [][]string)                      {}
func (r *recordingOutput) Diag(output.OutputLevel, string, map[string]any) {}

func (r *recordingOutput) Summary(title string, stats []output.Stat) {
	r.titles = append(r.titles, title)
	r.stats = append(r.stats, stats)
}

func writeScanFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scan.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestService(stdout *bytes.Buffer) *Service {
	return NewService().WithStdio(strings.NewReader(""), stdout)
}

func TestRunExtract_WritesListingToStdout(t *testing.T) {
	var stdout bytes.Buffer
	svc := newTestService(&stdout)

	res, err := svc.RunExtract(context.Background(), ExtractParams{
		InputPath: writeScanFile(t, threeDomainScan),
		Mode:      export.ModeClean,
	})
	require.NoError(t, err)

	assert.Equal(t, "example.com\nmail.example.com\nwww.example.com\n", stdout.String())
	assert.Equal(t, "example.com", res.Root)
	assert.Equal(t, 3, res.Domains)
	assert.NotEmpty(t, res.RunID)
	assert.Empty(t, res.Artifacts)
}

func TestRunExtract_ReadsStdin(t *testing.T) {
	var stdout bytes.Buffer
	svc := NewService().WithStdio(strings.NewReader(threeDomainScan), &stdout)

	res, err := svc.RunExtract(context.Background(), ExtractParams{InputPath: "-", Mode: export.ModeClean})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Domains)
	assert.Contains(t, stdout.String(), "www.example.com\n")
}

func TestRunExtract_ExportWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	exportPath := filepath.Join(dir, "domains.txt")
	var stdout bytes.Buffer
	svc := newTestService(&stdout)

	res, err := svc.RunExtract(context.Background(), ExtractParams{
		InputPath:       writeScanFile(t, threeDomainScan),
		Mode:            export.ModeCategorized,
		ExportPath:      exportPath,
		ExportIPs:       true,
		ExportCleanPath: filepath.Join(dir, "clean.txt"),
	})
	require.NoError(t, err)

	assert.Empty(t, stdout.String(), "export runs write files, not stdout")
	assert.Equal(t, []string{
		exportPath,
		filepath.Join(dir, "domain_map_example_com_ips.txt"),
		filepath.Join(dir, "clean.txt"),
	}, res.Artifacts)
	for _, artifact := range res.Artifacts {
		assert.FileExists(t, artifact)
	}
}

func TestRunExtract_MissingInputKeepsOSError(t *testing.T) {
	svc := newTestService(&bytes.Buffer{})
	_, err := svc.RunExtract(context.Background(), ExtractParams{
		InputPath: filepath.Join(t.TempDir(), "nope.txt"),
		Mode:      export.ModeClean,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist, "the failure line must name the actual condition")
	assert.NotErrorIs(t, err, ErrMalformedInput)
	assert.Equal(t, 1, ErrorCode(err))
}

func TestRunExtract_NoRelationsMapsToMalformedInputCode(t *testing.T) {
	svc := newTestService(&bytes.Buffer{})
	_, err := svc.RunExtract(context.Background(), ExtractParams{
		InputPath: writeScanFile(t, "# only a comment\n"),
		Mode:      export.ModeClean,
	})
	assert.ErrorIs(t, err, ErrMalformedInput)
	assert.ErrorIs(t, err, parse.ErrNoRelations)
	assert.Equal(t, 2, ErrorCode(err))
}

func TestRunMap_TextModeWritesTree(t *testing.T) {
	var stdout bytes.Buffer
	svc := newTestService(&stdout)

	res, err := svc.RunMap(context.Background(), MapParams{
		InputPath: writeScanFile(t, threeDomainScan),
		Mode:      MapModeText,
		ShowIPs:   true,
	})
	require.NoError(t, err)
	assert.False(t, res.Degraded)
	assert.Contains(t, stdout.String(), "MAP OF example.com")
	assert.Contains(t, stdout.String(), "93.184.216.34")
}

func TestRunMap_TextModeHonorsColorSetting(t *testing.T) {
	var stdout bytes.Buffer
	svc := newTestService(&stdout).WithColor(true)

	_, err := svc.RunMap(context.Background(), MapParams{
		InputPath: writeScanFile(t, threeDomainScan),
		Mode:      MapModeText,
		ShowIPs:   true,
	})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "MAP OF example.com", "the styled tree keeps its content")
}

func TestRunMap_GraphvizWritesDotAndArtifact(t *testing.T) {
	dir := t.TempDir()
	engine := &stubEngine{}
	svc := newTestService(&bytes.Buffer{}).WithEngine(engine)

	res, err := svc.RunMap(context.Background(), MapParams{
		InputPath: writeScanFile(t, threeDomainScan),
		Mode:      MapModeGraphviz,
		Format:    "svg",
		OutputDir: dir,
		ShowIPs:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, engine.rendered)
	assert.Contains(t, engine.lastDOT, "digraph domainmap")
	assert.Equal(t, []string{
		filepath.Join(dir, "domain_map_example_com.dot"),
		filepath.Join(dir, "domain_map_example_com.svg"),
	}, res.Artifacts)
	assert.FileExists(t, res.Artifacts[0])
}

func TestRunMap_GraphvizDegradesToTextWithWarning(t *testing.T) {
	var stdout bytes.Buffer
	out := &recordingOutput{}
	svc := newTestService(&stdout).WithEngine(&stubEngine{fail: true}).WithOutput(out)

	res, err := svc.RunMap(context.Background(), MapParams{
		InputPath: writeScanFile(t, threeDomainScan),
		Mode:      MapModeGraphviz,
		Format:    "svg",
		OutputDir: t.TempDir(),
		ShowIPs:   true,
	})
	require.NoError(t, err, "a missing layout tool must not fail the run")

	assert.True(t, res.Degraded)
	assert.Contains(t, stdout.String(), "MAP OF example.com")
	require.Len(t, out.warnings, 1)
	assert.Contains(t, out.warnings[0], "falling back to text output")
}

func TestRunMap_HTMLWritesPage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "maps")
	svc := newTestService(&bytes.Buffer{})

	res, err := svc.RunMap(context.Background(), MapParams{
		InputPath: writeScanFile(t, threeDomainScan),
		Mode:      MapModeHTML,
		OutputDir: dir,
		ShowIPs:   true,
	})
	require.NoError(t, err)

	require.Len(t, res.Artifacts, 1)
	assert.Equal(t, filepath.Join(dir, "domain_map_example_com.html"), res.Artifacts[0])
	assert.FileExists(t, res.Artifacts[0])
}

func TestRunMap_UnknownModeFails(t *testing.T) {
	svc := newTestService(&bytes.Buffer{})
	_, err := svc.RunMap(context.Background(), MapParams{
		InputPath: writeScanFile(t, threeDomainScan),
		Mode:      MapMode("ascii-art"),
	})
	assert.Error(t, err)
	assert.Equal(t, 1, ErrorCode(err))
}

func TestRunMap_EmitsSummary(t *testing.T) {
	out := &recordingOutput{}
	svc := newTestService(&bytes.Buffer{}).WithOutput(out)

	_, err := svc.RunMap(context.Background(), MapParams{
		InputPath: writeScanFile(t, threeDomainScan),
		Mode:      MapModeText,
		ShowIPs:   true,
	})
	require.NoError(t, err)

	require.Len(t, out.titles, 1)
	assert.Equal(t, "Map of example.com", out.titles[0])
	assert.Contains(t, out.stats[0], output.Stat{Name: "Subdomains", Value: 2})
}

func TestRunGraph_WritesYAMLToStdout(t *testing.T) {
	var stdout bytes.Buffer
	svc := newTestService(&stdout)

	res, err := svc.RunGraph(context.Background(), GraphParams{
		InputPath: writeScanFile(t, threeDomainScan),
		Format:    "yaml",
	})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "root: example.com")
	assert.Contains(t, stdout.String(), "category: Primary Domain")
	assert.Empty(t, res.Artifacts)
}

func TestRunGraph_WritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	svc := newTestService(&bytes.Buffer{})

	res, err := svc.RunGraph(context.Background(), GraphParams{
		InputPath:  writeScanFile(t, threeDomainScan),
		Format:     "json",
		OutputPath: path,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, res.Artifacts)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"root": "example.com"`)
}

func TestRunGraph_UnknownFormatFails(t *testing.T) {
	svc := newTestService(&bytes.Buffer{})
	_, err := svc.RunGraph(context.Background(), GraphParams{
		InputPath: writeScanFile(t, threeDomainScan),
		Format:    "toml",
	})
	assert.ErrorIs(t, err, export.ErrUnsupportedFormat)
}

func TestErrorCode_CoversTheTaxonomy(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"generic", errors.New("boom"), 1},
		{"malformed input", ErrMalformedInput, 2},
		{"no relations", parse.ErrNoRelations, 2},
		{"empty graph", graph.ErrEmptyGraph, 3},
		{"write failure", &WriteError{Path: "x", Err: errors.New("disk full")}, 4},
		{"renderer unavailable", render.ErrRendererUnavailable, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}
