package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
)

// Engine lays out a graph description into an image artifact. The only
// implementation shells out to graphviz; the interface exists so the map
// service can probe availability and fall back to text rendering.
type Engine interface {
	// Name identifies the engine in logs and warnings.
	Name() string

	// Available reports whether the engine can run on this host.
	Available() bool

	// Render lays out the DOT source and writes the artifact as
	// base.<format> under dir, returning the artifact path.
	Render(ctx context.Context, dot, dir, base, format string) (string, error)
}

// GraphvizEngine renders diagrams through the external dot executable.
type GraphvizEngine struct {
	executable string
}

// NewGraphvizEngine returns an engine bound to the dot executable on PATH.
func NewGraphvizEngine() *GraphvizEngine {
	return NewGraphvizEngineFor("dot")
}

// NewGraphvizEngineFor returns an engine bound to the given layout
// executable, falling back to dot when empty.
func NewGraphvizEngineFor(executable string) *GraphvizEngine {
	if executable == "" {
		executable = "dot"
	}
	return &GraphvizEngine{executable: executable}
}

// Name returns the engine identifier.
func (g *GraphvizEngine) Name() string {
	return "graphviz"
}

// Available reports whether the dot executable is on PATH.
func (g *GraphvizEngine) Available() bool {
	_, err := exec.LookPath(g.executable)
	return err == nil
}

// Render pipes the DOT source through dot. A missing executable or a layout
// failure both surface as ErrRendererUnavailable so the caller can degrade.
func (g *GraphvizEngine) Render(ctx context.Context, dot, dir, base, format string) (string, error) {
	path, err := exec.LookPath(g.executable)
	if err != nil {
		return "", fmt.Errorf("%w: %s not found on PATH", ErrRendererUnavailable, g.executable)
	}

	artifact := filepath.Join(dir, base+"."+format)
	cmd := exec.CommandContext(ctx, path, "-T"+format, "-o", artifact)
	cmd.Stdin = bytes.NewReader([]byte(dot))

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %s failed: %v: %s", ErrRendererUnavailable, g.executable, err, stderr.String())
	}
	return artifact, nil
}
