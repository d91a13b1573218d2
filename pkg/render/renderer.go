// Package render turns a scan result into visual artifacts: a console tree,
// a graphviz diagram, or a self-contained interactive HTML page.
//
// The graphviz path only builds the textual graph description; rasterization
// is delegated to an external layout tool behind the Engine interface, so
// the core graph logic carries no rendering dependency.
package render

import (
	"errors"
	"regexp"
	"strings"

	"github.com/domainmap/domainmap/pkg/graph"
)

// ErrRendererUnavailable is returned when the external diagram dependency is
// missing or failed. Callers degrade to text mode on this condition.
var ErrRendererUnavailable = errors.New("diagram renderer unavailable")

// Options controls diagram content and destination.
type Options struct {
	// ShowIPs includes resolved address nodes (default true, disabled by
	// --no-ips).
	ShowIPs bool

	// ShowOrgs includes registry organization nodes.
	ShowOrgs bool

	// Format is the diagram output format (svg, png, pdf).
	Format string

	// OutputDir is the directory artifacts are written to.
	OutputDir string

	// Palette maps relation kinds onto edge colors.
	Palette map[graph.RelationKind]string
}

// ArtifactBase returns the deterministic artifact file name (without
// extension) for a scan root: "domain_map_example_com" for "example.com".
func ArtifactBase(root string) string {
	return "domain_map_" + strings.ReplaceAll(root, ".", "_")
}

var unsafeNodeChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// nodeID derives an identifier safe for graphviz and vis-network from a
// node name.
func nodeID(name string) string {
	id := unsafeNodeChars.ReplaceAllString(name, "_")
	if id == "" || (id[0] >= '0' && id[0] <= '9') {
		id = "n_" + id
	}
	return id
}

// shorten trims a label to max characters with a trailing ellipsis.
func shorten(label string, max int) string {
	if len(label) <= max {
		return label
	}
	return label[:max-3] + "..."
}
