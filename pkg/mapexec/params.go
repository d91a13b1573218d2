package mapexec

import "github.com/domainmap/domainmap/pkg/export"

// ExtractParams defines the input for one extract run.
type ExtractParams struct {
	// InputPath is the scan output file. "-" reads stdin.
	InputPath string

	// Root overrides root inference when non-empty.
	Root string

	// Mode is the listing format written to stdout.
	Mode export.Mode

	// ExportPath, when non-empty, writes the listing to a file instead of
	// stdout.
	ExportPath string

	// ExportIPs additionally writes the with-ips listing next to
	// ExportPath.
	ExportIPs bool

	// ExportCleanPath, when non-empty, additionally writes the clean
	// listing to the given file.
	ExportCleanPath string
}

// MapMode selects the rendering backend for a map run.
type MapMode string

const (
	MapModeGraphviz MapMode = "graphviz"
	MapModeHTML     MapMode = "html"
	MapModeText     MapMode = "text"
)

// MapParams defines the input for one map run.
type MapParams struct {
	InputPath string
	Root      string

	// Mode selects the renderer. Graphviz degrades to text when the
	// layout tool is missing.
	Mode MapMode

	// Format is the graphviz artifact format (svg, png, pdf).
	Format string

	// OutputDir receives diagram artifacts.
	OutputDir string

	// ShowIPs includes resolved address nodes.
	ShowIPs bool

	// ShowOrgs includes registry organization nodes.
	ShowOrgs bool
}

// GraphParams defines the input for one graph dump run.
type GraphParams struct {
	InputPath string
	Root      string

	// Format is "yaml" or "json".
	Format string

	// OutputPath, when non-empty, writes the dump to a file instead of
	// stdout.
	OutputPath string
}

// Result is the structured outcome of a run.
type Result struct {
	// RunID uniquely identifies this invocation in logs.
	RunID string

	// Root is the effective root domain (explicit or inferred).
	Root string

	// Domains, Subdomains, ExternalDomains, UniqueIPs and Relations echo
	// the graph summary counters.
	Domains         int
	Subdomains      int
	ExternalDomains int
	UniqueIPs       int
	Relations       int

	// Artifacts lists every file written during the run.
	Artifacts []string

	// Degraded reports that the requested renderer was unavailable and
	// the run fell back to text output.
	Degraded bool
}
