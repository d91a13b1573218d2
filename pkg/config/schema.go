package config

// Config is the full application configuration after all sources are merged.
type Config struct {
	Log     LogConfig      `koanf:"log"`
	Rules   []CategoryRule `koanf:"rules"`
	Palette PaletteConfig  `koanf:"palette"`
	Render  RenderConfig   `koanf:"render"`
}

// LogConfig controls zerolog behavior.
type LogConfig struct {
	// Level is the minimum level emitted (trace, debug, info, warn, error).
	Level string `koanf:"level"`

	// Format selects console or JSON log output.
	Format string `koanf:"format"`
}

// CategoryRule is one entry of the ordered categorization ruleset. Rule
// order in the slice is evaluation priority; do not reorder.
type CategoryRule struct {
	Category string   `koanf:"category"`
	Keywords []string `koanf:"keywords"`
}

// PaletteConfig maps relation kinds onto edge colors for the diagram
// renderers. Keys follow the relation-kind names of pkg/graph.
type PaletteConfig struct {
	Parent       string `koanf:"parent"`
	ResolvesIPv4 string `koanf:"resolves_ipv4"`
	ResolvesIPv6 string `koanf:"resolves_ipv6"`
	Alias        string `koanf:"alias"`
	MailExchange string `koanf:"mail_exchange"`
	NameServer   string `koanf:"name_server"`
	ManagedBy    string `koanf:"managed_by"`
}

// RenderConfig holds diagram rendering defaults.
type RenderConfig struct {
	// Engine is the external graph-layout executable (graphviz "dot").
	Engine string `koanf:"engine"`

	// Format is the default diagram output format (svg, png, pdf).
	Format string `koanf:"format"`

	// OutputDir is where diagram and page artifacts are written.
	OutputDir string `koanf:"output_dir"`
}
