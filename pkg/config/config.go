// Package config loads and serves application configuration.
//
// Configuration precedence (highest to lowest):
//  1. Command-line flags (--log.level=debug)
//  2. Environment variables (DOMAINMAP_LOG_LEVEL=debug)
//  3. Config file (YAML)
//  4. Default values
//
// Environment variables use the DOMAINMAP_ prefix and underscore-to-dot
// mapping: DOMAINMAP_LOG_LEVEL -> log.level, DOMAINMAP_RENDER_FORMAT ->
// render.format.
package config

import (
	"fmt"
	"sync"

	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/domainmap/domainmap/pkg/categorize"
	"github.com/domainmap/domainmap/pkg/graph"
)

// Global koanf instance, initialized once at startup.
var (
	k    *koanf.Koanf
	once sync.Once
)

// InitGlobalConfig initializes the global koanf instance. Called early in
// the application lifecycle, before Load.
func InitGlobalConfig() {
	once.Do(func() {
		k = koanf.New(".")
	})
}

// Manager handles loading and accessing application configuration.
type Manager struct {
	koanfInstance *koanf.Koanf
	currentConfig Config
	mu            sync.RWMutex
}

// NewManager creates a Manager bound to the global koanf instance,
// initializing it if needed.
func NewManager() *Manager {
	InitGlobalConfig()
	return &Manager{koanfInstance: k}
}

// DefaultConfig returns the hardcoded baseline configuration: the built-in
// categorization keyword tables, the relation-kind color palette and the
// rendering defaults.
func DefaultConfig() Config {
	rules := make([]CategoryRule, 0, len(categorize.DefaultRuleset()))
	for _, r := range categorize.DefaultRuleset() {
		rules = append(rules, CategoryRule{Category: string(r.Category), Keywords: r.Keywords})
	}
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Rules: rules,
		Palette: PaletteConfig{
			Parent:       "#2196f3",
			ResolvesIPv4: "#4caf50",
			ResolvesIPv6: "#8bc34a",
			Alias:        "#ff9800",
			MailExchange: "#f44336",
			NameServer:   "#9c27b0",
			ManagedBy:    "#607d8b",
		},
		Render: RenderConfig{
			Engine:    "dot",
			Format:    "svg",
			OutputDir: ".",
		},
	}
}

// Load merges configuration from defaults, the optional YAML file, the
// environment and the flag set, then unmarshals the result.
func (m *Manager) Load(flags *pflag.FlagSet, customConfigFilePath string) error {
	return m.LoadWithSources(DefaultSources(customConfigFilePath, flags))
}

// LoadWithSources loads the provided sources in order; later sources
// override earlier values.
func (m *Manager) LoadWithSources(sources []ConfigSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, src := range sources {
		if err := src.Load(m.koanfInstance); err != nil {
			return fmt.Errorf("error loading config from %s: %w", src.Name(), err)
		}
	}

	var newCfg Config
	if err := m.koanfInstance.UnmarshalWithConf("", &newCfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("error unmarshaling final config: %w", err)
	}
	m.currentConfig = newCfg
	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentConfig
}

// Ruleset converts the configured category rules into the categorizer's
// immutable ruleset, preserving order.
func (c Config) Ruleset() categorize.Ruleset {
	rules := make(categorize.Ruleset, 0, len(c.Rules))
	for _, r := range c.Rules {
		rules = append(rules, categorize.Rule{
			Category: categorize.Category(r.Category),
			Keywords: r.Keywords,
		})
	}
	return rules
}

// EdgePalette maps relation kinds onto the configured edge colors.
func (c Config) EdgePalette() map[graph.RelationKind]string {
	return map[graph.RelationKind]string{
		graph.RelationParent:       c.Palette.Parent,
		graph.RelationResolvesIPv4: c.Palette.ResolvesIPv4,
		graph.RelationResolvesIPv6: c.Palette.ResolvesIPv6,
		graph.RelationAlias:        c.Palette.Alias,
		graph.RelationMailExchange: c.Palette.MailExchange,
		graph.RelationNameServer:   c.Palette.NameServer,
		graph.RelationManagedBy:    c.Palette.ManagedBy,
	}
}

// BindFlags registers config-overridable flags on the given flag set.
func BindFlags(flags *pflag.FlagSet) {
	flags.String("log.level", "", "Log level (trace|debug|info|warn|error)")
	flags.String("log.format", "", "Log format (console|json)")
	flags.String("render.engine", "", "Graph layout executable")
	flags.String("render.format", "", "Default diagram format (svg|png|pdf)")
}
