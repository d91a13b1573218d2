package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domainmap/domainmap/pkg/categorize"
	"github.com/domainmap/domainmap/pkg/graph"
)

// Helper to reset global state between tests.
func resetGlobalConfig() {
	k = nil
	once = sync.Once{}
}

func TestInitGlobalConfig_IsIdempotent(t *testing.T) {
	resetGlobalConfig()
	InitGlobalConfig()
	first := k
	InitGlobalConfig()
	assert.Equal(t, first, k, "koanf instance should not change on repeated InitGlobalConfig calls")
}

func TestDefaultConfig_CarriesKeywordTablesAndPalette(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.NotEmpty(t, cfg.Rules, "default keyword tables must be present")
	assert.Equal(t, string(categorize.CategoryMail), cfg.Rules[0].Category, "rule order is evaluation priority")
	assert.Equal(t, "dot", cfg.Render.Engine)
	assert.Equal(t, "svg", cfg.Render.Format)
}

func TestManager_Load_Defaults(t *testing.T) {
	resetGlobalConfig()
	m := NewManager()
	require.NoError(t, m.Load(nil, ""))

	cfg := m.Get()
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Len(t, cfg.Rules, len(categorize.DefaultRuleset()))
}

func TestManager_Load_FileOverridesDefaults(t *testing.T) {
	resetGlobalConfig()
	path := filepath.Join(t.TempDir(), "domainmap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\nrender:\n  format: png\n"), 0o644))

	m := NewManager()
	require.NoError(t, m.Load(nil, path))

	cfg := m.Get()
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "png", cfg.Render.Format)
	assert.Equal(t, "dot", cfg.Render.Engine, "untouched keys keep defaults")
}

func TestManager_Load_MissingExplicitFileFails(t *testing.T) {
	resetGlobalConfig()
	m := NewManager()
	assert.Error(t, m.Load(nil, filepath.Join(t.TempDir(), "nope.yaml")))
}

func TestManager_Load_FlagsOverrideFile(t *testing.T) {
	resetGlobalConfig()
	path := filepath.Join(t.TempDir(), "domainmap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(flags)
	require.NoError(t, flags.Set("log.level", "error"))

	m := NewManager()
	require.NoError(t, m.Load(flags, path))
	assert.Equal(t, "error", m.Get().Log.Level)
}

func TestManager_Load_CustomRulesReplaceTables(t *testing.T) {
	resetGlobalConfig()
	path := filepath.Join(t.TempDir(), "domainmap.yaml")
	yaml := `rules:
  - category: Infrastructure
    keywords: [zz]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	m := NewManager()
	require.NoError(t, m.Load(nil, path))

	rules := m.Get().Ruleset()
	require.Len(t, rules, 1)
	assert.Equal(t, categorize.CategoryInfra, rules[0].Category)
	assert.Equal(t, []string{"zz"}, rules[0].Keywords)
}

func TestConfig_EdgePaletteCoversEveryRelationKind(t *testing.T) {
	palette := DefaultConfig().EdgePalette()
	for _, kind := range graph.RelationKinds {
		assert.NotEmpty(t, palette[kind], "relation kind %s has no color", kind)
	}
}
