package config

import (
	"os"
	"strings"

	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ConfigSource is one layer of the configuration merge chain.
type ConfigSource interface {
	// Name identifies the source in error messages.
	Name() string

	// Load merges this source's values into the koanf instance.
	Load(k *koanf.Koanf) error
}

// DefaultSources returns the standard source chain in merge order:
// defaults, optional YAML file, environment, flags.
func DefaultSources(configFilePath string, flags *pflag.FlagSet) []ConfigSource {
	sources := []ConfigSource{
		defaultsSource{},
		fileSource{path: configFilePath},
		envSource{},
	}
	if flags != nil {
		sources = append(sources, flagSource{flags: flags})
	}
	return sources
}

type defaultsSource struct{}

func (defaultsSource) Name() string { return "defaults" }

func (defaultsSource) Load(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DefaultConfig(), "koanf"), nil)
}

type fileSource struct {
	path string
}

func (s fileSource) Name() string { return "file " + s.path }

func (s fileSource) Load(k *koanf.Koanf) error {
	if s.path == "" {
		return nil
	}
	if _, err := os.Stat(s.path); err != nil {
		// An explicitly named config file must exist.
		return err
	}
	return k.Load(file.Provider(s.path), koanfyaml.Parser())
}

type envSource struct{}

func (envSource) Name() string { return "environment" }

func (envSource) Load(k *koanf.Koanf) error {
	return k.Load(env.Provider("DOMAINMAP_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "DOMAINMAP_")), "_", ".")
	}), nil)
}

type flagSource struct {
	flags *pflag.FlagSet
}

func (flagSource) Name() string { return "flags" }

func (s flagSource) Load(k *koanf.Koanf) error {
	return k.Load(posflag.Provider(s.flags, ".", k), nil)
}
