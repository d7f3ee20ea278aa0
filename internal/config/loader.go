package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes environment variables read into configuration.
// Nested keys are separated by a double underscore, e.g.
// KEYINFO_RESOLVER__ERROR_POLICY=skip sets resolver.error_policy.
const EnvPrefix = "KEYINFO_"

// Loader loads configuration from a file, the environment and command-line
// flags, in increasing order of precedence
type Loader struct {
	k *koanf.Koanf
}

// NewLoader loads configuration from configPath (if not empty) and the environment
func NewLoader(configPath string) (*Loader, error) {
	return NewLoaderWithFlags(configPath, nil)
}

// NewLoaderWithFlags loads configuration like NewLoader, then applies the
// flags in flagSet that were set explicitly
func NewLoaderWithFlags(configPath string, flagSet *pflag.FlagSet) (*Loader, error) {
	k := koanf.New(".")

	if configPath != "" {
		parser, err := parserFor(configPath)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(configPath), parser); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if flagSet != nil {
		mapping := GetFlagMapping()
		provider := posflag.ProviderWithFlag(flagSet, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			configPath, ok := mapping[f.Name]
			if !ok {
				return "", nil
			}
			return configPath, posflag.FlagVal(flagSet, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	return &Loader{k: k}, nil
}

// Get unmarshals the loaded configuration
func (l *Loader) Get() (*Config, error) {
	var cfg Config
	if err := l.k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", path)
	}
}

// envKey maps KEYINFO_CACHE__MAX_ENTRIES to cache.max_entries
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}
