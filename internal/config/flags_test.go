package config

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestFlagMapping(t *testing.T) {
	mapping := GetFlagMapping()

	tests := []struct {
		flagName   string
		configPath string
	}{
		{"output", "output"},
		{"resolver-error-policy", "resolver.error_policy"},
		{"key-store-type", "key_store.type"},
		{"key-store-keys-dir", "key_store.keys_dir"},
		{"cache-max-entries", "cache.max_entries"},
		{"cache-ttl", "cache.ttl"},
		{"criteria-filter", "criteria.filter"},
		{"observability-log-level", "observability.log_level"},
		{"observability-log-format", "observability.log_format"},
		{"criteria-key-names", "criteria.key_names"},
	}

	for _, tt := range tests {
		t.Run(tt.flagName, func(t *testing.T) {
			got, ok := mapping[tt.flagName]
			if !ok {
				t.Errorf("flag %q not found in mapping", tt.flagName)
				return
			}
			if got != tt.configPath {
				t.Errorf("mapping[%q] = %q, want %q", tt.flagName, got, tt.configPath)
			}
		})
	}

	// Slices of structs are not exposed as flags
	if _, ok := mapping["resolver-providers"]; ok {
		t.Error("resolver.providers should not be a flag")
	}
	if _, ok := mapping["resolver-providers-type"]; ok {
		t.Error("resolver.providers.type should not be a flag")
	}

	if len(mapping) < 10 {
		t.Errorf("expected at least 10 flags, got %d", len(mapping))
	}
}

func TestConfigPathToFlagName(t *testing.T) {
	tests := []struct {
		configPath string
		want       string
	}{
		{"output", "output"},
		{"cache.max_entries", "cache-max-entries"},
		{"observability.log_level", "observability-log-level"},
		{"key_store.alias_prefix", "key-store-alias-prefix"},
	}

	for _, tt := range tests {
		t.Run(tt.configPath, func(t *testing.T) {
			got := configPathToFlagName(tt.configPath)
			if got != tt.want {
				t.Errorf("configPathToFlagName(%q) = %q, want %q", tt.configPath, got, tt.want)
			}
		})
	}
}

func TestRegisterFlags(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)

	RegisterFlags(flagSet)

	expectedFlags := []struct {
		name     string
		usage    string
		flagType string
	}{
		{"output", "output format: yaml, json", "string"},
		{"resolver-error-policy", "provider error policy: fail, skip", "string"},
		{"key-store-type", "key store type: memory, disk, aws_kms", "string"},
		{"cache-max-entries", "maximum cached KeyInfo resolutions", "int"},
		{"observability-type", "observer type: logging, noop", "string"},
		{"criteria-key-names", "only resolve these KeyName values (comma separated)", "stringSlice"},
	}

	for _, tt := range expectedFlags {
		t.Run(tt.name, func(t *testing.T) {
			flag := flagSet.Lookup(tt.name)
			if flag == nil {
				t.Errorf("flag %q not registered", tt.name)
				return
			}
			if flag.Usage != tt.usage {
				t.Errorf("flag %q usage = %q, want %q", tt.name, flag.Usage, tt.usage)
			}
			if flag.Value.Type() != tt.flagType {
				t.Errorf("flag %q type = %q, want %q", tt.name, flag.Value.Type(), tt.flagType)
			}
		})
	}

	// Registering twice is harmless
	RegisterFlags(flagSet)
}
