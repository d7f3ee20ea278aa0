package config

// Config is the root configuration structure for keyinfo
type Config struct {
	// Resolver configures the provider chain
	Resolver ResolverConfig `koanf:"resolver"`

	// KeyStore backs the key-name provider. Without one, key names are not resolved.
	KeyStore *KeyStoreConfig `koanf:"key_store"`

	// Cache configures result caching
	Cache *CacheConfig `koanf:"cache"`

	// Criteria applied to every resolution
	Criteria CriteriaConfig `koanf:"criteria"`

	// Observability configuration (logging)
	Observability *ObservabilityConfig `koanf:"observability"`

	// Output is the CLI output format
	Output string `koanf:"output" usage:"output format: yaml, json"`
}

// ResolverConfig configures the chain resolver
type ResolverConfig struct {
	// Providers in invocation order. Empty selects the default set.
	Providers []ProviderConfig `koanf:"providers"`

	// ErrorPolicy decides what happens when a provider fails to decode content
	// Options: "fail" (default), "skip"
	ErrorPolicy string `koanf:"error_policy" usage:"provider error policy: fail, skip"`
}

// ProviderConfig selects a provider
type ProviderConfig struct {
	// Type selects the provider implementation
	// Options: "key-value", "der-key-value", "inline-x509", "key-name", "jwk"
	Type string `koanf:"type"`
}

// KeyStoreConfig configures the key store used by the key-name provider
type KeyStoreConfig struct {
	// Type selects the key store implementation
	// Options: "memory", "disk", "aws_kms"
	Type string `koanf:"type" usage:"key store type: memory, disk, aws_kms"`

	// Disk fields
	KeysDir string `koanf:"keys_dir" usage:"directory of <name>.pem key files (disk key store)"`

	// AWS KMS fields
	Region      string `koanf:"region" usage:"AWS region (aws_kms key store)"`
	AliasPrefix string `koanf:"alias_prefix" usage:"KMS alias prefix, e.g. alias/keyinfo/ (aws_kms key store)"`
}

// CacheConfig configures the caching resolver
type CacheConfig struct {
	// Type selects the caching implementation
	// Options: "lru", "none"
	Type string `koanf:"type" usage:"cache type: lru, none"`

	// MaxEntries bounds the cache (default: 1024)
	MaxEntries int `koanf:"max_entries" usage:"maximum cached KeyInfo resolutions"`

	// TTL is the cache time-to-live
	TTL string `koanf:"ttl" usage:"cache time-to-live, e.g. 5m"` // Duration string like "5m"
}

// CriteriaConfig narrows resolutions
type CriteriaConfig struct {
	EntityID     string   `koanf:"entity_id" usage:"entity ID recorded on resolved credentials"`
	KeyNames     []string `koanf:"key_names" usage:"only resolve these KeyName values (comma separated)"`
	Usage        string   `koanf:"usage" usage:"credential usage: signing, encryption, unspecified"`
	KeyAlgorithm string   `koanf:"key_algorithm" usage:"only keep credentials with this key algorithm, e.g. RSA"`

	// Filter is a CEL expression evaluated against each credential
	Filter string `koanf:"filter" usage:"CEL expression each credential must satisfy"`
}

// ObservabilityConfig configures application observability
type ObservabilityConfig struct {
	// Type selects the observer implementation
	// Options: "logging", "noop"
	Type string `koanf:"type" usage:"observer type: logging, noop"`

	// LogLevel sets the log level for the logging observer
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `koanf:"log_level" usage:"log level: debug, info, warn, error"`

	// LogFormat sets the log format
	// Options: "json", "text"
	// Default: "text"
	LogFormat string `koanf:"log_format" usage:"log format: json, text"`
}
