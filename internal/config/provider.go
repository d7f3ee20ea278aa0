package config

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alechenninger/keyinfo/internal/clock"
	"github.com/alechenninger/keyinfo/internal/credential"
	"github.com/alechenninger/keyinfo/internal/criteria"
	"github.com/alechenninger/keyinfo/internal/keyinfo"
	"github.com/alechenninger/keyinfo/internal/keystore"
	"github.com/alechenninger/keyinfo/internal/probe"
)

// Provider constructs all application components from configuration
type Provider struct {
	config    *Config
	logOutput io.Writer

	// Lazily constructed components (cached after first call)
	logger    *logrus.Logger
	observer  probe.ResolutionObserver
	keyStore  keystore.Store
	providers []keyinfo.Provider
	resolver  keyinfo.CredentialResolver
	criteria  *keyinfo.Criteria
}

// NewProvider creates a new provider from configuration. Logs go to logOutput
// (stderr if nil).
func NewProvider(config *Config, logOutput io.Writer) *Provider {
	return &Provider{
		config:    config,
		logOutput: logOutput,
	}
}

// Logger returns the configured logger
func (p *Provider) Logger() (*logrus.Logger, error) {
	if p.logger != nil {
		return p.logger, nil
	}

	logger, err := NewLogger(p.config.Observability, p.logOutput)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	p.logger = logger
	return logger, nil
}

// Observer returns the configured resolution observer
func (p *Provider) Observer() (probe.ResolutionObserver, error) {
	if p.observer != nil {
		return p.observer, nil
	}

	logger, err := p.Logger()
	if err != nil {
		return nil, err
	}

	observer, err := NewObserver(p.config.Observability, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create observer: %w", err)
	}

	p.observer = observer
	return observer, nil
}

// KeyStore returns the configured key store, or nil if none is configured
func (p *Provider) KeyStore(ctx context.Context) (keystore.Store, error) {
	if p.keyStore != nil || p.config.KeyStore == nil {
		return p.keyStore, nil
	}

	store, err := NewKeyStore(ctx, *p.config.KeyStore)
	if err != nil {
		return nil, fmt.Errorf("failed to create key store: %w", err)
	}

	p.keyStore = store
	return store, nil
}

// Providers returns the configured KeyInfo providers in invocation order
func (p *Provider) Providers(ctx context.Context) ([]keyinfo.Provider, error) {
	if p.providers != nil {
		return p.providers, nil
	}

	store, err := p.KeyStore(ctx)
	if err != nil {
		return nil, err
	}

	providers, err := NewProviders(p.config.Resolver.Providers, store)
	if err != nil {
		return nil, fmt.Errorf("failed to create providers: %w", err)
	}

	p.providers = providers
	return providers, nil
}

// Resolver returns the configured credential resolver, wrapped in a cache
// when caching is enabled
func (p *Provider) Resolver(ctx context.Context) (keyinfo.CredentialResolver, error) {
	if p.resolver != nil {
		return p.resolver, nil
	}

	providers, err := p.Providers(ctx)
	if err != nil {
		return nil, err
	}

	observer, err := p.Observer()
	if err != nil {
		return nil, err
	}

	chain, err := keyinfo.NewChainResolver(keyinfo.ChainResolverConfig{
		Providers:   providers,
		ErrorPolicy: keyinfo.ErrorPolicy(p.config.Resolver.ErrorPolicy),
		Observer:    observer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resolver: %w", err)
	}

	var resolver keyinfo.CredentialResolver = chain
	if cache := p.config.Cache; cache != nil && cache.Type != "" && cache.Type != "none" {
		if cache.Type != "lru" {
			return nil, fmt.Errorf("unknown cache type: %s (supported: lru, none)", cache.Type)
		}

		var ttl time.Duration
		if cache.TTL != "" {
			ttl, err = time.ParseDuration(cache.TTL)
			if err != nil {
				return nil, fmt.Errorf("invalid cache ttl: %w", err)
			}
		}

		resolver = keyinfo.NewCachingResolver(chain, keyinfo.CachingConfig{
			MaxEntries: cache.MaxEntries,
			TTL:        ttl,
			Clock:      clock.System{},
			Observer:   observer,
		})
	}

	p.resolver = resolver
	return resolver, nil
}

// Criteria returns the configured resolution criteria
func (p *Provider) Criteria() (*keyinfo.Criteria, error) {
	if p.criteria != nil {
		return p.criteria, nil
	}

	cfg := p.config.Criteria
	c := &keyinfo.Criteria{
		EntityID:     cfg.EntityID,
		KeyNames:     cfg.KeyNames,
		KeyAlgorithm: cfg.KeyAlgorithm,
	}

	switch credential.Usage(cfg.Usage) {
	case "":
	case credential.UsageUnspecified, credential.UsageSigning, credential.UsageEncryption:
		c.Usage = credential.Usage(cfg.Usage)
	default:
		return nil, fmt.Errorf("unknown credential usage: %s (supported: signing, encryption, unspecified)", cfg.Usage)
	}

	if cfg.Filter != "" {
		filter, err := criteria.Compile(cfg.Filter)
		if err != nil {
			return nil, fmt.Errorf("failed to create criteria filter: %w", err)
		}
		c.Filter = filter
	}

	p.criteria = c
	return c, nil
}

// Output returns the configured output format (default: yaml)
func (p *Provider) Output() string {
	if p.config.Output == "" {
		return "yaml"
	}
	return p.config.Output
}
