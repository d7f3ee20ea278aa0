package keyinfo

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/alechenninger/keyinfo/internal/credential"
	"github.com/alechenninger/keyinfo/internal/probe"
	"github.com/alechenninger/keyinfo/internal/xmlsig"
)

// ErrorPolicy decides what a resolver does when a provider fails
type ErrorPolicy string

const (
	// ErrorPolicyFail aborts the resolution and returns the provider's error
	ErrorPolicyFail ErrorPolicy = "fail"

	// ErrorPolicySkip drops the failing provider's contribution and continues
	ErrorPolicySkip ErrorPolicy = "skip"
)

// Resolution is one resolved credential and the provider that produced it
type Resolution struct {
	Provider   string
	Credential credential.Credential
}

// CredentialResolver resolves credentials from a KeyInfo
type CredentialResolver interface {
	Resolve(ctx context.Context, keyInfo *xmlsig.KeyInfo, criteria *Criteria) ([]Resolution, error)
}

// Credentials returns the credentials of resolutions in order
func Credentials(resolutions []Resolution) []credential.Credential {
	creds := make([]credential.Credential, 0, len(resolutions))
	for _, r := range resolutions {
		creds = append(creds, r.Credential)
	}
	return creds
}

// Context is the credential context created by ChainResolver
type Context struct {
	id       string
	resolver Resolver

	mu      sync.RWMutex
	keyInfo *xmlsig.KeyInfo
}

// NewContext creates a context owned by resolver
func NewContext(resolver Resolver) *Context {
	return &Context{
		id:       uuid.NewString(),
		resolver: resolver,
	}
}

// ContextID implements credential.Context
func (c *Context) ContextID() string {
	return c.id
}

// KeyInfo implements CredentialContext
func (c *Context) KeyInfo() *xmlsig.KeyInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.keyInfo
}

// SetKeyInfo implements CredentialContext
func (c *Context) SetKeyInfo(keyInfo *xmlsig.KeyInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keyInfo = keyInfo
}

// Resolver implements CredentialContext
func (c *Context) Resolver() Resolver {
	return c.resolver
}

// ChainResolverConfig configures a ChainResolver
type ChainResolverConfig struct {
	// Providers are invoked in this order
	Providers []Provider

	// ErrorPolicy defaults to ErrorPolicyFail
	ErrorPolicy ErrorPolicy

	// Observer receives resolution events. Defaults to a no-op observer.
	Observer probe.ResolutionObserver
}

// ChainResolver runs an ordered list of providers against a KeyInfo and
// aggregates their credentials. It does not deduplicate.
type ChainResolver struct {
	providers []Provider
	policy    ErrorPolicy
	observer  probe.ResolutionObserver
}

// NewChainResolver creates a chain resolver
func NewChainResolver(cfg ChainResolverConfig) (*ChainResolver, error) {
	policy := cfg.ErrorPolicy
	switch policy {
	case "":
		policy = ErrorPolicyFail
	case ErrorPolicyFail, ErrorPolicySkip:
	default:
		return nil, fmt.Errorf("unknown error policy: %s", policy)
	}

	seen := make(map[string]bool, len(cfg.Providers))
	for i, p := range cfg.Providers {
		if isNil(p) {
			return nil, fmt.Errorf("provider %d is nil", i)
		}
		if seen[p.Name()] {
			return nil, fmt.Errorf("duplicate provider name: %s", p.Name())
		}
		seen[p.Name()] = true
	}

	observer := cfg.Observer
	if observer == nil {
		observer = probe.NoopResolutionObserver()
	}

	providers := make([]Provider, len(cfg.Providers))
	copy(providers, cfg.Providers)

	return &ChainResolver{
		providers: providers,
		policy:    policy,
		observer:  observer,
	}, nil
}

// NewCredentialContext implements Resolver
func (r *ChainResolver) NewCredentialContext() (CredentialContext, error) {
	return NewContext(r), nil
}

// Providers returns the names of the providers in invocation order
func (r *ChainResolver) Providers() []string {
	names := make([]string, len(r.providers))
	for i, p := range r.providers {
		names[i] = p.Name()
	}
	return names
}

// Resolve implements CredentialResolver. With ErrorPolicyFail the first
// provider error is returned and no credentials are. With ErrorPolicySkip
// failing providers are reported to the observer and left out.
func (r *ChainResolver) Resolve(ctx context.Context, keyInfo *xmlsig.KeyInfo, criteria *Criteria) ([]Resolution, error) {
	keyInfoID := ""
	if keyInfo != nil {
		keyInfoID = keyInfo.ID
	}

	ctx, p := r.observer.ResolutionStarted(ctx, keyInfoID)

	var resolutions []Resolution
	for _, provider := range r.providers {
		creds, err := provider.Resolve(ctx, r, keyInfo, criteria)
		if err != nil {
			if r.policy == ErrorPolicySkip {
				p.ProviderSkipped(provider.Name(), err)
				continue
			}
			p.ProviderFailed(provider.Name(), err)
			p.End(0)
			return nil, fmt.Errorf("provider %s: %w", provider.Name(), err)
		}

		for _, cred := range creds {
			ok, err := criteria.Matches(cred)
			if err != nil {
				p.End(0)
				return nil, err
			}
			if ok {
				resolutions = append(resolutions, Resolution{
					Provider:   provider.Name(),
					Credential: cred,
				})
			}
		}
		p.ProviderSucceeded(provider.Name(), len(creds))
	}

	p.End(len(resolutions))
	return resolutions, nil
}
