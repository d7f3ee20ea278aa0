package keyinfo

import (
	"context"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"

	"github.com/alechenninger/keyinfo/internal/clock"
	"github.com/alechenninger/keyinfo/internal/credential"
	"github.com/alechenninger/keyinfo/internal/probe"
	"github.com/alechenninger/keyinfo/internal/xmlobject"
	"github.com/alechenninger/keyinfo/internal/xmlsig"
)

// CachingConfig configures a CachingResolver
type CachingConfig struct {
	// MaxEntries bounds the cache. Default: 1024
	MaxEntries int

	// TTL is how long results stay valid. Zero caches until evicted.
	TTL time.Duration

	// Clock defaults to the system clock
	Clock clock.Clock

	// Observer receives cache hits. Defaults to a no-op observer.
	Observer probe.ResolutionObserver
}

// CachingResolver memoizes the results of another resolver per KeyInfo
// content and criteria. Only KeyInfo unmarshalled from a document (with a
// DOM) is cached, and errors are never cached. Every call gets its own
// credentials: cached credentials are cloned and those linked to a
// credential context are relinked to the KeyInfo of the call.
type CachingResolver struct {
	next     CredentialResolver
	ttl      time.Duration
	clock    clock.Clock
	observer probe.ResolutionObserver

	mu    sync.Mutex
	cache *lru.Cache
}

type cacheEntry struct {
	resolutions []Resolution
	expiresAt   time.Time
}

// NewCachingResolver wraps next with an LRU cache
func NewCachingResolver(next CredentialResolver, cfg CachingConfig) *CachingResolver {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 1024
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.System{}
	}
	if cfg.Observer == nil {
		cfg.Observer = probe.NoopResolutionObserver()
	}

	return &CachingResolver{
		next:     next,
		ttl:      cfg.TTL,
		clock:    cfg.Clock,
		observer: cfg.Observer,
		cache:    lru.New(cfg.MaxEntries),
	}
}

// Resolve implements CredentialResolver
func (c *CachingResolver) Resolve(ctx context.Context, keyInfo *xmlsig.KeyInfo, criteria *Criteria) ([]Resolution, error) {
	key, ok := cacheKey(keyInfo, criteria)
	if !ok {
		return c.next.Resolve(ctx, keyInfo, criteria)
	}

	if cached, ok := c.get(key); ok {
		resolutions, err := c.rebind(cached, keyInfo)
		if err != nil {
			return nil, err
		}
		_, p := c.observer.ResolutionStarted(ctx, keyInfo.ID)
		p.CacheHit(key)
		p.End(len(resolutions))
		return resolutions, nil
	}

	resolutions, err := c.next.Resolve(ctx, keyInfo, criteria)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache.Add(key, &cacheEntry{
		resolutions: cloneResolutions(resolutions),
		expiresAt:   clock.Deadline(c.clock, c.ttl),
	})
	c.mu.Unlock()

	return resolutions, nil
}

// Len returns the number of cached entries, including expired ones not yet evicted
func (c *CachingResolver) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}

// Purge drops every cached entry
func (c *CachingResolver) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Clear()
}

func (c *CachingResolver) get(key string) ([]Resolution, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}

	entry := v.(*cacheEntry)
	if clock.Expired(c.clock, entry.expiresAt) {
		c.cache.Remove(key)
		return nil, false
	}

	return entry.resolutions, true
}

// NewCredentialContext implements Resolver, delegating to the wrapped
// resolver when it creates contexts itself
func (c *CachingResolver) NewCredentialContext() (CredentialContext, error) {
	if r, ok := c.next.(Resolver); ok && !isNil(r) {
		return r.NewCredentialContext()
	}
	return NewContext(c), nil
}

// rebind clones cached resolutions for a call resolving keyInfo
func (c *CachingResolver) rebind(cached []Resolution, keyInfo *xmlsig.KeyInfo) ([]Resolution, error) {
	out := cloneResolutions(cached)
	for i := range out {
		b, ok := out[i].Credential.(*credential.Basic)
		if !ok || b == nil {
			continue
		}
		if _, ok := b.Context.(CredentialContext); !ok {
			continue
		}
		kiContext, err := BuildContext(keyInfo, c)
		if err != nil {
			return nil, err
		}
		b.Context = kiContext
	}
	return out, nil
}

func cacheKey(keyInfo *xmlsig.KeyInfo, criteria *Criteria) (string, bool) {
	if keyInfo == nil || keyInfo.DOM() == nil {
		return "", false
	}
	criteriaKey, ok := criteria.cacheKey()
	if !ok {
		return "", false
	}
	return xmlobject.Digest(keyInfo.DOM()) + "|" + criteriaKey, true
}

// cloneResolutions copies resolutions and clones their basic credentials
func cloneResolutions(in []Resolution) []Resolution {
	if in == nil {
		return nil
	}
	out := make([]Resolution, len(in))
	for i, r := range in {
		if b, ok := r.Credential.(*credential.Basic); ok && b != nil {
			r.Credential = b.Clone()
		}
		out[i] = r
	}
	return out
}
