package probe

import (
	"context"
)

// ResolutionObserver creates request-scoped probes for KeyInfo resolution
type ResolutionObserver interface {
	// ResolutionStarted is called once per KeyInfo resolution.
	// keyInfoID is the KeyInfo Id attribute, possibly empty.
	ResolutionStarted(ctx context.Context, keyInfoID string) (context.Context, ResolutionProbe)
}

// ResolutionProbe receives the events of a single resolution
type ResolutionProbe interface {
	// ProviderSucceeded is called after a provider returned, with the number
	// of credentials it produced (zero when it recognized nothing)
	ProviderSucceeded(provider string, count int)

	// ProviderFailed is called when a provider error aborts the resolution
	ProviderFailed(provider string, err error)

	// ProviderSkipped is called when a provider error is tolerated and the
	// provider's contribution is dropped
	ProviderSkipped(provider string, err error)

	// CacheHit is called when results were served from a cache
	CacheHit(key string)

	// End is called when the resolution completes, with the total number of
	// credentials returned
	End(count int)
}

type noopObserver struct{}

type noopProbe struct{}

// NoopResolutionObserver returns an observer that discards all events
func NoopResolutionObserver() ResolutionObserver {
	return noopObserver{}
}

func (noopObserver) ResolutionStarted(ctx context.Context, _ string) (context.Context, ResolutionProbe) {
	return ctx, noopProbe{}
}

func (noopProbe) ProviderSucceeded(string, int) {}
func (noopProbe) ProviderFailed(string, error)  {}
func (noopProbe) ProviderSkipped(string, error) {}
func (noopProbe) CacheHit(string)               {}
func (noopProbe) End(int)                       {}
