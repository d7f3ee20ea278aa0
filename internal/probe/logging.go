package probe

import (
	"context"

	"github.com/sirupsen/logrus"
)

// loggingObserver creates request-scoped logging probes
type loggingObserver struct {
	logger logrus.FieldLogger
}

// NewLoggingResolutionObserver creates an observer that logs resolution
// events using structured logging with logrus.
func NewLoggingResolutionObserver(logger logrus.FieldLogger) ResolutionObserver {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &loggingObserver{
		logger: logger,
	}
}

func (o *loggingObserver) ResolutionStarted(ctx context.Context, keyInfoID string) (context.Context, ResolutionProbe) {
	entry := o.logger.WithField("key_info_id", keyInfoID)
	entry.Debug("Starting KeyInfo resolution")

	return ctx, &loggingProbe{
		entry: entry,
	}
}

// loggingProbe logs events for a single resolution
type loggingProbe struct {
	entry *logrus.Entry
}

func (p *loggingProbe) ProviderSucceeded(provider string, count int) {
	p.entry.WithFields(logrus.Fields{
		"provider":    provider,
		"credentials": count,
	}).Debug("Provider completed")
}

func (p *loggingProbe) ProviderFailed(provider string, err error) {
	p.entry.WithFields(logrus.Fields{
		"provider": provider,
		"error":    err.Error(),
	}).Error("Provider failed to decode KeyInfo content")
}

func (p *loggingProbe) ProviderSkipped(provider string, err error) {
	p.entry.WithFields(logrus.Fields{
		"provider": provider,
		"error":    err.Error(),
	}).Warn("Skipping provider after decode failure")
}

func (p *loggingProbe) CacheHit(key string) {
	p.entry.WithField("cache_key", key).Debug("Serving credentials from cache")
}

func (p *loggingProbe) End(count int) {
	p.entry.WithField("credentials", count).Debug("KeyInfo resolution completed")
}
