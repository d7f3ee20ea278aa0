package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingResolutionObserver(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	observer := NewLoggingResolutionObserver(logger)
	_, p := observer.ResolutionStarted(context.Background(), "ki-1")

	p.ProviderSucceeded("key_value", 2)
	p.ProviderSkipped("x509_data", errors.New("bad certificate"))
	p.ProviderFailed("der_key_value", errors.New("bad der"))
	p.CacheHit("abc")
	p.End(2)

	entries := hook.AllEntries()
	require.Len(t, entries, 6)

	assert.Equal(t, "Starting KeyInfo resolution", entries[0].Message)
	assert.Equal(t, "ki-1", entries[0].Data["key_info_id"])

	assert.Equal(t, "key_value", entries[1].Data["provider"])
	assert.Equal(t, 2, entries[1].Data["credentials"])

	assert.Equal(t, logrus.WarnLevel, entries[2].Level)
	assert.Equal(t, "bad certificate", entries[2].Data["error"])

	assert.Equal(t, logrus.ErrorLevel, entries[3].Level)
	assert.Equal(t, "der_key_value", entries[3].Data["provider"])

	assert.Equal(t, "abc", entries[4].Data["cache_key"])
	assert.Equal(t, "ki-1", entries[5].Data["key_info_id"])
}

func TestNoopResolutionObserver(t *testing.T) {
	ctx := context.Background()
	gotCtx, p := NoopResolutionObserver().ResolutionStarted(ctx, "")

	assert.Equal(t, ctx, gotCtx)
	assert.NotPanics(t, func() {
		p.ProviderSucceeded("p", 1)
		p.ProviderFailed("p", errors.New("x"))
		p.ProviderSkipped("p", errors.New("x"))
		p.CacheHit("k")
		p.End(0)
	})
}
