package config

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/alechenninger/keyinfo/internal/probe"
)

// NewLogger creates a logger writing to out. A nil config logs at info level as text.
func NewLogger(cfg *ObservabilityConfig, out io.Writer) (*logrus.Logger, error) {
	if out == nil {
		out = os.Stderr
	}

	logger := logrus.New()
	logger.SetOutput(out)

	level, format := "info", "text"
	if cfg != nil {
		if cfg.LogLevel != "" {
			level = cfg.LogLevel
		}
		if cfg.LogFormat != "" {
			format = cfg.LogFormat
		}
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetLevel(lvl)

	switch format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format: %s (supported: json, text)", format)
	}

	return logger, nil
}

// NewObserver creates a resolution observer. A nil config logs through logger.
func NewObserver(cfg *ObservabilityConfig, logger logrus.FieldLogger) (probe.ResolutionObserver, error) {
	observerType := "logging"
	if cfg != nil && cfg.Type != "" {
		observerType = cfg.Type
	}

	switch observerType {
	case "logging":
		return probe.NewLoggingResolutionObserver(logger), nil
	case "noop":
		return probe.NoopResolutionObserver(), nil
	default:
		return nil, fmt.Errorf("unknown observer type: %s (supported: logging, noop)", observerType)
	}
}
