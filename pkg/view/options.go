package view

import (
	"log/slog"

	"github.com/vango-dev/rview/pkg/telemetry"
)

// Option configures Build and Hydrate.
type Option func(*config)

type config struct {
	logger  *slog.Logger
	metrics *telemetry.Metrics
	tracer  *telemetry.Tracer
}

// WithLogger sets the logger for build and steady-state diagnostics.
// Default: slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMetrics records engine activity on m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithTracer wraps root builds in spans.
func WithTracer(t *telemetry.Tracer) Option {
	return func(c *config) {
		c.tracer = t
	}
}

func newConfig(opts []Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}
