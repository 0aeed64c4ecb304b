package pdfstract

import (
	"log/slog"
	"time"
)

// converterConfig holds internal configuration for a Converter.
type converterConfig struct {
	registry *Registry
	store    *TaskStore
	logger   *slog.Logger
	timeout  time.Duration
	workers  int
}

func defaultConfig() converterConfig {
	return converterConfig{
		timeout: 120 * time.Second,
		workers: 4,
	}
}

// Option configures a [Converter].
type Option func(*converterConfig)

// WithTimeout sets the wall-clock timeout for a single unit of work (one
// library attempt on one document). Defaults to 120 seconds. A zero or
// negative value disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *converterConfig) {
		c.timeout = d
	}
}

// WithWorkers sets the default parallelism for comparisons and batch runs.
// Defaults to 4. Values below 1 are clamped to 1.
func WithWorkers(n int) Option {
	return func(c *converterConfig) {
		if n < 1 {
			n = 1
		}
		c.workers = n
	}
}

// WithRegistry replaces the backend registry. By default [DefaultRegistry]
// is used. Tests use this to register stub extractors.
func WithRegistry(r *Registry) Option {
	return func(c *converterConfig) {
		c.registry = r
	}
}

// WithTaskStore attaches a task store; comparison reports are then assigned
// a task identifier and persisted for retrieval by [Converter.Task].
// Without a store, reports are returned but not retained.
func WithTaskStore(s *TaskStore) Option {
	return func(c *converterConfig) {
		c.store = s
	}
}

// WithLogger sets the structured logger. Defaults to slog's default logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *converterConfig) {
		c.logger = l
	}
}
