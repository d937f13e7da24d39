package core

import "log/slog"

// Option configures a double or mock at creation.
type Option func(*config)

// WithLogger traces installs, invocations and restores at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithName sets the name used in failure messages and traces.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

type config struct {
	name   string
	logger *slog.Logger
}

func newConfig(opts []Option) config {
	cfg := config{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}
