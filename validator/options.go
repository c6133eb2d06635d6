package validator

import (
	"context"

	"github.com/erraggy/datafile/logger"
)

// Option configures a validation.
type Option func(*config)

type config struct {
	ctx    context.Context
	log    logger.Logger
	remote bool
}

func applyOptions(opts ...Option) *config {
	cfg := &config{
		ctx: context.Background(),
		log: logger.NopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithLogger sets the logger for schema loading and violation details.
func WithLogger(l logger.Logger) Option {
	return func(cfg *config) {
		cfg.log = logger.OrNop(l)
	}
}

// WithContext sets the context used while loading the schema and its
// references.
func WithContext(ctx context.Context) Option {
	return func(cfg *config) {
		if ctx != nil {
			cfg.ctx = ctx
		}
	}
}

// WithRemote allows schemas to reference http and https documents.
func WithRemote(enabled bool) Option {
	return func(cfg *config) {
		cfg.remote = enabled
	}
}
