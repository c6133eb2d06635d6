package walker

import (
	"github.com/erraggy/datafile/logger"
)

// Option configures a listing operation.
type Option func(*config)

type config struct {
	recurse      bool
	splitBaseDir bool
	log          logger.Logger
}

func applyOptions(opts ...Option) *config {
	cfg := &config{
		recurse: true,
		log:     logger.NopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithRecurse controls whether subdirectories are descended into.
// Default: true.
func WithRecurse(recurse bool) Option {
	return func(cfg *config) {
		cfg.recurse = recurse
	}
}

// WithSplitBaseDir strips the literal base directory prefix from each result
// of FindFiles and Glob. The prefix is removed as a string, without any path
// normalization.
func WithSplitBaseDir(split bool) Option {
	return func(cfg *config) {
		cfg.splitBaseDir = split
	}
}

// WithLogger sets the logger that receives debug output for each directory
// read.
func WithLogger(l logger.Logger) Option {
	return func(cfg *config) {
		cfg.log = logger.OrNop(l)
	}
}
