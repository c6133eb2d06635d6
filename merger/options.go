package merger

import (
	"github.com/erraggy/datafile/loader"
	"github.com/erraggy/datafile/logger"
)

// Option configures a merge.
type Option func(*config)

type config struct {
	log     logger.Logger
	baseDir string
}

func applyOptions(opts ...Option) *config {
	cfg := &config{log: logger.NopLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithLogger sets the logger for per-file debug output and skipped files.
func WithLogger(l logger.Logger) Option {
	return func(cfg *config) {
		cfg.log = logger.OrNop(l)
	}
}

// WithBaseDir resolves relative file paths against dir. Keys written by the
// file name aggregations are the paths as given, not the resolved ones.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = dir
	}
}

func (cfg *config) loaderOptions() []loader.Option {
	return []loader.Option{
		loader.WithRaiseErrors(true),
		loader.WithLogger(cfg.log),
		loader.WithBaseDir(cfg.baseDir),
	}
}
