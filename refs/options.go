package refs

import (
	"net/http"

	"github.com/erraggy/datafile/dferrors"
	"github.com/erraggy/datafile/internal/fileutil"
	"github.com/erraggy/datafile/internal/httputil"
	"github.com/erraggy/datafile/logger"
)

const (
	// MaxRefDepth is the deepest chain of nested substitutions allowed.
	MaxRefDepth = 100

	// MaxDocuments is the most documents, the root included, one call loads.
	MaxDocuments = 100

	// MaxRefExpansions is the most references one call substitutes. Shared
	// targets are copied at every use, so a few documents that reference
	// each other twice can expand exponentially.
	MaxRefExpansions = 10000

	// MaxExpandedNodes is the most values the resolved document may hold.
	MaxExpandedNodes = 1_000_000

	// DefaultConcurrency is the number of documents loaded in parallel.
	DefaultConcurrency = 8
)

// Option configures a resolution.
type Option func(*config) error

type config struct {
	log          logger.Logger
	concurrency  int
	baseDir      string
	maxFileSize  int64
	remote       bool
	allowPrivate bool
	client       *http.Client
}

func applyOptions(opts ...Option) (*config, error) {
	cfg := &config{
		log:         logger.NopLogger{},
		concurrency: DefaultConcurrency,
		maxFileSize: fileutil.DefaultMaxFileSize,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.remote && cfg.client == nil {
		cfg.client = httputil.NewClient(cfg.allowPrivate)
	}
	return cfg, nil
}

// WithLogger sets the logger for per-document debug output.
func WithLogger(l logger.Logger) Option {
	return func(cfg *config) error {
		cfg.log = logger.OrNop(l)
		return nil
	}
}

// WithConcurrency bounds how many documents are loaded at once.
// Default: 8.
func WithConcurrency(n int) Option {
	return func(cfg *config) error {
		if n < 1 {
			return &dferrors.ConfigError{Option: "concurrency", Value: n, Message: "must be at least 1"}
		}
		cfg.concurrency = n
		return nil
	}
}

// WithBaseDir resolves a relative root path against dir.
func WithBaseDir(dir string) Option {
	return func(cfg *config) error {
		cfg.baseDir = dir
		return nil
	}
}

// WithMaxFileSize limits the size of each loaded file or response body.
// Zero disables the limit. Default: 10 MiB.
func WithMaxFileSize(size int64) Option {
	return func(cfg *config) error {
		if size < 0 {
			return &dferrors.ConfigError{Option: "max file size", Value: size, Message: "must not be negative"}
		}
		cfg.maxFileSize = size
		return nil
	}
}

// WithRemote enables http and https references using a client that refuses
// private network addresses.
func WithRemote(enabled bool) Option {
	return func(cfg *config) error {
		cfg.remote = enabled
		return nil
	}
}

// WithAllowPrivateIPs lets the default remote client connect to loopback and
// private addresses. It has no effect with WithHTTPClient.
func WithAllowPrivateIPs(allow bool) Option {
	return func(cfg *config) error {
		cfg.allowPrivate = allow
		return nil
	}
}

// WithHTTPClient enables remote references and fetches them with client.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *config) error {
		if client == nil {
			return &dferrors.ConfigError{Option: "http client", Message: "must not be nil"}
		}
		cfg.client = client
		cfg.remote = true
		return nil
	}
}
