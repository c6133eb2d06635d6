package loader

import (
	"fmt"
	"os"

	"github.com/erraggy/datafile/dferrors"
	"github.com/erraggy/datafile/internal/fileutil"
	"github.com/erraggy/datafile/logger"
)

// Option is a function that configures a load or save operation.
type Option func(*config) error

type config struct {
	raiseErrors bool
	log         logger.Logger
	fileMode    os.FileMode
	maxFileSize int64
	baseDir     string
}

func applyOptions(opts ...Option) (*config, error) {
	cfg := &config{
		raiseErrors: true,
		log:         logger.NopLogger{},
		fileMode:    fileutil.ReadableByAll,
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
	return cfg, nil
}

// WithRaiseErrors selects between returning errors (true, the default) and
// returning a safe default value with a nil error (false).
func WithRaiseErrors(raise bool) Option {
	return func(cfg *config) error {
		cfg.raiseErrors = raise
		return nil
	}
}

// WithLogger sets the logger for debug output and suppressed errors.
func WithLogger(l logger.Logger) Option {
	return func(cfg *config) error {
		cfg.log = logger.OrNop(l)
		return nil
	}
}

// WithFileMode sets the permission bits of written files.
// Default: 0644.
func WithFileMode(mode os.FileMode) Option {
	return func(cfg *config) error {
		if mode&^os.ModePerm != 0 {
			return &dferrors.ConfigError{Option: "file mode", Value: mode, Message: "only permission bits may be set"}
		}
		cfg.fileMode = mode
		return nil
	}
}

// WithMaxFileSize sets the largest file that will be read, in bytes.
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

// WithBaseDir resolves relative paths against dir instead of the working
// directory.
func WithBaseDir(dir string) Option {
	return func(cfg *config) error {
		cfg.baseDir = dir
		return nil
	}
}

// resolve returns the absolute path for path, or an error for an empty name.
func (cfg *config) resolve(path string) (string, error) {
	if path == "" {
		return "", dferrors.MissingFileName("path")
	}
	return fileutil.Resolve(cfg.baseDir, path)
}

// read resolves and reads path within the size limit.
func (cfg *config) read(path string) (string, []byte, error) {
	abs, err := cfg.resolve(path)
	if err != nil {
		return "", nil, err
	}
	data, err := fileutil.ReadLimited(abs, cfg.maxFileSize)
	if err != nil {
		return abs, nil, err
	}
	cfg.log.Debug("read file", "path", abs, "bytes", len(data))
	return abs, data, nil
}

// suppress applies the raise-errors policy to err. It returns err unchanged
// when errors are raised, otherwise logs it and returns nil.
func (cfg *config) suppress(op, path string, err error) error {
	if err == nil || cfg.raiseErrors {
		return err
	}
	cfg.log.Debug(fmt.Sprintf("%s failed, returning default", op), "path", path, "error", err)
	return nil
}
