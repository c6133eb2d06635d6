// Package fileutil holds file modes, path resolution and bounded reads
// shared by the loader, walker and CLI.
package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/erraggy/datafile/dferrors"
)

// OwnerReadWrite is the file permission mode for output that may contain
// private data (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600

// ReadableByAll is the default mode for written data files.
const ReadableByAll os.FileMode = 0o644

// DefaultMaxFileSize is the largest file read by default (10 MiB).
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

// Resolve returns path as an absolute, cleaned path. Relative paths are
// resolved against baseDir, or the working directory when baseDir is empty.
func Resolve(baseDir, path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	if baseDir != "" {
		path = filepath.Join(baseDir, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &dferrors.IOError{Op: "resolve", Path: path, Cause: err}
	}
	return abs, nil
}

// ReadLimited reads the file at path, failing with a ResourceLimitError when
// it is larger than limit bytes. A limit of zero or less disables the check.
func ReadLimited(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path) //nolint:gosec // path is caller-provided by design of a file loader
	if err != nil {
		return nil, &dferrors.IOError{Op: "read", Path: path, Cause: err}
	}
	defer func() { _ = f.Close() }()

	if limit <= 0 {
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, &dferrors.IOError{Op: "read", Path: path, Cause: err}
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, &dferrors.IOError{Op: "read", Path: path, Cause: err}
	}
	if int64(len(data)) > limit {
		return nil, &dferrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        limit,
			Message:      fmt.Sprintf("file %s is too large", path),
		}
	}
	return data, nil
}

// Write writes data to path with the given mode. The parent directory must
// already exist; it is never created.
func Write(path string, data []byte, mode os.FileMode) error {
	if mode == 0 {
		mode = ReadableByAll
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return &dferrors.IOError{Op: "write", Path: path, Cause: err}
	}
	return nil
}
