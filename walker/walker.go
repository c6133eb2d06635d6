package walker

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/erraggy/datafile/dferrors"
)

// ListFiles returns the files under baseDir. Directories are never part of
// the result. See the package documentation for the returned path forms.
func ListFiles(baseDir string, opts ...Option) ([]string, error) {
	if baseDir == "" {
		return nil, dferrors.MissingFileName("baseDir")
	}
	cfg := applyOptions(opts...)
	return cfg.list(baseDir)
}

func (cfg *config) list(baseDir string) ([]string, error) {
	info, err := os.Stat(baseDir)
	if err != nil {
		return nil, &dferrors.IOError{Op: "stat", Path: baseDir, Cause: err}
	}
	if !info.IsDir() {
		return []string{baseDir}, nil
	}

	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return nil, &dferrors.IOError{Op: "list", Path: baseDir, Cause: err}
	}
	cfg.log.Debug("read directory", "path", baseDir, "entries", len(entries))

	var files []string
	for _, entry := range entries {
		full := filepath.Join(baseDir, entry.Name())
		if cfg.recurse {
			sub, err := cfg.list(full)
			if err != nil {
				return nil, err
			}
			files = append(files, sub...)
			continue
		}
		isDir, err := entryIsDir(entry, full)
		if err != nil {
			return nil, err
		}
		if !isDir {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}

// entryIsDir follows symlinks so a link to a directory counts as one.
func entryIsDir(entry fs.DirEntry, full string) (bool, error) {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir(), nil
	}
	info, err := os.Stat(full)
	if err != nil {
		return false, &dferrors.IOError{Op: "stat", Path: full, Cause: err}
	}
	return info.IsDir(), nil
}

// FindFiles lists baseDir and keeps the files whose base name matches
// pattern. The base name is the part after the last slash.
func FindFiles(baseDir string, pattern *regexp.Regexp, opts ...Option) ([]string, error) {
	if pattern == nil {
		return nil, &dferrors.ConfigError{Option: "pattern", Message: "must not be nil"}
	}
	cfg := applyOptions(opts...)
	if baseDir == "" {
		return nil, dferrors.MissingFileName("baseDir")
	}
	all, err := cfg.list(baseDir)
	if err != nil {
		return nil, err
	}

	var found []string
	for _, p := range all {
		if !pattern.MatchString(baseName(p)) {
			continue
		}
		found = append(found, cfg.split(baseDir, p))
	}
	cfg.log.Debug("found files", "baseDir", baseDir, "pattern", pattern.String(), "count", len(found))
	return found, nil
}

// FindFilesString compiles pattern and calls FindFiles.
func FindFilesString(baseDir, pattern string, opts ...Option) ([]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &dferrors.ConfigError{Option: "pattern", Value: pattern, Message: "invalid regular expression", Cause: err}
	}
	return FindFiles(baseDir, re, opts...)
}

// Glob returns the files under baseDir matching a doublestar pattern such as
// "**/*.yml". Results are joined with baseDir unless WithSplitBaseDir is set,
// in which case they are relative to it. WithRecurse has no effect; use a
// pattern without "**" to stay at the top level.
func Glob(baseDir, pattern string, opts ...Option) ([]string, error) {
	if baseDir == "" {
		return nil, dferrors.MissingFileName("baseDir")
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, &dferrors.ConfigError{Option: "pattern", Value: pattern, Message: "invalid glob pattern"}
	}
	cfg := applyOptions(opts...)

	matches, err := doublestar.Glob(os.DirFS(baseDir), filepath.ToSlash(pattern), doublestar.WithFilesOnly())
	if err != nil {
		return nil, &dferrors.IOError{Op: "list", Path: baseDir, Cause: err}
	}
	slices.Sort(matches)

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		rel := filepath.FromSlash(m)
		if cfg.splitBaseDir {
			files = append(files, rel)
			continue
		}
		files = append(files, filepath.Join(baseDir, rel))
	}
	cfg.log.Debug("glob matched", "baseDir", baseDir, "pattern", pattern, "count", len(files))
	return files, nil
}

func (cfg *config) split(baseDir, p string) string {
	if !cfg.splitBaseDir {
		return p
	}
	return strings.TrimPrefix(p, baseDir)
}

func baseName(p string) string {
	p = filepath.ToSlash(p)
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}
