package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// SanitizeOutputPath validates and cleans a path that output will be written to.
// The path is cleaned and made absolute. It is rejected when it names a
// symlink or a directory, or when its parent directory does not exist
// (writers never create directories). Returns the cleaned absolute path.
func SanitizeOutputPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("pathutil: output path is empty")
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("pathutil: cannot resolve absolute path: %w", err)
	}

	info, err := os.Lstat(abs)
	switch {
	case err == nil:
		if info.Mode()&os.ModeSymlink != 0 {
			return "", fmt.Errorf("pathutil: refusing to write to symlink: %s", abs)
		}
		if info.IsDir() {
			return "", fmt.Errorf("pathutil: output path is a directory: %s", abs)
		}
	case os.IsNotExist(err):
		parent, statErr := os.Stat(filepath.Dir(abs))
		if statErr != nil || !parent.IsDir() {
			return "", fmt.Errorf("pathutil: output directory does not exist: %s", filepath.Dir(abs))
		}
	default:
		return "", fmt.Errorf("pathutil: cannot stat path: %w", err)
	}

	return abs, nil
}

// SanitizeOutputPathFor is SanitizeOutputPath for output derived from
// inputs. It also rejects an output path that names one of the inputs.
func SanitizeOutputPathFor(output string, inputs []string) (string, error) {
	out, err := SanitizeOutputPath(output)
	if err != nil {
		return "", err
	}
	for _, in := range inputs {
		abs, err := SanitizeOutputPath(in)
		if err == nil && abs == out {
			return "", fmt.Errorf("pathutil: output file %s would overwrite input file %s", output, in)
		}
	}
	return out, nil
}
