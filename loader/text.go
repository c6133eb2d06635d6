package loader

import (
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/erraggy/datafile/dferrors"
	"github.com/erraggy/datafile/internal/fileutil"
)

// LoadText reads a text file. A UTF-8 byte order mark is stripped and
// UTF-16 input marked with a byte order mark is transcoded to UTF-8.
// On a suppressed error it returns "".
func LoadText(path string, opts ...Option) (string, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return "", err
	}
	text, err := cfg.loadText(path)
	if err != nil {
		return "", cfg.suppress("load text", path, err)
	}
	return text, nil
}

func (cfg *config) loadText(path string) (string, error) {
	abs, data, err := cfg.read(path)
	if err != nil {
		return "", err
	}
	return decodeText(abs, data)
}

// decodeText converts raw file bytes to a UTF-8 string.
func decodeText(path string, data []byte) (string, error) {
	decoded, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), data)
	if err != nil {
		return "", &dferrors.ParseError{Path: path, Format: "text", Message: "cannot decode text", Cause: err}
	}
	return string(decoded), nil
}

// SaveText writes content to path as UTF-8. The parent directory must exist.
func SaveText(path, content string, opts ...Option) error {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return err
	}
	return cfg.suppress("save text", path, cfg.saveBytes(path, []byte(content)))
}

func (cfg *config) saveBytes(path string, data []byte) error {
	abs, err := cfg.resolve(path)
	if err != nil {
		return err
	}
	if err := fileutil.Write(abs, data, cfg.fileMode); err != nil {
		return err
	}
	cfg.log.Debug("wrote file", "path", abs, "bytes", len(data))
	return nil
}
