package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/datafile/dferrors"
	"github.com/erraggy/datafile/document"
)

// LoadJSON reads a YAML or JSON file whose top level is a mapping.
// An empty file yields an empty map. On a suppressed error, including a
// missing file name, it returns an empty map.
func LoadJSON(path string, opts ...Option) (*document.Map, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return document.NewMap(), err
	}
	m, err := cfg.loadMap(path)
	if err != nil {
		return document.NewMap(), cfg.suppress("load document", path, err)
	}
	return m, nil
}

// LoadValue reads a YAML or JSON file with any top-level value: a mapping,
// a sequence or a scalar. An empty file yields nil. On a suppressed error
// it returns an empty map.
func LoadValue(path string, opts ...Option) (any, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return document.NewMap(), err
	}
	v, err := cfg.loadValue(path)
	if err != nil {
		return document.NewMap(), cfg.suppress("load document", path, err)
	}
	return v, nil
}

func (cfg *config) loadValue(path string) (any, error) {
	abs, data, err := cfg.read(path)
	if err != nil {
		return nil, err
	}
	text, err := decodeText(abs, data)
	if err != nil {
		return nil, err
	}
	return ParseYAML(abs, []byte(text))
}

func (cfg *config) loadMap(path string) (*document.Map, error) {
	v, err := cfg.loadValue(path)
	if err != nil {
		return nil, err
	}
	return asMap(path, "yaml", v)
}

func asMap(path, format string, v any) (*document.Map, error) {
	switch t := v.(type) {
	case nil:
		return document.NewMap(), nil
	case *document.Map:
		return t, nil
	default:
		return nil, &dferrors.ParseError{
			Path:    path,
			Format:  format,
			Message: "top-level value is " + kindName(v) + ", expected a mapping",
		}
	}
}

func kindName(v any) string {
	switch v.(type) {
	case []any:
		return "a sequence"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case int, int64, uint64, float64:
		return "a number"
	default:
		return "a scalar"
	}
}

var (
	yamlPosition    = regexp.MustCompile(`line (\d+)(?:, column (\d+))?`)
	yamlLeadingMark = regexp.MustCompile(`^line \d+(?:, column \d+)?: `)
)

// ParseYAML decodes YAML (or JSON) bytes into document values.
// source names the input in errors.
func ParseYAML(source string, data []byte) (any, error) {
	// Decoding into a yaml.Node skips the alias budget and the duplicate
	// key check, so run the plain decoder first to get both.
	var plain any
	if err := yaml.Unmarshal(data, &plain); err != nil {
		return nil, yamlParseError(source, err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, yamlParseError(source, err)
	}
	v, err := document.FromNode(&node)
	if err != nil {
		return nil, &dferrors.ParseError{Path: source, Format: "yaml", Cause: err}
	}
	return v, nil
}

func yamlParseError(source string, err error) error {
	pe := &dferrors.ParseError{Path: source, Format: "yaml"}

	var loadErrs *yaml.LoadErrors
	if errors.As(err, &loadErrs) && len(loadErrs.Errors) > 0 {
		first := loadErrs.Errors[0]
		pe.Line, pe.Column = first.Line, first.Column
		pe.Cause = err
		return pe
	}

	// The last position in the message is where parsing stopped; earlier
	// ones describe the enclosing context.
	msg := strings.TrimPrefix(err.Error(), "yaml: ")
	if marks := yamlPosition.FindAllStringSubmatch(msg, -1); len(marks) > 0 {
		last := marks[len(marks)-1]
		pe.Line, _ = strconv.Atoi(last[1])
		pe.Column, _ = strconv.Atoi(last[2])
	}
	pe.Message = yamlLeadingMark.ReplaceAllString(msg, "")
	return pe
}

// SaveYAML serializes content with yaml.Dump and writes it to path.
// yamlOpts are passed through to the encoder, for example
// yaml.WithIndent(4). *document.Map content keeps its key order.
func SaveYAML(path string, content any, yamlOpts []yaml.Option, opts ...Option) error {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return err
	}
	err = func() error {
		node, err := document.ToNode(content)
		if err != nil {
			return &dferrors.ParseError{Path: path, Format: "yaml", Message: "cannot encode content", Cause: err}
		}
		data, err := yaml.Dump(node, yamlOpts...)
		if err != nil {
			return &dferrors.ParseError{Path: path, Format: "yaml", Message: "cannot encode content", Cause: err}
		}
		return cfg.saveBytes(path, data)
	}()
	return cfg.suppress("save yaml", path, err)
}

// SaveJSON serializes content as JSON and writes it to path. A non-empty
// indent pretty-prints with that indent string. Map key order is kept.
func SaveJSON(path string, content any, indent string, opts ...Option) error {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return err
	}
	err = func() error {
		data, err := EncodeJSON(content, indent)
		if err != nil {
			return &dferrors.ParseError{Path: path, Format: "json", Message: "cannot encode content", Cause: err}
		}
		return cfg.saveBytes(path, data)
	}()
	return cfg.suppress("save json", path, err)
}

// EncodeJSON renders content as JSON followed by a newline, indenting with
// indent when it is non-empty.
func EncodeJSON(content any, indent string) ([]byte, error) {
	data, err := json.Marshal(document.FromPlain(content))
	if err != nil {
		return nil, err
	}
	if indent != "" {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", indent); err != nil {
			return nil, err
		}
		data = buf.Bytes()
	}
	return append(data, '\n'), nil
}
