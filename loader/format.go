package loader

import (
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/datafile/dferrors"
	"github.com/erraggy/datafile/document"
)

// Format identifies a data file encoding.
type Format string

const (
	// FormatText is plain text, the fallback for unknown extensions.
	FormatText Format = "text"
	// FormatYAML is YAML (.yml, .yaml).
	FormatYAML Format = "yaml"
	// FormatJSON is JSON (.json), read with the YAML decoder.
	FormatJSON Format = "json"
	// FormatCSV is comma-separated values (.csv).
	FormatCSV Format = "csv"
	// FormatTOML is TOML (.toml).
	FormatTOML Format = "toml"
	// FormatMsgpack is MessagePack (.msgpack, .mpk).
	FormatMsgpack Format = "msgpack"
)

// DetectFormat returns the format implied by the file extension of path.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".csv":
		return FormatCSV
	case ".toml":
		return FormatTOML
	case ".msgpack", ".mpk":
		return FormatMsgpack
	default:
		return FormatText
	}
}

// Load reads path with the reader matching its extension. YAML and JSON
// files yield any top-level value, TOML and MessagePack a *document.Map,
// CSV a []*document.Map in header mode and anything else a string.
func Load(path string, opts ...Option) (any, error) {
	switch DetectFormat(path) {
	case FormatYAML, FormatJSON:
		return LoadValue(path, opts...)
	case FormatTOML:
		return LoadTOML(path, opts...)
	case FormatMsgpack:
		return LoadMsgpack(path, opts...)
	case FormatCSV:
		return LoadCSVRecords(path, CSVOptions{SkipEmptyLines: true}, opts...)
	default:
		return LoadText(path, opts...)
	}
}

// Save writes content to path in the format matching its extension.
// JSON is indented with two spaces and CSV gets a header row.
func Save(path string, content any, opts ...Option) error {
	switch DetectFormat(path) {
	case FormatYAML:
		return SaveYAML(path, content, nil, opts...)
	case FormatJSON:
		return SaveJSON(path, content, "  ", opts...)
	case FormatTOML:
		return SaveTOML(path, content, opts...)
	case FormatMsgpack:
		return SaveMsgpack(path, content, opts...)
	case FormatCSV:
		return SaveCSV(path, content, CSVOptions{Header: true}, opts...)
	default:
		if s, ok := content.(string); ok {
			return SaveText(path, s, opts...)
		}
		return SaveYAML(path, content, nil, opts...)
	}
}

// Encode renders content in the given format. CSV content must be records.
func Encode(content any, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return EncodeJSON(content, "  ")
	case FormatTOML:
		return EncodeTOML(content)
	case FormatCSV:
		return EncodeCSV(content, CSVOptions{Header: true})
	case FormatText:
		if s, ok := content.(string); ok {
			return []byte(s), nil
		}
		fallthrough
	case FormatYAML:
		node, err := document.ToNode(content)
		if err != nil {
			return nil, err
		}
		return yaml.Dump(node)
	default:
		return nil, &dferrors.ConfigError{Option: "format", Value: string(format), Message: "unsupported output format"}
	}
}
