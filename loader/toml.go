package loader

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/erraggy/datafile/dferrors"
	"github.com/erraggy/datafile/document"
)

// LoadTOML reads a TOML file into a map, keeping the key order of the file
// for tables and keys. Dates and times become RFC 3339 strings.
// On a suppressed error it returns an empty map.
func LoadTOML(path string, opts ...Option) (*document.Map, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return document.NewMap(), err
	}
	m, err := cfg.loadTOML(path)
	if err != nil {
		return document.NewMap(), cfg.suppress("load toml", path, err)
	}
	return m, nil
}

func (cfg *config) loadTOML(path string) (*document.Map, error) {
	abs, data, err := cfg.read(path)
	if err != nil {
		return nil, err
	}
	text, err := decodeText(abs, data)
	if err != nil {
		return nil, err
	}
	return ParseTOML(abs, text)
}

// ParseTOML decodes TOML text. source names the input in errors.
func ParseTOML(source, text string) (*document.Map, error) {
	var raw map[string]any
	md, err := toml.Decode(text, &raw)
	if err != nil {
		pe := &dferrors.ParseError{Path: source, Format: "toml", Cause: err}
		var tomlErr toml.ParseError
		if errors.As(err, &tomlErr) {
			pe.Line = tomlErr.Position.Line
			pe.Message = tomlErr.Message
			pe.Cause = nil
		}
		return nil, pe
	}
	return orderTOML(raw, md.Keys()), nil
}

// orderTOML rebuilds raw as nested maps in the order keys were defined.
// Arrays of tables are converted as a whole with sorted keys.
func orderTOML(raw map[string]any, keys []toml.Key) *document.Map {
	out := document.NewMap()
	for _, key := range keys {
		dst := out
		var cur any = raw
		for _, part := range key {
			table, ok := cur.(map[string]any)
			if !ok {
				break
			}
			cur = table[part]
			if sub, ok := cur.(map[string]any); ok {
				existing, _ := dst.Get(part)
				next, ok := existing.(*document.Map)
				if !ok {
					next = document.NewMapWithCapacity(len(sub))
					dst.Set(part, next)
				}
				dst = next
				continue
			}
			if !dst.Has(part) {
				dst.Set(part, document.FromPlain(cur))
			}
			break
		}
	}

	// Keys the metadata did not list still belong in the result.
	rest := make([]string, 0, len(raw))
	for k := range raw {
		if !out.Has(k) {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	for _, k := range rest {
		out.Set(k, document.FromPlain(raw[k]))
	}
	return out
}

// SaveTOML writes content to path as TOML. Tables are written in the
// encoder's sorted order. TOML has no null, so nil values are rejected.
func SaveTOML(path string, content any, opts ...Option) error {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return err
	}
	err = func() error {
		data, err := EncodeTOML(content)
		if err != nil {
			return &dferrors.ParseError{Path: path, Format: "toml", Message: "cannot encode content", Cause: err}
		}
		return cfg.saveBytes(path, data)
	}()
	return cfg.suppress("save toml", path, err)
}

// EncodeTOML renders a mapping as TOML text.
func EncodeTOML(content any) ([]byte, error) {
	plain, ok := document.Plain(document.FromPlain(content)).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("TOML documents must be mappings, got %T", content)
	}
	if path, found := findNil(plain, ""); found {
		return nil, fmt.Errorf("TOML cannot represent null at %s", path)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(plain); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func findNil(v any, at string) (string, bool) {
	switch t := v.(type) {
	case nil:
		return at, true
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			if p, ok := findNil(t[k], at+"/"+document.EscapeToken(k)); ok {
				return p, true
			}
		}
	case []any:
		for i, item := range t {
			if p, ok := findNil(item, fmt.Sprintf("%s/%d", at, i)); ok {
				return p, true
			}
		}
	}
	return "", false
}
