package document

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"
)

// maxNodeDepth bounds recursion through nested or aliased YAML nodes.
const maxNodeDepth = 1000

const mergeKey = "<<"

// FromNode converts a YAML node tree into document values.
// Mapping key order is preserved, aliases are followed and "<<" merge keys
// are expanded. An empty document yields nil.
func FromNode(node *yaml.Node) (any, error) {
	return fromNode(node, 0)
}

func fromNode(n *yaml.Node, depth int) (any, error) {
	if n == nil {
		return nil, nil
	}
	if depth > maxNodeDepth {
		return nil, fmt.Errorf("document: nesting exceeds %d levels at line %d", maxNodeDepth, n.Line)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromNode(n.Content[0], depth+1)

	case yaml.AliasNode:
		return fromNode(n.Alias, depth+1)

	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, child := range n.Content {
			v, err := fromNode(child, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case yaml.MappingNode:
		return mappingFromNode(n, depth)

	case yaml.ScalarNode:
		return scalarFromNode(n)

	default:
		return nil, fmt.Errorf("document: unsupported node kind %v at line %d", n.Kind, n.Line)
	}
}

func mappingFromNode(n *yaml.Node, depth int) (*Map, error) {
	m := NewMapWithCapacity(len(n.Content) / 2)

	// Merge keys are applied first so that explicit keys override them.
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		if !isMergeKey(k) {
			continue
		}
		if err := applyMergeKey(m, n.Content[i+1], depth); err != nil {
			return nil, err
		}
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("document: unsupported non-scalar mapping key at line %d, column %d", k.Line, k.Column)
		}
		if isMergeKey(k) {
			continue
		}
		v, err := fromNode(n.Content[i+1], depth+1)
		if err != nil {
			return nil, err
		}
		m.Set(k.Value, v)
	}
	return m, nil
}

// isMergeKey reports whether k is an unquoted "<<" key.
func isMergeKey(k *yaml.Node) bool {
	return k.Kind == yaml.ScalarNode && k.Value == mergeKey && k.ShortTag() == "!!merge"
}

// applyMergeKey copies keys from the mapping (or sequence of mappings)
// referenced by a "<<" entry. Earlier sources win over later ones.
func applyMergeKey(dst *Map, src *yaml.Node, depth int) error {
	v, err := fromNode(src, depth+1)
	if err != nil {
		return err
	}
	var sources []*Map
	switch t := v.(type) {
	case *Map:
		sources = []*Map{t}
	case []any:
		for _, item := range t {
			sm, ok := item.(*Map)
			if !ok {
				return fmt.Errorf("document: merge key at line %d must reference mappings", src.Line)
			}
			sources = append(sources, sm)
		}
	default:
		return fmt.Errorf("document: merge key at line %d must reference a mapping", src.Line)
	}
	for _, sm := range sources {
		for k, item := range sm.All() {
			if !dst.Has(k) {
				dst.Set(k, item)
			}
		}
	}
	return nil
}

func scalarFromNode(n *yaml.Node) (any, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case time.Time:
		// Keep timestamps as written so documents stay JSON-compatible.
		return n.Value, nil
	case []byte:
		return string(t), nil
	}
	return v, nil
}

// ToNode converts a document value into a YAML node tree.
// Maps keep their key order; plain Go maps are emitted with sorted keys.
func ToNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case nil:
		return scalarNode("!!null", "null"), nil
	case *Map:
		if t == nil {
			return scalarNode("!!null", "null"), nil
		}
		node := &yaml.Node{Kind: yaml.MappingNode, Content: make([]*yaml.Node, 0, t.Len()*2)}
		for k, item := range t.All() {
			valNode, err := ToNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, scalarNode("!!str", k), valNode)
		}
		return node, nil
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Content: make([]*yaml.Node, 0, len(t))}
		for _, item := range t {
			child, err := ToNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case bool:
		return scalarNode("!!bool", strconv.FormatBool(t)), nil
	case int:
		return scalarNode("!!int", strconv.Itoa(t)), nil
	case int64:
		return scalarNode("!!int", strconv.FormatInt(t, 10)), nil
	case uint64:
		return scalarNode("!!int", strconv.FormatUint(t, 10)), nil
	case float64:
		return scalarNode("!!float", formatFloat(t)), nil
	case string:
		return scalarNode("!!str", t), nil
	}

	// Plain Go values such as map[string]any or int32 are normalized first.
	if normalized := FromPlain(v); reflect.TypeOf(normalized) != reflect.TypeOf(v) {
		return ToNode(normalized)
	}
	return nil, fmt.Errorf("document: cannot convert %T to a YAML node", v)
}

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// formatFloat renders f so that it resolves back to a YAML float.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Plain converts a document value into plain Go values: every *Map becomes
// a map[string]any. Use it for libraries that do not know about *Map.
func Plain(v any) any {
	switch t := v.(type) {
	case *Map:
		if t == nil {
			return nil
		}
		out := make(map[string]any, t.Len())
		for k, item := range t.All() {
			out[k] = Plain(item)
		}
		return out
	case []any:
		if t == nil {
			return nil
		}
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Plain(item)
		}
		return out
	default:
		return v
	}
}

// FromPlain converts plain Go values into document values. Go maps become
// *Map with sorted keys; integer and float types are widened to int, int64,
// uint64 or float64. Values already in document form pass through.
func FromPlain(v any) any {
	switch t := v.(type) {
	case nil, string, bool, int, int64, uint64, float64:
		return v
	case *Map:
		return t
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		m := NewMapWithCapacity(len(keys))
		for _, k := range keys {
			m.Set(k, FromPlain(t[k]))
		}
		return m
	case map[any]any:
		plain := make(map[string]any, len(t))
		for k, item := range t {
			plain[fmt.Sprint(k)] = item
		}
		return FromPlain(plain)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = FromPlain(item)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = item
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = FromPlain(item)
		}
		return out
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case int8:
		return int(t)
	case int16:
		return int(t)
	case int32:
		return int(t)
	case uint8:
		return int(t)
	case uint16:
		return int(t)
	case uint32:
		return int64(t)
	case uint:
		return uint64(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}
