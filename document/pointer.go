package document

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// EscapeToken escapes a reference token for use in a JSON pointer.
// Per RFC 6901, "~" becomes "~0" and "/" becomes "~1".
func EscapeToken(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	token = strings.ReplaceAll(token, "/", "~1")
	return token
}

// UnescapeToken reverses EscapeToken.
func UnescapeToken(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}

// ParsePointer splits a JSON pointer into unescaped reference tokens.
// The URI fragment form ("#/a/b", percent-encoded) is accepted. The empty
// pointer and "#" refer to the whole document and yield no tokens.
func ParsePointer(pointer string) ([]string, error) {
	if frag, ok := strings.CutPrefix(pointer, "#"); ok {
		decoded, err := url.PathUnescape(frag)
		if err != nil {
			return nil, fmt.Errorf("document: invalid pointer %q: %w", pointer, err)
		}
		pointer = decoded
	}
	if pointer == "" {
		return nil, nil
	}
	if !strings.HasPrefix(pointer, "/") {
		return nil, fmt.Errorf("document: invalid pointer %q: must start with '/'", pointer)
	}
	parts := strings.Split(pointer[1:], "/")
	for i, part := range parts {
		parts[i] = UnescapeToken(part)
	}
	return parts, nil
}

// Pointer builds a URI fragment pointer ("#/a/b") from raw tokens.
func Pointer(tokens ...string) string {
	var b strings.Builder
	b.WriteByte('#')
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(EscapeToken(t))
	}
	return b.String()
}

// Lookup evaluates pointer against v and returns the referenced value.
func Lookup(v any, pointer string) (any, error) {
	parts, err := ParsePointer(pointer)
	if err != nil {
		return nil, err
	}

	current := v
	for i, part := range parts {
		switch t := current.(type) {
		case *Map:
			next, ok := t.Get(part)
			if !ok {
				return nil, fmt.Errorf("document: pointer %q not found (missing key %q at /%s)", pointer, part, strings.Join(parts[:i], "/"))
			}
			current = next
		case map[string]any:
			next, ok := t[part]
			if !ok {
				return nil, fmt.Errorf("document: pointer %q not found (missing key %q at /%s)", pointer, part, strings.Join(parts[:i], "/"))
			}
			current = next
		case []any:
			index, err := strconv.Atoi(part)
			if err != nil || index < 0 {
				return nil, fmt.Errorf("document: invalid array index %q in pointer %q", part, pointer)
			}
			if index >= len(t) {
				return nil, fmt.Errorf("document: array index %d out of bounds (length %d) in pointer %q", index, len(t), pointer)
			}
			current = t[index]
		default:
			return nil, fmt.Errorf("document: cannot traverse into %T at /%s in pointer %q", current, strings.Join(parts[:i], "/"), pointer)
		}
	}
	return current, nil
}
