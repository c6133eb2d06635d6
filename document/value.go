package document

import (
	"math"
	"reflect"
)

// Clone returns a deep copy of any document value.
func Clone(v any) any {
	switch t := v.(type) {
	case *Map:
		return t.Clone()
	case []any:
		if t == nil {
			return nil
		}
		cp := make([]any, len(t))
		for i, item := range t {
			cp[i] = Clone(item)
		}
		return cp
	case map[string]any:
		cp := make(map[string]any, len(t))
		for k, item := range t {
			cp[k] = Clone(item)
		}
		return cp
	default:
		// Scalars copy by value
		return v
	}
}

// Equal reports whether two document values are deeply equal.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case *Map:
		y, ok := b.(*Map)
		return ok && x.Equal(y)
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case nil:
		return b == nil
	}

	if xf, ok := toFloat(a); ok {
		yf, ok := toFloat(b)
		return ok && (xf == yf || (math.IsNaN(xf) && math.IsNaN(yf)))
	}
	return reflect.DeepEqual(a, b)
}

// IsScalar reports whether v is neither a map nor a sequence.
func IsScalar(v any) bool {
	switch v.(type) {
	case *Map, []any, map[string]any:
		return false
	}
	return true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
