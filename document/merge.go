package document

// Merge deep-merges src over dst and returns the result as a new value.
//
// When both values are maps, keys merge recursively: keys already in dst keep
// their position and new keys from src are appended. Any other pairing yields
// a clone of src, so arrays are replaced wholesale and a nil src overrides.
// Neither input is mutated and the result shares no containers with them.
func Merge(dst, src any) any {
	dm, dok := dst.(*Map)
	sm, sok := src.(*Map)
	if dok && sok && dm != nil && sm != nil {
		return mergeMaps(dm, sm)
	}
	return Clone(src)
}

func mergeMaps(dst, src *Map) *Map {
	out := dst.Clone()
	mergeInto(out, src)
	return out
}

// mergeInto merges src into dst, which the caller owns.
func mergeInto(dst, src *Map) {
	for k, sv := range src.All() {
		if dv, ok := dst.Get(k); ok {
			if dvm, ok := dv.(*Map); ok {
				if svm, ok := sv.(*Map); ok {
					mergeInto(dvm, svm)
					continue
				}
			}
		}
		dst.Set(k, Clone(sv))
	}
}

// MergeMaps folds maps left to right over an empty map.
// Nil entries are skipped. The result is always a new, non-nil map.
func MergeMaps(maps ...*Map) *Map {
	out := NewMap()
	for _, m := range maps {
		if m == nil {
			continue
		}
		mergeInto(out, m)
	}
	return out
}
