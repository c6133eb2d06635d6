// Package document provides the in-memory model for data files.
//
// A loaded file is a tree of values. Mappings are represented by [*Map], an
// insertion-ordered map keyed by string, so that merged and re-serialized
// documents keep the key order of their sources. Every other value is one of:
//
//	[]any, string, int, int64, uint64, float64, bool, nil
//
// The package converts between this model and YAML nodes ([FromNode], [ToNode])
// and plain Go maps ([Plain], [FromPlain]). [*Map] marshals to YAML, JSON and
// MessagePack with its key order intact.
//
// # Deep merge
//
// [Merge] combines two values. Maps merge key by key; any other pairing is
// resolved in favor of the source value, including arrays, which are replaced
// rather than concatenated. Inputs are never mutated:
//
//	merged := document.MergeMaps(base, override)
//
// # JSON pointers
//
// [Lookup] evaluates RFC 6901 pointers such as "#/planets/Mars/moons" against
// a value tree.
package document
