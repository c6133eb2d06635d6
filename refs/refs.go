package refs

import (
	"iter"
	"strings"

	"github.com/erraggy/datafile/document"
	"github.com/erraggy/datafile/internal/httputil"
)

// Reference types.
const (
	TypeLocal    = "local"
	TypeRelative = "relative"
	TypeRemote   = "remote"
)

// Ref describes one followed reference.
type Ref struct {
	// Location is the JSON pointer of the reference object in the resolved
	// document, for example "#/planets/Earth".
	Location string
	// URI is the reference string as written.
	URI string
	// Type is TypeRelative or TypeRemote.
	Type string
	// Target is the absolute path or URL of the referenced document.
	Target string
	// Fragment is the JSON pointer into the target document, without "#".
	Fragment string
	// Def is the reference object as it appeared in its document.
	Def *document.Map
	// Value is the substituted value, shared with the resolved document.
	// Nil for circular references.
	Value any
	// Circular is set when the reference was left unresolved because it
	// leads back into its own expansion.
	Circular bool
}

// RefMap is an ordered map of references keyed by location.
type RefMap struct {
	keys []string
	refs map[string]*Ref
}

func (m *RefMap) add(r *Ref) {
	if m.refs == nil {
		m.refs = make(map[string]*Ref)
	}
	if _, ok := m.refs[r.Location]; !ok {
		m.keys = append(m.keys, r.Location)
	}
	m.refs[r.Location] = r
}

// Get returns the reference at location.
func (m *RefMap) Get(location string) (*Ref, bool) {
	if m == nil {
		return nil, false
	}
	r, ok := m.refs[location]
	return r, ok
}

// Keys returns the locations in discovery order.
func (m *RefMap) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Len returns the number of references.
func (m *RefMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// All iterates over the references in discovery order.
func (m *RefMap) All() iter.Seq2[string, *Ref] {
	return func(yield func(string, *Ref) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.refs[k]) {
				return
			}
		}
	}
}

// Circular returns the references that were left unresolved.
func (m *RefMap) Circular() []*Ref {
	var out []*Ref
	for _, r := range m.All() {
		if r.Circular {
			out = append(out, r)
		}
	}
	return out
}

// Document renders the map as a document keyed by location, suitable for
// printing. Values are omitted.
func (m *RefMap) Document() *document.Map {
	out := document.NewMapWithCapacity(m.Len())
	for loc, r := range m.All() {
		entry := document.NewMap()
		entry.Set("uri", r.URI)
		entry.Set("type", r.Type)
		entry.Set("target", r.Target)
		if r.Fragment != "" {
			entry.Set("fragment", r.Fragment)
		}
		if r.Circular {
			entry.Set("circular", true)
		}
		out.Set(loc, entry)
	}
	return out
}

// Result is the outcome of Resolve.
type Result struct {
	// Resolved is the root document with references substituted.
	Resolved *document.Map
	// Refs lists the followed references.
	Refs *RefMap
}

// Classify returns the type of a reference string.
func Classify(ref string) string {
	switch {
	case strings.HasPrefix(ref, "#"):
		return TypeLocal
	case httputil.IsRemote(ref):
		return TypeRemote
	default:
		return TypeRelative
	}
}

// refString returns the "$ref" string of v when v is a reference object.
func refString(v any) (*document.Map, string, bool) {
	m, ok := v.(*document.Map)
	if !ok {
		return nil, "", false
	}
	raw, ok := m.Get("$ref")
	if !ok {
		return nil, "", false
	}
	s, ok := raw.(string)
	return m, s, ok
}

func splitFragment(ref string) (string, string) {
	if i := strings.IndexByte(ref, '#'); i >= 0 {
		return ref[:i], ref[i+1:]
	}
	return ref, ""
}
