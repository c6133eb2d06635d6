package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePointer(t *testing.T) {
	tests := []struct {
		name    string
		pointer string
		want    []string
		wantErr bool
	}{
		{"empty", "", nil, false},
		{"root fragment", "#", nil, false},
		{"simple", "/a/b", []string{"a", "b"}, false},
		{"fragment", "#/planets/Mars", []string{"planets", "Mars"}, false},
		{"escaped", "/paths/~1customers~1{id}/~0x", []string{"paths", "/customers/{id}", "~x"}, false},
		{"percent encoded fragment", "#/a%20b", []string{"a b"}, false},
		{"empty token", "/", []string{""}, false},
		{"missing slash", "a/b", nil, true},
		{"bad percent", "#/%zz", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePointer(tt.pointer)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPointerEscaping(t *testing.T) {
	assert.Equal(t, "#/paths/~1customers~1{id}/~0x", Pointer("paths", "/customers/{id}", "~x"))
	assert.Equal(t, "#", Pointer())
	assert.Equal(t, "a/b~c", UnescapeToken(EscapeToken("a/b~c")))
}

func TestLookup(t *testing.T) {
	doc := marsDocument()
	doc.Set("plain", map[string]any{"k": "v"})

	tests := []struct {
		name    string
		pointer string
		want    any
		wantErr string
	}{
		{"whole document", "#", doc, ""},
		{"scalar", "#/earthMass", 0.11, ""},
		{"nested", "/moons/Deimos", NewMap(), ""},
		{"array index", "#/tags/1", true, ""},
		{"plain map", "/plain/k", "v", ""},
		{"missing key", "#/moons/Titan", nil, "not found"},
		{"bad index", "#/tags/x", nil, "invalid array index"},
		{"index out of range", "#/tags/9", nil, "out of bounds"},
		{"through scalar", "#/earthMass/x", nil, "cannot traverse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lookup(doc, tt.pointer)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, Equal(tt.want, got), "got %v", got)
		})
	}
}
