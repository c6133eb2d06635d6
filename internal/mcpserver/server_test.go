package mcpserver

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/datafile/internal/config"
)

func testHandlers(t *testing.T) *handlers {
	t.Helper()
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	return &handlers{cfg: cfg}
}

func TestPaginate(t *testing.T) {
	h := testHandlers(t)
	items := []string{"a", "b", "c", "d", "e"}

	tests := []struct {
		name   string
		offset int
		limit  int
		want   []string
	}{
		{name: "default limit returns all", offset: 0, limit: 0, want: items},
		{name: "explicit limit", offset: 0, limit: 2, want: []string{"a", "b"}},
		{name: "offset only", offset: 2, limit: 0, want: []string{"c", "d", "e"}},
		{name: "offset and limit", offset: 1, limit: 2, want: []string{"b", "c"}},
		{name: "offset at end", offset: 4, limit: 2, want: []string{"e"}},
		{name: "offset beyond end", offset: 5, limit: 2, want: nil},
		{name: "negative offset", offset: -1, limit: 2, want: nil},
		{name: "overflowing limit", offset: 1, limit: math.MaxInt, want: []string{"b", "c", "d", "e"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.paginate(items, tt.offset, tt.limit))
		})
	}
}

func TestPaginate_MaxFilesCap(t *testing.T) {
	h := testHandlers(t)
	h.cfg.MCP.MaxFiles = 10
	items := make([]string, 25)
	for i := range items {
		items[i] = fmt.Sprint(i)
	}

	assert.Len(t, h.paginate(items, 0, 100), 10, "limit should be capped at MaxFiles")
	assert.Len(t, h.paginate(items, 20, 0), 5)
}

func TestCheckFileCount(t *testing.T) {
	h := testHandlers(t)
	h.cfg.MCP.MaxFiles = 2

	assert.NoError(t, h.checkFileCount(2))
	err := h.checkFileCount(3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATAFILE_MCP_MAX_FILES")
}

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil error returns empty string",
			err:  nil,
			want: "",
		},
		{
			name: "strips absolute path",
			err:  fmt.Errorf("failed to open /home/user/secret/data.yml: no such file"),
			want: "failed to open <path>: no such file",
		},
		{
			name: "preserves non-path content",
			err:  fmt.Errorf("invalid YAML at line 5"),
			want: "invalid YAML at line 5",
		},
		{
			name: "strips multiple paths",
			err:  fmt.Errorf("merge /tmp/a.yml and /tmp/b.yml failed"),
			want: "merge <path> and <path> failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeError(tt.err))
		})
	}
}

func TestBoolOr(t *testing.T) {
	yes, no := true, false
	assert.True(t, boolOr(nil, true))
	assert.False(t, boolOr(nil, false))
	assert.True(t, boolOr(&yes, false))
	assert.False(t, boolOr(&no, true))
}
