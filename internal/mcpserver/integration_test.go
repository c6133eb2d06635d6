package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/datafile/internal/config"
	"github.com/erraggy/datafile/internal/testutil"
)

func startTestSession(t *testing.T) *mcp.ClientSession {
	t.Helper()

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	server := newServer(cfg, nil)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	// Run blocks until the connection closes.
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(
		&mcp.Implementation{Name: "test-client", Version: "test"},
		nil,
	)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = session.Close()
		cancel()
		<-done
	})

	return session
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func TestIntegration_ListTools(t *testing.T) {
	session := startTestSession(t)

	result, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	slices.Sort(names)
	assert.Equal(t, []string{"find_files", "list_files", "load", "merge", "resolve_refs", "validate"}, names)
}

func TestIntegration_Load(t *testing.T) {
	session := startTestSession(t)
	dir := testutil.DataTree(t)

	result := callTool(t, session, "load", map[string]any{
		"file": filepath.Join(dir, "merge", "earth.yml"),
	})
	assert.False(t, result.IsError)

	structured := unmarshalStructured(t, result)
	assert.Equal(t, "yaml", structured["format"])
	planets := structured["document"].(map[string]any)["planets"].(map[string]any)
	assert.Equal(t, float64(1), planets["Earth"].(map[string]any)["earthMass"])
}

func TestIntegration_LoadText(t *testing.T) {
	session := startTestSession(t)
	path := testutil.WriteFile(t, t.TempDir(), "notes.txt", "hello\n")

	result := callTool(t, session, "load", map[string]any{"file": path})
	assert.False(t, result.IsError)

	structured := unmarshalStructured(t, result)
	assert.Equal(t, "text", structured["format"])
	assert.Equal(t, "hello\n", structured["text"])
}

func TestIntegration_LoadMissingFile(t *testing.T) {
	session := startTestSession(t)

	result := callTool(t, session, "load", map[string]any{
		"file": filepath.Join(t.TempDir(), "missing.yml"),
	})
	assert.True(t, result.IsError)
	text := result.Content[0].(*mcp.TextContent).Text
	assert.NotContains(t, text, os.TempDir())
}

func TestIntegration_MergeDeep(t *testing.T) {
	session := startTestSession(t)
	dir := testutil.DataTree(t)

	result := callTool(t, session, "merge", map[string]any{
		"files": testutil.Paths(dir, testutil.SolarSystemFiles...),
	})
	assert.False(t, result.IsError)

	structured := unmarshalStructured(t, result)
	assert.Equal(t, float64(4), structured["count"])
	assert.Equal(t, []any{"name", "format", "comment", "planets"}, structured["keys"])
	planets := structured["document"].(map[string]any)["planets"].(map[string]any)
	assert.Len(t, planets, 9)
	mars := planets["Mars"].(map[string]any)
	assert.Equal(t, float64(2), mars["numOfMoons"])
	assert.Contains(t, mars["moons"], "Phobos")
}

func TestIntegration_MergeByKeys(t *testing.T) {
	session := startTestSession(t)
	dir := testutil.DataTree(t)

	result := callTool(t, session, "merge", map[string]any{
		"files":    testutil.Paths(dir, testutil.ServiceFiles...),
		"strategy": "key",
		"keys":     []string{"urlPattern", "uriTemplate"},
	})
	assert.False(t, result.IsError)

	structured := unmarshalStructured(t, result)
	assert.Equal(t, float64(5), structured["count"])
	assert.Equal(t, []any{
		"/customers/{id}",
		"/customers",
		"/monitoring/isAlive",
		"/defaults/noHeaders",
		"/defaults/noTestCases",
	}, structured["keys"])
}

func TestIntegration_MergeWritesOutput(t *testing.T) {
	session := startTestSession(t)
	dir := testutil.DataTree(t)
	out := filepath.Join(t.TempDir(), "merged.json")

	result := callTool(t, session, "merge", map[string]any{
		"files":    testutil.Paths(dir, "merge/earth.yml", "merge/mars.yml"),
		"strategy": "filename",
		"output":   out,
	})
	assert.False(t, result.IsError)

	structured := unmarshalStructured(t, result)
	assert.Equal(t, out, structured["written"])
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "earthMass")
}

func TestIntegration_MergeKeepsInputs(t *testing.T) {
	session := startTestSession(t)
	dir := testutil.DataTree(t)
	mars := filepath.Join(dir, "merge", "mars.yml")
	before, err := os.ReadFile(mars)
	require.NoError(t, err)

	result := callTool(t, session, "merge", map[string]any{
		"files":  testutil.Paths(dir, "merge/earth.yml", "merge/mars.yml"),
		"output": filepath.Join(dir, "merge", ".", "mars.yml"),
	})
	assert.True(t, result.IsError)

	after, err := os.ReadFile(mars)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestIntegration_MergeErrors(t *testing.T) {
	session := startTestSession(t)
	dir := testutil.DataTree(t)
	files := testutil.Paths(dir, "merge/earth.yml")

	tests := []struct {
		name string
		args map[string]any
	}{
		{name: "no files", args: map[string]any{"files": []string{}}},
		{name: "bad strategy", args: map[string]any{"files": files, "strategy": "shallow"}},
		{name: "key without keys", args: map[string]any{"files": files, "strategy": "key"}},
		{name: "missing file", args: map[string]any{"files": []string{filepath.Join(dir, "nope.yml")}}},
		{name: "output overwrites input", args: map[string]any{"files": testutil.Paths(dir, "merge/earth.yml", "merge/mars.yml"), "output": filepath.Join(dir, "merge", "mars.yml")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, callTool(t, session, "merge", tt.args).IsError)
		})
	}
}

func TestIntegration_ListFiles(t *testing.T) {
	session := startTestSession(t)
	dir := testutil.DataTree(t)

	result := callTool(t, session, "list_files", map[string]any{
		"dir":   filepath.Join(dir, "tree"),
		"limit": 2,
	})
	assert.False(t, result.IsError)

	structured := unmarshalStructured(t, result)
	assert.Equal(t, float64(5), structured["total"])
	assert.Equal(t, float64(2), structured["returned"])
	assert.Equal(t, []any{
		filepath.Join(dir, filepath.FromSlash(testutil.ServiceFiles[0])),
		filepath.Join(dir, filepath.FromSlash(testutil.ServiceFiles[1])),
	}, structured["files"])
}

func TestIntegration_ListFilesTopLevel(t *testing.T) {
	session := startTestSession(t)
	dir := testutil.DataTree(t)

	result := callTool(t, session, "list_files", map[string]any{
		"dir":     filepath.Join(dir, "merge"),
		"recurse": false,
	})
	assert.False(t, result.IsError)

	structured := unmarshalStructured(t, result)
	assert.Equal(t, []any{"earth.yml", "mars.yml", "moons.yml", "solarSystem.yml"}, structured["files"])
}

func TestIntegration_FindFiles(t *testing.T) {
	session := startTestSession(t)
	dir := testutil.DataTree(t)

	t.Run("regex", func(t *testing.T) {
		result := callTool(t, session, "find_files", map[string]any{
			"dir":            dir,
			"pattern":        `^ma.*\.yml$`,
			"split_base_dir": true,
		})
		assert.False(t, result.IsError)
		structured := unmarshalStructured(t, result)
		assert.Equal(t, []any{string(filepath.Separator) + filepath.Join("merge", "mars.yml")}, structured["files"])
	})

	t.Run("glob", func(t *testing.T) {
		result := callTool(t, session, "find_files", map[string]any{
			"dir":            dir,
			"pattern":        "tree/**/service.yml",
			"glob":           true,
			"split_base_dir": true,
		})
		assert.False(t, result.IsError)
		structured := unmarshalStructured(t, result)
		assert.Equal(t, float64(5), structured["total"])
	})

	t.Run("bad pattern", func(t *testing.T) {
		result := callTool(t, session, "find_files", map[string]any{
			"dir":     dir,
			"pattern": "(",
		})
		assert.True(t, result.IsError)
	})
}

func TestIntegration_ResolveRefs(t *testing.T) {
	session := startTestSession(t)
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"root.yml":   "planets:\n  Earth:\n    $ref: earth.yml\n",
		"earth.yml":  "earthMass: 1\nmoons:\n  $ref: moons.yml#/Earth\n",
		"moons.yml":  "Earth:\n  Moon: {}\n",
		"unused.yml": "ignored: true\n",
	})

	result := callTool(t, session, "resolve_refs", map[string]any{
		"file": filepath.Join(dir, "root.yml"),
	})
	assert.False(t, result.IsError)

	structured := unmarshalStructured(t, result)
	earth := structured["document"].(map[string]any)["planets"].(map[string]any)["Earth"].(map[string]any)
	assert.Equal(t, float64(1), earth["earthMass"])
	assert.Equal(t, map[string]any{"Moon": map[string]any{}}, earth["moons"])

	refList := structured["refs"].([]any)
	require.Len(t, refList, 2)
	first := refList[0].(map[string]any)
	assert.Equal(t, "#/planets/Earth", first["location"])
	assert.Equal(t, "earth.yml", first["uri"])
	assert.Equal(t, "relative", first["type"])
}

func TestIntegration_Validate(t *testing.T) {
	session := startTestSession(t)
	dir := testutil.SchemaTree(t)

	t.Run("valid", func(t *testing.T) {
		result := callTool(t, session, "validate", map[string]any{
			"file":       filepath.Join(dir, "solarSystem.yml"),
			"schema_dir": dir,
			"schema":     "solarSystemSchema.yml",
		})
		assert.False(t, result.IsError)
		structured := unmarshalStructured(t, result)
		assert.Equal(t, true, structured["valid"])
	})

	t.Run("invalid", func(t *testing.T) {
		result := callTool(t, session, "validate", map[string]any{
			"file":       filepath.Join(dir, "invalidPlanet.yml"),
			"schema_dir": dir,
			"schema":     "planetSchema.yml",
		})
		assert.False(t, result.IsError)
		structured := unmarshalStructured(t, result)
		assert.Equal(t, false, structured["valid"])
		issues := structured["issues"].([]any)
		require.Len(t, issues, 1)
		issue := issues[0].(map[string]any)
		assert.Equal(t, "ObjectValidationError", issue["kind"])
		assert.Equal(t, "missing: earthMass,moons", issue["desc"])
	})

	t.Run("missing schema", func(t *testing.T) {
		result := callTool(t, session, "validate", map[string]any{
			"file":       filepath.Join(dir, "earth.yml"),
			"schema_dir": dir,
			"schema":     "missingSchema.yml",
		})
		assert.False(t, result.IsError)
		structured := unmarshalStructured(t, result)
		issues := structured["issues"].([]any)
		require.Len(t, issues, 1)
		assert.Equal(t, "No schema provided for validation.", issues[0].(map[string]any)["desc"])
	})
}

// unmarshalStructured extracts the structured output of a tool call as a map.
func unmarshalStructured(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()

	if result.StructuredContent != nil {
		data, err := json.Marshal(result.StructuredContent)
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		return m
	}

	require.NotEmpty(t, result.Content, "expected at least one content item")
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &m), "failed to parse text content as JSON")
	return m
}
