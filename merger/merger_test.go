package merger

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/datafile/dferrors"
	"github.com/erraggy/datafile/document"
	"github.com/erraggy/datafile/internal/testutil"
	"github.com/erraggy/datafile/walker"
)

func lookup(t *testing.T, v any, pointer string) any {
	t.Helper()
	got, err := document.Lookup(v, pointer)
	require.NoError(t, err)
	return got
}

func TestMergeFilesSolarSystem(t *testing.T) {
	dir := testutil.DataTree(t)

	merged, err := MergeFiles(testutil.SolarSystemFiles, WithBaseDir(dir))
	require.NoError(t, err)

	assert.Equal(t, "The Solar System", lookup(t, merged, "/name"))

	mars := lookup(t, merged, "/planets/Mars").(*document.Map)
	assert.Equal(t, []string{"moons", "earthMass", "numOfMoons"}, mars.Keys())
	assert.Equal(t, 0.11, lookup(t, mars, "/earthMass"))
	assert.Equal(t, 2, lookup(t, mars, "/numOfMoons"))
	moons := lookup(t, mars, "/moons").(*document.Map)
	assert.Equal(t, []string{"Deimos", "Phobos"}, moons.Keys())

	earth := lookup(t, merged, "/planets/Earth").(*document.Map)
	assert.Equal(t, 1, lookup(t, earth, "/numOfMoons"))

	planets := lookup(t, merged, "/planets").(*document.Map)
	assert.Equal(t, 9, planets.Len(), "planet order and count come from the first file")
	assert.Equal(t, "Mercury", planets.Keys()[0])
}

func TestLoadDataAlias(t *testing.T) {
	dir := testutil.DataTree(t)

	a, err := MergeFiles(testutil.SolarSystemFiles, WithBaseDir(dir))
	require.NoError(t, err)
	b, err := LoadData(testutil.SolarSystemFiles, WithBaseDir(dir))
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestMergeFilesLaterWins(t *testing.T) {
	dir := t.TempDir()
	files := testutil.Paths(dir, "a.yml", "b.yml")
	testutil.WriteFile(t, dir, "a.yml", "list: [1, 2, 3]\nkeep: yes\nover: a\n")
	testutil.WriteFile(t, dir, "b.yml", "list: [9]\nover: ~\nextra: b\n")

	merged, err := MergeFiles(files)
	require.NoError(t, err)

	assert.Equal(t, []string{"list", "keep", "over", "extra"}, merged.Keys())
	assert.Equal(t, []any{9}, lookup(t, merged, "/list"), "arrays are replaced")
	assert.Nil(t, lookup(t, merged, "/over"), "null overrides")
}

func TestMergeFilesEmptyList(t *testing.T) {
	merged, err := MergeFiles(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, merged.Len())
}

func TestMergeFilesError(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "ok.yml", "a: 1\n")
	testutil.WriteFile(t, dir, "bad.yml", "a: [\n")

	_, err := MergeFiles([]string{"ok.yml", "bad.yml"}, WithBaseDir(dir))
	assert.True(t, errors.Is(err, dferrors.ErrParse))

	_, err = MergeFiles([]string{"ok.yml", "missing.yml"}, WithBaseDir(dir))
	assert.True(t, errors.Is(err, dferrors.ErrIO))
}

func TestMergeByKeyChained(t *testing.T) {
	dir := testutil.DataTree(t)
	files, err := walker.FindFilesString(filepath.Join(dir, "tree"), `^s.+\.yml$`)
	require.NoError(t, err)
	require.Len(t, files, 5)

	byURL, err := MergeByKey(files, "urlPattern", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"/customers/{id}", "/customers", "/monitoring/isAlive"}, byURL.Keys())

	all, err := MergeByKey(files, "uriTemplate", byURL)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/customers/{id}",
		"/customers",
		"/monitoring/isAlive",
		"/defaults/noHeaders",
		"/defaults/noTestCases",
	}, all.Keys())

	assert.Equal(t, 3, byURL.Len(), "accumulator is not modified")
	assert.Equal(t, "getCustomer", lookup(t, all, "/~1customers~1{id}/name"))
}

func TestMergeByKeyValues(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "one.yml", "id: 1\nname: first\n")
	testutil.WriteFile(t, dir, "two.yml", "id: [1]\nname: list\n")
	testutil.WriteFile(t, dir, "three.yml", "id: true\nname: bool\n")
	testutil.WriteFile(t, dir, "four.yml", "name: none\n")
	testutil.WriteFile(t, dir, "five.yml", "id: 1\nextra: more\n")

	files := []string{"one.yml", "two.yml", "three.yml", "four.yml", "five.yml"}
	got, err := MergeByKey(files, "id", nil, WithBaseDir(dir))
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "true"}, got.Keys())
	first := lookup(t, got, "/1").(*document.Map)
	assert.Equal(t, []string{"id", "name", "extra"}, first.Keys(), "same key deep-merges")
}

func TestMergeByKeyTwoDistinct(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.yml", "urlPattern: /a\n")
	testutil.WriteFile(t, dir, "b.yml", "urlPattern: /b\n")

	got, err := MergeByKey([]string{"a.yml", "b.yml"}, "urlPattern", nil, WithBaseDir(dir))
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
	a, _ := got.Get("/a")
	assert.True(t, document.Equal(mapOf("urlPattern", "/a"), a))
}

func TestMergeByFileName(t *testing.T) {
	dir := testutil.DataTree(t)
	files := testutil.Paths(dir, "merge/earth.yml", "merge/mars.yml")

	acc := document.NewMap()
	acc.Set("seed", true)
	got, err := MergeByFileName(files, acc)
	require.NoError(t, err)

	assert.Same(t, acc, got, "accumulator is filled in place")
	assert.Equal(t, append([]string{"seed"}, files...), acc.Keys())
	mars, _ := acc.Get(files[1])
	assert.Equal(t, 2, lookup(t, mars, "/planets/Mars/numOfMoons"))

	fresh, err := MergeByFileName(files[:1], nil)
	require.NoError(t, err)
	assert.Equal(t, files[:1], fresh.Keys())
}

func TestMergeTextByFileName(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.txt", "alpha")
	testutil.WriteFile(t, dir, "b.txt", "beta\n")

	acc := document.NewMap()
	got, err := MergeTextByFileName([]string{"a.txt", "b.txt"}, acc, WithBaseDir(dir))
	require.NoError(t, err)
	assert.Same(t, acc, got)

	a, _ := acc.Get("a.txt")
	b, _ := acc.Get("b.txt")
	assert.Equal(t, "alpha", a)
	assert.Equal(t, "beta\n", b)

	_, err = MergeTextByFileName([]string{"missing.txt"}, acc, WithBaseDir(dir))
	assert.True(t, errors.Is(err, dferrors.ErrIO))
}

func TestMergeDocuments(t *testing.T) {
	a := mapOf("x", 1, "nested", mapOf("a", 1))
	b := mapOf("nested", mapOf("b", 2))

	got := MergeDocuments(a, nil, b)
	assert.True(t, got.Equal(mapOf("x", 1, "nested", mapOf("a", 1, "b", 2))))
	assert.True(t, a.Equal(mapOf("x", 1, "nested", mapOf("a", 1))), "inputs are not modified")
}

func mapOf(kv ...any) *document.Map {
	m := document.NewMap()
	for i := 0; i+1 < len(kv); i += 2 {
		m.Set(kv[i].(string), kv[i+1])
	}
	return m
}
