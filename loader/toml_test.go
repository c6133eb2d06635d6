package loader

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/datafile/dferrors"
	"github.com/erraggy/datafile/document"
	"github.com/erraggy/datafile/internal/testutil"
)

const solarSystemTOML = `name = "The Solar System"
format = "toml"

[planets.Mars]
numOfMoons = 2
earthMass = 0.11

[planets.Earth]
numOfMoons = 1
discovered = 1970-01-01T00:00:00Z

[[missions]]
name = "Viking"
`

func TestLoadTOML(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "solar.toml", solarSystemTOML)

	doc, err := LoadTOML(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "format", "planets", "missions"}, doc.Keys())

	planets, _ := doc.Get("planets")
	assert.Equal(t, []string{"Mars", "Earth"}, planets.(*document.Map).Keys())

	mass, err := document.Lookup(doc, "#/planets/Mars/earthMass")
	require.NoError(t, err)
	assert.Equal(t, 0.11, mass)

	moons, err := document.Lookup(doc, "#/planets/Mars/numOfMoons")
	require.NoError(t, err)
	assert.Equal(t, int64(2), moons)

	discovered, err := document.Lookup(doc, "#/planets/Earth/discovered")
	require.NoError(t, err)
	assert.Equal(t, "1970-01-01T00:00:00Z", discovered)

	mission, err := document.Lookup(doc, "#/missions/0/name")
	require.NoError(t, err)
	assert.Equal(t, "Viking", mission)
}

func TestLoadTOMLErrors(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "bad.toml", "name = \nx = 1\n")

	_, err := LoadTOML(path)
	var pe *dferrors.ParseError
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Equal(t, "toml", pe.Format)
	assert.Positive(t, pe.Line)

	doc, err := LoadTOML(path, WithRaiseErrors(false))
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Len())
}

func TestTOMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.toml")

	mars := document.NewMap()
	mars.Set("earthMass", 0.11)
	mars.Set("numOfMoons", 2)
	doc := document.NewMap()
	doc.Set("name", "Mars")
	doc.Set("tags", []any{"red", "rocky"})
	doc.Set("stats", mars)

	require.NoError(t, SaveTOML(path, doc))
	back, err := LoadTOML(path)
	require.NoError(t, err)
	// The encoder sorts keys, so compare in sorted form.
	sorted := func(m *document.Map) *document.Map {
		return document.FromPlain(document.Plain(m)).(*document.Map)
	}
	assert.True(t, sorted(doc).Equal(sorted(back)), "got %v", document.Plain(back))
}

func TestSaveTOMLRejectsNull(t *testing.T) {
	doc := document.NewMap()
	doc.Set("moons", nil)

	err := SaveTOML(filepath.Join(t.TempDir(), "x.toml"), doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null at /moons")

	err = SaveTOML(filepath.Join(t.TempDir(), "x.toml"), []any{1})
	assert.Error(t, err)
}
