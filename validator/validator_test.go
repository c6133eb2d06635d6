package validator

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/datafile/dferrors"
	"github.com/erraggy/datafile/document"
	"github.com/erraggy/datafile/internal/testutil"
	"github.com/erraggy/datafile/loader"
)

func loadFixture(t *testing.T, dir, name string) *document.Map {
	t.Helper()
	doc, err := loader.LoadJSON(filepath.Join(dir, name))
	require.NoError(t, err)
	return doc
}

func TestValidateSingleSchema(t *testing.T) {
	dir := testutil.SchemaTree(t)
	earth := loadFixture(t, dir, "earth.yml")

	assert.Empty(t, Validate(earth, dir, "planetSchema.yml"))
}

func TestValidateReferencedSchema(t *testing.T) {
	dir := testutil.SchemaTree(t)
	solar := loadFixture(t, dir, "solarSystem.yml")

	assert.Empty(t, Validate(solar, dir, "solarSystemSchema.yml"))

	planets, _ := solar.Get("planets")
	mars, _ := planets.(*document.Map).Get("Mars")
	mars.(*document.Map).Delete("moons")

	got := Validate(solar, dir, "solarSystemSchema.yml")
	require.Len(t, got, 1)
	assert.Equal(t, KindObject, got[0].Kind)
	assert.Equal(t, "missing: moons", got[0].Desc)
}

func TestValidateMissingProperties(t *testing.T) {
	dir := testutil.SchemaTree(t)
	invalid := loadFixture(t, dir, "invalidPlanet.yml")

	got := Validate(invalid, dir, "planetSchema.yml")
	require.Len(t, got, 1)
	assert.Equal(t, "ObjectValidationError", got[0].Kind)
	assert.Equal(t, "missing: earthMass,moons", got[0].Desc)
	assert.Equal(t, "#", got[0].Path)
}

func TestValidateMissingSchema(t *testing.T) {
	dir := testutil.SchemaTree(t)
	earth := loadFixture(t, dir, "earth.yml")

	got := Validate(earth, dir, "missingSchema.yml")
	require.Len(t, got, 1)
	assert.Equal(t, KindSchemaNotFound, got[0].Kind)
	assert.Equal(t, "No schema provided for validation.", got[0].Desc)

	got = Validate(earth, dir, "")
	require.Len(t, got, 1)
	assert.Equal(t, DescNoSchema, got[0].Desc)
}

func TestValidateInvalidSchema(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "broken.yml", "type: [\n")
	testutil.WriteFile(t, dir, "badtype.yml", "type: 5\n")

	got := Validate(map[string]any{}, dir, "broken.yml")
	require.Len(t, got, 1)
	assert.Equal(t, KindSchema, got[0].Kind)

	got = Validate(map[string]any{}, dir, "badtype.yml")
	require.Len(t, got, 1)
	assert.Equal(t, KindSchema, got[0].Kind)
}

func TestValidateKinds(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "schema.yml", `type: object
additionalProperties: false
properties:
  name:
    type: string
    maxLength: 3
  size:
    type: integer
    minimum: 1
  tags:
    type: array
    maxItems: 1
  color:
    enum: [red, green]
  any:
    anyOf:
      - type: string
      - type: boolean
`)

	tests := []struct {
		name string
		data map[string]any
		kind string
		desc string
	}{
		{"valid", map[string]any{"name": "abc", "size": 2}, "", ""},
		{"type", map[string]any{"name": 1}, KindType, ""},
		{"string", map[string]any{"name": "toolong"}, KindString, ""},
		{"numeric", map[string]any{"size": 0}, KindNumeric, ""},
		{"array", map[string]any{"tags": []any{"a", "b"}}, KindArray, ""},
		{"enum", map[string]any{"color": "blue"}, KindEnum, ""},
		{"composition", map[string]any{"any": 3}, KindComposition, ""},
		{"additional", map[string]any{"extra": 1}, KindObject, "unexpected: extra"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.data, dir, "schema.yml")
			if tt.kind == "" {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tt.kind, got[0].Kind, "desc: %s", got[0].Desc)
			if tt.desc != "" {
				assert.Equal(t, tt.desc, got[0].Desc)
			}
		})
	}
}

func TestValidateCircularSchema(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "node.yml", `type: object
required: [value]
properties:
  value:
    type: integer
  next:
    $ref: node.yml
`)
	valid := map[string]any{"value": 1, "next": map[string]any{"value": 2, "next": map[string]any{"value": 3}}}
	assert.Empty(t, Validate(valid, dir, "node.yml"))

	invalid := map[string]any{"value": 1, "next": map[string]any{"next": map[string]any{"value": 3}}}
	got := Validate(invalid, dir, "node.yml")
	require.Len(t, got, 1)
	assert.Equal(t, "missing: value", got[0].Desc)
	assert.Equal(t, "#/next", got[0].Path)
}

func TestValidateCircularSchemaInSubdirectory(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"root.yml": "type: object\nproperties:\n  tree:\n    $ref: nodes/node.yml\n",
		"nodes/node.yml": `type: object
required: [value]
properties:
  value:
    type: integer
  next:
    $ref: node.yml
`,
	})

	valid := map[string]any{"tree": map[string]any{"value": 1, "next": map[string]any{"value": 2}}}
	assert.Empty(t, Validate(valid, dir, "root.yml"))

	invalid := map[string]any{"tree": map[string]any{"value": 1, "next": map[string]any{"next": map[string]any{"value": 3}}}}
	got := Validate(invalid, dir, "root.yml")
	require.Len(t, got, 1)
	assert.Equal(t, KindObject, got[0].Kind)
	assert.Equal(t, "missing: value", got[0].Desc)
	assert.Equal(t, "#/tree/next", got[0].Path)
}

func TestValidateReportsEveryCategory(t *testing.T) {
	dir := testutil.SchemaTree(t)

	got := Validate(map[string]any{"numOfMoons": "two"}, dir, "planetSchema.yml")
	require.Len(t, got, 2)
	assert.Equal(t, Descriptor{Kind: KindObject, Desc: "missing: earthMass,moons", Path: "#"}, got[0])
	assert.Equal(t, KindType, got[1].Kind)
	assert.Equal(t, "#/numOfMoons", got[1].Path)
	assert.Contains(t, got[1].Desc, "want integer")
}

func TestValidateGroupsViolationsByKind(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "schema.yml", `type: object
additionalProperties: false
required: [id]
properties:
  id:
    type: integer
  name:
    type: string
    maxLength: 3
  label:
    type: string
    minLength: 2
  size:
    type: integer
    minimum: 1
  color:
    enum: [red, green]
`)

	data := map[string]any{
		"name":  "toolong",
		"label": "x",
		"size":  0,
		"color": "blue",
		"b":     1,
		"a":     2,
	}
	got := Validate(data, dir, "schema.yml")

	kinds := make([]string, 0, len(got))
	for _, d := range got {
		kinds = append(kinds, d.Kind)
	}
	assert.Equal(t, []string{KindObject, KindString, KindNumeric, KindEnum}, kinds)

	assert.Equal(t, "missing: id; unexpected: a,b", got[0].Desc)
	assert.Equal(t, "#/label", got[1].Path)
	assert.Contains(t, got[1].Desc, "#/label: ")
	assert.Contains(t, got[1].Desc, "; #/name: ")
	assert.Equal(t, "#/size", got[2].Path)
	assert.Equal(t, "#/color", got[3].Path)

	again := Validate(data, dir, "schema.yml")
	assert.Equal(t, got, again)
}

func TestValidateFile(t *testing.T) {
	dir := testutil.SchemaTree(t)

	got, err := ValidateFile(filepath.Join(dir, "invalidPlanet.yml"), dir, "planetSchema.yml",
		WithContext(context.Background()))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, KindObject, got[0].Kind)

	_, err = ValidateFile(filepath.Join(dir, "missing.yml"), dir, "planetSchema.yml")
	assert.True(t, errors.Is(err, dferrors.ErrIO))
}
