// Package testutil writes fixture trees for unit tests.
//
// Fixtures are created under t.TempDir and removed when the test completes.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SolarSystemFiles lists the merge fixtures in merge order, relative to the
// directory returned by DataTree.
var SolarSystemFiles = []string{
	"merge/solarSystem.yml",
	"merge/moons.yml",
	"merge/earth.yml",
	"merge/mars.yml",
}

// ServiceFiles lists the service tree fixtures in directory order, relative
// to the directory returned by DataTree.
var ServiceFiles = []string{
	"tree/services/customers/customer/service.yml",
	"tree/services/customers/service.yml",
	"tree/services/defaults/noHeaders/service.yml",
	"tree/services/defaults/noTestCases/service.yml",
	"tree/services/monitoring/isAlive/service.yml",
}

var dataTree = map[string]string{
	"merge/solarSystem.yml": `name: The Solar System
format: yaml
comment: Planets of the solar system, merged from several files
planets:
  Mercury: {}
  Venus: {}
  Earth: {}
  Mars: {}
  Jupiter: {}
  Saturn: {}
  Uranus: {}
  Neptune: {}
  Pluto: {}
`,
	"merge/moons.yml": `planets:
  Earth:
    moons:
      Moon: {}
  Mars:
    moons:
      Deimos: {}
      Phobos: {}
`,
	"merge/earth.yml": `planets:
  Earth:
    earthMass: 1
    numOfMoons: 1
`,
	"merge/mars.yml": `planets:
  Mars:
    earthMass: 0.11
    numOfMoons: 2
`,
	"tree/services/customers/customer/service.yml": `name: getCustomer
urlPattern: /customers/{id}
method: GET
headers:
  Accept: application/json
`,
	"tree/services/customers/service.yml": `name: listCustomers
urlPattern: /customers
method: GET
`,
	"tree/services/defaults/noHeaders/service.yml": `name: noHeaders
uriTemplate: /defaults/noHeaders
method: GET
`,
	"tree/services/defaults/noTestCases/service.yml": `name: noTestCases
uriTemplate: /defaults/noTestCases
method: POST
testCases: []
`,
	"tree/services/monitoring/isAlive/service.yml": `name: isAlive
urlPattern: /monitoring/isAlive
method: GET
`,
}

// DataTree writes the solar system merge fixtures under merge/ and the
// service definitions under tree/, and returns the root directory.
func DataTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	WriteFiles(t, dir, dataTree)
	return dir
}

var schemaTree = map[string]string{
	"planetSchema.yml": `$schema: https://json-schema.org/draft/2020-12/schema
type: object
required: [earthMass, numOfMoons, moons]
properties:
  earthMass:
    type: number
    minimum: 0
  numOfMoons:
    type: integer
    minimum: 0
  moons:
    type: object
`,
	"solarSystemSchema.yml": `$schema: https://json-schema.org/draft/2020-12/schema
type: object
required: [name, planets]
properties:
  name:
    type: string
  format:
    type: string
  comment:
    type: string
  planets:
    type: object
    additionalProperties:
      $ref: planetSchema.yml
`,
	"earth.yml": `earthMass: 1
numOfMoons: 1
moons:
  Moon: {}
`,
	"invalidPlanet.yml": `numOfMoons: 0
`,
	"solarSystem.yml": `name: The Solar System
planets:
  Earth:
    earthMass: 1
    numOfMoons: 1
    moons:
      Moon: {}
  Mars:
    earthMass: 0.11
    numOfMoons: 2
    moons:
      Deimos: {}
      Phobos: {}
`,
}

// SchemaTree writes the planet and solar system schemas together with valid
// and invalid data files, and returns the directory.
func SchemaTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	WriteFiles(t, dir, schemaTree)
	return dir
}

// WriteFiles writes each relative path to its content under dir, creating
// directories as needed.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		WriteFile(t, dir, rel, content)
	}
}

// WriteFile writes content to dir/rel, creating parent directories, and
// returns the full path.
func WriteFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", rel, err)
	}
	return path
}

// Paths joins each relative fixture path onto dir.
func Paths(dir string, rels ...string) []string {
	out := make([]string, len(rels))
	for i, rel := range rels {
		out[i] = filepath.Join(dir, filepath.FromSlash(rel))
	}
	return out
}
