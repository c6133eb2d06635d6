// Package validator checks data documents against JSON Schema files.
//
// Schemas are YAML or JSON files located by a base directory and a file
// name. Before validation the schema is passed through [refs.Resolve], so a
// schema may pull parts of itself from sibling files:
//
//	# solarSystemSchema.yml
//	type: object
//	properties:
//	  planets:
//	    additionalProperties:
//	      $ref: planetSchema.yml
//
// Validation is performed by github.com/santhosh-tekuri/jsonschema/v6, which
// supports drafts 4 through 2020-12. Schemas without $schema are read as
// draft 2020-12. References left in place by circular chains are loaded by
// the engine relative to the file they were written in.
//
// # Results
//
// [Validate] never fails; problems are reported as a list of [Descriptor]
// values, empty when the data is valid:
//
//	issues := validator.Validate(planet, "schemas", "planetSchema.yml")
//	for _, d := range issues {
//		fmt.Printf("%s: %s\n", d.Kind, d.Desc)
//	}
//	// ObjectValidationError: missing: earthMass,moons
//
// Every violation is collected, and violations are reported as one
// descriptor per rule category, in the order object, type, string, numeric,
// array, enum, composition and other. Each descriptor's Path is the first
// failing location in the data.
//
// A schema that cannot be found or read yields a single descriptor of kind
// [KindSchemaNotFound] with the description "No schema provided for
// validation.". A schema that cannot be parsed or compiled yields a
// [KindSchema] descriptor.
package validator
