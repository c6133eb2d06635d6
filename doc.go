// Package datafile loads, merges, resolves and validates structured data files.
//
// It reads YAML, JSON, CSV, TOML, MessagePack and plain text files, combines
// many documents into one, follows cross-file "$ref" references and checks
// documents against JSON Schema files. A command-line tool and an MCP server
// expose the same operations.
//
// # Packages
//
//   - document: ordered maps, deep merge, JSON pointers and codecs
//   - loader: read and write single files
//   - walker: list and find files under a directory
//   - merger: merge many files into one document
//   - refs: resolve relative and remote "$ref" references
//   - validator: validate documents against JSON Schema files
//   - dferrors: structured error types shared by all packages
//   - logger: the logging interface and its slog and zap adapters
//
// # Quick Start
//
// Merge every YAML file under a directory:
//
//	import (
//		"github.com/erraggy/datafile/merger"
//		"github.com/erraggy/datafile/walker"
//	)
//
//	files, err := walker.Glob("data", "**/*.yml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	merged, err := merger.MergeFiles(files)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Index service definitions by a property they declare, falling back to a
// second naming convention:
//
//	byURL, err := merger.MergeByKey(files, "urlPattern", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	all, err := merger.MergeByKey(files, "uriTemplate", byURL)
//
// Validate a document against a schema stored next to other schema files:
//
//	doc, _ := loader.LoadJSON("planets/mars.yml")
//	for _, d := range validator.Validate(doc, "schemas", "planetSchema.yml") {
//		fmt.Printf("%s: %s\n", d.Kind, d.Desc)
//	}
//
// # Error handling
//
// Readers raise errors by default. Pass loader.WithRaiseErrors(false) to get
// a safe default value instead. Errors can be inspected with errors.Is and
// errors.As against the types in dferrors:
//
//	_, err := loader.LoadJSON("missing.yml")
//	if errors.Is(err, dferrors.ErrIO) {
//		// file could not be read
//	}
package datafile
