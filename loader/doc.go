// Package loader reads and writes single data files.
//
// Readers resolve their path to an absolute path, read it and decode it:
//
//	doc, err := loader.LoadJSON("planets/mars.yml")
//
// LoadJSON accepts YAML and JSON alike, since JSON is a subset of YAML. The
// package also reads CSV, TOML, MessagePack and plain text, and [Load]
// dispatches on the file extension.
//
// # Error handling
//
// Every operation raises errors by default. With WithRaiseErrors(false) a
// failure is logged at debug level and a safe default is returned instead:
// "" for text, an empty map for documents and nil for records.
//
//	doc, _ := loader.LoadJSON("optional.yml", loader.WithRaiseErrors(false))
//	// doc is an empty *document.Map when optional.yml is missing
//
// Writers never create missing directories; writing into a directory that
// does not exist fails with a *dferrors.IOError.
package loader
