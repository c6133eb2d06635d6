// Package dferrors provides structured error types for the datafile library.
//
// Import path: github.com/erraggy/datafile/dferrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between a missing argument, an unreadable file,
// malformed content and a failed reference resolution.
//
// # Error Types
//
//   - [IOError]: file not found, permission denied, missing directory on write
//   - [ParseError]: malformed YAML/JSON/CSV/TOML/MessagePack content
//   - [ReferenceError]: a $ref target could not be loaded, parsed or located
//   - [ResourceLimitError]: depth, size or document-count limits
//   - [ConfigError]: invalid options or missing required inputs
//
// # Sentinel Errors
//
//   - [ErrMissingFileName]: a required file name was empty
//   - [ErrIO]: Matches any [IOError]
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrReference]: Matches any [ReferenceError]
//   - [ErrCircularReference]: Matches [ReferenceError] with IsCircular=true
//   - [ErrResourceLimit]: Matches any [ResourceLimitError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Example
//
//	doc, err := loader.LoadJSON("planets.yml")
//	if err != nil {
//	    var ioErr *dferrors.IOError
//	    switch {
//	    case errors.Is(err, dferrors.ErrMissingFileName):
//	        // no file name given
//	    case errors.As(err, &ioErr) && errors.Is(ioErr, fs.ErrNotExist):
//	        // file does not exist
//	    }
//	}
package dferrors
