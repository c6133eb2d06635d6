// Package walker discovers data files on disk.
//
// [ListFiles] flattens a directory tree into a list of file paths,
// [FindFiles] filters that list by a regular expression applied to the
// base name of each file, and [Glob] matches doublestar patterns such as
// "services/**/*.yml" relative to a base directory.
//
// # Path Forms
//
// Recursive listings join every entry with the base directory, so
//
//	walker.ListFiles("fixtures")
//
// yields paths like "fixtures/merge/earth.yml". A non-recursive listing only
// reports the immediate files of the directory and returns their bare names:
//
//	walker.ListFiles("fixtures/merge", walker.WithRecurse(false))
//	// [earth.yml mars.yml moons.yml solarSystem.yml]
//
// When the base directory itself is a regular file the result is a single
// element list holding the base directory argument.
//
// Entries are reported in the order returned by [os.ReadDir], which sorts by
// file name.
package walker
