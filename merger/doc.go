// Package merger combines data files into a single document.
//
// Three strategies are provided:
//
//   - [MergeFiles] deep-merges documents in list order. Mappings merge key by
//     key, any other value from a later file replaces the earlier one.
//   - [MergeByKey] stores each document under the value of one of its own
//     properties, for example every service definition under its
//     "urlPattern". Passes can be chained by feeding the result of one call
//     in as the accumulator of the next.
//   - [MergeByFileName] and [MergeTextByFileName] store each document, or the
//     raw text of each file, under the file's path.
//
// MergeFiles and MergeByKey never modify their inputs. The file name
// aggregations fill the accumulator passed in and return it, so callers
// sharing an accumulator across calls see every addition.
//
// Files are always loaded with errors raised: the first file that cannot be
// read or parsed aborts the merge and its error is returned.
//
// # Example
//
//	files, _ := walker.FindFilesString("services", `^service\.yml$`)
//	byURL, err := merger.MergeByKey(files, "urlPattern", nil)
//	if err != nil {
//		return err
//	}
//	all, err := merger.MergeByKey(files, "uriTemplate", byURL)
package merger
