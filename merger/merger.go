package merger

import (
	"fmt"

	"github.com/erraggy/datafile/document"
	"github.com/erraggy/datafile/loader"
)

// MergeFiles loads each file and deep-merges it over the documents before
// it, starting from an empty document.
func MergeFiles(files []string, opts ...Option) (*document.Map, error) {
	cfg := applyOptions(opts...)
	acc := document.NewMap()
	for _, file := range files {
		doc, err := loader.LoadJSON(file, cfg.loaderOptions()...)
		if err != nil {
			return nil, err
		}
		acc = document.MergeMaps(acc, doc)
		cfg.log.Debug("merged file", "path", file, "keys", acc.Len())
	}
	return acc, nil
}

// LoadData merges files like MergeFiles.
//
// Deprecated: use MergeFiles.
func LoadData(files []string, opts ...Option) (*document.Map, error) {
	return MergeFiles(files, opts...)
}

// MergeByKey loads each file and, when the document has the top-level
// property keyProp, deep-merges {value of keyProp: document} into a copy of
// acc. Files without the property are skipped. Key values are converted to
// strings; a mapping or sequence value cannot name a key and the file is
// skipped with a warning. A nil acc starts from an empty document. acc is
// never modified.
func MergeByKey(files []string, keyProp string, acc *document.Map, opts ...Option) (*document.Map, error) {
	cfg := applyOptions(opts...)
	result := acc.Clone()
	if result == nil {
		result = document.NewMap()
	}
	for _, file := range files {
		doc, err := loader.LoadJSON(file, cfg.loaderOptions()...)
		if err != nil {
			return nil, err
		}
		value, ok := doc.Get(keyProp)
		if !ok {
			cfg.log.Debug("skipping file without key property", "path", file, "key", keyProp)
			continue
		}
		if !document.IsScalar(value) {
			cfg.log.Warn("skipping file with non-scalar key value", "path", file, "key", keyProp)
			continue
		}
		entry := document.NewMap()
		entry.Set(keyString(value), doc)
		result = document.MergeMaps(result, entry)
	}
	return result, nil
}

func keyString(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprint(v)
}

// MergeByFileName loads each file and stores its document in acc under the
// file path. acc is modified and returned; a nil acc is replaced by a new
// document.
func MergeByFileName(files []string, acc *document.Map, opts ...Option) (*document.Map, error) {
	cfg := applyOptions(opts...)
	if acc == nil {
		acc = document.NewMap()
	}
	for _, file := range files {
		doc, err := loader.LoadJSON(file, cfg.loaderOptions()...)
		if err != nil {
			return acc, err
		}
		acc.Set(file, doc)
	}
	return acc, nil
}

// MergeTextByFileName reads each file as text and stores the content in acc
// under the file path. acc is modified and returned; a nil acc is replaced
// by a new document.
func MergeTextByFileName(files []string, acc *document.Map, opts ...Option) (*document.Map, error) {
	cfg := applyOptions(opts...)
	if acc == nil {
		acc = document.NewMap()
	}
	for _, file := range files {
		text, err := loader.LoadText(file, cfg.loaderOptions()...)
		if err != nil {
			return acc, err
		}
		acc.Set(file, text)
	}
	return acc, nil
}

// MergeDocuments deep-merges in-memory documents in order over an empty
// document. Nil documents are skipped.
func MergeDocuments(docs ...*document.Map) *document.Map {
	return document.MergeMaps(docs...)
}
