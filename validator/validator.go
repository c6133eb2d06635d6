package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/erraggy/datafile"
	"github.com/erraggy/datafile/dferrors"
	"github.com/erraggy/datafile/document"
	"github.com/erraggy/datafile/internal/fileutil"
	"github.com/erraggy/datafile/internal/httputil"
	"github.com/erraggy/datafile/loader"
	"github.com/erraggy/datafile/refs"
)

// Validate checks data against the schema file schemaFileName in
// schemaBaseDir and returns the problems found. An empty result means the
// data is valid.
func Validate(data any, schemaBaseDir, schemaFileName string) []Descriptor {
	return ValidateWithOptions(data, schemaBaseDir, schemaFileName)
}

// ValidateWithOptions is Validate with options.
func ValidateWithOptions(data any, schemaBaseDir, schemaFileName string, opts ...Option) []Descriptor {
	cfg := applyOptions(opts...)

	schema, fail := cfg.compile(schemaBaseDir, schemaFileName)
	if fail != nil {
		return []Descriptor{*fail}
	}

	instance, err := jsonValue(data)
	if err != nil {
		return []Descriptor{{Kind: KindValidation, Desc: err.Error()}}
	}
	err = schema.Validate(instance)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return []Descriptor{{Kind: KindValidation, Desc: err.Error()}}
	}
	found := describe(violations(verr))
	cfg.log.Debug("validation failed", "schema", schemaFileName, "descriptors", len(found))
	return found
}

// ValidateFile loads the data file at dataPath and validates it. Errors
// loading the data are returned; schema problems are reported as
// descriptors.
func ValidateFile(dataPath, schemaBaseDir, schemaFileName string, opts ...Option) ([]Descriptor, error) {
	cfg := applyOptions(opts...)
	data, err := loader.LoadValue(dataPath, loader.WithLogger(cfg.log))
	if err != nil {
		return nil, err
	}
	return ValidateWithOptions(data, schemaBaseDir, schemaFileName, opts...), nil
}

// compile loads, resolves and compiles the schema. On failure it returns
// the descriptor to report.
func (cfg *config) compile(baseDir, fileName string) (*jsonschema.Schema, *Descriptor) {
	if fileName == "" {
		return nil, &Descriptor{Kind: KindSchemaNotFound, Desc: DescNoSchema}
	}

	refOpts := []refs.Option{refs.WithBaseDir(baseDir), refs.WithLogger(cfg.log), refs.WithRemote(cfg.remote)}
	res, err := refs.Resolve(cfg.ctx, fileName, refOpts...)
	if err != nil {
		cfg.log.Debug("schema not loaded", "schema", fileName, "error", err)
		if errors.Is(err, dferrors.ErrIO) || errors.Is(err, dferrors.ErrMissingFileName) {
			return nil, &Descriptor{Kind: KindSchemaNotFound, Desc: DescNoSchema}
		}
		return nil, &Descriptor{Kind: KindSchema, Desc: err.Error()}
	}

	rootURL := fileName
	if !httputil.IsRemote(fileName) {
		abs, err := fileutil.Resolve(baseDir, fileName)
		if err != nil {
			return nil, &Descriptor{Kind: KindSchema, Desc: err.Error()}
		}
		rootURL = fileURL(abs)
	}
	root, err := anchorCircularRefs(res)
	if err != nil {
		return nil, &Descriptor{Kind: KindSchema, Desc: err.Error()}
	}

	c := jsonschema.NewCompiler()
	c.UseLoader(schemaLoader{cfg: cfg})
	if err := c.AddResource(rootURL, document.Plain(root)); err != nil {
		return nil, &Descriptor{Kind: KindSchema, Desc: err.Error()}
	}
	schema, err := c.Compile(rootURL)
	if err != nil {
		return nil, &Descriptor{Kind: KindSchema, Desc: err.Error()}
	}
	return schema, nil
}

// anchorCircularRefs returns a copy of the resolved schema in which every
// reference left in place by a circular chain points at the absolute
// location of its target. Written relative, such a reference would resolve
// against the root schema rather than the file it came from.
func anchorCircularRefs(res *refs.Result) (*document.Map, error) {
	circular := res.Refs.Circular()
	if len(circular) == 0 {
		return res.Resolved, nil
	}
	root := res.Resolved.Clone()
	for _, r := range circular {
		v, err := document.Lookup(root, r.Location)
		if err != nil {
			return nil, err
		}
		def, ok := v.(*document.Map)
		if !ok {
			return nil, fmt.Errorf("reference at %s is %T, not a mapping", r.Location, v)
		}
		target := r.Target
		if !httputil.IsRemote(target) {
			target = fileURL(target)
		}
		if r.Fragment != "" {
			target += "#" + r.Fragment
		}
		def.Set("$ref", target)
	}
	return root, nil
}

func fileURL(path string) string {
	u := &url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// schemaLoader loads schemas still referenced after substitution, which are
// those left in place by circular references.
type schemaLoader struct {
	cfg *config
}

func (l schemaLoader) Load(uri string) (any, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}
	var v any
	switch u.Scheme {
	case "file":
		v, err = loader.LoadValue(filepath.FromSlash(u.Path), loader.WithLogger(l.cfg.log))
		if err != nil {
			return nil, err
		}
	case "http", "https":
		if !l.cfg.remote {
			return nil, fmt.Errorf("remote schema %s: remote references are disabled", uri)
		}
		data, err := httputil.Fetch(l.cfg.ctx, httputil.NewClient(false), uri, datafile.UserAgent(), 0)
		if err != nil {
			return nil, err
		}
		v, err = loader.ParseYAML(uri, data)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported schema URI %s", uri)
	}
	l.cfg.log.Debug("loaded referenced schema", "uri", uri)
	return document.Plain(v), nil
}

// jsonValue converts data to the plain values a JSON decoder produces,
// with numbers kept exact, which is what the schema engine compares
// against.
func jsonValue(data any) (any, error) {
	raw, err := json.Marshal(document.FromPlain(data))
	if err != nil {
		return nil, fmt.Errorf("data is not JSON compatible: %w", err)
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(raw))
}
