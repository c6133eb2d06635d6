package refs

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/erraggy/datafile"
	"github.com/erraggy/datafile/dferrors"
	"github.com/erraggy/datafile/document"
	"github.com/erraggy/datafile/internal/fileutil"
	"github.com/erraggy/datafile/internal/httputil"
	"github.com/erraggy/datafile/loader"
)

// pending is a referenced document that has not been loaded yet.
type pending struct {
	ref    string
	target string
	from   string
}

type resolver struct {
	cfg  *config
	docs map[string]any
	refs *RefMap

	expansions int
	nodes      int
}

// Resolve loads the file at path and substitutes its relative and remote
// references. The root file must hold a mapping. Failure to load the root
// is returned as is; any failure while following a reference is returned
// as a *dferrors.ReferenceError.
func Resolve(ctx context.Context, path string, opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, dferrors.MissingFileName("path")
	}

	r := &resolver{
		cfg:  cfg,
		docs: make(map[string]any),
		refs: &RefMap{},
	}

	rootURI := path
	if !httputil.IsRemote(path) {
		rootURI, err = fileutil.Resolve(cfg.baseDir, path)
		if err != nil {
			return nil, err
		}
	}
	root, err := r.loadRoot(ctx, rootURI)
	if err != nil {
		return nil, err
	}

	if err := r.loadAll(ctx, rootURI, root); err != nil {
		return nil, err
	}

	resolved, err := r.substitute(root, rootURI, nil, []string{rootURI + "#"})
	if err != nil {
		return nil, err
	}
	doc, ok := resolved.(*document.Map)
	if !ok {
		return nil, &dferrors.ReferenceError{Location: "#", Message: fmt.Sprintf("root reference resolved to %T, not a mapping", resolved)}
	}
	cfg.log.Debug("resolved references", "path", rootURI, "documents", len(r.docs), "refs", r.refs.Len())
	return &Result{Resolved: doc, Refs: r.refs}, nil
}

func (r *resolver) loadRoot(ctx context.Context, uri string) (*document.Map, error) {
	if !httputil.IsRemote(uri) {
		return loader.LoadJSON(uri, loader.WithLogger(r.cfg.log), loader.WithMaxFileSize(r.cfg.maxFileSize))
	}
	if !r.cfg.remote {
		return nil, &dferrors.ConfigError{Option: "remote", Value: uri, Message: "remote documents are disabled"}
	}
	v, err := r.fetch(ctx, uri)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case nil:
		return document.NewMap(), nil
	case *document.Map:
		return t, nil
	default:
		return nil, &dferrors.ParseError{Path: uri, Format: "yaml", Message: fmt.Sprintf("top-level value is %T, not a mapping", v)}
	}
}

// fetch loads one document from disk or over HTTP.
func (r *resolver) fetch(ctx context.Context, uri string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !httputil.IsRemote(uri) {
		return loader.LoadValue(uri, loader.WithLogger(r.cfg.log), loader.WithMaxFileSize(r.cfg.maxFileSize))
	}
	data, err := httputil.Fetch(ctx, r.cfg.client, uri, datafile.UserAgent(), r.cfg.maxFileSize)
	if err != nil {
		return nil, err
	}
	r.cfg.log.Debug("fetched document", "url", uri, "bytes", len(data))
	return loader.ParseYAML(uri, data)
}

// loadAll loads every document reachable from root, one breadth-first wave
// at a time.
func (r *resolver) loadAll(ctx context.Context, rootURI string, root any) error {
	r.docs[rootURI] = root
	wave, err := r.collect(nil, rootURI, root)
	if err != nil {
		return err
	}

	for len(wave) > 0 {
		if total := len(r.docs) + len(wave); total > MaxDocuments {
			return &dferrors.ResourceLimitError{
				ResourceType: "documents",
				Limit:        MaxDocuments,
				Actual:       int64(total),
				Message:      "too many referenced documents",
			}
		}

		loaded := make([]any, len(wave))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.cfg.concurrency)
		for i, p := range wave {
			g.Go(func() error {
				doc, err := r.fetch(gctx, p.target)
				if err != nil {
					return &dferrors.ReferenceError{
						Ref:     p.ref,
						RefType: Classify(p.ref),
						Message: fmt.Sprintf("failed to load %s referenced from %s", p.target, p.from),
						Cause:   err,
					}
				}
				loaded[i] = doc
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for i, p := range wave {
			r.docs[p.target] = loaded[i]
		}
		var next []pending
		for i, p := range wave {
			next, err = r.collect(next, p.target, loaded[i])
			if err != nil {
				return err
			}
		}
		r.cfg.log.Debug("loaded reference wave", "documents", len(wave), "next", len(next))
		wave = next
	}
	return nil
}

// collect appends the not yet loaded targets referenced from v, which was
// loaded from base.
func (r *resolver) collect(out []pending, base string, v any) ([]pending, error) {
	switch t := v.(type) {
	case *document.Map:
		if _, ref, ok := refString(t); ok {
			if Classify(ref) == TypeLocal {
				return out, nil
			}
			target, _, err := r.target(base, ref)
			if err != nil {
				return nil, err
			}
			if _, loaded := r.docs[target]; loaded {
				return out, nil
			}
			if slices.ContainsFunc(out, func(p pending) bool { return p.target == target }) {
				return out, nil
			}
			return append(out, pending{ref: ref, target: target, from: base}), nil
		}
		for _, item := range t.All() {
			var err error
			if out, err = r.collect(out, base, item); err != nil {
				return nil, err
			}
		}
	case []any:
		for _, item := range t {
			var err error
			if out, err = r.collect(out, base, item); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// target returns the document a reference found in base points to and the
// fragment within it.
func (r *resolver) target(base, ref string) (string, string, error) {
	refErr := func(msg string, cause error) error {
		return &dferrors.ReferenceError{Ref: ref, RefType: Classify(ref), Message: msg, Cause: cause}
	}
	if ref == "" {
		return "", "", refErr("empty reference", nil)
	}
	p, frag := splitFragment(ref)

	if httputil.IsRemote(p) || httputil.IsRemote(base) {
		b, err := url.Parse(base)
		if err != nil {
			return "", "", refErr("invalid base URL", err)
		}
		u, err := url.Parse(p)
		if err != nil {
			return "", "", refErr("invalid URL", err)
		}
		abs := b.ResolveReference(u)
		abs.Fragment = ""
		if !r.cfg.remote {
			return "", "", refErr("remote references are disabled", nil)
		}
		return abs.String(), frag, nil
	}

	if strings.Contains(p, "://") {
		return "", "", refErr("unsupported reference scheme", nil)
	}
	if unescaped, err := url.PathUnescape(p); err == nil {
		p = unescaped
	}
	p = filepath.FromSlash(p)
	if !filepath.IsAbs(p) {
		p = filepath.Join(filepath.Dir(base), p)
	}
	return filepath.Clean(p), frag, nil
}

// substitute returns a copy of v with references replaced. base is the
// document v came from, loc its pointer tokens in the result and chain the
// targets currently being expanded.
func (r *resolver) substitute(v any, base string, loc []string, chain []string) (any, error) {
	r.nodes++
	if r.nodes > MaxExpandedNodes {
		return nil, &dferrors.ResourceLimitError{
			ResourceType: "expanded_nodes",
			Limit:        MaxExpandedNodes,
			Actual:       int64(r.nodes),
			Message:      "resolved document too large at " + document.Pointer(loc...),
		}
	}
	switch t := v.(type) {
	case *document.Map:
		if def, ref, ok := refString(t); ok && Classify(ref) != TypeLocal {
			return r.expand(def, ref, base, loc, chain)
		}
		out := document.NewMapWithCapacity(t.Len())
		for k, item := range t.All() {
			sub, err := r.substitute(item, base, append(slices.Clip(loc), k), chain)
			if err != nil {
				return nil, err
			}
			out.Set(k, sub)
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			sub, err := r.substitute(item, base, append(slices.Clip(loc), strconv.Itoa(i)), chain)
			if err != nil {
				return nil, err
			}
			out[i] = sub
		}
		return out, nil
	default:
		return v, nil
	}
}

func (r *resolver) expand(def *document.Map, ref, base string, loc []string, chain []string) (any, error) {
	location := document.Pointer(loc...)
	target, frag, err := r.target(base, ref)
	if err != nil {
		var re *dferrors.ReferenceError
		if errors.As(err, &re) {
			re.Location = location
		}
		return nil, err
	}

	rec := &Ref{
		Location: location,
		URI:      ref,
		Type:     Classify(ref),
		Target:   target,
		Fragment: frag,
		Def:      def.Clone(),
	}

	key := target + "#" + frag
	if slices.Contains(chain, key) {
		rec.Circular = true
		r.refs.add(rec)
		r.cfg.log.Debug("circular reference left in place", "ref", ref, "location", location)
		return def.Clone(), nil
	}
	if len(chain) > MaxRefDepth {
		return nil, &dferrors.ResourceLimitError{
			ResourceType: "ref_depth",
			Limit:        MaxRefDepth,
			Actual:       int64(len(chain)),
			Message:      "reference chain too long at " + location,
		}
	}

	doc, ok := r.docs[target]
	if !ok {
		return nil, &dferrors.ReferenceError{Ref: ref, RefType: rec.Type, Location: location, Message: "document was not loaded: " + target}
	}
	value, err := document.Lookup(doc, "#"+frag)
	if err != nil {
		return nil, &dferrors.ReferenceError{Ref: ref, RefType: rec.Type, Location: location, Message: "target not found in " + target, Cause: err}
	}

	r.expansions++
	if r.expansions > MaxRefExpansions {
		return nil, &dferrors.ResourceLimitError{
			ResourceType: "ref_expansions",
			Limit:        MaxRefExpansions,
			Actual:       int64(r.expansions),
			Message:      "too many reference substitutions at " + location,
		}
	}

	r.refs.add(rec)
	resolved, err := r.substitute(value, target, loc, append(slices.Clip(chain), key))
	if err != nil {
		return nil, err
	}
	rec.Value = resolved
	return resolved, nil
}
