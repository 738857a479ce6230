// Package loader implements the pluggable import resolver described by
// spec.md §6.2: a loader is a capability set — scheme_matches, load,
// is_safe_for_hermetic — and the Resolver tries an ordered list of them
// until one claims the key.
package loader

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrNotFound is the sentinel a Capability returns when it recognizes
// the key's scheme but has nothing at that key — distinct from an I/O
// error, which the resolver treats as fatal rather than falling
// through to the next loader.
var ErrNotFound = errors.New("not found")

// Capability is one loader: it claims keys of a particular shape, can
// fetch their source text, and declares whether it is safe to run
// under a hermetic evaluation (spec.md §6.2/§5's hermetic default).
type Capability interface {
	SchemeMatches(key string) bool
	Load(key string) (string, error)
	IsSafeForHermetic() bool
}

// Resolver is the evaluator-facing Loader: an ordered list of
// Capabilities plus a base directory for relative-path resolution,
// grounded in the teacher's modules.Loader (Processing/LoadedModules
// moved up into the evaluator, since here a "module" is just one
// file's result Value rather than an exporting package).
type Resolver struct {
	Base     string
	Loaders  []Capability
	Hermetic bool
}

func NewResolver(base string, hermetic bool, loaders ...Capability) *Resolver {
	return &Resolver{Base: base, Loaders: loaders, Hermetic: hermetic}
}

// Load resolves key against r.Base (spec.md §6.2's "resolves the
// literal against the base path") and dispatches to the first
// Capability whose SchemeMatches claims it.
func (r *Resolver) Load(key string) (string, error) {
	resolved := r.resolve(key)
	for _, l := range r.Loaders {
		if !l.SchemeMatches(resolved) {
			continue
		}
		if r.Hermetic && !l.IsSafeForHermetic() {
			return "", fmt.Errorf("loader for %q is not permitted under hermetic evaluation", resolved)
		}
		src, err := l.Load(resolved)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("loading %q: %w", resolved, err)
		}
		return src, nil
	}
	return "", fmt.Errorf("%w: %q", ErrNotFound, resolved)
}

// resolve joins a relative file-like key against the base directory;
// a key carrying its own scheme (env:, mem:, or an absolute path) is
// taken verbatim.
func (r *Resolver) resolve(key string) string {
	if hasScheme(key) || path.IsAbs(key) {
		return key
	}
	return path.Join(path.Dir(r.Base), key)
}

// Resolve exposes resolve publicly so the evaluator can learn the
// fully-resolved key a nested import will be loaded at, without
// fetching it, and re-root a sub-evaluation's own relative imports
// there (spec.md §4.5's "current base path" is the file currently
// being evaluated, not the top-level program).
func (r *Resolver) Resolve(key string) string {
	return r.resolve(key)
}

// WithBase returns a Resolver identical to r but rooted at a new base
// path, so relative imports made from that file resolve against its
// own directory instead of r's. The return type is spelled out as an
// anonymous interface (rather than the evaluator's named Loader
// interface, which would require importing the evaluator package) so that
// internal/evaluator can recognize it structurally without either
// package importing the other.
func (r *Resolver) WithBase(base string) interface{ Load(key string) (string, error) } {
	return &Resolver{Base: base, Loaders: r.Loaders, Hermetic: r.Hermetic}
}

func hasScheme(key string) bool {
	i := strings.IndexByte(key, ':')
	return i > 0 && !strings.ContainsAny(key[:i], "/\\")
}
