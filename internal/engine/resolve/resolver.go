// Package resolve maps raw reference tokens onto concrete snapshot files.
// Resolution is heuristic and deliberately cheap: misses become external
// statistics, never errors, and every tie is broken by a total order
// (shortest resolved path, then lexical) so output is reproducible.
package resolve

import (
	"path"
	"sort"
	"strings"

	"reposcope/internal/core/model"
)

// Resolution is the outcome for one token: a Target path inside the
// snapshot, or an External module label when nothing matched.
type Resolution struct {
	Token    model.ReferenceToken
	Target   string
	External string
}

func (r Resolution) Resolved() bool { return r.Target != "" }

type normEntry struct {
	norm string // path with extension stripped, index files collapsed
	path string
}

type Resolver struct {
	exists map[string]bool
	// bySegment indexes normalized paths by their last segment; each list
	// is sorted by (path length, lexical) so first-match is the tie-break.
	bySegment map[string][]normEntry
	langOf    map[string]string
}

// Suffixes tried when a relative reference omits its extension, keyed by the
// source file's language.
var relativeExts = map[string][]string{
	"python":     {".py"},
	"javascript": {".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx"},
	"typescript": {".ts", ".tsx", ".js", ".jsx"},
	"vue":        {".vue", ".js", ".ts"},
	"svelte":     {".svelte", ".js", ".ts"},
	"rust":       {".rs"},
	"ruby":       {".rb"},
	"php":        {".php"},
	"shell":      {".sh"},
	"c":          {".h", ".c"},
	"cpp":        {".hpp", ".hh", ".h", ".cpp"},
}

// Folder-plus-index conventions, also keyed by source language.
var indexFiles = map[string][]string{
	"python":     {"__init__.py"},
	"javascript": {"index.js", "index.jsx", "index.ts", "index.tsx"},
	"typescript": {"index.ts", "index.tsx", "index.js", "index.jsx"},
	"rust":       {"mod.rs"},
}

func NewResolver(nodes []model.FileNode) *Resolver {
	r := &Resolver{
		exists:    make(map[string]bool, len(nodes)),
		bySegment: make(map[string][]normEntry),
		langOf:    make(map[string]string, len(nodes)),
	}

	for _, n := range nodes {
		if n.Binary {
			continue
		}
		r.exists[n.Path] = true
		r.langOf[n.Path] = n.Language
		for _, norm := range normalize(n.Path) {
			seg := norm
			if i := strings.LastIndex(norm, "/"); i >= 0 {
				seg = norm[i+1:]
			}
			r.bySegment[seg] = append(r.bySegment[seg], normEntry{norm: norm, path: n.Path})
		}
	}

	for seg := range r.bySegment {
		entries := r.bySegment[seg]
		sort.Slice(entries, func(i, j int) bool {
			if len(entries[i].path) != len(entries[j].path) {
				return len(entries[i].path) < len(entries[j].path)
			}
			return entries[i].path < entries[j].path
		})
		r.bySegment[seg] = entries
	}

	return r
}

// normalize strips the extension and, for package index files, also exposes
// the containing folder as a module path.
func normalize(p string) []string {
	ext := path.Ext(p)
	norm := strings.TrimSuffix(p, ext)
	norms := []string{norm}

	base := path.Base(norm)
	if base == "__init__" || base == "index" || base == "mod" {
		if dir := path.Dir(norm); dir != "." {
			norms = append(norms, dir)
		}
	}
	return norms
}

// ResolveAll resolves tokens in their given order. Token order is the
// path-sorted file order produced upstream, so the result order is stable.
func (r *Resolver) ResolveAll(tokens []model.ReferenceToken) []Resolution {
	out := make([]Resolution, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, r.Resolve(tok))
	}
	return out
}

func (r *Resolver) Resolve(tok model.ReferenceToken) Resolution {
	raw := strings.TrimSpace(tok.RawText)
	res := Resolution{Token: tok}
	if raw == "" {
		return res
	}

	lang := r.langOf[tok.SourceFile]

	if isRelative(raw) {
		if target := r.resolveRelative(tok.SourceFile, lang, raw); target != "" {
			res.Target = target
		}
		// A broken relative reference is unresolved but not third-party,
		// so it contributes no external label.
		return res
	}

	if target := r.resolveModulePath(raw); target != "" {
		res.Target = target
		return res
	}

	res.External = externalLabel(raw)
	return res
}

func isRelative(raw string) bool {
	return strings.HasPrefix(raw, "./") || strings.HasPrefix(raw, "../") || strings.HasPrefix(raw, ".")
}

func (r *Resolver) resolveRelative(source, lang, raw string) string {
	base := path.Dir(source)

	var rel string
	switch {
	case strings.HasPrefix(raw, "./") || strings.HasPrefix(raw, "../"):
		rel = raw
	default:
		// Python-style leading dots: one dot is the current package, each
		// additional dot climbs one folder.
		dots := 0
		for dots < len(raw) && raw[dots] == '.' {
			dots++
		}
		rel = strings.Repeat("../", dots-1) + strings.ReplaceAll(raw[dots:], ".", "/")
		if rel == "" {
			rel = "."
		}
	}

	joined := path.Clean(path.Join(base, rel))
	if strings.HasPrefix(joined, "..") {
		return ""
	}

	candidates := []string{joined}
	for _, ext := range relativeExts[lang] {
		candidates = append(candidates, joined+ext)
	}
	for _, idx := range indexFiles[lang] {
		candidates = append(candidates, path.Join(joined, idx))
	}

	for _, c := range candidates {
		if r.exists[c] {
			return c
		}
	}
	return ""
}

// resolveModulePath maps a dotted or namespaced module path to a nested
// folder path and matches the longest existing suffix.
func (r *Resolver) resolveModulePath(raw string) string {
	p := strings.ReplaceAll(raw, "::", "/")
	p = strings.ReplaceAll(p, "\\", "/")
	if !strings.Contains(p, "/") {
		p = strings.ReplaceAll(p, ".", "/")
	}
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}

	segments := strings.Split(p, "/")
	for start := 0; start < len(segments); start++ {
		cand := strings.Join(segments[start:], "/")
		if target := r.lookupSuffix(cand); target != "" {
			return target
		}
	}

	// Includes and similar references may carry their extension already.
	if r.exists[p] {
		return p
	}
	for start := 1; start < len(segments); start++ {
		cand := strings.Join(segments[start:], "/")
		if target := r.lookupExactSuffix(cand); target != "" {
			return target
		}
	}

	return ""
}

func (r *Resolver) lookupSuffix(cand string) string {
	seg := cand
	if i := strings.LastIndex(cand, "/"); i >= 0 {
		seg = cand[i+1:]
	}
	for _, e := range r.bySegment[seg] {
		if e.norm == cand || strings.HasSuffix(e.norm, "/"+cand) {
			return e.path
		}
	}
	return ""
}

// lookupExactSuffix matches raw paths that still carry an extension, e.g.
// quoted C includes referenced from a sibling tree.
func (r *Resolver) lookupExactSuffix(cand string) string {
	var best string
	for p := range r.exists {
		if p == cand || strings.HasSuffix(p, "/"+cand) {
			if best == "" || len(p) < len(best) || (len(p) == len(best) && p < best) {
				best = p
			}
		}
	}
	return best
}

// externalLabel reduces an unresolved module path to a reportable
// third-party name.
func externalLabel(raw string) string {
	p := strings.ReplaceAll(raw, "::", "/")
	p = strings.ReplaceAll(p, "\\", "/")

	if strings.Contains(p, "/") {
		first := p[:strings.Index(p, "/")]
		// Scoped npm packages keep two segments; domain-qualified paths
		// (Go style) keep the whole import.
		if strings.HasPrefix(first, "@") {
			parts := strings.SplitN(p, "/", 3)
			return strings.Join(parts[:2], "/")
		}
		if strings.Contains(first, ".") {
			return p
		}
		return first
	}

	if i := strings.Index(p, "."); i > 0 {
		return p[:i]
	}
	return p
}
