// Package depgraph assembles resolved references into a deduplicated,
// deterministic directed graph over snapshot files.
package depgraph

import (
	"sort"

	"reposcope/internal/core/model"
	"reposcope/internal/engine/resolve"
)

// Stats are derived counts, recomputed from the edge set on every build.
// ConnectedFiles counts distinct edge endpoints only; entry points without
// edges are detected after the graph is built and are not included here.
type Stats struct {
	ConnectedFiles  int
	Edges           int
	Unresolved      int
	ExternalModules []string
}

// Build merges resolutions into the final edge set. Self-references are
// dropped and multiple tokens for the same ordered (source, target) pair
// collapse into one edge; the first token in input order decides the kind.
func Build(resolutions []resolve.Resolution) ([]model.DependencyEdge, Stats) {
	type key struct{ source, target string }

	edges := make(map[key]model.DependencyEdge)
	external := make(map[string]bool)
	stats := Stats{}

	for _, res := range resolutions {
		if !res.Resolved() {
			stats.Unresolved++
			if res.External != "" {
				external[res.External] = true
			}
			continue
		}
		source := res.Token.SourceFile
		if source == res.Target {
			continue
		}
		k := key{source: source, target: res.Target}
		if _, seen := edges[k]; seen {
			continue
		}
		edges[k] = model.DependencyEdge{
			Source: source,
			Target: res.Target,
			Kind:   res.Token.Kind,
		}
	}

	out := make([]model.DependencyEdge, 0, len(edges))
	for _, e := range edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})

	nodes := make(map[string]bool)
	for _, e := range out {
		nodes[e.Source] = true
		nodes[e.Target] = true
	}

	stats.ConnectedFiles = len(nodes)
	stats.Edges = len(out)
	stats.ExternalModules = sortedKeys(external)
	return out, stats
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
