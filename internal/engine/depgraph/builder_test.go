package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reposcope/internal/core/model"
	"reposcope/internal/engine/resolve"
)

func res(source, target, external string, kind model.ReferenceKind) resolve.Resolution {
	return resolve.Resolution{
		Token:    model.ReferenceToken{SourceFile: source, RawText: "x", Kind: kind},
		Target:   target,
		External: external,
	}
}

func TestBuild_DedupesAndSorts(t *testing.T) {
	edges, stats := Build([]resolve.Resolution{
		res("b.py", "a.py", "", model.KindImport),
		res("a.py", "b.py", "", model.KindImport),
		res("a.py", "b.py", "", model.KindRequire), // duplicate pair, first kind wins
	})

	require.Len(t, edges, 2)
	assert.Equal(t, model.DependencyEdge{Source: "a.py", Target: "b.py", Kind: model.KindImport}, edges[0])
	assert.Equal(t, model.DependencyEdge{Source: "b.py", Target: "a.py", Kind: model.KindImport}, edges[1])
	assert.Equal(t, 2, stats.ConnectedFiles)
	assert.Equal(t, 2, stats.Edges)
	assert.Zero(t, stats.Unresolved)
}

func TestBuild_DropsSelfEdges(t *testing.T) {
	edges, stats := Build([]resolve.Resolution{
		res("a.py", "a.py", "", model.KindImport),
	})
	assert.Empty(t, edges)
	assert.Zero(t, stats.Edges)
	assert.Zero(t, stats.Unresolved, "self references are dropped, not unresolved")
}

func TestBuild_OppositeDirectionsAreDistinct(t *testing.T) {
	edges, _ := Build([]resolve.Resolution{
		res("a.py", "b.py", "", model.KindImport),
		res("b.py", "a.py", "", model.KindImport),
	})
	assert.Len(t, edges, 2, "a->b and b->a are separate edges")
}

func TestBuild_UnresolvedAndExternals(t *testing.T) {
	edges, stats := Build([]resolve.Resolution{
		res("a.py", "", "flask", model.KindImport),
		res("b.py", "", "flask", model.KindImport),
		res("c.js", "", "express", model.KindRequire),
		res("c.js", "", "", model.KindRequire), // broken relative: unresolved, no label
	})

	assert.Empty(t, edges)
	assert.Equal(t, 4, stats.Unresolved)
	assert.Equal(t, []string{"express", "flask"}, stats.ExternalModules)
}

func TestBuild_EmptyInput(t *testing.T) {
	edges, stats := Build(nil)
	assert.Empty(t, edges)
	assert.Zero(t, stats.ConnectedFiles)
	assert.NotNil(t, stats.ExternalModules)
}
