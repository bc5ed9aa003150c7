package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reposcope/internal/core/model"
)

func sampleModel() *model.StructuralModel {
	m := model.Empty()
	m.FileNodes = []model.FileNode{
		{Path: "api/server.py", Language: "python", LineCount: 10, IsEntryCandidate: true},
		{Path: "api/db.py", Language: "python", LineCount: 5},
		{Path: "docs/readme.md", Language: "markdown", LineCount: 3},
	}
	m.DependencyEdges = []model.DependencyEdge{
		{Source: "api/server.py", Target: "api/db.py", Kind: model.KindImport},
	}
	m.FolderSummaries = []model.FolderSummary{
		{Path: ".", Role: model.RoleBackend, FileCount: 0},
		{Path: "api", Role: model.RoleBackend, FileCount: 2},
		{Path: "docs", Role: model.RoleMisc, FileCount: 1},
	}
	m.EntryPoints = []model.EntryPoint{
		{File: "api/server.py", Kind: model.EntryApplication},
	}
	m.Stats = model.Stats{
		TotalFiles:           3,
		UnresolvedReferences: 1,
		ExternalModules:      []string{"flask"},
	}
	return m
}

func TestMermaid_Generate(t *testing.T) {
	out := NewMermaidGenerator(sampleModel()).Generate()

	assert.Contains(t, out, "flowchart LR")
	assert.Contains(t, out, `subgraph dir_api["api [backend]"]`)
	assert.Contains(t, out, "-->")
	assert.Contains(t, out, `ext_flask["flask"]`)
	assert.Contains(t, out, "classDef entryNode")
	// Unconnected files stay out of the diagram.
	assert.NotContains(t, out, "readme")
}

func TestMermaid_HighlightsEveryEntryPoint(t *testing.T) {
	m := sampleModel()
	m.EntryPoints = []model.EntryPoint{
		{File: "api/db.py", Kind: model.EntryApplication},
		{File: "api/server.py", Kind: model.EntryApplication},
		{File: "api/server.py", Kind: model.EntryFramework},
	}

	out := NewMermaidGenerator(m).Generate()
	assert.Equal(t, 1, strings.Count(out, "classDef entryNode"))

	var classes []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "class ") {
			classes = append(classes, strings.TrimSpace(line))
		}
	}
	// One class line per distinct entry file, even when a file is both an
	// application and a framework entry.
	require.Len(t, classes, 2)
	assert.Contains(t, classes[0], "db_py")
	assert.Contains(t, classes[1], "server_py")
}

func TestMermaid_AggregatesManyExternals(t *testing.T) {
	m := sampleModel()
	m.Stats.ExternalModules = nil
	for i := 0; i < 15; i++ {
		m.Stats.ExternalModules = append(m.Stats.ExternalModules, fmt.Sprintf("mod%02d", i))
	}

	out := NewMermaidGenerator(m).Generate()
	assert.Contains(t, out, "(15 modules)")
	assert.NotContains(t, out, "mod07")
}

func TestMermaid_Deterministic(t *testing.T) {
	first := NewMermaidGenerator(sampleModel()).Generate()
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, NewMermaidGenerator(sampleModel()).Generate())
	}
}

func TestMermaid_EscapesLabels(t *testing.T) {
	assert.Equal(t, "a#quot;b c", escapeMermaidLabel("a\"b\nc"))
	assert.Equal(t, "dir_api_v2", sanitizeMermaidID("dir_api/v2"))
}

func TestDOT_Generate(t *testing.T) {
	out := NewDOTGenerator(sampleModel()).Generate()

	assert.True(t, strings.HasPrefix(out, "digraph dependencies {"))
	assert.Contains(t, out, "subgraph cluster_repo")
	assert.Contains(t, out, `"api/server.py" -> "api/db.py"`)
	assert.Contains(t, out, `"flask";`)
	// Entry files get the highlight attributes.
	assert.Contains(t, out, `"api/server.py" [fillcolor="lightyellow"`)
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestTSV_Generate(t *testing.T) {
	out := GenerateTSV(sampleModel())
	assert.Equal(t, "source\ttarget\tkind\napi/server.py\tapi/db.py\timport\n", out)
}

func TestMarshalModel_RoundTrip(t *testing.T) {
	data, err := MarshalModel(sampleModel())
	require.NoError(t, err)

	var decoded model.StructuralModel
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *sampleModel(), decoded)

	// Empty models keep empty arrays, never null.
	data, err = MarshalModel(model.Empty())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "null")
}
