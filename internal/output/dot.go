package output

import (
	"fmt"
	"strings"

	"reposcope/internal/core/model"
)

type DOTGenerator struct {
	model *model.StructuralModel
}

func NewDOTGenerator(m *model.StructuralModel) *DOTGenerator {
	return &DOTGenerator{model: m}
}

func (d *DOTGenerator) Generate() string {
	var buf strings.Builder

	buf.WriteString("digraph dependencies {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, penwidth=1.2];\n")
	buf.WriteString("  splines=polyline;\n")
	buf.WriteString("  overlap=false;\n\n")

	entryFiles := make(map[string]bool, len(d.model.EntryPoints))
	for _, ep := range d.model.EntryPoints {
		entryFiles[ep.File] = true
	}

	buf.WriteString("  subgraph cluster_repo {\n")
	buf.WriteString("    label=\"Repository Files\";\n")
	buf.WriteString("    style=filled;\n")
	buf.WriteString("    color=\"whitesmoke\";\n")
	buf.WriteString("    node [fillcolor=\"white\", style=\"rounded,filled\"];\n")
	for _, file := range connectedFiles(d.model) {
		if entryFiles[file] {
			buf.WriteString(fmt.Sprintf("    \"%s\" [fillcolor=\"lightyellow\", color=\"darkgoldenrod\", penwidth=2.0];\n", file))
		} else {
			buf.WriteString(fmt.Sprintf("    \"%s\" [color=\"darkslategrey\"];\n", file))
		}
	}
	buf.WriteString("  }\n\n")

	buf.WriteString("  // External modules\n")
	buf.WriteString("  node [fillcolor=\"gainsboro\", style=\"rounded,filled\", color=\"grey\"];\n")
	for _, name := range d.model.Stats.ExternalModules {
		buf.WriteString(fmt.Sprintf("  \"%s\";\n", name))
	}
	buf.WriteString("\n")

	for _, e := range d.model.DependencyEdges {
		buf.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [color=\"forestgreen\", penwidth=1.5];\n", e.Source, e.Target))
	}

	buf.WriteString("}\n")
	return buf.String()
}
