// Package output renders the structural model as graph-description text for
// downstream diagram tooling. Every emitter iterates the model's sorted
// containers, so output is byte-identical across runs.
package output

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"reposcope/internal/core/model"
)

const externalAggregationThreshold = 10

const externalAggregateNodeID = "__external__"

type MermaidGenerator struct {
	model *model.StructuralModel
}

func NewMermaidGenerator(m *model.StructuralModel) *MermaidGenerator {
	return &MermaidGenerator{model: m}
}

// Generate emits a flowchart with one subgraph per folder, labelled with the
// folder's role, plus an aggregated node for external modules when there are
// too many to draw individually.
func (g *MermaidGenerator) Generate() string {
	var b strings.Builder
	b.WriteString("%%{init: {'flowchart': {'nodeSpacing': 60, 'rankSpacing': 90, 'curve': 'basis'}}}%%\n")
	b.WriteString("flowchart LR\n")

	connected := connectedFiles(g.model)
	byFolder := groupByFolder(g.model.FileNodes, connected)
	ids := makeMermaidIDs(connected)

	folders := make([]string, 0, len(byFolder))
	for f := range byFolder {
		folders = append(folders, f)
	}
	sort.Strings(folders)

	roleByFolder := make(map[string]model.FolderRole, len(g.model.FolderSummaries))
	for _, fs := range g.model.FolderSummaries {
		roleByFolder[fs.Path] = fs.Role
	}

	for _, folder := range folders {
		label := folder
		if role, ok := roleByFolder[folder]; ok {
			label = fmt.Sprintf("%s [%s]", folder, role)
		}
		b.WriteString(fmt.Sprintf("  subgraph %s[\"%s\"]\n", sanitizeMermaidID("dir_"+folder), escapeMermaidLabel(label)))
		for _, file := range byFolder[folder] {
			b.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", ids[file], escapeMermaidLabel(file)))
		}
		b.WriteString("  end\n")
	}

	external := g.model.Stats.ExternalModules
	aggregateExternal := len(external) > externalAggregationThreshold
	if aggregateExternal {
		b.WriteString(fmt.Sprintf("  %s[\"External\\n(%d modules)\"]\n", externalAggregateNodeID, len(external)))
	} else {
		for _, name := range external {
			b.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", sanitizeMermaidID("ext_"+name), escapeMermaidLabel(name)))
		}
	}

	b.WriteString("\n")
	for _, e := range g.model.DependencyEdges {
		b.WriteString(fmt.Sprintf("  %s --> %s\n", ids[e.Source], ids[e.Target]))
	}

	wroteClassDef := false
	seenEntry := make(map[string]bool, len(g.model.EntryPoints))
	for _, ep := range g.model.EntryPoints {
		id, ok := ids[ep.File]
		if !ok || seenEntry[id] {
			continue
		}
		seenEntry[id] = true
		if !wroteClassDef {
			b.WriteString("  classDef entryNode fill:#fff4e0,stroke:#b8860b,stroke-width:2px;\n")
			wroteClassDef = true
		}
		b.WriteString(fmt.Sprintf("  class %s entryNode;\n", id))
	}

	return b.String()
}

// connectedFiles returns the sorted set of files worth drawing: edge
// endpoints and entry points.
func connectedFiles(m *model.StructuralModel) []string {
	set := make(map[string]bool)
	for _, e := range m.DependencyEdges {
		set[e.Source] = true
		set[e.Target] = true
	}
	for _, ep := range m.EntryPoints {
		set[ep.File] = true
	}
	files := make([]string, 0, len(set))
	for f := range set {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

func groupByFolder(nodes []model.FileNode, files []string) map[string][]string {
	include := make(map[string]bool, len(files))
	for _, f := range files {
		include[f] = true
	}
	byFolder := make(map[string][]string)
	for _, n := range nodes {
		if !include[n.Path] {
			continue
		}
		folder := "."
		if i := strings.LastIndex(n.Path, "/"); i >= 0 {
			folder = n.Path[:i]
		}
		byFolder[folder] = append(byFolder[folder], n.Path)
	}
	return byFolder
}

func makeMermaidIDs(names []string) map[string]string {
	ids := make(map[string]string, len(names))
	for i, name := range names {
		ids[name] = fmt.Sprintf("n%d_%s", i, sanitizeMermaidID(name))
	}
	return ids
}

func sanitizeMermaidID(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func escapeMermaidLabel(label string) string {
	label = strings.ReplaceAll(label, `"`, `#quot;`)
	return strings.ReplaceAll(label, "\n", " ")
}
