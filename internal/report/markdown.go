// Package report renders the structural model into human-readable documents
// and injects generated diagrams into existing Markdown files.
package report

import (
	"fmt"
	"sort"
	"strings"

	"reposcope/internal/core/model"
)

// RenderMarkdown produces the analysis report. Section order and row order
// are fixed so reports diff cleanly between runs.
func RenderMarkdown(m *model.StructuralModel) string {
	var b strings.Builder

	b.WriteString("# Repository Structure Report\n\n")
	fmt.Fprintf(&b, "Files: %d (binary: %d, skipped: %d) | Edges: %d | Unresolved references: %d\n\n",
		m.Stats.TotalFiles, m.Stats.BinaryFiles, m.Stats.SkippedFiles,
		len(m.DependencyEdges), m.Stats.UnresolvedReferences)

	writeLanguageSection(&b, m)
	writeFolderSection(&b, m)
	writeStackSection(&b, "Frameworks", m.FrameworkHits)
	writeStackSection(&b, "Datastores", m.DatastoreHits)
	writeEntrySection(&b, m)
	writeExternalSection(&b, m)

	return b.String()
}

func writeLanguageSection(b *strings.Builder, m *model.StructuralModel) {
	counts := make(map[string]int)
	lines := make(map[string]int)
	for _, n := range m.FileNodes {
		if n.Binary {
			continue
		}
		counts[n.Language]++
		lines[n.Language] += n.LineCount
	}
	if len(counts) == 0 {
		return
	}

	langs := make([]string, 0, len(counts))
	for l := range counts {
		langs = append(langs, l)
	}
	// Dominant language first; lexical order settles equal counts.
	sort.Slice(langs, func(i, j int) bool {
		if counts[langs[i]] != counts[langs[j]] {
			return counts[langs[i]] > counts[langs[j]]
		}
		return langs[i] < langs[j]
	})

	b.WriteString("## Languages\n\n")
	b.WriteString("| Language | Files | Lines |\n|---|---|---|\n")
	for _, l := range langs {
		fmt.Fprintf(b, "| %s | %d | %d |\n", l, counts[l], lines[l])
	}
	b.WriteString("\n")
}

func writeFolderSection(b *strings.Builder, m *model.StructuralModel) {
	if len(m.FolderSummaries) == 0 {
		return
	}
	b.WriteString("## Folders\n\n")
	b.WriteString("| Folder | Role | Files |\n|---|---|---|\n")
	for _, f := range m.FolderSummaries {
		fmt.Fprintf(b, "| %s | %s | %d |\n", f.Path, f.Role, f.FileCount)
	}
	b.WriteString("\n")
}

func writeStackSection(b *strings.Builder, title string, hits []model.StackHit) {
	if len(hits) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	b.WriteString("| Name | Confidence | Evidence |\n|---|---|---|\n")
	for _, h := range hits {
		fmt.Fprintf(b, "| %s | %s | %s |\n", h.Name, h.Confidence, h.EvidenceFile)
	}
	b.WriteString("\n")
}

func writeEntrySection(b *strings.Builder, m *model.StructuralModel) {
	if len(m.EntryPoints) == 0 {
		return
	}
	b.WriteString("## Entry Points\n\n")
	for _, ep := range m.EntryPoints {
		if ep.Framework != "" {
			fmt.Fprintf(b, "- `%s` (%s: %s)\n", ep.File, ep.Kind, ep.Framework)
		} else {
			fmt.Fprintf(b, "- `%s` (%s)\n", ep.File, ep.Kind)
		}
	}
	b.WriteString("\n")
}

func writeExternalSection(b *strings.Builder, m *model.StructuralModel) {
	if len(m.Stats.ExternalModules) == 0 {
		return
	}
	b.WriteString("## External Modules\n\n")
	for _, name := range m.Stats.ExternalModules {
		fmt.Fprintf(b, "- %s\n", name)
	}
	b.WriteString("\n")
}
