package output

import (
	"fmt"
	"strings"

	"reposcope/internal/core/model"
)

// GenerateTSV emits the edge list as source<TAB>target<TAB>kind rows.
func GenerateTSV(m *model.StructuralModel) string {
	var b strings.Builder
	b.WriteString("source\ttarget\tkind\n")
	for _, e := range m.DependencyEdges {
		fmt.Fprintf(&b, "%s\t%s\t%s\n", e.Source, e.Target, e.Kind)
	}
	return b.String()
}
