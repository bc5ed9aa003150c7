package lexical

import (
	"regexp"
	"strings"

	"reposcope/internal/core/model"
)

var jvmImportRe = regexp.MustCompile(`^import\s+(?:static\s+)?([\w.]+(?:\.\*)?)`)

// jvmScanner covers Java, Kotlin, and Scala import statements. Wildcard
// imports are trimmed to their package path.
type jvmScanner struct{}

func (jvmScanner) Scan(path string, content []byte) []model.ReferenceToken {
	var tokens []model.ReferenceToken
	for _, line := range statements(content) {
		m := jvmImportRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		raw := strings.TrimSuffix(m[1], ".*")
		raw = strings.TrimSuffix(raw, ".")
		if raw == "" {
			continue
		}
		tokens = append(tokens, token(path, raw, model.KindImport))
	}
	return tokens
}
