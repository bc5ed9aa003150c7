package lexical

import (
	"regexp"

	"reposcope/internal/core/model"
)

var (
	pyImportRe = regexp.MustCompile(`^import\s+([A-Za-z_][\w.]*)`)
	pyFromRe   = regexp.MustCompile(`^from\s+(\.+[\w.]*|[A-Za-z_][\w.]*)\s+import\b`)
)

type pythonScanner struct{}

func (pythonScanner) Scan(path string, content []byte) []model.ReferenceToken {
	var tokens []model.ReferenceToken
	for _, line := range statements(content) {
		if m := pyImportRe.FindStringSubmatch(line); m != nil {
			tokens = append(tokens, token(path, m[1], model.KindImport))
			continue
		}
		if m := pyFromRe.FindStringSubmatch(line); m != nil {
			tokens = append(tokens, token(path, m[1], model.KindImport))
		}
	}
	return tokens
}
