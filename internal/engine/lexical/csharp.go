package lexical

import (
	"regexp"

	"reposcope/internal/core/model"
)

// Plain using directives only; using-statements and alias forms are skipped.
var csUsingRe = regexp.MustCompile(`^(?:global\s+)?using\s+(?:static\s+)?([A-Za-z_][\w.]*)\s*;`)

type csharpScanner struct{}

func (csharpScanner) Scan(path string, content []byte) []model.ReferenceToken {
	var tokens []model.ReferenceToken
	for _, line := range statements(content) {
		if m := csUsingRe.FindStringSubmatch(line); m != nil {
			tokens = append(tokens, token(path, m[1], model.KindImport))
		}
	}
	return tokens
}
