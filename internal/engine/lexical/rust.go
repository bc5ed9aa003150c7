package lexical

import (
	"regexp"
	"strings"

	"reposcope/internal/core/model"
)

var (
	rustUseRe = regexp.MustCompile(`^(?:pub\s+)?use\s+([A-Za-z_][\w:]*)`)
	rustModRe = regexp.MustCompile(`^(?:pub\s+)?mod\s+([A-Za-z_]\w*)\s*;`)
)

type rustScanner struct{}

func (rustScanner) Scan(path string, content []byte) []model.ReferenceToken {
	var tokens []model.ReferenceToken
	for _, line := range statements(content) {
		if m := rustUseRe.FindStringSubmatch(line); m != nil {
			raw := strings.TrimSuffix(m[1], "::")
			tokens = append(tokens, token(path, raw, model.KindImport))
			continue
		}
		// `mod x;` pulls in a sibling file, so it resolves relatively.
		if m := rustModRe.FindStringSubmatch(line); m != nil {
			tokens = append(tokens, token(path, "./"+m[1], model.KindImport))
		}
	}
	return tokens
}
