package lexical

import (
	"regexp"

	"reposcope/internal/core/model"
)

var (
	phpUseRe     = regexp.MustCompile(`^use\s+([A-Za-z_][\w\\]*)`)
	phpRequireRe = regexp.MustCompile(`^(?:require|include)(?:_once)?\s*\(?\s*['"]([^'"]+)['"]`)
)

type phpScanner struct{}

func (phpScanner) Scan(path string, content []byte) []model.ReferenceToken {
	var tokens []model.ReferenceToken
	for _, line := range statements(content) {
		if m := phpUseRe.FindStringSubmatch(line); m != nil {
			tokens = append(tokens, token(path, m[1], model.KindImport))
			continue
		}
		if m := phpRequireRe.FindStringSubmatch(line); m != nil {
			tokens = append(tokens, token(path, m[1], model.KindRequire))
		}
	}
	return tokens
}
