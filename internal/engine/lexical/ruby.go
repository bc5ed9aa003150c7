package lexical

import (
	"regexp"
	"strings"

	"reposcope/internal/core/model"
)

var (
	rbRequireRelRe = regexp.MustCompile(`^require_relative\s+['"]([^'"]+)['"]`)
	rbRequireRe    = regexp.MustCompile(`^require\s+['"]([^'"]+)['"]`)
)

type rubyScanner struct{}

func (rubyScanner) Scan(path string, content []byte) []model.ReferenceToken {
	var tokens []model.ReferenceToken
	for _, line := range statements(content) {
		if m := rbRequireRelRe.FindStringSubmatch(line); m != nil {
			raw := m[1]
			if !strings.HasPrefix(raw, ".") {
				raw = "./" + raw
			}
			tokens = append(tokens, token(path, raw, model.KindRequire))
			continue
		}
		if m := rbRequireRe.FindStringSubmatch(line); m != nil {
			tokens = append(tokens, token(path, m[1], model.KindRequire))
		}
	}
	return tokens
}
