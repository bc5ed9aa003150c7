package lexical

import (
	"regexp"

	"reposcope/internal/core/model"
)

var shellSourceRe = regexp.MustCompile(`^(?:source|\.)\s+([^\s;|&]+)`)

type shellScanner struct{}

func (shellScanner) Scan(path string, content []byte) []model.ReferenceToken {
	var tokens []model.ReferenceToken
	for _, line := range statements(content) {
		if m := shellSourceRe.FindStringSubmatch(line); m != nil {
			tokens = append(tokens, token(path, m[1], model.KindInclude))
		}
	}
	return tokens
}
