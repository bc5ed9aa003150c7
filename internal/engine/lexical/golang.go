package lexical

import (
	"regexp"
	"strings"

	"reposcope/internal/core/model"
)

var (
	goSingleRe = regexp.MustCompile(`^import\s+(?:[\w.]+\s+)?"([^"]+)"`)
	goBlockRe  = regexp.MustCompile(`^(?:[\w.]+\s+)?"([^"]+)"`)
)

type goScanner struct{}

func (goScanner) Scan(path string, content []byte) []model.ReferenceToken {
	var tokens []model.ReferenceToken
	inBlock := false
	for _, line := range statements(content) {
		if inBlock {
			if strings.HasPrefix(line, ")") {
				inBlock = false
				continue
			}
			if m := goBlockRe.FindStringSubmatch(line); m != nil {
				tokens = append(tokens, token(path, m[1], model.KindImport))
			}
			continue
		}

		if strings.HasPrefix(line, "import (") {
			inBlock = true
			continue
		}
		if m := goSingleRe.FindStringSubmatch(line); m != nil {
			tokens = append(tokens, token(path, m[1], model.KindImport))
		}
	}
	return tokens
}
