package lexical

import (
	"regexp"

	"reposcope/internal/core/model"
)

var (
	cQuotedIncludeRe = regexp.MustCompile(`^#\s*include\s+"([^"]+)"`)
	cAngledIncludeRe = regexp.MustCompile(`^#\s*include\s+<([^>]+)>`)
)

// cFamilyScanner covers C and C++. Quoted includes are project-relative;
// angled includes usually name system headers and mostly end up external.
type cFamilyScanner struct{}

func (cFamilyScanner) Scan(path string, content []byte) []model.ReferenceToken {
	var tokens []model.ReferenceToken
	for _, line := range statements(content) {
		if m := cQuotedIncludeRe.FindStringSubmatch(line); m != nil {
			tokens = append(tokens, token(path, "./"+m[1], model.KindInclude))
			continue
		}
		if m := cAngledIncludeRe.FindStringSubmatch(line); m != nil {
			tokens = append(tokens, token(path, m[1], model.KindInclude))
		}
	}
	return tokens
}
