package lexical

import (
	"regexp"

	"reposcope/internal/core/model"
)

var (
	jsFromRe    = regexp.MustCompile(`^(?:import|export)\b[^'"]*\bfrom\s+['"]([^'"]+)['"]`)
	jsBareRe    = regexp.MustCompile(`^import\s+['"]([^'"]+)['"]`)
	jsRequireRe = regexp.MustCompile(`^(?:(?:const|let|var)\s+[^=]+=\s*)?require\s*\(\s*['"]([^'"]+)['"]\s*\)`)
	jsDynamicRe = regexp.MustCompile(`^(?:(?:const|let|var)\s+[^=]+=\s*)?(?:await\s+)?import\s*\(\s*['"]([^'"]+)['"]\s*\)`)
)

// jsScanner covers JavaScript, TypeScript, and the script blocks of Vue and
// Svelte single-file components. Only statement-initial forms are matched,
// so requires buried in expressions are deliberately missed.
type jsScanner struct{}

func (jsScanner) Scan(path string, content []byte) []model.ReferenceToken {
	var tokens []model.ReferenceToken
	for _, line := range statements(content) {
		if m := jsFromRe.FindStringSubmatch(line); m != nil {
			tokens = append(tokens, token(path, m[1], model.KindImport))
			continue
		}
		if m := jsBareRe.FindStringSubmatch(line); m != nil {
			tokens = append(tokens, token(path, m[1], model.KindImport))
			continue
		}
		if m := jsRequireRe.FindStringSubmatch(line); m != nil {
			tokens = append(tokens, token(path, m[1], model.KindRequire))
			continue
		}
		if m := jsDynamicRe.FindStringSubmatch(line); m != nil {
			tokens = append(tokens, token(path, m[1], model.KindImport))
		}
	}
	return tokens
}
