// Package lexical extracts raw reference tokens from source files with
// per-language line scanners. The scanners are deliberately not parsers:
// they match statement prefixes on physical lines, tolerate arbitrary byte
// sequences, and prefer false negatives over false positives.
package lexical

import (
	"strings"

	"reposcope/internal/core/model"
)

// Scanner produces the ordered reference tokens of one file.
type Scanner interface {
	Scan(path string, content []byte) []model.ReferenceToken
}

// Registry selects a scanner by language tag. Adding a language means
// registering one implementation, not branching existing code.
type Registry struct {
	byLang map[string]Scanner
}

func NewRegistry() *Registry {
	r := &Registry{byLang: make(map[string]Scanner)}

	js := jsScanner{}
	jvm := jvmScanner{}
	c := cFamilyScanner{}

	r.Register("python", pythonScanner{})
	r.Register("javascript", js)
	r.Register("typescript", js)
	r.Register("vue", js)
	r.Register("svelte", js)
	r.Register("go", goScanner{})
	r.Register("java", jvm)
	r.Register("kotlin", jvm)
	r.Register("scala", jvm)
	r.Register("rust", rustScanner{})
	r.Register("c", c)
	r.Register("cpp", c)
	r.Register("csharp", csharpScanner{})
	r.Register("ruby", rubyScanner{})
	r.Register("php", phpScanner{})
	r.Register("shell", shellScanner{})

	return r
}

func (r *Registry) Register(lang string, s Scanner) {
	r.byLang[lang] = s
}

func (r *Registry) Supports(lang string) bool {
	_, ok := r.byLang[lang]
	return ok
}

// Extract returns the reference tokens of a classified file, or nil when the
// language is unsupported or the file is binary. Unsupported languages are a
// degradation, not an error.
func (r *Registry) Extract(node model.FileNode, content []byte) []model.ReferenceToken {
	if node.Binary {
		return nil
	}
	s, ok := r.byLang[node.Language]
	if !ok {
		return nil
	}
	return s.Scan(node.Path, content)
}

// statements splits content into trimmed physical lines. Trailing line
// continuation markers are stripped so prefix matching stays anchored at
// start-of-statement.
func statements(content []byte) []string {
	raw := strings.Split(string(content), "\n")
	out := make([]string, len(raw))
	for i, line := range raw {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		line = strings.TrimSuffix(line, "\\")
		out[i] = strings.TrimSpace(line)
	}
	return out
}

func token(path, raw string, kind model.ReferenceKind) model.ReferenceToken {
	return model.ReferenceToken{SourceFile: path, RawText: raw, Kind: kind}
}
