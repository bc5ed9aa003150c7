package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reposcope/internal/core/model"
)

func nodes(pathsByLang map[string]string) []model.FileNode {
	out := make([]model.FileNode, 0, len(pathsByLang))
	for p, lang := range pathsByLang {
		out = append(out, model.FileNode{Path: p, Language: lang})
	}
	return out
}

func tok(source, raw string) model.ReferenceToken {
	return model.ReferenceToken{SourceFile: source, RawText: raw, Kind: model.KindImport}
}

func TestResolve_RelativeJavaScript(t *testing.T) {
	r := NewResolver(nodes(map[string]string{
		"src/index.js":    "javascript",
		"src/db.js":       "javascript",
		"src/routes/a.js": "javascript",
	}))

	res := r.Resolve(tok("src/index.js", "./db"))
	assert.Equal(t, "src/db.js", res.Target)

	res = r.Resolve(tok("src/routes/a.js", "../db"))
	assert.Equal(t, "src/db.js", res.Target)

	// Folder reference resolves through the index file.
	r2 := NewResolver(nodes(map[string]string{
		"src/app.js":          "javascript",
		"src/routes/index.js": "javascript",
	}))
	res = r2.Resolve(tok("src/app.js", "./routes"))
	assert.Equal(t, "src/routes/index.js", res.Target)
}

func TestResolve_PythonDots(t *testing.T) {
	r := NewResolver(nodes(map[string]string{
		"pkg/__init__.py":     "python",
		"pkg/a.py":            "python",
		"pkg/sub/__init__.py": "python",
		"pkg/sub/b.py":        "python",
	}))

	// `from . import x` resolves to the package itself.
	res := r.Resolve(tok("pkg/sub/b.py", "."))
	assert.Equal(t, "pkg/sub/__init__.py", res.Target)

	// `from ..a import x` climbs one package.
	res = r.Resolve(tok("pkg/sub/b.py", "..a"))
	assert.Equal(t, "pkg/a.py", res.Target)
}

func TestResolve_DottedModulePath(t *testing.T) {
	r := NewResolver(nodes(map[string]string{
		"utils/helpers.py": "python",
		"app.py":           "python",
	}))

	res := r.Resolve(tok("app.py", "utils.helpers"))
	assert.Equal(t, "utils/helpers.py", res.Target)

	// Suffix matching drops unmatched leading segments.
	res = r.Resolve(tok("app.py", "myproject.utils.helpers"))
	assert.Equal(t, "utils/helpers.py", res.Target)
}

func TestResolve_RustPaths(t *testing.T) {
	r := NewResolver(nodes(map[string]string{
		"src/main.rs":       "rust",
		"src/parser.rs":     "rust",
		"src/config/mod.rs": "rust",
	}))

	res := r.Resolve(tok("src/main.rs", "./parser"))
	assert.Equal(t, "src/parser.rs", res.Target)

	res = r.Resolve(tok("src/main.rs", "crate::config"))
	assert.Equal(t, "src/config/mod.rs", res.Target)
}

func TestResolve_CIncludeWithExtension(t *testing.T) {
	r := NewResolver(nodes(map[string]string{
		"src/main.c":      "c",
		"src/util/hash.h": "c",
	}))

	res := r.Resolve(tok("src/main.c", "./util/hash.h"))
	assert.Equal(t, "src/util/hash.h", res.Target)

	// Angled include naming a project header still resolves by suffix.
	res = r.Resolve(tok("src/main.c", "util/hash.h"))
	assert.Equal(t, "src/util/hash.h", res.Target)
}

func TestResolve_External(t *testing.T) {
	r := NewResolver(nodes(map[string]string{"app.py": "python", "index.js": "javascript"}))

	cases := []struct {
		source, raw, label string
	}{
		{"app.py", "flask", "flask"},
		{"app.py", "os.path", "os"},
		{"index.js", "express", "express"},
		{"index.js", "@scope/pkg/deep", "@scope/pkg"},
		{"index.js", "github.com/gobwas/glob", "github.com/gobwas/glob"},
	}
	for _, c := range cases {
		res := r.Resolve(tok(c.source, c.raw))
		assert.False(t, res.Resolved(), "raw %q", c.raw)
		assert.Equal(t, c.label, res.External, "raw %q", c.raw)
	}
}

func TestResolve_BrokenRelativeHasNoExternalLabel(t *testing.T) {
	r := NewResolver(nodes(map[string]string{"index.js": "javascript"}))

	res := r.Resolve(tok("index.js", "./gone"))
	assert.False(t, res.Resolved())
	assert.Empty(t, res.External, "broken relative references are not third-party")

	// Escaping the snapshot root never resolves.
	res = r.Resolve(tok("index.js", "../outside"))
	assert.False(t, res.Resolved())
	assert.Empty(t, res.External)
}

func TestResolve_AmbiguousTieBreak(t *testing.T) {
	// Two candidates share the segment name; the shortest path wins, then
	// lexical order.
	r := NewResolver(nodes(map[string]string{
		"a/util.py":      "python",
		"deep/b/util.py": "python",
		"app.py":         "python",
	}))

	res := r.Resolve(tok("app.py", "util"))
	assert.Equal(t, "a/util.py", res.Target)
}

func TestResolve_BinaryFilesAreNotTargets(t *testing.T) {
	r := NewResolver([]model.FileNode{
		{Path: "app.py", Language: "python"},
		{Path: "data.py", Language: "python", Binary: true},
	})

	res := r.Resolve(tok("app.py", "data"))
	assert.False(t, res.Resolved())
	assert.Equal(t, "data", res.External)
}

func TestResolveAll_PreservesOrder(t *testing.T) {
	r := NewResolver(nodes(map[string]string{"a.py": "python", "b.py": "python"}))

	all := r.ResolveAll([]model.ReferenceToken{
		tok("a.py", "b"),
		tok("a.py", "os"),
	})
	require.Len(t, all, 2)
	assert.Equal(t, "b.py", all[0].Target)
	assert.Equal(t, "os", all[1].External)
}
