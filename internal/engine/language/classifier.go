package language

import (
	"bytes"
	"path"
	"strings"

	"reposcope/internal/core/model"
)

// Unknown is the sentinel language for extensions the table does not cover.
// Unknown files are still counted but never scanned for imports.
const Unknown = "unknown"

// binarySniffLen bounds how much content the null-byte heuristic inspects.
const binarySniffLen = 8000

// Classifier maps snapshot files to FileNodes using a static
// extension-to-language table.
type Classifier struct {
	byExt map[string]string
}

func NewClassifier(byExt map[string]string) *Classifier {
	return &Classifier{byExt: byExt}
}

// Classify builds the FileNode for one snapshot file. Binary files keep a
// zero line count; everything else counts every physical line, blanks and
// comments included, so the metric stays cheap and deterministic.
func (c *Classifier) Classify(f model.SnapshotFile) model.FileNode {
	node := model.FileNode{
		Path:     f.Path,
		Language: c.Detect(f.Path),
	}

	if f.IsBinary || LooksBinary(f.Content) {
		node.Binary = true
		return node
	}

	node.LineCount = countLines(f.Content)
	return node
}

// Detect infers the language tag from the file extension alone.
func (c *Classifier) Detect(filePath string) string {
	ext := strings.ToLower(path.Ext(filePath))
	if ext == "" {
		return Unknown
	}
	if lang, ok := c.byExt[ext]; ok {
		return lang
	}
	return Unknown
}

// LooksBinary applies the null-byte heuristic to the head of the content.
func LooksBinary(content []byte) bool {
	head := content
	if len(head) > binarySniffLen {
		head = head[:binarySniffLen]
	}
	return bytes.IndexByte(head, 0) >= 0
}

func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := bytes.Count(content, []byte{'\n'})
	if content[len(content)-1] != '\n' {
		n++
	}
	return n
}
