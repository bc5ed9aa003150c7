// Package structure scores each snapshot folder as frontend, backend, data,
// or misc from path keywords, the languages of its direct files, and the
// stack hits whose evidence lives under it.
package structure

import (
	"path"
	"sort"
	"strings"

	"reposcope/internal/core/config"
	"reposcope/internal/core/model"
)

// RoleEvidence is one framework or datastore hit reduced to the folder role
// its signature declares.
type RoleEvidence struct {
	Role model.FolderRole
	File string
}

// Tie-break order on equal scores; misc never scores, so it only wins when
// every other role stays at zero.
var rolePrecedence = []model.FolderRole{
	model.RoleBackend,
	model.RoleFrontend,
	model.RoleData,
	model.RoleMisc,
}

type Classifier struct {
	signals config.FolderSignals
}

func NewClassifier(signals config.FolderSignals) *Classifier {
	return &Classifier{signals: signals}
}

// Classify emits one summary per distinct folder prefix in the snapshot,
// root included (reported as "."). Every non-binary file counts toward
// exactly one folder: its direct parent. Folders holding only subfolders
// report zero files and classify as misc unless path keywords say otherwise.
func (c *Classifier) Classify(nodes []model.FileNode, evidence []RoleEvidence) []model.FolderSummary {
	if len(nodes) == 0 {
		return []model.FolderSummary{}
	}

	folders := make(map[string]bool)
	directFiles := make(map[string][]model.FileNode)

	for _, n := range nodes {
		dir := path.Dir(n.Path)
		for _, prefix := range folderPrefixes(dir) {
			folders[prefix] = true
		}
		if !n.Binary {
			directFiles[dir] = append(directFiles[dir], n)
		}
	}

	names := make([]string, 0, len(folders))
	for f := range folders {
		names = append(names, f)
	}
	sort.Strings(names)

	out := make([]model.FolderSummary, 0, len(names))
	for _, folder := range names {
		out = append(out, model.FolderSummary{
			Path:      folder,
			Role:      c.scoreFolder(folder, directFiles[folder], evidence),
			FileCount: len(directFiles[folder]),
		})
	}
	return out
}

// folderPrefixes expands a/b/c into [".", "a", "a/b", "a/b/c"].
func folderPrefixes(dir string) []string {
	prefixes := []string{"."}
	if dir == "." {
		return prefixes
	}
	segments := strings.Split(dir, "/")
	for i := range segments {
		prefixes = append(prefixes, strings.Join(segments[:i+1], "/"))
	}
	return prefixes
}

func (c *Classifier) scoreFolder(folder string, files []model.FileNode, evidence []RoleEvidence) model.FolderRole {
	scores := map[model.FolderRole]int{}

	// Only the folder's own segment keywords count, not its ancestors'.
	segment := path.Base(folder)
	if folder != "." {
		segment = strings.ToLower(segment)
		for role, sig := range c.roleSignals() {
			for _, kw := range sig.Segments {
				if segment == kw {
					scores[role] += c.signals.SegmentWeight
				}
			}
		}
	}

	for role, sig := range c.roleSignals() {
		langs := make(map[string]bool, len(sig.Languages))
		for _, l := range sig.Languages {
			langs[l] = true
		}
		for _, f := range files {
			if langs[f.Language] {
				scores[role] += c.signals.LanguageWeight
			}
		}
	}

	for _, ev := range evidence {
		if ev.Role == model.RoleMisc {
			continue
		}
		if folder == "." || strings.HasPrefix(ev.File, folder+"/") {
			scores[ev.Role] += c.signals.StackWeight
		}
	}

	best := model.RoleMisc
	bestScore := 0
	for _, role := range rolePrecedence {
		if scores[role] > bestScore {
			best = role
			bestScore = scores[role]
		}
	}
	return best
}

func (c *Classifier) roleSignals() map[model.FolderRole]config.RoleSignal {
	return map[model.FolderRole]config.RoleSignal{
		model.RoleFrontend: c.signals.Frontend,
		model.RoleBackend:  c.signals.Backend,
		model.RoleData:     c.signals.Data,
	}
}
