// Package ingest builds a RepositorySnapshot from a local directory tree.
// It is the ingestion collaborator at the analyzer's input boundary: the
// core makes no assumption about where snapshots come from.
package ingest

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"

	domerr "reposcope/internal/core/errors"
	"reposcope/internal/core/model"
	"reposcope/internal/engine/language"
)

type Loader struct {
	root         string
	maxFileSize  int64
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
}

func NewLoader(root string, maxFileSize int64, excludeDirs, excludeFiles []string) (*Loader, error) {
	l := &Loader{root: root, maxFileSize: maxFileSize}

	for _, p := range excludeDirs {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", p, err)
		}
		l.excludeDirs = append(l.excludeDirs, g)
	}
	for _, p := range excludeFiles {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", p, err)
		}
		l.excludeFiles = append(l.excludeFiles, g)
	}

	return l, nil
}

// Load walks the root and returns a path-sorted snapshot. Unreadable files
// are logged and skipped; a missing root is a retrieval failure, not an
// analysis failure.
func (l *Loader) Load() (*model.Snapshot, error) {
	var files []model.SnapshotFile

	err := filepath.WalkDir(l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		base := filepath.Base(p)
		if d.IsDir() {
			if p != l.root {
				for _, g := range l.excludeDirs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
			}
			return nil
		}

		for _, g := range l.excludeFiles {
			if g.Match(base) {
				return nil
			}
		}

		info, err := d.Info()
		if err != nil {
			slog.Warn("file skipped", "path", p, "code", domerr.CodeUnreadableFile, "error", err)
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if l.maxFileSize > 0 && info.Size() > l.maxFileSize {
			slog.Debug("file skipped, exceeds size cap", "path", p, "size", info.Size())
			return nil
		}

		content, err := os.ReadFile(p)
		if err != nil {
			slog.Warn("file skipped", "path", p, "code", domerr.CodeUnreadableFile, "error", err)
			return nil
		}

		rel, err := filepath.Rel(l.root, p)
		if err != nil {
			return err
		}

		files = append(files, model.SnapshotFile{
			Path:     filepath.ToSlash(rel),
			Content:  content,
			IsBinary: language.LooksBinary(content),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot unavailable: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return &model.Snapshot{Files: files}, nil
}
