// Package entrypoint flags files that start a process or construct a
// recognized framework application.
package entrypoint

import (
	"path"
	"sort"
	"strings"

	"reposcope/internal/core/config"
	"reposcope/internal/core/model"
)

type Detector struct {
	signals config.EntrySignals
}

func NewDetector(signals config.EntrySignals) *Detector {
	return &Detector{signals: signals}
}

// Detect emits application entries for conventional filenames or run-as-main
// idioms, and framework entries for files that construct an app of a
// framework actually present in the hits. A file matching both kinds yields
// both records; provenance stays distinct.
func (d *Detector) Detect(nodes []model.FileNode, contents map[string][]byte, frameworks []model.StackHit) []model.EntryPoint {
	detected := make(map[string]bool, len(frameworks))
	for _, h := range frameworks {
		detected[h.Name] = true
	}

	frameworkNames := make([]string, 0, len(d.signals.FrameworkIdioms))
	for name := range d.signals.FrameworkIdioms {
		frameworkNames = append(frameworkNames, name)
	}
	sort.Strings(frameworkNames)

	var out []model.EntryPoint
	for _, n := range nodes {
		if n.Binary {
			continue
		}
		content := string(contents[n.Path])

		if d.isApplication(n, content) {
			out = append(out, model.EntryPoint{File: n.Path, Kind: model.EntryApplication})
		}

		for _, name := range frameworkNames {
			if !detected[name] {
				continue
			}
			if containsAny(content, d.signals.FrameworkIdioms[name]) {
				out = append(out, model.EntryPoint{
					File:      n.Path,
					Kind:      model.EntryFramework,
					Framework: name,
				})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Framework < out[j].Framework
	})
	return out
}

func (d *Detector) isApplication(n model.FileNode, content string) bool {
	base := path.Base(n.Path)
	for _, name := range d.signals.Filenames {
		if base == name {
			return true
		}
	}
	return containsAny(content, d.signals.MainIdioms[n.Language])
}

func containsAny(content string, needles []string) bool {
	for _, needle := range needles {
		if needle != "" && strings.Contains(content, needle) {
			return true
		}
	}
	return false
}
