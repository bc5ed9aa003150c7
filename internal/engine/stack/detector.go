// Package stack matches known framework and datastore signatures against
// reference tokens and manifest files. Manifests are matched by filename and
// scanned as flat lines, never parsed deeply or executed.
package stack

import (
	"path"
	"sort"
	"strings"

	"reposcope/internal/core/config"
	"reposcope/internal/core/model"
)

type Detector struct {
	frameworks map[string]config.StackSig
	datastores map[string]config.StackSig
	manifests  map[string]bool
}

func NewDetector(sig *config.Signatures) *Detector {
	return &Detector{
		frameworks: sig.Frameworks,
		datastores: sig.Datastores,
		manifests:  sig.ManifestSet(),
	}
}

// Detect runs both signature tables over the snapshot and the pre-resolution
// tokens. At most one hit survives per name: manifest evidence (high) beats
// import evidence (medium), and equal tiers fall back to the lexically
// smallest evidence path.
func (d *Detector) Detect(snap *model.Snapshot, tokens []model.ReferenceToken) (frameworks, datastores []model.StackHit) {
	frameworks = d.match(d.frameworks, snap, tokens)
	datastores = d.match(d.datastores, snap, tokens)
	return frameworks, datastores
}

func (d *Detector) match(sigs map[string]config.StackSig, snap *model.Snapshot, tokens []model.ReferenceToken) []model.StackHit {
	names := make([]string, 0, len(sigs))
	for name := range sigs {
		names = append(names, name)
	}
	sort.Strings(names)

	hits := make(map[string]model.StackHit)

	// Snapshot files arrive path-sorted, so the first matching evidence
	// file is already the lexically smallest one.
	for _, f := range snap.Files {
		base := path.Base(f.Path)
		isManifest := d.manifests[base]

		for _, name := range names {
			sig := sigs[name]

			for _, marker := range sig.Files {
				if base == marker {
					record(hits, name, model.ConfidenceHigh, f.Path)
				}
			}

			if !isManifest || f.IsBinary {
				continue
			}
			if manifestLists(f.Content, base, sig.Dependencies) {
				record(hits, name, model.ConfidenceHigh, f.Path)
			}
		}
	}

	for _, tok := range tokens {
		for _, name := range names {
			sig := sigs[name]
			for _, imp := range sig.Imports {
				if importMatches(tok.RawText, imp) {
					record(hits, name, model.ConfidenceMedium, tok.SourceFile)
				}
			}
		}
	}

	out := make([]model.StackHit, 0, len(hits))
	for _, h := range hits {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func record(hits map[string]model.StackHit, name string, conf model.Confidence, evidence string) {
	cur, ok := hits[name]
	if !ok {
		hits[name] = model.StackHit{Name: name, Confidence: conf, EvidenceFile: evidence}
		return
	}
	if stronger(conf, cur.Confidence) {
		hits[name] = model.StackHit{Name: name, Confidence: conf, EvidenceFile: evidence}
		return
	}
	if conf == cur.Confidence && evidence < cur.EvidenceFile {
		hits[name] = model.StackHit{Name: name, Confidence: conf, EvidenceFile: evidence}
	}
}

func stronger(a, b model.Confidence) bool {
	return a == model.ConfidenceHigh && b == model.ConfidenceMedium
}

// importMatches reports whether a raw reference token denotes the signature
// import name: exact, or the signature followed by a path/module separator.
func importMatches(raw, imp string) bool {
	if raw == imp {
		return true
	}
	return strings.HasPrefix(raw, imp+".") ||
		strings.HasPrefix(raw, imp+"/") ||
		strings.HasPrefix(raw, imp+"::")
}

// manifestLists scans manifest content line by line for a dependency name.
// Matching is shape-aware per manifest family but stays a flat string scan.
func manifestLists(content []byte, filename string, deps []string) bool {
	if len(deps) == 0 {
		return false
	}
	lines := strings.Split(string(content), "\n")
	jsonLike := strings.HasSuffix(filename, ".json")

	for _, line := range lines {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		for _, dep := range deps {
			if jsonLike {
				if strings.Contains(line, `"`+dep+`"`) {
					return true
				}
				continue
			}
			if strings.Contains(lower, strings.ToLower(dep)) {
				return true
			}
		}
	}
	return false
}
