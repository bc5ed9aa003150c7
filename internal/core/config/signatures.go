package config

import (
	_ "embed"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"reposcope/internal/core/model"
)

//go:embed signatures.toml
var defaultSignatures []byte

// Signatures holds every static detection table the analyzer consults:
// extension map, manifest filenames, framework/datastore signatures, folder
// keyword weights, and entry-point conventions. Loaded once at startup and
// never mutated during a run.
type Signatures struct {
	Languages   map[string]LanguageSig `toml:"languages"`
	Manifests   ManifestSig            `toml:"manifests"`
	Frameworks  map[string]StackSig    `toml:"frameworks"`
	Datastores  map[string]StackSig    `toml:"datastores"`
	Folders     FolderSignals          `toml:"folders"`
	EntryPoints EntrySignals           `toml:"entrypoints"`
}

type LanguageSig struct {
	Extensions []string `toml:"extensions"`
}

type ManifestSig struct {
	Filenames []string `toml:"filenames"`
}

type StackSig struct {
	Role         string   `toml:"role"`
	Imports      []string `toml:"imports"`
	Dependencies []string `toml:"dependencies"`
	Files        []string `toml:"files"`
}

type FolderSignals struct {
	SegmentWeight  int        `toml:"segment_weight"`
	LanguageWeight int        `toml:"language_weight"`
	StackWeight    int        `toml:"stack_weight"`
	Frontend       RoleSignal `toml:"frontend"`
	Backend        RoleSignal `toml:"backend"`
	Data           RoleSignal `toml:"data"`
}

type RoleSignal struct {
	Segments  []string `toml:"segments"`
	Languages []string `toml:"languages"`
}

type EntrySignals struct {
	Filenames       []string            `toml:"filenames"`
	MainIdioms      map[string][]string `toml:"main_idioms"`
	FrameworkIdioms map[string][]string `toml:"framework_idioms"`
}

// LoadSignatures returns the embedded tables, optionally overridden by a
// user-supplied TOML file.
func LoadSignatures(path string) (*Signatures, error) {
	data := defaultSignatures
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		data = b
	}

	var sig Signatures
	if _, err := toml.Decode(string(data), &sig); err != nil {
		return nil, err
	}
	return &sig, nil
}

// ExtensionMap inverts the language table into an extension lookup.
// Extensions are matched case-insensitively by the classifier.
func (s *Signatures) ExtensionMap() map[string]string {
	// Sort language names so colliding extensions resolve the same way
	// every run.
	names := make([]string, 0, len(s.Languages))
	for name := range s.Languages {
		names = append(names, name)
	}
	sort.Strings(names)

	byExt := make(map[string]string)
	for _, name := range names {
		for _, ext := range s.Languages[name].Extensions {
			ext = strings.ToLower(ext)
			if _, taken := byExt[ext]; !taken {
				byExt[ext] = name
			}
		}
	}
	return byExt
}

// ManifestSet returns the manifest filename table as a lookup set.
func (s *Signatures) ManifestSet() map[string]bool {
	set := make(map[string]bool, len(s.Manifests.Filenames))
	for _, name := range s.Manifests.Filenames {
		set[name] = true
	}
	return set
}

// RoleFor maps a detected framework or datastore name to the folder role its
// signature declares. Unknown names fall back to misc.
func (s *Signatures) RoleFor(name string) model.FolderRole {
	if sig, ok := s.Frameworks[name]; ok {
		return parseRole(sig.Role)
	}
	if sig, ok := s.Datastores[name]; ok {
		return parseRole(sig.Role)
	}
	return model.RoleMisc
}

func parseRole(raw string) model.FolderRole {
	switch raw {
	case "frontend":
		return model.RoleFrontend
	case "backend":
		return model.RoleBackend
	case "data":
		return model.RoleData
	default:
		return model.RoleMisc
	}
}
