package model

// SnapshotFile is one file of a repository snapshot. Content is owned by the
// ingestion side and treated as read-only for the duration of a run.
type SnapshotFile struct {
	Path     string
	Content  []byte
	IsBinary bool
}

// Snapshot is the complete, static file set analyzed in one run.
// Files must be sorted by path; the analyzer relies on that order.
type Snapshot struct {
	Files []SnapshotFile
}

func (s *Snapshot) Empty() bool {
	return s == nil || len(s.Files) == 0
}

type FileNode struct {
	Path             string `json:"path"`
	Language         string `json:"language"`
	LineCount        int    `json:"line_count"`
	Binary           bool   `json:"binary,omitempty"`
	IsEntryCandidate bool   `json:"is_entry_candidate,omitempty"`
}

type ReferenceKind string

const (
	KindImport  ReferenceKind = "import"
	KindRequire ReferenceKind = "require"
	KindInclude ReferenceKind = "include"
	KindUnknown ReferenceKind = "unknown"
)

// ReferenceToken is a raw, unresolved hint that one file wants to use another
// module. Tokens are ephemeral: produced by the lexical scanners, consumed by
// the resolver, never retained in the final model.
type ReferenceToken struct {
	SourceFile string
	RawText    string
	Kind       ReferenceKind
}

type DependencyEdge struct {
	Source string        `json:"source"`
	Target string        `json:"target"`
	Kind   ReferenceKind `json:"kind"`
}

type FolderRole string

const (
	RoleFrontend FolderRole = "frontend"
	RoleBackend  FolderRole = "backend"
	RoleData     FolderRole = "data"
	RoleMisc     FolderRole = "misc"
)

type FolderSummary struct {
	Path      string     `json:"path"`
	Role      FolderRole `json:"role"`
	FileCount int        `json:"file_count"`
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
)

// StackHit records one detected framework or datastore. At most one hit per
// distinct name survives a run; the strongest evidence wins.
type StackHit struct {
	Name         string     `json:"name"`
	Confidence   Confidence `json:"confidence"`
	EvidenceFile string     `json:"evidence_file"`
}

type EntryPointKind string

const (
	EntryApplication EntryPointKind = "application"
	EntryFramework   EntryPointKind = "framework"
)

type EntryPoint struct {
	File      string         `json:"file"`
	Kind      EntryPointKind `json:"kind"`
	Framework string         `json:"framework,omitempty"`
}

// Stats carries auxiliary run statistics. Unresolved references never become
// edges; they are surfaced here so downstream consumers can report them.
type Stats struct {
	TotalFiles           int      `json:"total_files"`
	BinaryFiles          int      `json:"binary_files"`
	SkippedFiles         int      `json:"skipped_files"`
	UnresolvedReferences int      `json:"unresolved_references"`
	ExternalModules      []string `json:"external_modules"`
}

// StructuralModel is the single aggregate crossing the analyzer's output
// boundary. All slices are sorted at assembly time so that JSON serialization
// is byte-identical across runs regardless of internal scheduling.
type StructuralModel struct {
	FileNodes       []FileNode       `json:"file_nodes"`
	DependencyEdges []DependencyEdge `json:"dependency_edges"`
	FolderSummaries []FolderSummary  `json:"folder_summaries"`
	FrameworkHits   []StackHit       `json:"framework_hits"`
	DatastoreHits   []StackHit       `json:"datastore_hits"`
	EntryPoints     []EntryPoint     `json:"entry_points"`
	Stats           Stats            `json:"stats"`
}

// Empty returns a model with non-nil, zero-length containers. Used for the
// empty-snapshot case so serialization stays stable.
func Empty() *StructuralModel {
	return &StructuralModel{
		FileNodes:       []FileNode{},
		DependencyEdges: []DependencyEdge{},
		FolderSummaries: []FolderSummary{},
		FrameworkHits:   []StackHit{},
		DatastoreHits:   []StackHit{},
		EntryPoints:     []EntryPoint{},
		Stats:           Stats{ExternalModules: []string{}},
	}
}
