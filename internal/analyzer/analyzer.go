// Package analyzer runs the structural analysis pipeline over one repository
// snapshot and assembles the resulting model. Per-file work runs on a
// bounded worker pool; all containers are keyed and sorted by path so the
// output is independent of scheduling.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"reposcope/internal/core/config"
	domerr "reposcope/internal/core/errors"
	"reposcope/internal/core/model"
	"reposcope/internal/engine/depgraph"
	"reposcope/internal/engine/entrypoint"
	"reposcope/internal/engine/language"
	"reposcope/internal/engine/lexical"
	"reposcope/internal/engine/resolve"
	"reposcope/internal/engine/stack"
	"reposcope/internal/engine/structure"
	"reposcope/internal/shared/observability"
)

type Analyzer struct {
	workers    int
	signatures *config.Signatures
	classifier *language.Classifier
	scanners   *lexical.Registry
	stack      *stack.Detector
	entries    *entrypoint.Detector
	structure  *structure.Classifier
}

func New(sig *config.Signatures, workers int) *Analyzer {
	if workers < 1 {
		workers = 1
	}
	return &Analyzer{
		workers:    workers,
		signatures: sig,
		classifier: language.NewClassifier(sig.ExtensionMap()),
		scanners:   lexical.NewRegistry(),
		stack:      stack.NewDetector(sig),
		entries:    entrypoint.NewDetector(sig.EntryPoints),
		structure:  structure.NewClassifier(sig.Folders),
	}
}

type fileResult struct {
	node    model.FileNode
	tokens  []model.ReferenceToken
	skipped bool
}

// Analyze turns a snapshot into an immutable StructuralModel. Per-file
// failures degrade to skipped-file statistics; only an internal-consistency
// violation aborts the run.
func (a *Analyzer) Analyze(ctx context.Context, snap *model.Snapshot) (*model.StructuralModel, error) {
	started := time.Now()
	ctx, span := observability.Tracer.Start(ctx, "analyzer.Analyze")
	defer span.End()

	if snap.Empty() {
		slog.Warn("analysis requested for empty snapshot",
			"code", domerr.CodeEmptySnapshot)
		return model.Empty(), nil
	}

	results := a.classifyAndExtract(ctx, snap)

	// Barrier: the resolver and every detector below require the complete,
	// frozen FileNode set.
	nodes := make([]model.FileNode, 0, len(results))
	var tokens []model.ReferenceToken
	skipped := 0
	binaries := 0
	for _, res := range results {
		nodes = append(nodes, res.node)
		tokens = append(tokens, res.tokens...)
		if res.skipped {
			skipped++
		}
		if res.node.Binary {
			binaries++
		}
	}

	var (
		edges      []model.DependencyEdge
		graphStats depgraph.Stats
		fwHits     []model.StackHit
		dsHits     []model.StackHit
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		edges, graphStats = a.buildGraph(ctx, nodes, tokens)
	}()
	go func() {
		defer wg.Done()
		fwHits, dsHits = a.detectStack(ctx, snap, tokens)
	}()
	wg.Wait()

	// Folder roles and entry points both consume the stack hits, so they
	// form the second concurrent wave.
	var (
		folders []model.FolderSummary
		entries []model.EntryPoint
	)
	contents := contentsByPath(snap)

	wg.Add(2)
	go func() {
		defer wg.Done()
		folders = a.classifyFolders(ctx, nodes, fwHits, dsHits)
	}()
	go func() {
		defer wg.Done()
		entries = a.detectEntryPoints(ctx, nodes, contents, fwHits)
	}()
	wg.Wait()

	nodes = markEntryCandidates(nodes, entries)

	m := &model.StructuralModel{
		FileNodes:       nodes,
		DependencyEdges: edges,
		FolderSummaries: folders,
		FrameworkHits:   fwHits,
		DatastoreHits:   dsHits,
		EntryPoints:     entries,
		Stats: model.Stats{
			TotalFiles:           len(snap.Files),
			BinaryFiles:          binaries,
			SkippedFiles:         skipped,
			UnresolvedReferences: graphStats.Unresolved,
			ExternalModules:      graphStats.ExternalModules,
		},
	}

	if err := verify(m); err != nil {
		return nil, err
	}

	observability.SnapshotFiles.Set(float64(m.Stats.TotalFiles))
	observability.GraphEdges.Set(float64(len(m.DependencyEdges)))
	observability.UnresolvedReferences.Set(float64(m.Stats.UnresolvedReferences))
	observability.SkippedFiles.Set(float64(m.Stats.SkippedFiles))
	observability.RunsTotal.Inc()
	observability.AnalysisDuration.Observe(time.Since(started).Seconds())

	return m, nil
}

// classifyAndExtract runs the per-file stage on the worker pool. Results are
// stored by snapshot index, never by completion order, so downstream stages
// see the snapshot's path order.
func (a *Analyzer) classifyAndExtract(ctx context.Context, snap *model.Snapshot) []fileResult {
	_, span := observability.Tracer.Start(ctx, "analyzer.classifyAndExtract")
	defer span.End()
	timer := time.Now()
	defer func() {
		observability.StageDuration.WithLabelValues("classify_extract").Observe(time.Since(timer).Seconds())
	}()

	results := make([]fileResult, len(snap.Files))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < a.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = a.processFile(snap.Files[i])
			}
		}()
	}
	for i := range snap.Files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// processFile must complete for any byte sequence; a panicking scanner is a
// defect, but it degrades to a skipped file instead of aborting the run.
func (a *Analyzer) processFile(f model.SnapshotFile) (res fileResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("file skipped after extraction failure",
				"path", f.Path, "code", domerr.CodeUnreadableFile, "cause", r)
			res = fileResult{
				node:    model.FileNode{Path: f.Path, Language: language.Unknown},
				skipped: true,
			}
		}
	}()

	node := a.classifier.Classify(f)
	res.node = node
	if node.Binary || node.Language == language.Unknown {
		return res
	}
	res.tokens = a.scanners.Extract(node, f.Content)
	return res
}

func (a *Analyzer) buildGraph(ctx context.Context, nodes []model.FileNode, tokens []model.ReferenceToken) ([]model.DependencyEdge, depgraph.Stats) {
	_, span := observability.Tracer.Start(ctx, "analyzer.buildGraph")
	defer span.End()
	timer := time.Now()
	defer func() {
		observability.StageDuration.WithLabelValues("graph").Observe(time.Since(timer).Seconds())
	}()

	resolver := resolve.NewResolver(nodes)
	return depgraph.Build(resolver.ResolveAll(tokens))
}

func (a *Analyzer) detectStack(ctx context.Context, snap *model.Snapshot, tokens []model.ReferenceToken) ([]model.StackHit, []model.StackHit) {
	_, span := observability.Tracer.Start(ctx, "analyzer.detectStack")
	defer span.End()
	timer := time.Now()
	defer func() {
		observability.StageDuration.WithLabelValues("stack").Observe(time.Since(timer).Seconds())
	}()

	return a.stack.Detect(snap, tokens)
}

func (a *Analyzer) classifyFolders(ctx context.Context, nodes []model.FileNode, fwHits, dsHits []model.StackHit) []model.FolderSummary {
	_, span := observability.Tracer.Start(ctx, "analyzer.classifyFolders")
	defer span.End()
	timer := time.Now()
	defer func() {
		observability.StageDuration.WithLabelValues("folders").Observe(time.Since(timer).Seconds())
	}()

	evidence := make([]structure.RoleEvidence, 0, len(fwHits)+len(dsHits))
	for _, h := range fwHits {
		evidence = append(evidence, structure.RoleEvidence{
			Role: a.signatures.RoleFor(h.Name),
			File: h.EvidenceFile,
		})
	}
	for _, h := range dsHits {
		evidence = append(evidence, structure.RoleEvidence{
			Role: a.signatures.RoleFor(h.Name),
			File: h.EvidenceFile,
		})
	}
	return a.structure.Classify(nodes, evidence)
}

func (a *Analyzer) detectEntryPoints(ctx context.Context, nodes []model.FileNode, contents map[string][]byte, fwHits []model.StackHit) []model.EntryPoint {
	_, span := observability.Tracer.Start(ctx, "analyzer.detectEntryPoints")
	defer span.End()
	timer := time.Now()
	defer func() {
		observability.StageDuration.WithLabelValues("entrypoints").Observe(time.Since(timer).Seconds())
	}()

	return a.entries.Detect(nodes, contents, fwHits)
}

func contentsByPath(snap *model.Snapshot) map[string][]byte {
	contents := make(map[string][]byte, len(snap.Files))
	for _, f := range snap.Files {
		if !f.IsBinary {
			contents[f.Path] = f.Content
		}
	}
	return contents
}

func markEntryCandidates(nodes []model.FileNode, entries []model.EntryPoint) []model.FileNode {
	entryFiles := make(map[string]bool, len(entries))
	for _, e := range entries {
		entryFiles[e.File] = true
	}
	for i := range nodes {
		if entryFiles[nodes[i].Path] {
			nodes[i].IsEntryCandidate = true
		}
	}
	return nodes
}

// verify enforces the assembler's cross-check invariant: every edge endpoint
// and entry-point file must name an existing FileNode.
func verify(m *model.StructuralModel) error {
	known := make(map[string]bool, len(m.FileNodes))
	for _, n := range m.FileNodes {
		known[n.Path] = true
	}

	for _, e := range m.DependencyEdges {
		if !known[e.Source] || !known[e.Target] {
			return domerr.New(domerr.CodeInternalConsistency,
				fmt.Sprintf("dependency edge %s -> %s references unknown file", e.Source, e.Target))
		}
	}
	for _, e := range m.EntryPoints {
		if !known[e.File] {
			return domerr.New(domerr.CodeInternalConsistency,
				fmt.Sprintf("entry point %s references unknown file", e.File))
		}
	}
	return nil
}
