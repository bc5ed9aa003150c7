package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"reposcope/internal/analyzer"
	"reposcope/internal/core/config"
	"reposcope/internal/core/model"
	"reposcope/internal/history"
	"reposcope/internal/ingest"
	"reposcope/internal/output"
	"reposcope/internal/report"
	"reposcope/internal/watcher"
)

type App struct {
	Config   *config.Config
	Analyzer *analyzer.Analyzer

	loader     *ingest.Loader
	store      *history.Store
	fsWatcher  *watcher.Watcher
	teaProgram *tea.Program

	lastModel    *model.StructuralModel
	lastDuration time.Duration
}

func NewApp(cfg *config.Config) (*App, error) {
	sig, err := config.LoadSignatures(cfg.SignaturesPath)
	if err != nil {
		return nil, fmt.Errorf("loading signature tables: %w", err)
	}

	loader, err := ingest.NewLoader(cfg.Root, cfg.MaxFileSize, cfg.Exclude.Dirs, cfg.Exclude.Files)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		Analyzer: analyzer.New(sig, cfg.Workers),
		loader:   loader,
	}

	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("opening history store: %w", err)
		}
		app.store = store
	}

	return app, nil
}

// Run performs one full snapshot -> analysis -> output cycle.
func (a *App) Run(ctx context.Context) error {
	start := time.Now()

	snap, err := a.loader.Load()
	if err != nil {
		return err
	}

	m, err := a.Analyzer.Analyze(ctx, snap)
	if err != nil {
		return err
	}

	a.lastModel = m
	a.lastDuration = time.Since(start)

	if err := a.GenerateOutputs(m); err != nil {
		slog.Error("failed to generate outputs", "error", err)
	}

	if a.store != nil {
		if runID, err := a.store.Record(a.Config.Root, m, a.lastDuration); err != nil {
			slog.Warn("failed to record run", "error", err)
		} else {
			slog.Debug("recorded run", "id", runID)
		}
	}

	if a.teaProgram != nil {
		a.teaProgram.Send(updateMsg{model: m, duration: a.lastDuration})
	}

	return nil
}

func (a *App) GenerateOutputs(m *model.StructuralModel) error {
	out := a.Config.Output

	if out.JSON != "" {
		data, err := output.MarshalModel(m)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out.JSON, data, 0644); err != nil {
			return err
		}
	}

	if out.Markdown != "" {
		if err := os.WriteFile(out.Markdown, []byte(report.RenderMarkdown(m)), 0644); err != nil {
			return err
		}
	}

	var mermaid string
	if out.Mermaid != "" || len(out.Inject) > 0 {
		mermaid = output.NewMermaidGenerator(m).Generate()
	}

	if out.Mermaid != "" {
		if err := os.WriteFile(out.Mermaid, []byte(mermaid), 0644); err != nil {
			return err
		}
	}

	if out.DOT != "" {
		dot := output.NewDOTGenerator(m).Generate()
		if err := os.WriteFile(out.DOT, []byte(dot), 0644); err != nil {
			return err
		}
	}

	if out.TSV != "" {
		if err := os.WriteFile(out.TSV, []byte(output.GenerateTSV(m)), 0644); err != nil {
			return err
		}
	}

	for _, inj := range out.Inject {
		if err := report.InjectDiagram(inj.File, inj.Marker, mermaid); err != nil {
			slog.Warn("failed to inject diagram", "file", inj.File, "error", err)
		}
	}

	return nil
}

func (a *App) HandleChanges(paths []string) {
	slog.Info("detected changes", "count", len(paths))

	if err := a.Run(context.Background()); err != nil {
		slog.Error("re-analysis failed", "error", err)
		return
	}

	if a.teaProgram == nil {
		a.PrintSummary()
	}
}

func (a *App) StartWatcher(ctx context.Context) error {
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Watch.MaxRunsPerMinute,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		a.HandleChanges,
	)
	if err != nil {
		return err
	}
	a.fsWatcher = w
	// Note: the watcher runs until the process exits.
	return w.Watch(a.Config.Root)
}

func (a *App) RunUI() error {
	m := initialModel(a.Config.Root)
	p := tea.NewProgram(m, tea.WithAltScreen())
	a.teaProgram = p

	// Push the already-computed model so the UI is populated on startup.
	go func() {
		if a.lastModel != nil {
			p.Send(updateMsg{model: a.lastModel, duration: a.lastDuration})
		}
	}()

	_, err := p.Run()
	return err
}

func (a *App) PrintSummary() {
	m := a.lastModel
	if m == nil {
		return
	}

	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Analyzed %d files (%d binary, %d skipped) in %v\n",
		m.Stats.TotalFiles, m.Stats.BinaryFiles, m.Stats.SkippedFiles, a.lastDuration)
	fmt.Printf("Dependency edges: %d | unresolved references: %d | external modules: %d\n",
		len(m.DependencyEdges), m.Stats.UnresolvedReferences, len(m.Stats.ExternalModules))

	if len(m.FolderSummaries) > 0 {
		fmt.Println("Folders:")
		for _, f := range m.FolderSummaries {
			fmt.Printf("   %-30s %-8s %d files\n", f.Path, f.Role, f.FileCount)
		}
	}

	printHits("Frameworks", m.FrameworkHits)
	printHits("Datastores", m.DatastoreHits)

	if len(m.EntryPoints) > 0 {
		fmt.Println("Entry points:")
		for _, e := range m.EntryPoints {
			if e.Framework != "" {
				fmt.Printf("   %s (%s, %s)\n", e.File, e.Kind, e.Framework)
			} else {
				fmt.Printf("   %s (%s)\n", e.File, e.Kind)
			}
		}
	}

	fmt.Println(strings.Repeat("-", 40))
}

func printHits(title string, hits []model.StackHit) {
	if len(hits) == 0 {
		return
	}
	fmt.Printf("%s:\n", title)
	for _, h := range hits {
		fmt.Printf("   %s (%s confidence, via %s)\n", h.Name, h.Confidence, h.EvidenceFile)
	}
}

func (a *App) Close() {
	if a.fsWatcher != nil {
		if err := a.fsWatcher.Close(); err != nil {
			slog.Warn("failed to close watcher", "error", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			slog.Warn("failed to close history store", "error", err)
		}
	}
}
