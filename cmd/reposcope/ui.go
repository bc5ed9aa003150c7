package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	coremodel "reposcope/internal/core/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	frameworkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34D399")).
			Bold(true)

	datastoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type uiModel struct {
	list       list.Model
	root       string
	structural *coremodel.StructuralModel
	lastUpdate time.Time
	duration   time.Duration
}

type updateMsg struct {
	model    *coremodel.StructuralModel
	duration time.Duration
}

func (m uiModel) Init() tea.Cmd {
	return nil
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.structural = msg.model
		m.duration = msg.duration
		m.lastUpdate = time.Now()
		m.list.SetItems(buildItems(msg.model))
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func buildItems(sm *coremodel.StructuralModel) []list.Item {
	items := []list.Item{}

	for _, e := range sm.EntryPoints {
		desc := string(e.Kind)
		if e.Framework != "" {
			desc = fmt.Sprintf("%s (%s)", desc, e.Framework)
		}
		items = append(items, item{title: "Entry Point: " + e.File, desc: desc})
	}

	for _, h := range sm.FrameworkHits {
		items = append(items, item{
			title: "Framework: " + h.Name,
			desc:  fmt.Sprintf("%s confidence, via %s", h.Confidence, h.EvidenceFile),
		})
	}

	for _, h := range sm.DatastoreHits {
		items = append(items, item{
			title: "Datastore: " + h.Name,
			desc:  fmt.Sprintf("%s confidence, via %s", h.Confidence, h.EvidenceFile),
		})
	}

	for _, f := range sm.FolderSummaries {
		items = append(items, item{
			title: "Folder: " + f.Path,
			desc:  fmt.Sprintf("%s, %d files", f.Role, f.FileCount),
		})
	}

	return items
}

func (m uiModel) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | root: %s",
		m.lastUpdate.Format("15:04:05"), m.root))

	var summary string
	if m.structural == nil {
		summary = statusStyle.Render("analyzing...")
	} else {
		summary = fmt.Sprintf("%d files | %d edges | %s | %s",
			m.structural.Stats.TotalFiles,
			len(m.structural.DependencyEdges),
			frameworkStyle.Render(fmt.Sprintf("%d frameworks", len(m.structural.FrameworkHits))),
			datastoreStyle.Render(fmt.Sprintf("%d datastores", len(m.structural.DatastoreHits))))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Repository Structure Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel(root string) uiModel {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Structural Findings"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return uiModel{
		list:       l,
		root:       root,
		lastUpdate: time.Now(),
	}
}
