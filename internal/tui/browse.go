package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gerunddev/vaultsummary/internal/diff"
	"github.com/gerunddev/vaultsummary/internal/generator"
	"github.com/gerunddev/vaultsummary/internal/summary"
)

// EntryRow is one summary entry flattened for display
type EntryRow struct {
	Title  string
	Depth  int
	Kind   string // "file" or "group"
	Path   string
	Exists bool
}

// BrowseData holds the generated summary and its flattened entries
type BrowseData struct {
	Rows    []EntryRow
	Preview *generator.Preview
}

// BrowseMsg is sent when browse data is ready
type BrowseMsg struct {
	Data *BrowseData
	Err  error
}

// RegeneratedMsg is sent when a regeneration from the browser finishes
type RegeneratedMsg struct {
	Result *generator.Result
	Err    error
}

// LoadBrowseData previews the summary and checks each linked note
func LoadBrowseData(ctx context.Context, gen *generator.Generator) (*BrowseData, error) {
	preview, err := gen.Preview(ctx)
	if err != nil {
		return nil, err
	}

	data := &BrowseData{Preview: preview}
	summary.Walk(preview.Entries, func(e summary.Entry, depth int) {
		row := EntryRow{Title: e.Title(), Depth: depth}
		switch entry := e.(type) {
		case *summary.FileEntry:
			row.Kind = "file"
			row.Path = entry.Path
			row.Exists, _ = gen.Store().Exists(entry.Path)
		case *summary.FolderEntry:
			row.Kind = "group"
			row.Exists = true
		}
		data.Rows = append(data.Rows, row)
	})
	return data, nil
}

type browseView int

const (
	tableView browseView = iota
	documentView
	diffView
)

type browseModel struct {
	table    table.Model
	viewport viewport.Model
	data     *BrowseData
	err      error
	notice   string
	ready    bool
	view     browseView
	width    int
	busy     bool

	load       func() (*BrowseData, error)
	regenerate func() (*generator.Result, error)
}

// InitBrowseModel creates a summary browser backed by load and regenerate
func InitBrowseModel(load func() (*BrowseData, error), regenerate func() (*generator.Result, error)) browseModel {
	columns := []table.Column{
		{Title: "Entry", Width: 48},
		{Title: "Kind", Width: 6},
		{Title: "Path", Width: 48},
		{Title: "Note", Width: 6},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(20),
	)
	t.SetStyles(tableStyles())

	vp := viewport.New(100, 20)
	vp.Style = viewportStyle

	return browseModel{
		table:      t,
		viewport:   vp,
		width:      100,
		load:       load,
		regenerate: regenerate,
	}
}

func (m browseModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m browseModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		data, err := m.load()
		return BrowseMsg{Data: data, Err: err}
	}
}

func (m browseModel) regenerateCmd() tea.Cmd {
	return func() tea.Msg {
		result, err := m.regenerate()
		return RegeneratedMsg{Result: result, Err: err}
	}
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.table.SetHeight(max(msg.Height-10, 3))
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = max(msg.Height-8, 3)

	case tea.KeyMsg:
		if m.view != tableView {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "q", "esc":
				m.view = tableView
				return m, nil
			default:
				m.viewport, cmd = m.viewport.Update(msg)
				return m, cmd
			}
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k", "down", "j", "pgup", "pgdown", "home", "end":
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		case "enter", "p":
			if m.data != nil {
				m.view = documentView
				m.viewport.SetContent(diff.RenderMarkdown(m.data.Preview.Content, m.viewport.Width))
				m.viewport.GotoTop()
			}
			return m, nil
		case "d":
			if m.data != nil {
				m.view = diffView
				m.viewport.SetContent(m.diffContent())
				m.viewport.GotoTop()
			}
			return m, nil
		case "g":
			if m.busy || m.regenerate == nil {
				return m, nil
			}
			m.busy = true
			m.notice = helpStyle.Render(generator.MsgGenerating)
			return m, m.regenerateCmd()
		case "r":
			return m, m.loadCmd()
		}

	case BrowseMsg:
		m.ready = true
		m.data = msg.Data
		m.err = msg.Err
		if m.data != nil {
			m.table.SetRows(buildRows(m.data.Rows))
		}
		return m, nil

	case RegeneratedMsg:
		m.busy = false
		if msg.Err != nil {
			m.notice = errorStyle.Render("✗ Error: " + msg.Err.Error())
			return m, nil
		}
		m.notice = successStyle.Render("✓ " + generator.MsgGenerated)
		return m, m.loadCmd()
	}

	return m, nil
}

func (m browseModel) diffContent() string {
	p := m.data.Preview
	if !p.Changed() {
		return helpStyle.Render("No changes: the summary file is up to date.")
	}
	unified := diff.Unified(p.Path+" (current)", p.Path+" (generated)", string(p.Current), p.Content)
	return diff.Render(unified, m.viewport.Width)
}

func buildRows(entries []EntryRow) []table.Row {
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		icon := ""
		if e.Kind == "file" {
			icon = "✓"
			if !e.Exists {
				icon = "✗"
			}
		}
		rows = append(rows, table.Row{
			strings.Repeat("  ", e.Depth) + e.Title,
			e.Kind,
			e.Path,
			icon,
		})
	}
	return rows
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Vault Summary Browser"))
	b.WriteString("\n\n")

	if m.err != nil {
		return errorStyle.Render("✗ Error: "+m.err.Error()) + "\n"
	}

	if !m.ready || m.data == nil {
		b.WriteString(helpStyle.Render("Loading bookmarks..."))
		b.WriteString("\n")
		return b.String()
	}

	switch m.view {
	case documentView, diffView:
		label := "Generated " + m.data.Preview.Path
		if m.view == diffView {
			label = "Changes to " + m.data.Preview.Path
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteString("\n\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("↑/k up • ↓/j down • esc/q back"))
		b.WriteString("\n")

	default:
		missing := 0
		for _, r := range m.data.Rows {
			if r.Kind == "file" && !r.Exists {
				missing++
			}
		}
		status := successStyle.Render("up to date")
		if m.data.Preview.Changed() {
			status = highlightStyle.Render("out of date")
		}
		b.WriteString(fmt.Sprintf("%s %s  %s %s",
			labelStyle.Render("Entries:"), valueStyle.Render(fmt.Sprintf("%d", len(m.data.Rows))),
			labelStyle.Render("Summary:"), status))
		if missing > 0 {
			b.WriteString("  " + warningStyle.Render(fmt.Sprintf("%d missing note(s)", missing)))
		}
		b.WriteString("\n\n")
		b.WriteString(tableStyle.Render(m.table.View()))
		b.WriteString("\n\n")
		if m.notice != "" {
			b.WriteString(m.notice)
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("↑/k up • ↓/j down • enter/p preview • d diff • g generate • r reload • q quit"))
		b.WriteString("\n")
	}

	return b.String()
}
