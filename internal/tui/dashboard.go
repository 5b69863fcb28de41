package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// refreshInterval is how often the dashboard reloads its data
const refreshInterval = 2 * time.Second

// DashboardData holds watcher daemon status information
type DashboardData struct {
	Running   bool
	PID       int
	StartTime time.Time

	VaultDir    string
	SummaryPath string
	Interval    time.Duration

	LastRun  time.Time
	Files    int
	Folders  int
	LogLines []string
}

// DashboardMsg is sent when dashboard data is ready
type DashboardMsg struct {
	Data *DashboardData
	Err  error
}

// TickMsg triggers a periodic refresh
type TickMsg time.Time

type dashboardModel struct {
	data  *DashboardData
	err   error
	ready bool
	load  func() (*DashboardData, error)
}

// InitDashboardModel creates a new daemon status model
func InitDashboardModel(load func() (*DashboardData, error)) dashboardModel {
	return dashboardModel{load: load}
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), tick())
}

func (m dashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		data, err := m.load()
		return DashboardMsg{Data: data, Err: err}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case TickMsg:
		return m, tea.Batch(m.loadCmd(), tick())

	case DashboardMsg:
		m.ready = true
		m.data = msg.Data
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

func (m dashboardModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Vault Summary Dashboard"))
	b.WriteString("\n\n")

	if m.err != nil {
		return errorStyle.Render("✗ Error: "+m.err.Error()) + "\n"
	}

	if !m.ready || m.data == nil {
		return b.String()
	}

	b.WriteString(labelStyle.Render("Watcher Status"))
	b.WriteString("\n")
	if m.data.Running {
		uptime := time.Since(m.data.StartTime).Round(time.Second)
		b.WriteString(fmt.Sprintf("  Status:   %s\n", successStyle.Render("● Running")))
		b.WriteString(fmt.Sprintf("  PID:      %s\n", valueStyle.Render(fmt.Sprintf("%d", m.data.PID))))
		b.WriteString(fmt.Sprintf("  Uptime:   %s\n", valueStyle.Render(uptime.String())))
	} else {
		b.WriteString(fmt.Sprintf("  Status:   %s\n", helpStyle.Render("○ Not running")))
	}
	b.WriteString(fmt.Sprintf("  Vault:    %s\n", valueStyle.Render(m.data.VaultDir)))
	b.WriteString(fmt.Sprintf("  Summary:  %s\n", valueStyle.Render(m.data.SummaryPath)))
	b.WriteString(fmt.Sprintf("  Interval: %s\n", valueStyle.Render(m.data.Interval.String())))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Last Generation"))
	b.WriteString("\n")
	if !m.data.LastRun.IsZero() {
		since := time.Since(m.data.LastRun).Round(time.Second)
		b.WriteString(fmt.Sprintf("  When:     %s ago\n", valueStyle.Render(since.String())))
		b.WriteString(fmt.Sprintf("  Entries:  %s\n",
			valueStyle.Render(fmt.Sprintf("%d file(s), %d group(s)", m.data.Files, m.data.Folders))))
	} else {
		b.WriteString(fmt.Sprintf("  %s\n", helpStyle.Render("No summary generated yet")))
	}
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Recent Logs"))
	b.WriteString("\n")
	if len(m.data.LogLines) > 0 {
		for _, line := range m.data.LogLines {
			b.WriteString("  " + line + "\n")
		}
	} else {
		b.WriteString(helpStyle.Render("  No logs available"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(helpStyle.Render(fmt.Sprintf("q quit • auto-refresh: %s", refreshInterval)))
	b.WriteString("\n")

	return b.String()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
