package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gerunddev/vaultsummary/internal/generator"
)

// GenerateMsg is sent when a generation run finishes
type GenerateMsg struct {
	Result *generator.Result
	Err    error
}

// generateModel shows a spinner while the summary is generated
type generateModel struct {
	spinner  spinner.Model
	status   string
	complete bool
	result   *generator.Result
	err      error
}

// InitGenerateModel creates a new generation progress model
func InitGenerateModel() generateModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return generateModel{
		spinner: s,
		status:  generator.MsgGenerating,
	}
}

func (m generateModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m generateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case GenerateMsg:
		m.complete = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m generateModel) View() string {
	if !m.complete {
		return fmt.Sprintf("\n%s %s\n\n", m.spinner.View(), m.status)
	}

	if m.err != nil {
		return errorStyle.Render("✗ Error: "+m.err.Error()) + "\n"
	}
	if m.result == nil {
		return ""
	}

	msg := successStyle.Render("✓ "+generator.MsgGenerated) + "\n"
	msg += fmt.Sprintf("  %s %s\n", labelStyle.Render("Summary:"), valueStyle.Render(m.result.Path))
	msg += fmt.Sprintf("  %s %s\n", labelStyle.Render("Entries:"),
		valueStyle.Render(fmt.Sprintf("%d file(s), %d group(s)", m.result.Counts.Files, m.result.Counts.Folders)))
	if m.result.Skipped > 0 {
		msg += fmt.Sprintf("  %s %s\n", labelStyle.Render("Skipped:"),
			warningStyle.Render(fmt.Sprintf("%d bookmark(s)", m.result.Skipped)))
	}
	if !m.result.Changed {
		msg += helpStyle.Render("  Content unchanged") + "\n"
	}
	msg += helpStyle.Render(fmt.Sprintf("Completed in %v", m.result.Duration.Round(time.Millisecond))) + "\n"

	return msg
}
