package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/gerunddev/vaultsummary/internal/styles"
)

var (
	titleStyle     = styles.TitleStyle
	labelStyle     = styles.LabelStyle
	valueStyle     = styles.ValueStyle
	helpStyle      = styles.HelpStyle
	successStyle   = styles.SuccessStyle
	errorStyle     = styles.ErrorStyle
	warningStyle   = styles.WarningStyle
	spinnerStyle   = styles.SpinnerStyle
	highlightStyle = styles.HighlightStyle
	tableStyle     = styles.TableStyle
	viewportStyle  = styles.ViewportStyle
)

func tableStyles() table.Styles {
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(styles.Border)).
		BorderBottom(true).
		Bold(false)
	ts.Selected = styles.SelectedStyle.Bold(false)
	return ts
}
