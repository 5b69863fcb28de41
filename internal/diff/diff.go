package diff

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Unified returns a unified diff turning before into after.
// Identical inputs produce an empty string.
func Unified(beforeName, afterName, before, after string) string {
	if before == after {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath(beforeName), before, after)
	return fmt.Sprint(gotextdiff.ToUnified(beforeName, afterName, before, edits))
}

// Render wraps a unified diff in a diff code fence and renders it with
// Glamour for terminal output
func Render(unified string, width int) string {
	// Wrap in markdown diff code fence
	diffMarkdown := fmt.Sprintf("```diff\n%s```\n", unified)

	return RenderMarkdown(diffMarkdown, width)
}

// RenderMarkdown renders a Markdown document for the terminal.
// The source is returned unchanged when Glamour cannot render it.
func RenderMarkdown(markdown string, width int) string {
	if width <= 0 {
		width = 120
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		// Fallback to plain text if glamour fails
		return markdown
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		// Fallback to plain text if rendering fails
		return markdown
	}

	return rendered
}
