package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gerunddev/vaultsummary/internal/generator"
	"github.com/gerunddev/vaultsummary/internal/notice"
	"github.com/gerunddev/vaultsummary/internal/styles"
	"github.com/gerunddev/vaultsummary/internal/summary"
	"github.com/gerunddev/vaultsummary/internal/tui"
	"github.com/spf13/cobra"
)

func newGenerateCommand(opts *options) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Regenerate the summary from the vault bookmarks",
		Long: `Read the vault bookmarks and replace the summary file with a fresh
table of contents. With --dry-run the summary is printed instead of written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, _, err := opts.generator(cmd)
			if err != nil {
				return err
			}

			if dryRun {
				preview, err := gen.Preview(cmd.Context())
				if err != nil {
					return err
				}
				_, err = summary.WriteTo(cmd.OutOrStdout(), preview.Entries)
				return err
			}

			if isTerminal(cmd.OutOrStdout()) && !opts.verbose {
				return generateInteractive(cmd.Context(), gen)
			}

			gen.SetNotifier(notice.NewTerminal(cmd.ErrOrStderr()))
			result, err := gen.Trigger(cmd.Context())
			if err != nil {
				return reportedError{err}
			}

			fmt.Fprintln(cmd.OutOrStdout(), styles.DimStyle.Render(fmt.Sprintf(
				"  %s: %d file(s), %d group(s), %d skipped",
				result.Path, result.Counts.Files, result.Counts.Folders, result.Skipped)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the summary instead of writing it")

	return cmd
}

// generateInteractive runs the generation behind a spinner
func generateInteractive(ctx context.Context, gen *generator.Generator) error {
	p := tea.NewProgram(tui.InitGenerateModel())

	done := make(chan error, 1)
	go func() {
		result, err := gen.Trigger(ctx)
		done <- err
		p.Send(tui.GenerateMsg{Result: result, Err: err})
	}()

	if _, err := p.Run(); err != nil {
		return err
	}

	if err := <-done; err != nil {
		return reportedError{err}
	}
	return nil
}
