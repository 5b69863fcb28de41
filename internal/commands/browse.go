package commands

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gerunddev/vaultsummary/internal/generator"
	"github.com/gerunddev/vaultsummary/internal/tui"
	"github.com/spf13/cobra"
)

func newBrowseCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "browse",
		Aliases: []string{"files"},
		Short:   "Browse the summary entries interactively",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(cmd.OutOrStdout()) {
				return errors.New("browse needs an interactive terminal")
			}

			gen, _, err := opts.generator(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			load := func() (*tui.BrowseData, error) {
				return tui.LoadBrowseData(ctx, gen)
			}
			regenerate := func() (*generator.Result, error) {
				return gen.Trigger(ctx)
			}

			p := tea.NewProgram(tui.InitBrowseModel(load, regenerate), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}
