package commands

import (
	"errors"
	"fmt"

	"github.com/gerunddev/vaultsummary/internal/diff"
	"github.com/gerunddev/vaultsummary/internal/styles"
	"github.com/gerunddev/vaultsummary/internal/summary"
	"github.com/spf13/cobra"
)

// ErrStale is returned by check when the summary file needs regenerating
var ErrStale = errors.New("summary is out of date")

func newDiffCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show how regenerating would change the summary file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, _, err := opts.generator(cmd)
			if err != nil {
				return err
			}

			preview, err := gen.Preview(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !preview.Changed() {
				fmt.Fprintln(out, styles.SuccessStyle.Render("✓ No changes: "+preview.Path+" is up to date"))
				return nil
			}

			unified := diff.Unified(preview.Path+" (current)", preview.Path+" (generated)", string(preview.Current), preview.Content)
			if isTerminal(out) {
				fmt.Fprint(out, diff.Render(unified, 0))
				return nil
			}
			fmt.Fprint(out, unified)
			return nil
		},
	}
}

func newPreviewCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Render the summary that would be generated",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, _, err := opts.generator(cmd)
			if err != nil {
				return err
			}

			preview, err := gen.Preview(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isTerminal(out) {
				fmt.Fprint(out, diff.RenderMarkdown(preview.Content, 0))
				return nil
			}
			fmt.Fprint(out, preview.Content)
			return nil
		},
	}
}

func newTreeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the normalized summary tree as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, _, err := opts.generator(cmd)
			if err != nil {
				return err
			}

			preview, err := gen.Preview(cmd.Context())
			if err != nil {
				return err
			}

			data, err := summary.MarshalYAML(preview.Entries)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newCheckCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Exit non-zero when the summary file is out of date",
		Long: `Compare the summary file with a fresh render of the bookmarks.
The command fails when the file is missing or differs, which makes it
usable from scripts and git hooks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, _, err := opts.generator(cmd)
			if err != nil {
				return err
			}

			preview, err := gen.Preview(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			generated := summary.Stats(preview.Entries)

			if !preview.Exists {
				fmt.Fprintln(out, styles.ErrorStyle.Render("✗ "+preview.Path+" does not exist"))
				fmt.Fprintln(out, styles.DimStyle.Render("  Run 'vaultsummary generate' to create it"))
				return reportedError{ErrStale}
			}

			if !preview.Changed() {
				fmt.Fprintln(out, styles.SuccessStyle.Render(fmt.Sprintf("✓ %s is up to date (%d file(s), %d group(s))",
					preview.Path, generated.Files, generated.Folders)))
				return nil
			}

			fmt.Fprintln(out, styles.ErrorStyle.Render("✗ "+preview.Path+" is out of date"))
			current, err := summary.Parse(preview.Current)
			if err != nil {
				fmt.Fprintln(out, styles.WarningStyle.Render("  ⚠ "+err.Error()))
			} else {
				have := summary.Stats(current)
				fmt.Fprintf(out, "  %s %s\n", styles.LabelStyle.Render("On disk:  "),
					styles.ValueStyle.Render(fmt.Sprintf("%d file(s), %d group(s)", have.Files, have.Folders)))
			}
			fmt.Fprintf(out, "  %s %s\n", styles.LabelStyle.Render("Bookmarks:"),
				styles.ValueStyle.Render(fmt.Sprintf("%d file(s), %d group(s)", generated.Files, generated.Folders)))
			fmt.Fprintln(out, styles.DimStyle.Render("  Run 'vaultsummary diff' to see the changes"))
			return reportedError{ErrStale}
		},
	}
}
