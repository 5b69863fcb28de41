package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gerunddev/vaultsummary/internal/bookmarks"
	"github.com/gerunddev/vaultsummary/internal/config"
	"github.com/gerunddev/vaultsummary/internal/daemon"
	"github.com/gerunddev/vaultsummary/internal/state"
	"github.com/gerunddev/vaultsummary/internal/styles"
	"github.com/spf13/cobra"
)

func newStatusCommand(opts *options) *cobra.Command {
	var logLines int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show settings, the last generation and recent log lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			st, err := state.Load(config.StateFilePath())
			if err != nil {
				return fmt.Errorf("failed to load state: %w", err)
			}

			out := cmd.OutOrStdout()
			field := func(label, value string) {
				fmt.Fprintf(out, "  %s %s\n", styles.LabelStyle.Render(fmt.Sprintf("%-10s", label+":")), styles.ValueStyle.Render(value))
			}

			fmt.Fprintln(out, styles.TitleStyle.Render("Vault Summary Status"))
			fmt.Fprintln(out)

			fmt.Fprintln(out, styles.HeaderStyle.Render("Settings"))
			field("Vault", cfg.VaultDir)
			field("Summary", cfg.SummaryPath)
			field("Bookmarks", bookmarks.Path(cfg.VaultDir))
			field("Interval", cfg.Interval.String())
			field("Log file", cfg.LogFile)
			fmt.Fprintln(out)

			fmt.Fprintln(out, styles.HeaderStyle.Render("Last Generation"))
			if vs, ok := st.Lookup(cfg.VaultDir); ok {
				field("When", fmt.Sprintf("%s (%s ago)", vs.GeneratedAt.Format(time.DateTime),
					time.Since(vs.GeneratedAt).Round(time.Second)))
				field("Entries", fmt.Sprintf("%d file(s), %d group(s)", vs.Files, vs.Folders))
				field("Run", vs.RunID)
			} else {
				fmt.Fprintln(out, styles.DimStyle.Render("  No summary generated yet"))
			}
			fmt.Fprintln(out)

			fmt.Fprintln(out, styles.HeaderStyle.Render("Watcher"))
			if running, pid, started := daemon.IsRunning(cfg.VaultDir); running {
				field("Status", styles.SuccessStyle.Render("● Running"))
				field("PID", fmt.Sprintf("%d", pid))
				field("Uptime", time.Since(started).Round(time.Second).String())
			} else {
				field("Status", styles.DimStyle.Render("○ Not running"))
			}
			if watchers, err := daemon.List(); err == nil && len(watchers) > 0 {
				var others int
				for _, w := range watchers {
					if w.VaultDir != filepath.Clean(cfg.VaultDir) {
						others++
					}
				}
				if others > 0 {
					field("Others", fmt.Sprintf("%d watcher(s) on other vaults", others))
				}
			}

			if logLines > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, styles.HeaderStyle.Render("Recent Logs"))
				for _, line := range ParseLogFile(cfg.LogFile, logLines).Lines {
					fmt.Fprintln(out, "  "+line)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&logLines, "lines", "n", 10, "number of log lines to show")

	return cmd
}
