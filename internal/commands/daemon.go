package commands

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/gerunddev/vaultsummary/internal/config"
	"github.com/gerunddev/vaultsummary/internal/daemon"
	"github.com/gerunddev/vaultsummary/internal/generator"
	"github.com/gerunddev/vaultsummary/internal/logger"
	"github.com/gerunddev/vaultsummary/internal/notice"
	"github.com/gerunddev/vaultsummary/internal/state"
	"github.com/gerunddev/vaultsummary/internal/styles"
	"github.com/gerunddev/vaultsummary/internal/tui"
	"github.com/gerunddev/vaultsummary/internal/watch"
	"github.com/spf13/cobra"
)

func newWatchCommand(opts *options) *cobra.Command {
	var (
		interval time.Duration
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the summary current while the bookmarks change",
		Long: `Run in the foreground, regenerating the summary whenever the vault's
bookmarks file changes and on every interval as a safety net. Runs whose
bookmarks did not change since the last generation are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if interval > 0 {
				cfg.Interval = interval
			}

			if running, pid, _ := daemon.IsRunning(cfg.VaultDir); running {
				return fmt.Errorf("watcher already running for %s with PID %d", cfg.VaultDir, pid)
			}
			if err := daemon.WritePID(cfg.VaultDir); err != nil {
				return err
			}
			defer func() {
				if err := daemon.RemovePID(cfg.VaultDir); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to remove PID file on shutdown: %v\n", err)
				}
			}()

			level := log.InfoLevel
			if opts.verbose {
				level = log.DebugLevel
			}
			var l *logger.Logger
			if f, err := logger.OpenFile(cfg.LogFile); err == nil {
				defer f.Close()
				l = logger.NewMultiLogger(level, cmd.ErrOrStderr(), f)
			} else {
				l = logger.NewWithLevel(cmd.ErrOrStderr(), level)
				l.Warn("log file unavailable", "path", cfg.LogFile, "error", err)
			}

			gen := generator.New(cfg)
			gen.SetLogger(l)
			gen.SetNotifier(notice.NewTerminal(cmd.ErrOrStderr()))

			st, err := state.Load(config.StateFilePath())
			if err != nil {
				l.StateError("load", err)
				st = state.NewState()
			}
			gen.SetState(st, config.StateFilePath())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			l.Info("watcher started", "pid", os.Getpid(), "vault", cfg.VaultDir)

			w := watch.New(gen, l, cfg.Interval)
			if debounce > 0 {
				w.SetDebounce(debounce)
			}
			err = w.Run(ctx)

			l.Info("watcher shutdown complete")
			return err
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "safety regeneration interval, overrides interval")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period after a bookmarks change")

	return cmd
}

// passthrough returns the global flags a background watcher must inherit
func (o *options) passthrough() []string {
	var args []string
	if o.configPath != "" {
		args = append(args, "--config", o.configPath)
	}
	if o.vaultDir != "" {
		args = append(args, "--vault", o.vaultDir)
	}
	if o.output != "" {
		args = append(args, "--output", o.output)
	}
	if o.verbose {
		args = append(args, "--verbose")
	}
	return args
}

func newStartCommand(opts *options) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the watcher in the background",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			// Fail early on bad settings instead of in the detached process
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			if running, pid, _ := daemon.IsRunning(cfg.VaultDir); running {
				return fmt.Errorf("watcher already running for %s with PID %d", cfg.VaultDir, pid)
			}

			daemonArgs := append([]string{"watch"}, opts.passthrough()...)
			if interval > 0 {
				daemonArgs = append(daemonArgs, "--interval", interval.String())
			}

			if err := daemon.Daemonize(cfg.VaultDir, daemonArgs); err != nil {
				return fmt.Errorf("failed to start watcher: %w", err)
			}

			// Give it a moment to start
			time.Sleep(500 * time.Millisecond)

			running, pid, _ := daemon.IsRunning(cfg.VaultDir)
			if !running {
				return errors.New("watcher failed to start, see the log file for details")
			}

			fmt.Fprintln(out, styles.SuccessStyle.Render(fmt.Sprintf("✓ Watcher started with PID %d", pid)))
			fmt.Fprintln(out, styles.DimStyle.Render("  Run 'vaultsummary dashboard' to monitor it"))
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "safety regeneration interval, overrides interval")

	return cmd
}

func newStopCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the background watcher of the vault",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := opts.load()
			if err != nil {
				return err
			}

			running, pid, _ := daemon.IsRunning(cfg.VaultDir)
			if !running {
				fmt.Fprintln(out, styles.DimStyle.Render("Watcher is not running"))
				return nil
			}

			fmt.Fprintf(out, "Stopping watcher (PID %d)...\n", pid)
			if err := daemon.Stop(cfg.VaultDir); err != nil {
				return fmt.Errorf("failed to stop watcher: %w", err)
			}

			for i := 0; i < 10; i++ {
				time.Sleep(500 * time.Millisecond)
				if running, _, _ = daemon.IsRunning(cfg.VaultDir); !running {
					break
				}
			}
			if running {
				return errors.New("watcher did not stop gracefully")
			}

			fmt.Fprintln(out, styles.SuccessStyle.Render("✓ Watcher stopped"))
			return nil
		},
	}
}

func newDashboardCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Live status of the background watcher",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(cmd.OutOrStdout()) {
				return errors.New("dashboard needs an interactive terminal")
			}

			cfg, err := opts.load()
			if err != nil {
				return err
			}

			load := func() (*tui.DashboardData, error) {
				return dashboardData(cfg), nil
			}

			p := tea.NewProgram(tui.InitDashboardModel(load))
			_, err = p.Run()
			return err
		},
	}
}

// dashboardData gathers watcher, state and log information for one refresh
func dashboardData(cfg *config.Config) *tui.DashboardData {
	running, pid, started := daemon.IsRunning(cfg.VaultDir)
	data := &tui.DashboardData{
		Running:     running,
		PID:         pid,
		StartTime:   started,
		VaultDir:    cfg.VaultDir,
		SummaryPath: cfg.SummaryPath,
		Interval:    cfg.Interval,
	}

	if st, err := state.Load(config.StateFilePath()); err == nil {
		if vs, ok := st.Lookup(cfg.VaultDir); ok {
			data.LastRun = vs.GeneratedAt
			data.Files = vs.Files
			data.Folders = vs.Folders
		}
	}

	logs := ParseLogFile(cfg.LogFile, 15)
	data.LogLines = logs.Lines
	if data.LastRun.IsZero() {
		data.LastRun = logs.LastRun
		data.Files = logs.Files
		data.Folders = logs.Folders
	}

	return data
}
