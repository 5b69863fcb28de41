package commands

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/gerunddev/vaultsummary/internal/config"
	"github.com/gerunddev/vaultsummary/internal/generator"
	"github.com/gerunddev/vaultsummary/internal/logger"
	"github.com/gerunddev/vaultsummary/internal/state"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "0.1.0"

// options holds the global flags shared by every command
type options struct {
	configPath string
	vaultDir   string
	output     string
	verbose    bool
}

// NewRootCommand creates and returns the root cobra command for vaultsummary
func NewRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "vaultsummary",
		Short: "Generate a SUMMARY.md table of contents from Obsidian bookmarks",
		Long: `vaultsummary reads the bookmarks of an Obsidian vault and writes them
as a nested Markdown list of links to SUMMARY.md in the vault root.

Bookmark groups become headings, bookmarked Markdown notes become links,
and everything else is left out. Run it once with 'generate' or keep the
summary current with 'watch'.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/vaultsummary/config.json)")
	flags.StringVar(&opts.vaultDir, "vault", "", "vault directory, overrides vault_dir")
	flags.StringVarP(&opts.output, "output", "o", "", "summary path inside the vault, overrides summary_path")
	flags.BoolVar(&opts.verbose, "verbose", false, "log debug output to stderr")

	cmd.AddCommand(newGenerateCommand(opts))
	cmd.AddCommand(newDiffCommand(opts))
	cmd.AddCommand(newPreviewCommand(opts))
	cmd.AddCommand(newTreeCommand(opts))
	cmd.AddCommand(newCheckCommand(opts))
	cmd.AddCommand(newStatusCommand(opts))
	cmd.AddCommand(newBrowseCommand(opts))
	cmd.AddCommand(newWatchCommand(opts))
	cmd.AddCommand(newStartCommand(opts))
	cmd.AddCommand(newStopCommand(opts))
	cmd.AddCommand(newDashboardCommand(opts))
	cmd.AddCommand(newInstallCommand())
	cmd.AddCommand(newUninstallCommand())
	cmd.AddCommand(newConfigCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// configFile returns the config file in effect
func (o *options) configFile() string {
	if o.configPath != "" {
		return o.configPath
	}
	return config.ConfigPath()
}

// load reads the config file and applies the command line overrides
func (o *options) load() (*config.Config, error) {
	cfg, err := config.LoadFile(o.configFile())
	if err != nil {
		return nil, err
	}

	if o.vaultDir != "" {
		if err := cfg.Set("vault_dir", o.vaultDir); err != nil {
			return nil, err
		}
	}
	if o.output != "" {
		if err := cfg.Set("summary_path", o.output); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// logger returns the diagnostics logger for one-shot commands
func (o *options) logger(w io.Writer) *logger.Logger {
	if !o.verbose {
		return logger.Discard()
	}
	return logger.NewWithLevel(w, log.DebugLevel)
}

// generator builds a generator with state tracking from the effective config
func (o *options) generator(cmd *cobra.Command) (*generator.Generator, *config.Config, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, nil, err
	}

	l := o.logger(cmd.ErrOrStderr())
	l.ConfigLoaded(cfg.VaultDir, cfg.SummaryPath, cfg.Interval)

	gen := generator.New(cfg)
	gen.SetLogger(l)

	st, err := state.Load(config.StateFilePath())
	if err != nil {
		l.StateError("load", err)
	} else {
		gen.SetState(st, config.StateFilePath())
	}

	return gen, cfg, nil
}

// reportedError wraps an error the user has already been shown
type reportedError struct {
	err error
}

func (e reportedError) Error() string {
	return e.err.Error()
}

func (e reportedError) Unwrap() error {
	return e.err
}

// Reported reports whether err was already shown to the user
func Reported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
