package commands

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/gerunddev/vaultsummary/internal/styles"
	"github.com/spf13/cobra"
)

const (
	launchdLabel   = "com.vaultsummary"
	systemdService = "vaultsummary.service"
)

// serviceFile returns the path and content of the user service that runs
// the watcher at login
func serviceFile(goos, home, execPath string) (string, string, error) {
	switch goos {
	case "darwin":
		path := filepath.Join(home, "Library", "LaunchAgents", launchdLabel+".plist")
		content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
		<string>%s</string>
		<string>watch</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
	<key>KeepAlive</key>
	<true/>
	<key>StandardOutPath</key>
	<string>/tmp/vaultsummary.out.log</string>
	<key>StandardErrorPath</key>
	<string>/tmp/vaultsummary.err.log</string>
</dict>
</plist>
`, launchdLabel, execPath)
		return path, content, nil

	case "linux":
		path := filepath.Join(home, ".config", "systemd", "user", systemdService)
		content := fmt.Sprintf(`[Unit]
Description=vaultsummary - keep an Obsidian vault's SUMMARY.md in sync with its bookmarks

[Service]
Type=simple
ExecStart=%s watch
Restart=always
RestartSec=10

[Install]
WantedBy=default.target
`, execPath)
		return path, content, nil
	}

	return "", "", fmt.Errorf("unsupported operating system: %s (supported: darwin, linux)", goos)
}

func newInstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Generate a user service that runs the watcher at login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			dimStyle := styles.DimStyle

			fmt.Fprintln(out, styles.TitleStyle.Render("vaultsummary install"))
			fmt.Fprintln(out)

			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}
			execPath, err := os.Executable()
			if err != nil {
				return fmt.Errorf("failed to get executable path: %w", err)
			}

			path, content, err := serviceFile(runtime.GOOS, home, execPath)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return fmt.Errorf("failed to create service directory: %w", err)
			}
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return fmt.Errorf("failed to write service file: %w", err)
			}

			fmt.Fprintln(out, styles.SuccessStyle.Render("✓ Service file created: "+path))
			fmt.Fprintln(out)

			switch runtime.GOOS {
			case "darwin":
				fmt.Fprintln(out, "To enable the service:")
				fmt.Fprintln(out, dimStyle.Render("  launchctl load "+path))
				fmt.Fprintln(out)
				fmt.Fprintln(out, "To disable the service:")
				fmt.Fprintln(out, dimStyle.Render("  launchctl unload "+path))
			case "linux":
				fmt.Fprintln(out, "To enable the service:")
				fmt.Fprintln(out, dimStyle.Render("  systemctl --user daemon-reload"))
				fmt.Fprintln(out, dimStyle.Render("  systemctl --user enable --now "+systemdService))
				fmt.Fprintln(out)
				fmt.Fprintln(out, "To disable the service:")
				fmt.Fprintln(out, dimStyle.Render("  systemctl --user disable --now "+systemdService))
			}
			return nil
		},
	}
}

func newUninstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the watcher user service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			warningStyle := styles.WarningStyle

			fmt.Fprintln(out, styles.TitleStyle.Render("vaultsummary uninstall"))
			fmt.Fprintln(out)

			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}

			path, _, err := serviceFile(runtime.GOOS, home, "")
			if err != nil {
				return err
			}

			if _, err := os.Stat(path); os.IsNotExist(err) {
				fmt.Fprintln(out, warningStyle.Render("⚠ Service file not found: "+path))
				fmt.Fprintln(out, "Nothing to uninstall.")
				return nil
			}

			// Stopping may fail when the service is not loaded
			switch runtime.GOOS {
			case "darwin":
				fmt.Fprintln(out, "Attempting to unload service...")
				if err := exec.Command("launchctl", "unload", path).Run(); err != nil {
					fmt.Fprintln(out, warningStyle.Render("⚠ Could not unload service (may not be loaded): "+err.Error()))
				}
			case "linux":
				fmt.Fprintln(out, "Attempting to stop and disable service...")
				if err := exec.Command("systemctl", "--user", "disable", "--now", systemdService).Run(); err != nil {
					fmt.Fprintln(out, warningStyle.Render("⚠ Could not stop service (may not be running): "+err.Error()))
				}
			}

			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to remove service file: %w", err)
			}

			if runtime.GOOS == "linux" {
				if err := exec.Command("systemctl", "--user", "daemon-reload").Run(); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to reload systemd daemon: %v\n", err)
				}
			}

			fmt.Fprintln(out, styles.SuccessStyle.Render("✓ Service file removed: "+path))
			return nil
		},
	}
}
