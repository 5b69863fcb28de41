package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gerunddev/vaultsummary/internal/bookmarks"
	"github.com/gerunddev/vaultsummary/internal/config"
	"github.com/gerunddev/vaultsummary/internal/daemon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBookmarks = `{"items": [
  {"type": "file", "ctime": 1, "path": "a/b.md"},
  {"type": "group", "ctime": 2, "title": "G", "items": [{"type": "file", "ctime": 3, "path": "c.txt"}]}
]}`

// testEnv isolates config, state and PID files and returns a vault
func testEnv(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()

	origConfig, origState, origPID := config.ConfigPath, config.StateFilePath, daemon.Dir
	config.ConfigPath = func() string { return filepath.Join(tmp, "config.json") }
	config.StateFilePath = func() string { return filepath.Join(tmp, "state.json") }
	daemon.Dir = func() string { return filepath.Join(tmp, "run") }
	t.Cleanup(func() {
		config.ConfigPath, config.StateFilePath, daemon.Dir = origConfig, origState, origPID
	})

	vault := filepath.Join(tmp, "vault")
	require.NoError(t, os.MkdirAll(filepath.Join(vault, ".obsidian"), 0755))
	require.NoError(t, os.WriteFile(bookmarks.Path(vault), []byte(testBookmarks), 0644))
	return vault
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "vaultsummary", cmd.Use)

	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"generate", "diff", "preview", "tree", "check", "status", "browse",
		"watch", "start", "stop", "dashboard", "install", "uninstall", "config", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "vaultsummary v"+Version+"\n", out)
}

func TestGenerateWritesSummary(t *testing.T) {
	vault := testEnv(t)

	out, err := run(t, "generate", "--vault", vault)
	require.NoError(t, err)
	assert.Contains(t, out, "Summary generating...")
	assert.Contains(t, out, "Summary generated successfully!")

	data, err := os.ReadFile(filepath.Join(vault, "SUMMARY.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Summary\n\n- [b](a/b.md)\n- G\n", string(data))
}

func TestGenerateDryRun(t *testing.T) {
	vault := testEnv(t)

	out, err := run(t, "generate", "--dry-run", "--vault", vault)
	require.NoError(t, err)
	assert.Equal(t, "# Summary\n\n- [b](a/b.md)\n- G\n", out)

	_, statErr := os.Stat(filepath.Join(vault, "SUMMARY.md"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerateOutputOverride(t *testing.T) {
	vault := testEnv(t)

	_, err := run(t, "generate", "--vault", vault, "--output", "toc/Index.md")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(vault, "toc", "Index.md"))
	assert.NoError(t, err)
}

func TestGenerateFailureIsReported(t *testing.T) {
	testEnv(t)
	empty := t.TempDir()

	out, err := run(t, "generate", "--vault", empty)
	require.Error(t, err)
	assert.True(t, Reported(err))
	assert.Contains(t, out, "Error: failed to retrieve bookmarks")
}

func TestCheckCommand(t *testing.T) {
	vault := testEnv(t)

	out, err := run(t, "check", "--vault", vault)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStale))
	assert.Contains(t, out, "does not exist")

	_, err = run(t, "generate", "--vault", vault)
	require.NoError(t, err)

	out, err = run(t, "check", "--vault", vault)
	require.NoError(t, err)
	assert.Contains(t, out, "is up to date")

	require.NoError(t, os.WriteFile(filepath.Join(vault, "SUMMARY.md"), []byte("# Summary\n\n- Old\n"), 0644))
	out, err = run(t, "check", "--vault", vault)
	require.ErrorIs(t, err, ErrStale)
	assert.Contains(t, out, "out of date")
	assert.Contains(t, out, "0 file(s), 1 group(s)")
}

func TestDiffCommand(t *testing.T) {
	vault := testEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(vault, "SUMMARY.md"), []byte("# Summary\n\n- G\n"), 0644))

	out, err := run(t, "diff", "--vault", vault)
	require.NoError(t, err)
	assert.Contains(t, out, "+- [b](a/b.md)")

	_, err = run(t, "generate", "--vault", vault)
	require.NoError(t, err)
	out, err = run(t, "diff", "--vault", vault)
	require.NoError(t, err)
	assert.Contains(t, out, "No changes")
}

func TestPreviewAndTreeCommands(t *testing.T) {
	vault := testEnv(t)

	out, err := run(t, "preview", "--vault", vault)
	require.NoError(t, err)
	assert.Equal(t, "# Summary\n\n- [b](a/b.md)\n- G\n", out)

	out, err = run(t, "tree", "--vault", vault)
	require.NoError(t, err)
	assert.Contains(t, out, "path: a/b.md")
	assert.Contains(t, out, "title: G")
}

func TestStatusCommand(t *testing.T) {
	vault := testEnv(t)

	out, err := run(t, "status", "--vault", vault, "--lines", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "No summary generated yet")
	assert.Contains(t, out, "Not running")

	_, err = run(t, "generate", "--vault", vault)
	require.NoError(t, err)

	out, err = run(t, "status", "--vault", vault, "--lines", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "1 file(s), 1 group(s)")
}

func TestWatcherIsPerVault(t *testing.T) {
	vault := testEnv(t)
	other := t.TempDir()

	// The test process stands in for a watcher on another vault
	require.NoError(t, daemon.WritePID(other))

	out, err := run(t, "status", "--vault", vault, "--lines", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Not running")
	assert.Contains(t, out, "1 watcher(s) on other vaults")

	out, err = run(t, "stop", "--vault", vault)
	require.NoError(t, err)
	assert.Contains(t, out, "Watcher is not running")

	out, err = run(t, "status", "--vault", other, "--lines", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Running")
	assert.NotContains(t, out, "other vaults")
}

func TestConfigCommands(t *testing.T) {
	testEnv(t)

	out, err := run(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, config.ConfigPath()+"\n", out)

	_, err = run(t, "config", "set", "summary_path", "docs/TOC.md")
	require.NoError(t, err)

	out, err = run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "docs/TOC.md")

	_, err = run(t, "config", "set", "summary_path", "/abs/TOC.md")
	assert.Error(t, err)
	_, err = run(t, "config", "set", "nope", "x")
	assert.Error(t, err)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "docs/TOC.md", cfg.SummaryPath)
}

func TestParseLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vaultsummary.log")
	content := strings.Join([]string{
		"2025-11-27 14:11:50 INFO generation started run_id=1 vault=/v summary=SUMMARY.md",
		"2025-11-27 14:11:57 INFO generation completed run_id=1 files=3 folders=2 skipped=0 changed=true duration=2ms",
		"2025-11-27 14:12:00 DEBU bookmarks unchanged vault=/v",
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	got := ParseLogFile(path, 2)
	assert.Len(t, got.Lines, 2)
	assert.Equal(t, 3, got.Files)
	assert.Equal(t, 2, got.Folders)
	assert.Equal(t, 57, got.LastRun.Second())

	missing := ParseLogFile(filepath.Join(t.TempDir(), "missing.log"), 5)
	assert.Equal(t, []string{"Unable to read log file"}, missing.Lines)
}

func TestServiceFile(t *testing.T) {
	path, content, err := serviceFile("linux", "/home/u", "/usr/bin/vaultsummary")
	require.NoError(t, err)
	assert.Equal(t, "/home/u/.config/systemd/user/vaultsummary.service", path)
	assert.Contains(t, content, "ExecStart=/usr/bin/vaultsummary watch")

	path, content, err = serviceFile("darwin", "/Users/u", "/usr/local/bin/vaultsummary")
	require.NoError(t, err)
	assert.Equal(t, "/Users/u/Library/LaunchAgents/com.vaultsummary.plist", path)
	assert.Contains(t, content, "<string>watch</string>")

	_, _, err = serviceFile("plan9", "/", "x")
	assert.Error(t, err)
}
