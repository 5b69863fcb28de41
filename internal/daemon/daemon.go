// Package daemon tracks background watchers through PID files, one per
// vault, so several vaults can be watched at once.
package daemon

import (
	"bufio"
	"crypto/sha256"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/adrg/xdg"
)

// Dir returns the directory holding watcher PID files.
// Can be overridden for testing
var Dir = func() string {
	return filepath.Join(xdg.StateHome, "vaultsummary")
}

// Watcher describes a running background watcher
type Watcher struct {
	PID       int
	VaultDir  string
	StartTime time.Time
}

// PIDFile returns the PID file of the watcher for vaultDir
func PIDFile(vaultDir string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(vaultDir)))
	return filepath.Join(Dir(), fmt.Sprintf("watch-%x.pid", sum[:6]))
}

// WritePID records the current process as the watcher of vaultDir.
// The file holds the PID and the vault path on separate lines.
func WritePID(vaultDir string) error {
	pidFile := PIDFile(vaultDir)

	if err := os.MkdirAll(filepath.Dir(pidFile), 0755); err != nil {
		return fmt.Errorf("failed to create PID directory: %w", err)
	}

	content := fmt.Sprintf("%d\n%s\n", os.Getpid(), filepath.Clean(vaultDir))
	if err := os.WriteFile(pidFile, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	return nil
}

// ReadPID reads the watcher PID for vaultDir
func ReadPID(vaultDir string) (int, error) {
	w, err := readPIDFile(PIDFile(vaultDir))
	if err != nil {
		return 0, err
	}
	return w.PID, nil
}

func readPIDFile(path string) (*Watcher, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("watcher not running (PID file not found)")
		}
		return nil, fmt.Errorf("failed to read PID file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read PID file: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("invalid PID file: empty")
	}

	pid, err := strconv.Atoi(lines[0])
	if err != nil {
		return nil, fmt.Errorf("invalid PID in file: %w", err)
	}

	w := &Watcher{PID: pid}
	if len(lines) > 1 {
		w.VaultDir = lines[1]
	}
	if info, err := f.Stat(); err == nil {
		// Modification time approximates the start time
		w.StartTime = info.ModTime()
	}
	return w, nil
}

// RemovePID removes the PID file of the watcher for vaultDir
func RemovePID(vaultDir string) error {
	if err := os.Remove(PIDFile(vaultDir)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// alive reports whether pid names a live process
func alive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 only checks that the process exists
	return process.Signal(syscall.Signal(0)) == nil
}

// check returns the watcher recorded in path, removing the file when its
// process is gone
func check(path string) (*Watcher, bool) {
	w, err := readPIDFile(path)
	if err != nil {
		return nil, false
	}
	if !alive(w.PID) {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove stale PID file: %v\n", err)
		}
		return nil, false
	}
	return w, true
}

// IsRunning checks whether a watcher for vaultDir is running.
// A PID file left by a dead process is removed.
func IsRunning(vaultDir string) (bool, int, time.Time) {
	w, ok := check(PIDFile(vaultDir))
	if !ok {
		return false, 0, time.Time{}
	}
	return true, w.PID, w.StartTime
}

// List returns every running watcher, ordered by vault
func List() ([]Watcher, error) {
	paths, err := filepath.Glob(filepath.Join(Dir(), "watch-*.pid"))
	if err != nil {
		return nil, err
	}

	var watchers []Watcher
	for _, path := range paths {
		if w, ok := check(path); ok {
			watchers = append(watchers, *w)
		}
	}
	sort.Slice(watchers, func(i, j int) bool {
		return watchers[i].VaultDir < watchers[j].VaultDir
	})
	return watchers, nil
}

// Stop asks the watcher for vaultDir to shut down with SIGTERM
func Stop(vaultDir string) error {
	running, pid, _ := IsRunning(vaultDir)
	if !running {
		return fmt.Errorf("watcher is not running for %s", vaultDir)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to send SIGTERM: %w", err)
	}

	return nil
}

// Daemonize re-executes the current binary with args as a detached
// background watcher for vaultDir
func Daemonize(vaultDir string, args []string) error {
	if running, pid, _ := IsRunning(vaultDir); running {
		return fmt.Errorf("watcher already running for %s with PID %d", vaultDir, pid)
	}

	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	cmd := exec.Command(executable, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	if err := cmd.Process.Release(); err != nil {
		return fmt.Errorf("failed to release watcher process: %w", err)
	}

	return nil
}
