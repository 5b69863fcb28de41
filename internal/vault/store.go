// Package vault reads and writes files inside an Obsidian vault.
//
// Writes replace the whole file: content goes to a temporary file in the
// target directory which is then renamed over the target, so readers see
// either the previous content or the new one. An advisory lock file in the
// vault's .obsidian directory keeps concurrent writers from interleaving.
package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// StorageError reports a failed vault file operation
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ErrOutsideVault is returned for paths that leave the vault root
var ErrOutsideVault = errors.New("path is outside the vault")

// Store gives access to files relative to a vault root
type Store struct {
	root string
}

// NewStore returns a store rooted at dir
func NewStore(dir string) *Store {
	return &Store{root: filepath.Clean(dir)}
}

// Root returns the vault directory
func (s *Store) Root() string {
	return s.root
}

// LockPath returns the lock file guarding writes into this vault
func (s *Store) LockPath() string {
	return filepath.Join(s.root, ".obsidian", "vaultsummary.lock")
}

// Resolve maps a vault-relative, slash-separated path to a filesystem path
func (s *Store) Resolve(rel string) (string, error) {
	if rel == "" {
		return "", &StorageError{Op: "resolve", Path: rel, Err: errors.New("empty path")}
	}
	if filepath.IsAbs(rel) || strings.HasPrefix(rel, "/") {
		return "", &StorageError{Op: "resolve", Path: rel, Err: ErrOutsideVault}
	}

	full := filepath.Join(s.root, filepath.FromSlash(rel))
	within, err := filepath.Rel(s.root, full)
	if err != nil || within == "." || within == ".." || strings.HasPrefix(within, ".."+string(filepath.Separator)) {
		return "", &StorageError{Op: "resolve", Path: rel, Err: ErrOutsideVault}
	}
	return full, nil
}

// Exists reports whether a regular file exists at rel
func (s *Store) Exists(rel string) (bool, error) {
	full, err := s.Resolve(rel)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, &StorageError{Op: "stat", Path: rel, Err: err}
	}
	if info.IsDir() {
		return false, &StorageError{Op: "stat", Path: rel, Err: errors.New("is a directory")}
	}
	return true, nil
}

// Read returns the content of the file at rel.
// A missing file yields nil data and a nil error.
func (s *Store) Read(rel string) ([]byte, error) {
	full, err := s.Resolve(rel)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &StorageError{Op: "read", Path: rel, Err: err}
	}
	return data, nil
}

// Write replaces the file at rel with data, creating it and its parent
// directories when needed
func (s *Store) Write(rel string, data []byte) error {
	full, err := s.Resolve(rel)
	if err != nil {
		return err
	}

	if info, err := os.Stat(full); err == nil && info.IsDir() {
		return &StorageError{Op: "write", Path: rel, Err: errors.New("is a directory")}
	}

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &StorageError{Op: "create directory for", Path: rel, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(s.LockPath()), 0755); err != nil {
		return &StorageError{Op: "lock", Path: rel, Err: err}
	}
	lock := flock.New(s.LockPath())
	if err := lock.Lock(); err != nil {
		return &StorageError{Op: "lock", Path: rel, Err: err}
	}
	defer lock.Unlock()

	if err := atomicWrite(full, data); err != nil {
		return &StorageError{Op: "write", Path: rel, Err: err}
	}
	return nil
}

// atomicWrite writes data to a temp file beside path and renames it into place.
// If anything fails the original file is left untouched.
func atomicWrite(path string, data []byte) error {
	perm := fs.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".vaultsummary-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace file: %w", err)
	}

	committed = true
	return nil
}
