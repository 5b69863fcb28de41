package bookmarks

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// RetrievalError reports that the bookmark tree could not be obtained
type RetrievalError struct {
	Source string
	Err    error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("failed to retrieve bookmarks from %s: %v", e.Source, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// Source supplies the bookmark tree
type Source interface {
	Items(ctx context.Context) ([]Item, error)
}

// FileSource reads bookmarks from a bookmarks.json file
type FileSource struct {
	Path string
}

// Path returns the location of the bookmarks file inside a vault
func Path(vaultDir string) string {
	return filepath.Join(vaultDir, ".obsidian", "bookmarks.json")
}

// ForVault returns a source reading the vault's bookmarks file
func ForVault(vaultDir string) *FileSource {
	return &FileSource{Path: Path(vaultDir)}
}

// Items reads and decodes the bookmarks file
func (s *FileSource) Items(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, &RetrievalError{Source: s.Path, Err: err}
	}

	items, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &RetrievalError{Source: s.Path, Err: err}
	}
	return items, nil
}

// Location returns the bookmarks file path
func (s *FileSource) Location() string {
	return s.Path
}

// Static is a Source over an in-memory tree
type Static []Item

// Items returns the static tree
func (s Static) Items(ctx context.Context) ([]Item, error) {
	return s, nil
}
