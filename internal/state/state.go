package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// VaultState records the last successful generation for one vault
type VaultState struct {
	BookmarksHash string    `json:"bookmarks_hash"`
	SummaryHash   string    `json:"summary_hash"`
	SummaryPath   string    `json:"summary_path"`
	GeneratedAt   time.Time `json:"generated_at"`
	RunID         string    `json:"run_id"`
	Files         int       `json:"files"`
	Folders       int       `json:"folders"`
}

// State holds the generation history, keyed by absolute vault path
type State struct {
	Vaults map[string]*VaultState `json:"vaults"`
}

// NewState creates a new empty state
func NewState() *State {
	return &State{
		Vaults: make(map[string]*VaultState),
	}
}

// Load reads state from the state file
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}

	if state.Vaults == nil {
		state.Vaults = make(map[string]*VaultState)
	}

	return &state, nil
}

// Save writes state to the state file
func (s *State) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// ComputeHash computes SHA256 hash of a file
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// HashBytes computes the SHA256 hash of in-memory content
func HashBytes(data []byte) string {
	return fmt.Sprintf("sha256:%x", sha256.Sum256(data))
}

// Lookup returns the recorded state for a vault, if any
func (s *State) Lookup(vaultDir string) (*VaultState, bool) {
	vs, ok := s.Vaults[vaultDir]
	return vs, ok
}

// Record stores the outcome of a successful generation
func (s *State) Record(vaultDir string, vs *VaultState) {
	s.Vaults[vaultDir] = vs
}

// BookmarksChanged reports whether the bookmarks file differs from the one
// used for the last recorded generation
func (s *State) BookmarksChanged(vaultDir, bookmarksPath string) (bool, error) {
	vs, exists := s.Vaults[vaultDir]
	if !exists {
		return true, nil
	}

	hash, err := ComputeHash(bookmarksPath)
	if err != nil {
		return false, err
	}

	return hash != vs.BookmarksHash, nil
}
