// Package generator runs the bookmarks-to-summary pipeline: retrieve the
// bookmark tree, normalize it, render it and replace the summary file.
package generator

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sync/atomic"
	"time"

	"github.com/gerunddev/vaultsummary/internal/bookmarks"
	"github.com/gerunddev/vaultsummary/internal/config"
	"github.com/gerunddev/vaultsummary/internal/logger"
	"github.com/gerunddev/vaultsummary/internal/notice"
	"github.com/gerunddev/vaultsummary/internal/state"
	"github.com/gerunddev/vaultsummary/internal/summary"
	"github.com/gerunddev/vaultsummary/internal/vault"
	"github.com/google/uuid"
)

// ErrBusy is returned by Trigger while another run is in flight
var ErrBusy = errors.New("summary generation already in progress")

// User-facing notices
const (
	MsgGenerating = "Summary generating..."
	MsgGenerated  = "Summary generated successfully!"
)

// Generator owns the settings, collaborators and busy flag of the summary
// pipeline
type Generator struct {
	vaultDir    string
	summaryPath string

	source   bookmarks.Source
	store    *vault.Store
	log      *logger.Logger
	notifier notice.Notifier

	state     *state.State
	statePath string

	busy atomic.Bool
}

// Result describes a completed generation
type Result struct {
	RunID    string
	Path     string // vault-relative, slash separated
	FullPath string
	Counts   summary.Counts
	Skipped  int
	Bytes    int
	Changed  bool
	Duration time.Duration
}

// Preview is a rendered summary that has not been written
type Preview struct {
	RunID   string
	Path    string
	Entries []summary.Entry
	Content string
	Current []byte
	Exists  bool
	Skipped int
}

// Changed reports whether writing the preview would alter the file
func (p *Preview) Changed() bool {
	return !p.Exists || !bytes.Equal(p.Current, []byte(p.Content))
}

// New creates a generator for the configured vault
func New(cfg *config.Config) *Generator {
	return &Generator{
		vaultDir:    cfg.VaultDir,
		summaryPath: cfg.SummarySlashPath(),
		source:      bookmarks.ForVault(cfg.VaultDir),
		store:       vault.NewStore(cfg.VaultDir),
		log:         logger.Discard(),
		notifier:    notice.Discard,
	}
}

// SetLogger sets the logger used for run diagnostics
func (g *Generator) SetLogger(l *logger.Logger) {
	g.log = l
}

// SetNotifier sets the channel for user-facing notices
func (g *Generator) SetNotifier(n notice.Notifier) {
	g.notifier = n
}

// SetSource replaces the bookmark source
func (g *Generator) SetSource(s bookmarks.Source) {
	g.source = s
}

// SetState enables recording of successful runs in the state file
func (g *Generator) SetState(st *state.State, path string) {
	g.state = st
	g.statePath = path
}

// VaultDir returns the vault root
func (g *Generator) VaultDir() string {
	return g.vaultDir
}

// SummaryPath returns the vault-relative summary path
func (g *Generator) SummaryPath() string {
	return g.summaryPath
}

// Store returns the vault store the summary is written to
func (g *Generator) Store() *vault.Store {
	return g.store
}

// Busy reports whether a triggered run is in flight
func (g *Generator) Busy() bool {
	return g.busy.Load()
}

// Trigger is the user action: it runs Generate unless a run is already in
// flight, and reports progress and outcome through the notifier.
func (g *Generator) Trigger(ctx context.Context) (*Result, error) {
	if !g.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer g.busy.Store(false)

	hide := g.notifier.Progress(MsgGenerating)
	result, err := g.Generate(ctx)
	hide()

	if err != nil {
		g.notifier.Failure(err)
		return nil, err
	}
	g.notifier.Success(MsgGenerated)
	return result, nil
}

// Generate builds the summary from the current bookmarks and replaces the
// summary file with it
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	g.log.GenerationStarted(runID, g.vaultDir, g.summaryPath)

	preview, err := g.build(ctx, runID)
	if err != nil {
		g.log.GenerationFailed(runID, err)
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		g.log.GenerationFailed(runID, err)
		return nil, err
	}

	content := []byte(preview.Content)
	if err := g.store.Write(g.summaryPath, content); err != nil {
		g.log.GenerationFailed(runID, err)
		return nil, err
	}

	fullPath, _ := g.store.Resolve(g.summaryPath)
	result := &Result{
		RunID:    runID,
		Path:     g.summaryPath,
		FullPath: fullPath,
		Counts:   summary.Stats(preview.Entries),
		Skipped:  preview.Skipped,
		Bytes:    len(content),
		Changed:  preview.Changed(),
		Duration: time.Since(start),
	}

	g.record(result, content)
	g.log.GenerationCompleted(runID, result.Counts.Files, result.Counts.Folders, result.Skipped, result.Changed, result.Duration)
	return result, nil
}

// Preview renders the summary without writing it
func (g *Generator) Preview(ctx context.Context) (*Preview, error) {
	return g.build(ctx, uuid.NewString())
}

func (g *Generator) build(ctx context.Context, runID string) (*Preview, error) {
	items, err := g.source.Items(ctx)
	if err != nil {
		var rerr *bookmarks.RetrievalError
		if errors.As(err, &rerr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &bookmarks.RetrievalError{Source: "bookmarks", Err: err}
	}

	skipped := 0
	entries := summary.NormalizeWith(items, func(item bookmarks.Item, reason string) {
		skipped++
		g.log.BookmarkSkipped(runID, string(item.Kind()), itemPath(item), reason)
	})

	current, err := g.store.Read(g.summaryPath)
	if err != nil {
		return nil, err
	}

	return &Preview{
		RunID:   runID,
		Path:    g.summaryPath,
		Entries: entries,
		Content: summary.Render(entries),
		Current: current,
		Exists:  current != nil,
		Skipped: skipped,
	}, nil
}

// located is implemented by sources backed by a file
type located interface {
	Location() string
}

// BookmarksPath returns the file the bookmarks are read from, if any
func (g *Generator) BookmarksPath() (string, bool) {
	if l, ok := g.source.(located); ok {
		return l.Location(), true
	}
	return "", false
}

// Stale reports whether the summary file needs regenerating: it is gone,
// was written elsewhere, was edited since the last recorded run, or the
// bookmarks changed. Without state every run counts as stale.
func (g *Generator) Stale() (bool, error) {
	if g.state == nil {
		return true, nil
	}
	path, ok := g.BookmarksPath()
	if !ok {
		return true, nil
	}

	vs, ok := g.state.Lookup(g.vaultDir)
	if !ok || vs.SummaryPath != g.summaryPath {
		return true, nil
	}

	current, err := g.store.Read(g.summaryPath)
	if err != nil {
		return false, err
	}
	if current == nil || state.HashBytes(current) != vs.SummaryHash {
		return true, nil
	}
	return g.state.BookmarksChanged(g.vaultDir, path)
}

func (g *Generator) record(result *Result, content []byte) {
	if g.state == nil {
		return
	}

	vs := &state.VaultState{
		SummaryHash: state.HashBytes(content),
		SummaryPath: result.Path,
		GeneratedAt: time.Now(),
		RunID:       result.RunID,
		Files:       result.Counts.Files,
		Folders:     result.Counts.Folders,
	}
	if path, ok := g.BookmarksPath(); ok {
		hash, err := state.ComputeHash(path)
		if err != nil && !os.IsNotExist(err) {
			g.log.StateError("hash bookmarks", err)
		}
		vs.BookmarksHash = hash
	}

	g.state.Record(g.vaultDir, vs)
	if g.statePath == "" {
		return
	}
	if err := g.state.Save(g.statePath); err != nil {
		g.log.StateError("save", err)
	}
}

func itemPath(item bookmarks.Item) string {
	switch b := item.(type) {
	case *bookmarks.File:
		return b.Path
	case *bookmarks.Folder:
		return b.Path
	case *bookmarks.Group:
		return b.Title
	}
	return ""
}
