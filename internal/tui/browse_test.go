package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gerunddev/vaultsummary/internal/bookmarks"
	"github.com/gerunddev/vaultsummary/internal/config"
	"github.com/gerunddev/vaultsummary/internal/generator"
)

func testGenerator(t *testing.T) (*config.Config, *generator.Generator) {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".obsidian"), 0755); err != nil {
		t.Fatal(err)
	}
	doc := `{"items": [
	  {"type": "file", "path": "notes/Present.md"},
	  {"type": "group", "title": "Later", "items": [{"type": "file", "path": "Missing.md"}]}
	]}`
	if err := os.WriteFile(bookmarks.Path(dir), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "notes"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes", "Present.md"), []byte("# Present\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.VaultDir = dir
	return cfg, generator.New(cfg)
}

func TestLoadBrowseData(t *testing.T) {
	_, gen := testGenerator(t)

	data, err := LoadBrowseData(context.Background(), gen)
	if err != nil {
		t.Fatalf("LoadBrowseData() error = %v", err)
	}

	want := []EntryRow{
		{Title: "Present", Depth: 0, Kind: "file", Path: "notes/Present.md", Exists: true},
		{Title: "Later", Depth: 0, Kind: "group", Exists: true},
		{Title: "Missing", Depth: 1, Kind: "file", Path: "Missing.md", Exists: false},
	}
	if len(data.Rows) != len(want) {
		t.Fatalf("Got %d rows, want %d: %+v", len(data.Rows), len(want), data.Rows)
	}
	for i := range want {
		if data.Rows[i] != want[i] {
			t.Errorf("Row %d = %+v, want %+v", i, data.Rows[i], want[i])
		}
	}
	if !data.Preview.Changed() {
		t.Error("Expected preview to differ from a missing summary")
	}
}

func TestBrowseModelFlow(t *testing.T) {
	_, gen := testGenerator(t)
	load := func() (*BrowseData, error) { return LoadBrowseData(context.Background(), gen) }
	regenerated := false
	regenerate := func() (*generator.Result, error) {
		regenerated = true
		return gen.Trigger(context.Background())
	}

	m := InitBrowseModel(load, regenerate)
	msg := m.Init()()
	model, _ := m.Update(msg)
	m = model.(browseModel)

	view := m.View()
	for _, want := range []string{"Vault Summary Browser", "Present", "Later", "out of date", "1 missing note(s)"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q:\n%s", want, view)
		}
	}

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	m = model.(browseModel)
	if m.view != diffView {
		t.Fatalf("Expected diff view, got %v", m.view)
	}
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = model.(browseModel)
	if m.view != tableView {
		t.Fatalf("Expected table view after esc, got %v", m.view)
	}

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	m = model.(browseModel)
	if cmd == nil || !m.busy {
		t.Fatal("Expected regeneration to start")
	}
	if !strings.Contains(m.View(), generator.MsgGenerating) {
		t.Errorf("Expected progress notice while regenerating:\n%s", m.View())
	}
	model, cmd = m.Update(cmd())
	m = model.(browseModel)
	if !regenerated || m.busy {
		t.Fatal("Expected regeneration to finish")
	}
	if !strings.Contains(m.notice, generator.MsgGenerated) {
		t.Errorf("Notice = %q", m.notice)
	}

	model, _ = m.Update(cmd())
	m = model.(browseModel)
	if !strings.Contains(m.View(), "up to date") {
		t.Errorf("Expected summary to be up to date after regeneration:\n%s", m.View())
	}
}

func TestBrowseModelLoadError(t *testing.T) {
	m := InitBrowseModel(func() (*BrowseData, error) { return nil, errors.New("boom") }, nil)
	model, _ := m.Update(m.Init()())

	if view := model.View(); !strings.Contains(view, "boom") {
		t.Errorf("Expected error in view, got %q", view)
	}
}

func TestDashboardView(t *testing.T) {
	m := InitDashboardModel(func() (*DashboardData, error) {
		return &DashboardData{VaultDir: "/vault", SummaryPath: "SUMMARY.md", Files: 3, Folders: 1}, nil
	})
	model, _ := m.Update(DashboardMsg{Data: &DashboardData{VaultDir: "/vault", SummaryPath: "SUMMARY.md"}})

	view := model.View()
	for _, want := range []string{"Not running", "/vault", "No summary generated yet"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q:\n%s", want, view)
		}
	}
}
