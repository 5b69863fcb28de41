package summary

import (
	"bytes"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/gerunddev/vaultsummary/internal/bookmarks"
	"gopkg.in/yaml.v3"
)

func loadFixture(t *testing.T) []bookmarks.Item {
	t.Helper()
	data, err := os.ReadFile("testdata/bookmarks.json")
	if err != nil {
		t.Fatalf("Failed to read bookmarks fixture: %v", err)
	}
	items, err := bookmarks.DecodeBytes(data)
	if err != nil {
		t.Fatalf("Failed to decode bookmarks fixture: %v", err)
	}
	return items
}

func TestRenderFixture(t *testing.T) {
	expected, err := os.ReadFile("testdata/SUMMARY.md")
	if err != nil {
		t.Fatalf("Failed to read summary fixture: %v", err)
	}

	actual := Render(Normalize(loadFixture(t)))
	if actual != string(expected) {
		t.Errorf("Summary mismatch.\n\nExpected:\n%s\n\nGot:\n%s", expected, actual)
	}
}

func TestNormalizeScenario(t *testing.T) {
	items := []bookmarks.Item{
		&bookmarks.File{Path: "a/b.md"},
		&bookmarks.Group{Title: "G", Items: []bookmarks.Item{
			&bookmarks.File{Path: "c.txt"},
		}},
	}

	got := Normalize(items)
	want := []Entry{
		&FileEntry{Name: "b", Path: "a/b.md"},
		&FolderEntry{Name: "G", Items: []Entry{}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize() = %#v, want %#v", got, want)
	}

	expected := "# Summary\n\n- [b](a/b.md)\n- G\n"
	if out := Render(got); out != expected {
		t.Errorf("Render() = %q, want %q", out, expected)
	}
}

func TestNormalizeTitles(t *testing.T) {
	tests := []struct {
		name      string
		file      *bookmarks.File
		wantTitle string
		wantKept  bool
	}{
		{
			name:      "fallback to file name",
			file:      &bookmarks.File{Path: "notes/My Note.md"},
			wantTitle: "My Note",
			wantKept:  true,
		},
		{
			name:      "explicit title",
			file:      &bookmarks.File{Path: "notes/x.md", Title: "Custom"},
			wantTitle: "Custom",
			wantKept:  true,
		},
		{
			name:      "empty title falls back",
			file:      &bookmarks.File{Path: "top.md", Title: ""},
			wantTitle: "top",
			wantKept:  true,
		},
		{
			name:      "mixed case extension",
			file:      &bookmarks.File{Path: "Doc.MD"},
			wantTitle: "Doc",
			wantKept:  true,
		},
		{
			name:     "image dropped",
			file:     &bookmarks.File{Path: "image.png"},
			wantKept: false,
		},
		{
			name:     "no extension dropped",
			file:     &bookmarks.File{Path: "README"},
			wantKept: false,
		},
		{
			name:     "dot in directory only",
			file:     &bookmarks.File{Path: "v1.md/notes"},
			wantKept: false,
		},
		{
			name:     "markdown-like extension dropped",
			file:     &bookmarks.File{Path: "page.mdx"},
			wantKept: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize([]bookmarks.Item{tt.file})
			if !tt.wantKept {
				if len(got) != 0 {
					t.Fatalf("Expected %q to be dropped, got %#v", tt.file.Path, got)
				}
				return
			}
			if len(got) != 1 {
				t.Fatalf("Expected one entry, got %d", len(got))
			}
			entry, ok := got[0].(*FileEntry)
			if !ok {
				t.Fatalf("Expected *FileEntry, got %T", got[0])
			}
			if entry.Name != tt.wantTitle {
				t.Errorf("Title = %q, want %q", entry.Name, tt.wantTitle)
			}
			if entry.Path != tt.file.Path {
				t.Errorf("Path = %q, want %q", entry.Path, tt.file.Path)
			}
		})
	}
}

func TestNormalizeKeepsSiblingOrder(t *testing.T) {
	items := []bookmarks.Item{
		&bookmarks.File{Path: "one.md"},
		&bookmarks.File{Path: "skip.pdf"},
		&bookmarks.Folder{Path: "dir"},
		&bookmarks.File{Path: "two.md"},
		&bookmarks.Other{Type: "search"},
		&bookmarks.File{Path: "three.md"},
	}

	var titles []string
	for _, e := range Normalize(items) {
		titles = append(titles, e.Title())
	}
	want := []string{"one", "two", "three"}
	if !reflect.DeepEqual(titles, want) {
		t.Errorf("Titles = %v, want %v", titles, want)
	}
}

func TestNormalizeWithReportsSkipped(t *testing.T) {
	var reasons []string
	NormalizeWith(loadFixture(t), func(item bookmarks.Item, reason string) {
		reasons = append(reasons, string(item.Kind())+": "+reason)
	})

	want := []string{
		"file: not a markdown file",
		"folder: folder bookmarks are not listed",
		"file: not a markdown file",
		"search: unsupported bookmark type",
	}
	if !reflect.DeepEqual(reasons, want) {
		t.Errorf("Skipped = %v, want %v", reasons, want)
	}
}

func TestRenderNesting(t *testing.T) {
	entries := Normalize([]bookmarks.Item{
		&bookmarks.Group{Title: "Work", Items: []bookmarks.Item{
			&bookmarks.File{Path: "work/todo.md"},
		}},
	})

	lines := strings.Split(strings.TrimSuffix(Render(entries), "\n"), "\n")
	want := []string{"# Summary", "", "- Work", "    - [todo](work/todo.md)"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("Lines = %q, want %q", lines, want)
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := Render(nil); got != Header {
		t.Errorf("Render(nil) = %q, want %q", got, Header)
	}
}

func TestRenderIdempotent(t *testing.T) {
	entries := Normalize(loadFixture(t))
	if Render(entries) != Render(entries) {
		t.Error("Rendering the same tree twice produced different output")
	}

	var buf bytes.Buffer
	n, err := WriteTo(&buf, entries)
	if err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if int(n) != buf.Len() || buf.String() != Render(entries) {
		t.Error("WriteTo output differs from Render")
	}
}

func TestRenderExplicitTitleLink(t *testing.T) {
	out := Render(Normalize([]bookmarks.Item{
		&bookmarks.File{Path: "dir/A B.md", Title: "T"},
	}))
	if !strings.Contains(out, "[T](dir/A%20B.md)") {
		t.Errorf("Expected link with encoded path, got %q", out)
	}
}

func TestEncodePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain.md", "plain.md"},
		{"a/b c.md", "a/b%20c.md"},
		{"notes/50%.md", "notes/50%25.md"},
		{"q?&=+$,;:@#.md", "q?&=+$,;:@#.md"},
		{"it's (1)!~*.md", "it's%20(1)!~*.md"},
		{"[draft].md", "%5Bdraft%5D.md"},
		{"café.md", "caf%C3%A9.md"},
		{"a\"b<c>.md", "a%22b%3Cc%3E.md"},
	}

	for _, tt := range tests {
		if got := EncodePath(tt.input); got != tt.expected {
			t.Errorf("EncodePath(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	entries := Normalize(loadFixture(t))

	parsed, err := Parse([]byte(Render(entries)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !reflect.DeepEqual(parsed, entries) {
		t.Errorf("Parse(Render(x)) != x\n\nGot:  %s\nWant: %s", Render(parsed), Render(entries))
	}
}

func TestParseEmptySummary(t *testing.T) {
	parsed, err := Parse([]byte(Header))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(parsed) != 0 {
		t.Errorf("Expected no entries, got %d", len(parsed))
	}
}

func TestParseNotSummary(t *testing.T) {
	_, err := Parse([]byte("# Notes\n\n- [a](a.md)\n"))
	if !errors.Is(err, ErrNotSummary) {
		t.Errorf("Expected ErrNotSummary, got %v", err)
	}
}

func TestStats(t *testing.T) {
	got := Stats(Normalize(loadFixture(t)))
	want := Counts{Files: 4, Folders: 3, MaxDepth: 2}
	if got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}

func TestMarshalYAML(t *testing.T) {
	data, err := MarshalYAML(Normalize(loadFixture(t)))
	if err != nil {
		t.Fatalf("MarshalYAML failed: %v", err)
	}

	var nodes []map[string]any
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		t.Fatalf("Output is not valid YAML: %v", err)
	}
	if len(nodes) != 4 {
		t.Fatalf("Expected 4 top-level nodes, got %d", len(nodes))
	}
	if nodes[0]["type"] != "file" || nodes[0]["path"] != "Welcome.md" {
		t.Errorf("Unexpected first node: %v", nodes[0])
	}
	if nodes[2]["type"] != "folder" || nodes[2]["title"] != "Images" {
		t.Errorf("Unexpected third node: %v", nodes[2])
	}
	if _, ok := nodes[2]["items"]; ok {
		t.Errorf("Empty folder should omit items: %v", nodes[2])
	}
}
