package bookmarks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBookmarks = `{
  "items": [
    {"type": "file", "ctime": 1700000000000, "path": "a/b.md"},
    {"type": "file", "ctime": 1700000000001, "path": "Doc.MD", "title": "Docs"},
    {"type": "folder", "ctime": 1700000000002, "path": "Projects"},
    {"type": "search", "ctime": 1700000000003, "query": "tag:#todo"},
    {
      "type": "group",
      "ctime": 1700000000004,
      "title": "Work",
      "items": [
        {"type": "file", "ctime": 1700000000005, "path": "work/plan.md"},
        {"type": "group", "ctime": 1700000000006, "title": "Empty", "items": []}
      ]
    }
  ]
}`

func TestDecode(t *testing.T) {
	items, err := Decode(strings.NewReader(sampleBookmarks))
	require.NoError(t, err)
	require.Len(t, items, 5)

	f, ok := items[0].(*File)
	require.True(t, ok, "expected *File, got %T", items[0])
	assert.Equal(t, "a/b.md", f.Path)
	assert.Empty(t, f.Title)
	assert.Equal(t, int64(1700000000000), f.Created().UnixMilli())

	titled := items[1].(*File)
	assert.Equal(t, "Docs", titled.Title)

	folder, ok := items[2].(*Folder)
	require.True(t, ok)
	assert.Equal(t, "Projects", folder.Path)

	other, ok := items[3].(*Other)
	require.True(t, ok)
	assert.Equal(t, Kind("search"), other.Kind())

	group, ok := items[4].(*Group)
	require.True(t, ok)
	assert.Equal(t, "Work", group.Title)
	require.Len(t, group.Items, 2)
	assert.Equal(t, KindFile, group.Items[0].Kind())

	inner := group.Items[1].(*Group)
	assert.Equal(t, "Empty", inner.Title)
	assert.NotNil(t, inner.Items)
	assert.Empty(t, inner.Items)

	assert.Equal(t, 7, Count(items))
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "not json",
			content: "bookmarks",
			wantErr: "failed to parse bookmarks",
		},
		{
			name:    "missing items",
			content: `{}`,
			wantErr: "no items list",
		},
		{
			name:    "null items",
			content: `{"items": null}`,
			wantErr: "must be a list",
		},
		{
			name:    "items not a list",
			content: `{"items": {"type": "file"}}`,
			wantErr: "must be a list",
		},
		{
			name:    "file without path",
			content: `{"items": [{"type": "file", "title": "x"}]}`,
			wantErr: "no path",
		},
		{
			name:    "item without type",
			content: `{"items": [{"path": "a.md"}]}`,
			wantErr: "no type",
		},
		{
			name:    "nested group items not a list",
			content: `{"items": [{"type": "group", "title": "G", "items": "oops"}]}`,
			wantErr: `group "G"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBytes([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDecodeNullGroupItems(t *testing.T) {
	items, err := DecodeBytes([]byte(`{"items": [{"type": "group", "title": "G", "items": null}, {"type": "group", "title": "H"}]}`))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Empty(t, items[0].(*Group).Items)
	assert.Empty(t, items[1].(*Group).Items)
}

func TestFileSource(t *testing.T) {
	vault := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(vault, ".obsidian"), 0755))
	require.NoError(t, os.WriteFile(Path(vault), []byte(sampleBookmarks), 0644))

	items, err := ForVault(vault).Items(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 5)
}

func TestFileSourceRetrievalError(t *testing.T) {
	vault := t.TempDir()

	_, err := ForVault(vault).Items(context.Background())
	require.Error(t, err)

	var rerr *RetrievalError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, Path(vault), rerr.Source)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	require.NoError(t, os.MkdirAll(filepath.Join(vault, ".obsidian"), 0755))
	require.NoError(t, os.WriteFile(Path(vault), []byte(`{"items": 3}`), 0644))

	_, err = ForVault(vault).Items(context.Background())
	require.True(t, errors.As(err, &rerr))
}

func TestFileSourceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ForVault(t.TempDir()).Items(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
