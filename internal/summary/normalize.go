package summary

import (
	"strings"

	"github.com/gerunddev/vaultsummary/internal/bookmarks"
)

// SkipFunc is told about every bookmark left out of the summary
type SkipFunc func(item bookmarks.Item, reason string)

// Normalize converts a bookmark tree into a summary tree.
// Non-Markdown files, folders and other bookmark kinds are dropped; groups
// are always kept, even when none of their children survive.
func Normalize(items []bookmarks.Item) []Entry {
	return NormalizeWith(items, nil)
}

// NormalizeWith is Normalize reporting dropped bookmarks to skipped
func NormalizeWith(items []bookmarks.Item, skipped SkipFunc) []Entry {
	if skipped == nil {
		skipped = func(bookmarks.Item, string) {}
	}

	var parse func(item bookmarks.Item) Entry
	parse = func(item bookmarks.Item) Entry {
		switch b := item.(type) {
		case *bookmarks.File:
			if !IsMarkdown(b.Path) {
				skipped(b, "not a markdown file")
				return nil
			}
			title := b.Title
			if title == "" {
				title = fallbackTitle(b.Path)
			}
			return &FileEntry{Name: title, Path: b.Path}

		case *bookmarks.Group:
			folder := &FolderEntry{Name: b.Title, Items: []Entry{}}
			for _, child := range b.Items {
				if e := parse(child); e != nil {
					folder.Items = append(folder.Items, e)
				}
			}
			return folder

		case *bookmarks.Folder:
			skipped(b, "folder bookmarks are not listed")
			return nil

		default:
			skipped(item, "unsupported bookmark type")
			return nil
		}
	}

	results := []Entry{}
	for _, item := range items {
		if e := parse(item); e != nil {
			results = append(results, e)
		}
	}
	return results
}

// IsMarkdown reports whether the path's extension is .md, ignoring case
func IsMarkdown(path string) bool {
	idx := strings.LastIndex(path, ".")
	if idx == -1 {
		return false
	}
	return strings.ToLower(path[idx:]) == ".md"
}

// basename returns everything after the last slash
func basename(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx == -1 {
		return path
	}
	return path[idx+1:]
}

// fallbackTitle is the file name without its three-character extension
func fallbackTitle(path string) string {
	name := basename(path)
	if len(name) < 3 {
		return ""
	}
	return name[:len(name)-3]
}
