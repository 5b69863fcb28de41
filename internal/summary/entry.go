// Package summary turns a vault's bookmark tree into a Markdown table of
// contents and reads such a table back.
package summary

// Entry is a node of the summary tree: a *FileEntry or a *FolderEntry
type Entry interface {
	Title() string
}

// FileEntry links to a Markdown note
type FileEntry struct {
	Name string
	Path string
}

// FolderEntry is a heading line with nested entries
type FolderEntry struct {
	Name  string
	Items []Entry
}

func (f *FileEntry) Title() string {
	return f.Name
}

func (f *FolderEntry) Title() string {
	return f.Name
}

// Counts summarizes the shape of a summary tree
type Counts struct {
	Files    int `json:"files" yaml:"files"`
	Folders  int `json:"folders" yaml:"folders"`
	MaxDepth int `json:"max_depth" yaml:"max_depth"`
}

// Stats walks the tree and counts its entries
func Stats(entries []Entry) Counts {
	var c Counts
	Walk(entries, func(e Entry, depth int) {
		if depth > c.MaxDepth {
			c.MaxDepth = depth
		}
		switch e.(type) {
		case *FileEntry:
			c.Files++
		case *FolderEntry:
			c.Folders++
		}
	})
	return c
}

// Walk visits every entry in pre-order with its nesting depth
func Walk(entries []Entry, fn func(e Entry, depth int)) {
	var walk func(items []Entry, depth int)
	walk = func(items []Entry, depth int) {
		for _, item := range items {
			fn(item, depth)
			if f, ok := item.(*FolderEntry); ok {
				walk(f.Items, depth+1)
			}
		}
	}
	walk(entries, 0)
}
