package bookmarks

import (
	"time"
)

// Kind identifies the variant of a bookmark item
type Kind string

const (
	KindFile   Kind = "file"
	KindFolder Kind = "folder"
	KindGroup  Kind = "group"
)

// Item is one entry of the vault's bookmark tree.
// It is one of *File, *Folder, *Group or *Other.
type Item interface {
	Kind() Kind
}

// File is a bookmarked note or attachment
type File struct {
	Path  string `json:"path"`
	Title string `json:"title,omitempty"`
	CTime int64  `json:"ctime"`
}

// Folder is a bookmarked vault directory
type Folder struct {
	Path  string `json:"path"`
	Title string `json:"title,omitempty"`
	CTime int64  `json:"ctime"`
}

// Group is a user-defined bookmark group with ordered children
type Group struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
	CTime int64  `json:"ctime"`
}

// Other holds bookmark kinds the summary has no use for
// (searches, headings, blocks, graphs, URLs).
type Other struct {
	Type  string `json:"type"`
	CTime int64  `json:"ctime"`
}

func (*File) Kind() Kind {
	return KindFile
}

func (*Folder) Kind() Kind {
	return KindFolder
}

func (*Group) Kind() Kind {
	return KindGroup
}

func (o *Other) Kind() Kind {
	return Kind(o.Type)
}

// Created returns the bookmark creation time
func (f *File) Created() time.Time {
	return time.UnixMilli(f.CTime)
}

// Created returns the bookmark creation time
func (f *Folder) Created() time.Time {
	return time.UnixMilli(f.CTime)
}

// Count returns the number of items in the tree, groups included
func Count(items []Item) int {
	n := 0
	for _, item := range items {
		n++
		if g, ok := item.(*Group); ok {
			n += Count(g.Items)
		}
	}
	return n
}
