package summary

import (
	"errors"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ErrNotSummary is returned by Parse for documents without the summary header
var ErrNotSummary = errors.New("document is not a generated summary")

var markdown = goldmark.New()

// Parse reads a generated summary back into a summary tree.
// List items whose text is a single link become file entries, every other
// item becomes a folder entry holding its nested list.
func Parse(doc []byte) ([]Entry, error) {
	root := markdown.Parser().Parse(text.NewReader(doc))

	sawHeader := false
	entries := []Entry{}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 && strings.TrimSpace(inlineText(node, doc)) == "Summary" {
				sawHeader = true
			}
		case *ast.List:
			if sawHeader {
				entries = append(entries, parseList(node, doc)...)
			}
		}
	}

	if !sawHeader {
		return nil, ErrNotSummary
	}
	return entries, nil
}

func parseList(list *ast.List, src []byte) []Entry {
	entries := []Entry{}
	for n := list.FirstChild(); n != nil; n = n.NextSibling() {
		item, ok := n.(*ast.ListItem)
		if !ok {
			continue
		}
		if e := parseItem(item, src); e != nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func parseItem(item *ast.ListItem, src []byte) Entry {
	var label ast.Node
	var children []Entry
	for n := item.FirstChild(); n != nil; n = n.NextSibling() {
		switch n.Kind() {
		case ast.KindTextBlock, ast.KindParagraph:
			if label == nil {
				label = n
			}
		case ast.KindList:
			children = append(children, parseList(n.(*ast.List), src)...)
		}
	}

	if label != nil && children == nil {
		if link, ok := soleLink(label); ok {
			return &FileEntry{
				Name: inlineText(link, src),
				Path: decodeDestination(link.Destination),
			}
		}
	}

	title := ""
	if label != nil {
		title = inlineText(label, src)
	}
	if children == nil {
		children = []Entry{}
	}
	return &FolderEntry{Name: title, Items: children}
}

// soleLink returns the link when it is the only inline of a block
func soleLink(block ast.Node) (*ast.Link, bool) {
	first := block.FirstChild()
	if first == nil || first.NextSibling() != nil {
		return nil, false
	}
	link, ok := first.(*ast.Link)
	return link, ok
}

func inlineText(n ast.Node, src []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		default:
			sb.WriteString(inlineText(c, src))
		}
	}
	return sb.String()
}

func decodeDestination(dest []byte) string {
	path, err := url.PathUnescape(string(dest))
	if err != nil {
		return string(dest)
	}
	return path
}
