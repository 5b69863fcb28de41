package summary

import (
	"io"
	"strings"
)

// Header opens every generated summary
const Header = "# Summary\n\n"

const indentWidth = 4

// Render produces the Markdown table of contents for a summary tree
func Render(entries []Entry) string {
	var sb strings.Builder
	sb.WriteString(Header)
	writeEntries(&sb, entries, 0)
	return sb.String()
}

// WriteTo streams the rendered summary to w
func WriteTo(w io.Writer, entries []Entry) (int64, error) {
	n, err := io.WriteString(w, Render(entries))
	return int64(n), err
}

func writeEntries(sb *strings.Builder, entries []Entry, level int) {
	pad := strings.Repeat(" ", level*indentWidth)
	for _, item := range entries {
		switch e := item.(type) {
		case *FileEntry:
			sb.WriteString(pad)
			sb.WriteString("- [")
			sb.WriteString(e.Name)
			sb.WriteString("](")
			sb.WriteString(EncodePath(e.Path))
			sb.WriteString(")\n")
		case *FolderEntry:
			sb.WriteString(pad)
			sb.WriteString("- ")
			sb.WriteString(e.Name)
			sb.WriteString("\n")
			writeEntries(sb, e.Items, level+1)
		}
	}
}

const upperhex = "0123456789ABCDEF"

// EncodePath percent-encodes a vault path for use as a link target.
// It escapes the same characters as JavaScript's encodeURI: slashes and
// other URI punctuation stay literal, spaces and non-ASCII bytes do not.
func EncodePath(path string) string {
	n := 0
	for i := 0; i < len(path); i++ {
		if !keepLiteral(path[i]) {
			n++
		}
	}
	if n == 0 {
		return path
	}

	buf := make([]byte, 0, len(path)+2*n)
	for i := 0; i < len(path); i++ {
		c := path[i]
		if keepLiteral(c) {
			buf = append(buf, c)
			continue
		}
		buf = append(buf, '%', upperhex[c>>4], upperhex[c&15])
	}
	return string(buf)
}

func keepLiteral(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte(";,/?:@&=+$-_.!~*'()#", c) >= 0
}
