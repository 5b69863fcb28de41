package bookmarks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Decode parses the contents of an Obsidian bookmarks.json file
func Decode(r io.Reader) ([]Item, error) {
	var doc struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse bookmarks: %w", err)
	}
	if doc.Items == nil {
		return nil, errors.New("bookmarks file has no items list")
	}
	// Only nested groups may omit their items with null
	if isNull(doc.Items) {
		return nil, errors.New("bookmark items must be a list, got null")
	}

	items, err := decodeList(doc.Items)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// DecodeBytes is Decode over an in-memory document
func DecodeBytes(data []byte) ([]Item, error) {
	return Decode(bytes.NewReader(data))
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeList(raw json.RawMessage) ([]Item, error) {
	if isNull(raw) {
		return []Item{}, nil
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("bookmark items must be a list: %w", err)
	}

	items := make([]Item, 0, len(list))
	for i, elem := range list {
		item, err := decodeItem(elem)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func decodeItem(raw json.RawMessage) (Item, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("invalid bookmark: %w", err)
	}

	switch Kind(head.Type) {
	case KindFile:
		var f File
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("invalid file bookmark: %w", err)
		}
		if f.Path == "" {
			return nil, errors.New("file bookmark has no path")
		}
		return &f, nil

	case KindFolder:
		var f Folder
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("invalid folder bookmark: %w", err)
		}
		return &f, nil

	case KindGroup:
		var g struct {
			Title string          `json:"title"`
			Items json.RawMessage `json:"items"`
			CTime int64           `json:"ctime"`
		}
		if err := json.Unmarshal(raw, &g); err != nil {
			return nil, fmt.Errorf("invalid group bookmark: %w", err)
		}
		children := []Item{}
		if g.Items != nil {
			var err error
			children, err = decodeList(g.Items)
			if err != nil {
				return nil, fmt.Errorf("group %q: %w", g.Title, err)
			}
		}
		return &Group{Title: g.Title, Items: children, CTime: g.CTime}, nil

	case "":
		return nil, errors.New("bookmark has no type")

	default:
		var o Other
		if err := json.Unmarshal(raw, &o); err != nil {
			return nil, fmt.Errorf("invalid %s bookmark: %w", head.Type, err)
		}
		return &o, nil
	}
}
