package summary

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// treeNode is the serialized form of an Entry
type treeNode struct {
	Type  string     `yaml:"type"`
	Title string     `yaml:"title"`
	Path  string     `yaml:"path,omitempty"`
	Items []treeNode `yaml:"items,omitempty"`
}

func toTree(entries []Entry) []treeNode {
	nodes := make([]treeNode, 0, len(entries))
	for _, item := range entries {
		switch e := item.(type) {
		case *FileEntry:
			nodes = append(nodes, treeNode{Type: "file", Title: e.Name, Path: e.Path})
		case *FolderEntry:
			nodes = append(nodes, treeNode{Type: "folder", Title: e.Name, Items: toTree(e.Items)})
		}
	}
	return nodes
}

// MarshalYAML encodes a summary tree as a YAML sequence
func MarshalYAML(entries []Entry) ([]byte, error) {
	data, err := yaml.Marshal(toTree(entries))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary tree: %w", err)
	}
	return data, nil
}
