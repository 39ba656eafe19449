package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists flat JSON documents under the data directory, one file per
// document, matching the legacy jdatabase/ layout. Each key's file is an
// independent resource; there is no cross-file coordination.
type Store struct {
	dir string
}

// New creates the data directory (and the connections subdirectory) if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, connectionsDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// ReadJSON unmarshals a document into v. Returns false with no error when the
// file does not exist.
func (s *Store) ReadJSON(name string, v any) (bool, error) {
	data, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return true, nil
}

// WriteJSON marshals v and replaces the document atomically (write to a temp
// file in the same directory, then rename).
func (s *Store) WriteJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	target := s.path(name)
	tmp, err := os.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file for %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

// Exists reports whether a document is present.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.path(name))
	return err == nil
}

// Delete removes a document. Returns os.ErrNotExist when it was never there.
func (s *Store) Delete(name string) error {
	return os.Remove(s.path(name))
}

// TreeNode mirrors the directory-tree shape the legacy API exposed for the
// connections store.
type TreeNode struct {
	Path     string      `json:"path"`
	Name     string      `json:"name"`
	Size     int64       `json:"size,omitempty"`
	Children []*TreeNode `json:"children,omitempty"`
}

// Tree lists a subdirectory of the store as a one-level tree.
func (s *Store) Tree(name string) (*TreeNode, error) {
	root := s.path(name)
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", name, err)
	}

	node := &TreeNode{Path: root, Name: filepath.Base(root)}
	for _, entry := range entries {
		child := &TreeNode{
			Path: filepath.Join(root, entry.Name()),
			Name: entry.Name(),
		}
		if info, err := entry.Info(); err == nil {
			child.Size = info.Size()
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}
