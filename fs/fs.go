// Package fs defines the abstract file-system namespace the runtime loads
// chart, audio, and resource-pack bytes from. The real loader lives outside
// this module's scope (§6); only the boundary interface is owned here.
package fs

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Store loads raw bytes from an abstract hierarchical namespace. A chart
// package, a resource pack, or a single audio clip are all just paths.
type Store interface {
	Load(path string) ([]byte, error)
}

// OSStore is a Store rooted at a directory on the local filesystem.
type OSStore struct {
	Root string
}

// NewOSStore returns a Store rooted at root.
func NewOSStore(root string) *OSStore {
	return &OSStore{Root: root}
}

func (s *OSStore) Load(path string) ([]byte, error) {
	full := filepath.Join(s.Root, filepath.FromSlash(path))
	b, err := os.ReadFile(full)
	if err != nil {
		return nil, errors.Wrapf(err, "load %q", path)
	}
	return b, nil
}

// MemStore is an in-memory Store, useful for tests and the demo binary.
type MemStore map[string][]byte

func (m MemStore) Load(path string) ([]byte, error) {
	b, ok := m[path]
	if !ok {
		return nil, errors.Errorf("load %q: not found", path)
	}
	return b, nil
}
