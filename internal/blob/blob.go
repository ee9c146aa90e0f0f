// Package blob defines the named-blob persistence port used by the local
// portfolio backend: a handful of named text blobs that survive process
// restarts on the same machine. The port is injected so tests can run
// against the in-memory implementation.
package blob

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is the persistence contract for named text blobs. Get reports
// found=false for a blob that was never written; callers are expected to
// fall back to empty or seed state.
type Store interface {
	Get(name string) (data string, found bool, err error)
	Set(name string, data string) error
}

// FileStore persists each blob as a file inside one directory. Writes go
// through a temp file and rename so a crash never leaves a torn blob.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates the directory if needed and returns a store over it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(name string) string {
	// Blob names are fixed well-known strings, but keep path traversal out anyway.
	clean := strings.ReplaceAll(name, string(os.PathSeparator), "_")
	return filepath.Join(s.dir, clean+".json")
}

// Get reads a blob, reporting found=false when it does not exist.
func (s *FileStore) Get(name string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read blob %s: %w", name, err)
	}
	return string(data), true, nil
}

// Set atomically replaces a blob's contents.
func (s *FileStore) Set(name string, data string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.path(name)
	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp blob: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write blob %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp blob: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace blob %s: %w", name, err)
	}
	return nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu    sync.Mutex
	blobs map[string]string

	// FailWrites makes every Set return an error, for exercising the
	// no-mutation-on-persistence-failure guarantee.
	FailWrites bool
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{blobs: make(map[string]string)}
}

// Get returns the blob contents if previously written.
func (s *MemStore) Get(name string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[name]
	return data, ok, nil
}

// Set stores the blob contents.
func (s *MemStore) Set(name string, data string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return fmt.Errorf("write failed: store unavailable")
	}
	s.blobs[name] = data
	return nil
}
