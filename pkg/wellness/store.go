package wellness

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store abstracts log persistence so tests can inject a temp-directory or
// in-memory backend.
type Store interface {
	// Load returns the raw log bytes, or nil if no log exists yet.
	Load() ([]byte, error)
	// Save replaces the log contents.
	Save(data []byte) error
	// Close releases any resources held by the store.
	Close() error
}

// FileStore persists the log as a single JSON file. Writes go to a temp
// file in the same directory followed by a rename, so readers never see a
// partial log. Cross-process writers are still last-writer-wins.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the log file. A missing file is an empty log, not an error.
func (s *FileStore) Load() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("wellness: failed to read log: %w", err)
	}
	return data, nil
}

// Save atomically replaces the log file.
func (s *FileStore) Save(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("wellness: failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".wellness_log-*.tmp")
	if err != nil {
		return fmt.Errorf("wellness: failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("wellness: failed to write log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("wellness: failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("wellness: failed to replace log: %w", err)
	}
	return nil
}

// Close is a no-op for file-backed stores.
func (s *FileStore) Close() error {
	return nil
}

// Path returns the log file path.
func (s *FileStore) Path() string {
	return s.path
}
