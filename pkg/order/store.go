package order

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store persists finalized orders.
type Store interface {
	// SaveOrder writes the order and returns the path (or key) it was saved under.
	SaveOrder(o Order) (string, error)
}

// DirStore writes each finalized order as an indented JSON file in a
// directory, one file per order:
//
//	orders/order_Ana_Torres_20260830T141502Z.json
type DirStore struct {
	dir string

	// now is swappable for tests
	now func() time.Time
}

// NewDirStore creates a store writing into dir. The directory is created
// lazily on first save.
func NewDirStore(dir string) *DirStore {
	return &DirStore{
		dir: dir,
		now: time.Now,
	}
}

// SaveOrder writes the order to a uniquely named file and returns its path.
func (s *DirStore) SaveOrder(o Order) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("order: failed to create directory: %w", err)
	}

	name := sanitizeName(o.Name)
	stamp := s.now().UTC().Format("20060102T150405Z")
	path := filepath.Join(s.dir, fmt.Sprintf("order_%s_%s.json", name, stamp))

	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return "", fmt.Errorf("order: failed to marshal: %w", err)
	}

	// Write to temp file then rename for atomicity
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("order: failed to write file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("order: failed to rename file: %w", err)
	}

	return path, nil
}

// sanitizeName makes a customer name safe for a filename by replacing
// whitespace runs with underscores.
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "customer"
	}
	return strings.Join(strings.Fields(name), "_")
}
