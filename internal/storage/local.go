package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore persists uploaded CV/resume files on local disk. Stored names
// are uuid-prefixed to avoid collisions between identically named uploads.
type LocalStore struct {
	dir string
}

// NewLocalStore ensures the target directory exists.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes the file contents under a uuid-prefixed variant of the
// original filename and returns the stored name.
func (s *LocalStore) Save(originalName string, data []byte) (string, error) {
	name := uuid.NewString() + "_" + sanitizeName(originalName)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return name, nil
}

// Path resolves a stored name back to a file path, rejecting anything that
// escapes the store directory.
func (s *LocalStore) Path(storedName string) (string, error) {
	if storedName == "" {
		return "", os.ErrNotExist
	}
	cleaned := filepath.Base(filepath.Clean(storedName))
	path := filepath.Join(s.dir, cleaned)
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

func sanitizeName(name string) string {
	name = filepath.Base(filepath.Clean(name))
	name = strings.ReplaceAll(name, " ", "_")
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "upload"
	}
	return name
}
