package state

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/watthuis/spotplan/core/model"
)

// FileStore keeps the spot prices state in a YAML file on disk.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// ReadState returns the stored state, or nil if the file does not exist or
// does not parse.
func (s *FileStore) ReadState(_ context.Context) (*model.SpotPricesState, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, nil
	}
	var st model.SpotPricesState
	if err := yaml.Unmarshal(b, &st); err != nil {
		return nil, nil
	}
	return &st, nil
}

// StoreState writes the state, creating parent directories as needed.
func (s *FileStore) StoreState(_ context.Context, st model.SpotPricesState) error {
	b, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal spot prices state: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}
