package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/racelog/internal/common"
	"github.com/dmitrijs2005/racelog/internal/filex"
)

// FileStore keeps one JSON array file per collection under dataDir.
// On first access of a missing collection it copies seedDir/<name>.json
// verbatim if present, otherwise writes an empty array.
//
// A write that fails mid-flight may leave a previous-generation or
// truncated file; this durability gap is accepted, not solved.
type FileStore struct {
	dataDir string
	seedDir string
}

func NewFileStore(dataDir, seedDir string) (*FileStore, error) {
	if _, err := filex.EnsureDir(dataDir); err != nil {
		return nil, err
	}
	return &FileStore{dataDir: dataDir, seedDir: seedDir}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dataDir, name+".json")
}

func (s *FileStore) Load(name string) ([]json.RawMessage, error) {
	path := s.path(name)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.initialize(name, path); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read collection %s: %w", name, err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("collection %s: %v: %w", name, err, common.ErrCorruptStore)
	}
	return records, nil
}

func (s *FileStore) Save(name string, records []json.RawMessage) error {
	if records == nil {
		records = []json.RawMessage{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal collection %s: %w", name, err)
	}
	if err := os.WriteFile(s.path(name), data, 0o660); err != nil {
		return fmt.Errorf("write collection %s: %w", name, err)
	}
	return nil
}

// initialize creates the collection file, seeded from the bundled default
// dataset when one exists. The seed is copied exactly once; later resets
// of the data file are an operator action, not ours.
func (s *FileStore) initialize(name, path string) error {
	if s.seedDir != "" {
		seed := filepath.Join(s.seedDir, name+".json")
		if _, err := os.Stat(seed); err == nil {
			return filex.CopyFile(seed, path)
		}
	}
	return os.WriteFile(path, []byte("[]"), 0o660)
}
