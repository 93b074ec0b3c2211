package store

import "fmt"

// New creates a Store implementation for the given backend type:
// "file" (the default production backend) or "memory".
func New(backend, dataDir, seedDir string) (Store, error) {
	switch backend {
	case "file":
		return NewFileStore(dataDir, seedDir)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", backend)
	}
}
