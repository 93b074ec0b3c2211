package store

import "encoding/json"

// MemoryStore is an in-memory Store used in tests and for throwaway runs.
// Records are copied on the way in and out so callers cannot alias the
// stored slices.
type MemoryStore struct {
	collections map[string][]json.RawMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]json.RawMessage)}
}

func (s *MemoryStore) Load(name string) ([]json.RawMessage, error) {
	records, ok := s.collections[name]
	if !ok {
		s.collections[name] = []json.RawMessage{}
		return []json.RawMessage{}, nil
	}
	return copyRecords(records), nil
}

func (s *MemoryStore) Save(name string, records []json.RawMessage) error {
	s.collections[name] = copyRecords(records)
	return nil
}

func copyRecords(records []json.RawMessage) []json.RawMessage {
	out := make([]json.RawMessage, len(records))
	for i, r := range records {
		out[i] = append(json.RawMessage(nil), r...)
	}
	return out
}
