// Package store provides load/save of named record collections. Each
// collection is a whole JSON array; writes are full-array overwrites with
// no atomicity guarantee across two Save calls. The design assumes a
// single writer (one server process, serialized request handling).
package store

import "encoding/json"

// Store persists named collections of raw JSON records. Loading a
// collection that does not exist yet durably initializes it, optionally
// seeded from a bundled default dataset of the same name.
type Store interface {
	Load(name string) ([]json.RawMessage, error)
	Save(name string, records []json.RawMessage) error
}
