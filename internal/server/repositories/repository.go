// Package repositories wraps the record store with entity-shaped,
// owner-scoped access. Every operation takes the owning user id explicitly
// and pre-filters by it; a record belonging to someone else is
// indistinguishable from a missing one (common.ErrNotFound either way).
package repositories

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/racelog/internal/common"
	"github.com/dmitrijs2005/racelog/internal/server/models"
	"github.com/dmitrijs2005/racelog/internal/server/store"
)

type ptrEntity[T any] interface {
	*T
	models.Entity
}

// Repository provides CRUD over one collection of T records.
//
// Partial updates follow JSON merge semantics: a key present in the patch
// (including an explicit null) overwrites the stored value, an absent key
// preserves it. id and userId are restored after the merge no matter what
// the patch carried.
type Repository[T any, PT ptrEntity[T]] struct {
	store      store.Store
	collection string
}

func New[T any, PT ptrEntity[T]](s store.Store, collection string) *Repository[T, PT] {
	return &Repository[T, PT]{store: s, collection: collection}
}

// Collection returns the backing collection name.
func (r *Repository[T, PT]) Collection() string { return r.collection }

func (r *Repository[T, PT]) loadAll() ([]PT, error) {
	raw, err := r.store.Load(r.collection)
	if err != nil {
		return nil, err
	}
	items := make([]PT, 0, len(raw))
	for _, rec := range raw {
		var item T
		if err := json.Unmarshal(rec, PT(&item)); err != nil {
			return nil, fmt.Errorf("collection %s: %v: %w", r.collection, err, common.ErrCorruptStore)
		}
		items = append(items, PT(&item))
	}
	return items, nil
}

func (r *Repository[T, PT]) saveAll(items []PT) error {
	raw := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		rec, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("marshal %s record: %w", r.collection, err)
		}
		raw = append(raw, rec)
	}
	return r.store.Save(r.collection, raw)
}

// List returns the owner's records that match every supplied filter.
func (r *Repository[T, PT]) List(ownerID string, filters ...func(PT) bool) ([]PT, error) {
	items, err := r.loadAll()
	if err != nil {
		return nil, err
	}
	result := make([]PT, 0)
	for _, item := range items {
		if item.OwnerID() != ownerID {
			continue
		}
		ok := true
		for _, f := range filters {
			if !f(item) {
				ok = false
				break
			}
		}
		if ok {
			result = append(result, item)
		}
	}
	return result, nil
}

// Get returns the record with the given id if the owner matches.
func (r *Repository[T, PT]) Get(ownerID, id string) (PT, error) {
	items, err := r.loadAll()
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.EntityID() == id && item.OwnerID() == ownerID {
			return item, nil
		}
	}
	return nil, common.ErrNotFound
}

// Create builds a record from entity defaults overlaid with the supplied
// fields, assigns a fresh id and the owner, and appends it. Client-supplied
// id and userId values are ignored.
func (r *Repository[T, PT]) Create(ownerID string, fields map[string]json.RawMessage) (PT, error) {
	var zero T
	base := PT(&zero)
	if d, ok := any(base).(models.Defaulter); ok {
		d.ApplyDefaults()
	}

	m, err := toMap(base)
	if err != nil {
		return nil, err
	}
	for k, v := range fields {
		if k == "id" || k == "userId" {
			continue
		}
		m[k] = v
	}

	rec, err := fromMap[T, PT](m)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, common.ErrValidation)
	}
	rec.SetEntityID(uuid.NewString())
	rec.SetOwnerID(ownerID)

	items, err := r.loadAll()
	if err != nil {
		return nil, err
	}
	items = append(items, rec)
	if err := r.saveAll(items); err != nil {
		return nil, err
	}
	return rec, nil
}

// Insert appends an already-built record under a fresh id for the owner.
// Used by import, which constructs records itself after remapping parents.
func (r *Repository[T, PT]) Insert(ownerID string, rec PT) (PT, error) {
	rec.SetEntityID(uuid.NewString())
	rec.SetOwnerID(ownerID)

	items, err := r.loadAll()
	if err != nil {
		return nil, err
	}
	items = append(items, rec)
	if err := r.saveAll(items); err != nil {
		return nil, err
	}
	return rec, nil
}

// InsertMany appends a batch of records under fresh ids in a single
// collection write.
func (r *Repository[T, PT]) InsertMany(ownerID string, recs []PT) ([]PT, error) {
	if len(recs) == 0 {
		return recs, nil
	}
	items, err := r.loadAll()
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		rec.SetEntityID(uuid.NewString())
		rec.SetOwnerID(ownerID)
		items = append(items, rec)
	}
	if err := r.saveAll(items); err != nil {
		return nil, err
	}
	return recs, nil
}

// Update applies a shallow JSON merge to the stored record and writes the
// result back. id and userId always come out unchanged.
func (r *Repository[T, PT]) Update(ownerID, id string, patch map[string]json.RawMessage) (PT, error) {
	items, err := r.loadAll()
	if err != nil {
		return nil, err
	}
	for i, item := range items {
		if item.EntityID() != id || item.OwnerID() != ownerID {
			continue
		}
		m, err := toMap(item)
		if err != nil {
			return nil, err
		}
		for k, v := range patch {
			m[k] = v
		}
		rec, err := fromMap[T, PT](m)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, common.ErrValidation)
		}
		rec.SetEntityID(id)
		rec.SetOwnerID(ownerID)
		items[i] = rec
		if err := r.saveAll(items); err != nil {
			return nil, err
		}
		return rec, nil
	}
	return nil, common.ErrNotFound
}

// Replace swaps the stored record wholesale, keeping id and userId. Used by
// import in overwrite mode when an incoming record matched an existing one.
func (r *Repository[T, PT]) Replace(ownerID, id string, rec PT) (PT, error) {
	items, err := r.loadAll()
	if err != nil {
		return nil, err
	}
	for i, item := range items {
		if item.EntityID() != id || item.OwnerID() != ownerID {
			continue
		}
		rec.SetEntityID(id)
		rec.SetOwnerID(ownerID)
		items[i] = rec
		if err := r.saveAll(items); err != nil {
			return nil, err
		}
		return rec, nil
	}
	return nil, common.ErrNotFound
}

// Delete removes exactly one record matching (id, owner).
func (r *Repository[T, PT]) Delete(ownerID, id string) error {
	items, err := r.loadAll()
	if err != nil {
		return err
	}
	for i, item := range items {
		if item.EntityID() == id && item.OwnerID() == ownerID {
			items = append(items[:i], items[i+1:]...)
			return r.saveAll(items)
		}
	}
	return common.ErrNotFound
}

// DeleteWhere removes every record of the owner matching the predicate and
// returns how many were removed. Zero matches is not an error.
func (r *Repository[T, PT]) DeleteWhere(ownerID string, match func(PT) bool) (int, error) {
	items, err := r.loadAll()
	if err != nil {
		return 0, err
	}
	kept := items[:0]
	removed := 0
	for _, item := range items {
		if item.OwnerID() == ownerID && match(item) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, r.saveAll(kept)
}

// UpdateWhere mutates every record of the owner matching the predicate in
// place and returns how many were changed.
func (r *Repository[T, PT]) UpdateWhere(ownerID string, match func(PT) bool, mutate func(PT)) (int, error) {
	items, err := r.loadAll()
	if err != nil {
		return 0, err
	}
	changed := 0
	for _, item := range items {
		if item.OwnerID() == ownerID && match(item) {
			mutate(item)
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	return changed, r.saveAll(items)
}

func toMap(v any) (map[string]json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func fromMap[T any, PT ptrEntity[T]](m map[string]json.RawMessage) (PT, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var item T
	if err := json.Unmarshal(b, PT(&item)); err != nil {
		return nil, err
	}
	return PT(&item), nil
}
