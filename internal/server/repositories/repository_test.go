package repositories

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/racelog/internal/common"
	"github.com/dmitrijs2005/racelog/internal/server/models"
	"github.com/dmitrijs2005/racelog/internal/server/store"
)

func newCarRepo(t *testing.T) *Repository[models.Car, *models.Car] {
	t.Helper()
	return New[models.Car](store.NewMemoryStore(), "cars")
}

func newSetupRepo(t *testing.T) *Repository[models.Setup, *models.Setup] {
	t.Helper()
	return New[models.Setup](store.NewMemoryStore(), "setups")
}

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestCreate_AssignsIDAndOwner(t *testing.T) {
	repo := newCarRepo(t)

	car, err := repo.Create("u1", map[string]json.RawMessage{
		"name":         raw(t, "MX-5"),
		"manufacturer": raw(t, "Mazda"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, car.ID)
	assert.Equal(t, "u1", car.UserID)
	assert.Equal(t, "MX-5", car.Name)
	assert.Equal(t, "Mazda", car.Manufacturer)
}

func TestCreate_IgnoresClientSuppliedIDAndOwner(t *testing.T) {
	repo := newCarRepo(t)

	car, err := repo.Create("u1", map[string]json.RawMessage{
		"id":     raw(t, "forged-id"),
		"userId": raw(t, "someone-else"),
		"name":   raw(t, "GT3"),
	})
	require.NoError(t, err)

	assert.NotEqual(t, "forged-id", car.ID)
	assert.Equal(t, "u1", car.UserID)
}

func TestList_ScopedToOwner(t *testing.T) {
	repo := newCarRepo(t)

	_, err := repo.Create("u1", map[string]json.RawMessage{"name": raw(t, "a")})
	require.NoError(t, err)
	_, err = repo.Create("u2", map[string]json.RawMessage{"name": raw(t, "b")})
	require.NoError(t, err)

	cars, err := repo.List("u1")
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, "a", cars[0].Name)
}

func TestGet_OtherOwnersRecordIsNotFound(t *testing.T) {
	repo := newCarRepo(t)

	car, err := repo.Create("u1", map[string]json.RawMessage{"name": raw(t, "a")})
	require.NoError(t, err)

	_, err = repo.Get("u2", car.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdate_AbsentKeysPreserved(t *testing.T) {
	repo := newSetupRepo(t)

	setup, err := repo.Create("u1", map[string]json.RawMessage{
		"name":    raw(t, "qualifying"),
		"trackId": raw(t, "t1"),
		"caster":  raw(t, "5.5"),
	})
	require.NoError(t, err)

	updated, err := repo.Update("u1", setup.ID, map[string]json.RawMessage{
		"name": raw(t, "race"),
	})
	require.NoError(t, err)

	assert.Equal(t, "race", updated.Name)
	require.NotNil(t, updated.TrackID)
	assert.Equal(t, "t1", *updated.TrackID)
	assert.Equal(t, "5.5", updated.Caster)
}

func TestUpdate_ExplicitNullClearsField(t *testing.T) {
	repo := newSetupRepo(t)

	setup, err := repo.Create("u1", map[string]json.RawMessage{
		"name":    raw(t, "base"),
		"trackId": raw(t, "t1"),
	})
	require.NoError(t, err)

	updated, err := repo.Update("u1", setup.ID, map[string]json.RawMessage{
		"trackId": json.RawMessage("null"),
	})
	require.NoError(t, err)

	assert.Nil(t, updated.TrackID)
	assert.Equal(t, "base", updated.Name)
}

func TestUpdate_CannotChangeIDOrOwner(t *testing.T) {
	repo := newCarRepo(t)

	car, err := repo.Create("u1", map[string]json.RawMessage{"name": raw(t, "a")})
	require.NoError(t, err)

	updated, err := repo.Update("u1", car.ID, map[string]json.RawMessage{
		"id":     raw(t, "forged"),
		"userId": raw(t, "u2"),
		"name":   raw(t, "b"),
	})
	require.NoError(t, err)

	assert.Equal(t, car.ID, updated.ID)
	assert.Equal(t, "u1", updated.UserID)
	assert.Equal(t, "b", updated.Name)
}

func TestUpdate_OtherOwnerNotFound(t *testing.T) {
	repo := newCarRepo(t)

	car, err := repo.Create("u1", map[string]json.RawMessage{"name": raw(t, "a")})
	require.NoError(t, err)

	_, err = repo.Update("u2", car.ID, map[string]json.RawMessage{"name": raw(t, "b")})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDelete_RemovesExactlyOne(t *testing.T) {
	repo := newCarRepo(t)

	a, err := repo.Create("u1", map[string]json.RawMessage{"name": raw(t, "a")})
	require.NoError(t, err)
	_, err = repo.Create("u1", map[string]json.RawMessage{"name": raw(t, "b")})
	require.NoError(t, err)

	require.NoError(t, repo.Delete("u1", a.ID))

	cars, err := repo.List("u1")
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, "b", cars[0].Name)

	assert.ErrorIs(t, repo.Delete("u1", a.ID), common.ErrNotFound)
}

func TestDeleteWhere_CountsAndScopesByOwner(t *testing.T) {
	repo := newSetupRepo(t)

	_, err := repo.Create("u1", map[string]json.RawMessage{"carId": raw(t, "c1")})
	require.NoError(t, err)
	_, err = repo.Create("u1", map[string]json.RawMessage{"carId": raw(t, "c1")})
	require.NoError(t, err)
	_, err = repo.Create("u2", map[string]json.RawMessage{"carId": raw(t, "c1")})
	require.NoError(t, err)

	match := func(s *models.Setup) bool { return s.CarID != nil && *s.CarID == "c1" }

	n, err := repo.DeleteWhere("u1", match)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// The other user's record is untouched.
	others, err := repo.List("u2")
	require.NoError(t, err)
	assert.Len(t, others, 1)

	n, err = repo.DeleteWhere("u1", match)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestUpdateWhere_MutatesMatches(t *testing.T) {
	repo := newSetupRepo(t)

	_, err := repo.Create("u1", map[string]json.RawMessage{"trackId": raw(t, "t1")})
	require.NoError(t, err)
	_, err = repo.Create("u1", map[string]json.RawMessage{"trackId": raw(t, "t2")})
	require.NoError(t, err)

	n, err := repo.UpdateWhere("u1",
		func(s *models.Setup) bool { return s.TrackID != nil && *s.TrackID == "t1" },
		func(s *models.Setup) { s.TrackID = nil })
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	setups, err := repo.List("u1")
	require.NoError(t, err)
	detached := 0
	for _, s := range setups {
		if s.TrackID == nil {
			detached++
		}
	}
	assert.Equal(t, 1, detached)
}

func TestInsertMany_AssignsFreshIDs(t *testing.T) {
	repo := newCarRepo(t)

	recs := []*models.Car{
		{ID: "old-1", Name: "a"},
		{ID: "old-2", Name: "b"},
	}
	out, err := repo.InsertMany("u1", recs)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.NotEqual(t, "old-1", out[0].ID)
	assert.NotEqual(t, "old-2", out[1].ID)
	assert.NotEqual(t, out[0].ID, out[1].ID)

	cars, err := repo.List("u1")
	require.NoError(t, err)
	assert.Len(t, cars, 2)
}

func TestLoadAll_CorruptRecord(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.Save("cars", []json.RawMessage{json.RawMessage(`{"id":`)}))

	repo := New[models.Car](s, "cars")
	_, err := repo.List("u1")
	assert.ErrorIs(t, err, common.ErrCorruptStore)
}
