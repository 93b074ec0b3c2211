package repositories

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/racelog/internal/common"
	"github.com/dmitrijs2005/racelog/internal/server/models"
	"github.com/dmitrijs2005/racelog/internal/server/store"
)

const usersCollection = "users"

// UsersRepository manages user accounts. It is not owner-scoped like the
// entity repositories; usernames are unique case-insensitively.
type UsersRepository struct {
	store store.Store
}

func NewUsersRepository(s store.Store) *UsersRepository {
	return &UsersRepository{store: s}
}

func (r *UsersRepository) loadAll() ([]*models.User, error) {
	raw, err := r.store.Load(usersCollection)
	if err != nil {
		return nil, err
	}
	users := make([]*models.User, 0, len(raw))
	for _, rec := range raw {
		var u models.User
		if err := json.Unmarshal(rec, &u); err != nil {
			return nil, fmt.Errorf("collection %s: %v: %w", usersCollection, err, common.ErrCorruptStore)
		}
		users = append(users, &u)
	}
	return users, nil
}

func (r *UsersRepository) saveAll(users []*models.User) error {
	raw := make([]json.RawMessage, 0, len(users))
	for _, u := range users {
		rec, err := json.Marshal(u)
		if err != nil {
			return fmt.Errorf("marshal user: %w", err)
		}
		raw = append(raw, rec)
	}
	return r.store.Save(usersCollection, raw)
}

// Create stores a new user. The username must not collide with an existing
// one, compared case-insensitively.
func (r *UsersRepository) Create(username, passwordHash string) (*models.User, error) {
	users, err := r.loadAll()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Username, username) {
			return nil, common.ErrUsernameTaken
		}
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	users = append(users, user)
	if err := r.saveAll(users); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UsersRepository) GetByID(id string) (*models.User, error) {
	users, err := r.loadAll()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *UsersRepository) GetByUsername(username string) (*models.User, error) {
	users, err := r.loadAll()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

// SetPasswordHash replaces the stored password hash for the user.
func (r *UsersRepository) SetPasswordHash(id, passwordHash string) error {
	users, err := r.loadAll()
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.ID == id {
			u.PasswordHash = passwordHash
			return r.saveAll(users)
		}
	}
	return common.ErrNotFound
}

func (r *UsersRepository) Delete(id string) error {
	users, err := r.loadAll()
	if err != nil {
		return err
	}
	for i, u := range users {
		if u.ID == id {
			users = append(users[:i], users[i+1:]...)
			return r.saveAll(users)
		}
	}
	return common.ErrNotFound
}
