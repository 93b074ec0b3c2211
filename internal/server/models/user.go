package models

import "time"

// User is the root of ownership: every other record carries its ID as
// userId. Usernames are unique case-insensitively.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u *User) EntityID() string      { return u.ID }
func (u *User) SetEntityID(id string) { u.ID = id }

// A user owns itself; this keeps the account collection compatible with
// owner-scoped store traversal during account deletion.
func (u *User) OwnerID() string      { return u.ID }
func (u *User) SetOwnerID(id string) { u.ID = id }
