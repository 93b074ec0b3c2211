// Package common defines shared constants and sentinel errors used across
// RaceLog. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors. ErrNotFound is returned both when a record
	// does not exist and when it belongs to another user, so that the API
	// never reveals whether someone else's record exists.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks caller-correctable input problems (missing
	// required field, malformed import envelope).
	ErrValidation = errors.New("validation error")

	// ErrCorruptStore is wrapped by the record store when a persisted
	// collection cannot be parsed. Recovery (re-seed vs. abort) is an
	// operational decision, not automatic.
	ErrCorruptStore = errors.New("corrupt store")

	// Auth errors.
	ErrUnauthorized  = errors.New("unauthorized")
	ErrUsernameTaken = errors.New("username already taken")
	ErrInvalidToken  = errors.New("invalid session token")
	ErrInternal      = errors.New("internal error")
)
