// Package models defines the server-side data model persisted in the
// per-collection JSON stores. Every record is owned by exactly one user;
// id and userId are assigned at creation and immutable afterwards.
package models

// Entity is implemented by every persisted record type. The setters exist
// for repository internals only: id and userId are forced server-side on
// create and restored after every partial update.
type Entity interface {
	EntityID() string
	SetEntityID(id string)
	OwnerID() string
	SetOwnerID(id string)
}

// Defaulter lets a model replace nil sub-values (typically slices) with
// their empty counterparts before a new record is stored, so persisted
// JSON carries [] rather than null.
type Defaulter interface {
	ApplyDefaults()
}
