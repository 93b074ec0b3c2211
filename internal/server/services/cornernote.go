package services

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/racelog/internal/common"
	"github.com/dmitrijs2005/racelog/internal/server/models"
	"github.com/dmitrijs2005/racelog/internal/server/repositories"
)

// UpsertStatus tells the caller whether the upsert created a new corner
// note or updated an existing one.
type UpsertStatus string

const (
	UpsertCreated UpsertStatus = "created"
	UpsertUpdated UpsertStatus = "updated"
)

// CornerNoteResolver implements create-or-merge for corner notes keyed on
// (sessionId, cornerName) rather than the record id. No existence check is
// made against the session repository; a note may reference a session that
// the cascade engine validates independently at session-deletion time.
type CornerNoteResolver struct {
	repos *repositories.Manager
}

func NewCornerNoteResolver(repos *repositories.Manager) *CornerNoteResolver {
	return &CornerNoteResolver{repos: repos}
}

// Upsert sets one of the entry/apex/exit fields for the note identified by
// (owner, sessionId, cornerName), creating the note when absent. The other
// two fields are left untouched on update and empty on create.
func (r *CornerNoteResolver) Upsert(ownerID, sessionID, cornerName, field, value string) (*models.CornerNote, UpsertStatus, error) {
	if sessionID == "" || cornerName == "" {
		return nil, "", fmt.Errorf("sessionId and cornerName are required: %w", common.ErrValidation)
	}
	switch field {
	case "entry", "apex", "exit":
	default:
		return nil, "", fmt.Errorf("unknown corner note field %q: %w", field, common.ErrValidation)
	}

	existing, err := r.repos.CornerNotes.List(ownerID, func(n *models.CornerNote) bool {
		return n.SessionID == sessionID && n.CornerName == cornerName
	})
	if err != nil {
		return nil, "", err
	}

	if len(existing) > 0 {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, "", err
		}
		patch := map[string]json.RawMessage{field: raw}
		updated, err := r.repos.CornerNotes.Update(ownerID, existing[0].ID, patch)
		if err != nil {
			return nil, "", err
		}
		return updated, UpsertUpdated, nil
	}

	note := &models.CornerNote{SessionID: sessionID, CornerName: cornerName}
	switch field {
	case "entry":
		note.Entry = value
	case "apex":
		note.Apex = value
	case "exit":
		note.Exit = value
	}
	created, err := r.repos.CornerNotes.Insert(ownerID, note)
	if err != nil {
		return nil, "", err
	}
	return created, UpsertCreated, nil
}
