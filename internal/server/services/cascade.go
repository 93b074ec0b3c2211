// Package services contains the business logic sitting between the HTTP
// surface and the repositories: referential cascade rules, the corner-note
// upsert resolver, export/import, bulk delete, accounts, and track images.
package services

import (
	"context"

	"github.com/dmitrijs2005/racelog/internal/logging"
	"github.com/dmitrijs2005/racelog/internal/server/models"
	"github.com/dmitrijs2005/racelog/internal/server/repositories"
)

// CascadeCounts tallies secondary deletions/changes per entity kind.
type CascadeCounts map[string]int

func (c CascadeCounts) add(other CascadeCounts) {
	for k, v := range other {
		c[k] += v
	}
}

// CascadeEngine encodes the referential rules between entities. The rules
// are static and total; every parent-child pair has an explicit rule here
// and nowhere else.
//
// Car deletion hard-deletes setups, sessions (with their corner notes),
// track notes and maintenance tasks referencing the car. Track deletion
// hard-deletes track notes but only nullifies trackId on setups and
// sessions. Every step scopes its filter by owner as well as the foreign
// key, so one user's cascade can never touch another user's rows.
//
// The multiple collections touched by one cascade are written as
// independent whole-file overwrites, not one transaction; a crash between
// writes can leave partial cascade state.
type CascadeEngine struct {
	repos  *repositories.Manager
	logger logging.Logger
}

func NewCascadeEngine(repos *repositories.Manager, logger logging.Logger) *CascadeEngine {
	return &CascadeEngine{repos: repos, logger: logger.With("module", "cascade")}
}

func refEquals(ref *string, id string) bool {
	return ref != nil && *ref == id
}

// CarDeleted applies the car-deletion cascade for the owner's car.
func (e *CascadeEngine) CarDeleted(ctx context.Context, ownerID, carID string) (CascadeCounts, error) {
	counts := CascadeCounts{}

	n, err := e.repos.Setups.DeleteWhere(ownerID, func(s *models.Setup) bool {
		return refEquals(s.CarID, carID)
	})
	if err != nil {
		return counts, err
	}
	counts["setups"] = n

	n, err = e.repos.Maintenance.DeleteWhere(ownerID, func(m *models.MaintenanceTask) bool {
		return refEquals(m.CarID, carID)
	})
	if err != nil {
		return counts, err
	}
	counts["maintenance"] = n

	n, err = e.repos.TrackNotes.DeleteWhere(ownerID, func(t *models.TrackNote) bool {
		return refEquals(t.CarID, carID)
	})
	if err != nil {
		return counts, err
	}
	counts["trackNotes"] = n

	// Sessions cascade symmetrically with the other car dependents, and
	// their corner notes go with them.
	doomed, err := e.repos.Sessions.List(ownerID, func(s *models.Session) bool {
		return refEquals(s.CarID, carID)
	})
	if err != nil {
		return counts, err
	}
	sessionIDs := make(map[string]bool, len(doomed))
	for _, s := range doomed {
		sessionIDs[s.ID] = true
	}

	n, err = e.repos.Sessions.DeleteWhere(ownerID, func(s *models.Session) bool {
		return refEquals(s.CarID, carID)
	})
	if err != nil {
		return counts, err
	}
	counts["sessions"] = n

	n, err = e.repos.CornerNotes.DeleteWhere(ownerID, func(c *models.CornerNote) bool {
		return sessionIDs[c.SessionID]
	})
	if err != nil {
		return counts, err
	}
	counts["cornerNotes"] = n

	e.logger.Debug(ctx, "car cascade applied", "carId", carID,
		"setups", counts["setups"], "sessions", counts["sessions"],
		"maintenance", counts["maintenance"], "trackNotes", counts["trackNotes"])
	return counts, nil
}

// TrackDeleted applies the track-deletion cascade: track notes are removed,
// setups and sessions keep their records but lose the dangling trackId.
func (e *CascadeEngine) TrackDeleted(ctx context.Context, ownerID, trackID string) (CascadeCounts, error) {
	counts := CascadeCounts{}

	n, err := e.repos.TrackNotes.DeleteWhere(ownerID, func(t *models.TrackNote) bool {
		return refEquals(t.TrackID, trackID)
	})
	if err != nil {
		return counts, err
	}
	counts["trackNotes"] = n

	n, err = e.repos.Setups.UpdateWhere(ownerID,
		func(s *models.Setup) bool { return refEquals(s.TrackID, trackID) },
		func(s *models.Setup) { s.TrackID = nil })
	if err != nil {
		return counts, err
	}
	counts["setupsDetached"] = n

	n, err = e.repos.Sessions.UpdateWhere(ownerID,
		func(s *models.Session) bool { return refEquals(s.TrackID, trackID) },
		func(s *models.Session) { s.TrackID = nil })
	if err != nil {
		return counts, err
	}
	counts["sessionsDetached"] = n

	e.logger.Debug(ctx, "track cascade applied", "trackId", trackID,
		"trackNotes", counts["trackNotes"],
		"setupsDetached", counts["setupsDetached"],
		"sessionsDetached", counts["sessionsDetached"])
	return counts, nil
}

// SessionDeleted removes every corner note of the deleted session.
func (e *CascadeEngine) SessionDeleted(ctx context.Context, ownerID, sessionID string) (CascadeCounts, error) {
	n, err := e.repos.CornerNotes.DeleteWhere(ownerID, func(c *models.CornerNote) bool {
		return c.SessionID == sessionID
	})
	if err != nil {
		return CascadeCounts{}, err
	}
	return CascadeCounts{"cornerNotes": n}, nil
}

// AccountDeleted wipes every record of the user across every collection,
// then the user record itself. Credential checks happen before this is
// called; by the time we are here the decision is final.
func (e *CascadeEngine) AccountDeleted(ctx context.Context, userID string) error {
	all := func(models.Entity) bool { return true }

	if _, err := e.repos.CornerNotes.DeleteWhere(userID, func(c *models.CornerNote) bool { return all(c) }); err != nil {
		return err
	}
	if _, err := e.repos.Sessions.DeleteWhere(userID, func(s *models.Session) bool { return all(s) }); err != nil {
		return err
	}
	if _, err := e.repos.Setups.DeleteWhere(userID, func(s *models.Setup) bool { return all(s) }); err != nil {
		return err
	}
	if _, err := e.repos.TrackNotes.DeleteWhere(userID, func(t *models.TrackNote) bool { return all(t) }); err != nil {
		return err
	}
	if _, err := e.repos.Maintenance.DeleteWhere(userID, func(m *models.MaintenanceTask) bool { return all(m) }); err != nil {
		return err
	}
	if _, err := e.repos.Tracks.DeleteWhere(userID, func(t *models.Track) bool { return all(t) }); err != nil {
		return err
	}
	if _, err := e.repos.Cars.DeleteWhere(userID, func(c *models.Car) bool { return all(c) }); err != nil {
		return err
	}
	if err := e.repos.Users.Delete(userID); err != nil {
		return err
	}
	e.logger.Info(ctx, "account data removed", "userId", userID)
	return nil
}
