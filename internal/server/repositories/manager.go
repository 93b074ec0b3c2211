package repositories

import (
	"github.com/dmitrijs2005/racelog/internal/server/models"
	"github.com/dmitrijs2005/racelog/internal/server/store"
)

// Manager bundles one repository per entity kind over a shared store.
// Collection names are part of the on-disk compatibility surface: one JSON
// array file per entity kind.
type Manager struct {
	Users       *UsersRepository
	Cars        *Repository[models.Car, *models.Car]
	Tracks      *Repository[models.Track, *models.Track]
	Setups      *Repository[models.Setup, *models.Setup]
	Sessions    *Repository[models.Session, *models.Session]
	CornerNotes *Repository[models.CornerNote, *models.CornerNote]
	TrackNotes  *Repository[models.TrackNote, *models.TrackNote]
	Maintenance *Repository[models.MaintenanceTask, *models.MaintenanceTask]
}

func NewManager(s store.Store) *Manager {
	return &Manager{
		Users:       NewUsersRepository(s),
		Cars:        New[models.Car](s, "cars"),
		Tracks:      New[models.Track](s, "tracks"),
		Setups:      New[models.Setup](s, "setups"),
		Sessions:    New[models.Session](s, "sessions"),
		CornerNotes: New[models.CornerNote](s, "cornerNotes"),
		TrackNotes:  New[models.TrackNote](s, "trackNotes"),
		Maintenance: New[models.MaintenanceTask](s, "maintenance"),
	}
}
