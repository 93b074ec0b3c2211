package services

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/racelog/internal/logging"
	"github.com/dmitrijs2005/racelog/internal/server/models"
	"github.com/dmitrijs2005/racelog/internal/server/repositories"
	"github.com/dmitrijs2005/racelog/internal/server/store"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestRepos(t *testing.T) *repositories.Manager {
	t.Helper()
	return repositories.NewManager(store.NewMemoryStore())
}

func ptr(s string) *string { return &s }

func mustCreateCar(t *testing.T, repos *repositories.Manager, owner, name string) *models.Car {
	t.Helper()
	car, err := repos.Cars.Insert(owner, &models.Car{Name: name, Manufacturer: "m", Series: "s"})
	require.NoError(t, err)
	return car
}

func mustCreateTrack(t *testing.T, repos *repositories.Manager, owner, name string) *models.Track {
	t.Helper()
	track, err := repos.Tracks.Insert(owner, &models.Track{Name: name, Location: "loc", Corners: []string{}})
	require.NoError(t, err)
	return track
}

func mustCreateSetup(t *testing.T, repos *repositories.Manager, owner string, carID, trackID *string) *models.Setup {
	t.Helper()
	setup, err := repos.Setups.Insert(owner, &models.Setup{CarID: carID, TrackID: trackID, Name: "setup"})
	require.NoError(t, err)
	return setup
}

func mustCreateSession(t *testing.T, repos *repositories.Manager, owner string, carID, trackID *string) *models.Session {
	t.Helper()
	session, err := repos.Sessions.Insert(owner, &models.Session{
		CarID: carID, TrackID: trackID, Type: "practice", FocusAreas: []string{},
	})
	require.NoError(t, err)
	return session
}

func mustCreateCornerNote(t *testing.T, repos *repositories.Manager, owner, sessionID, corner string) *models.CornerNote {
	t.Helper()
	note, err := repos.CornerNotes.Insert(owner, &models.CornerNote{
		SessionID: sessionID, CornerName: corner, Entry: "e",
	})
	require.NoError(t, err)
	return note
}

func mustCreateTrackNote(t *testing.T, repos *repositories.Manager, owner string, carID, trackID *string) *models.TrackNote {
	t.Helper()
	note, err := repos.TrackNotes.Insert(owner, &models.TrackNote{CarID: carID, TrackID: trackID, Notes: "n"})
	require.NoError(t, err)
	return note
}

func mustCreateMaintenance(t *testing.T, repos *repositories.Manager, owner string, carID *string) *models.MaintenanceTask {
	t.Helper()
	task, err := repos.Maintenance.Insert(owner, &models.MaintenanceTask{
		CarID: carID, Name: "oil change", Type: models.TypeList{"service"},
	})
	require.NoError(t, err)
	return task
}

func rawJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
