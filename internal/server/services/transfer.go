package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/racelog/internal/common"
	"github.com/dmitrijs2005/racelog/internal/logging"
	"github.com/dmitrijs2005/racelog/internal/server/models"
	"github.com/dmitrijs2005/racelog/internal/server/repositories"
)

// ImportMode selects the conflict policy for matched cars and tracks.
// Overwrite updates the match in place and replaces its dependents with
// the imported set; preserve never touches existing records and drops the
// dependents of skipped matches.
type ImportMode string

const (
	ModeOverwrite ImportMode = "overwrite"
	ModePreserve  ImportMode = "preserve"
)

const (
	envelopeVersion = 1
	envelopeAppName = "RaceLog"
)

// TrackImage embeds a locally stored track image in the envelope. Data is
// base64; Filename is the on-disk name, whose stem is the track id.
type TrackImage struct {
	Filename string `json:"filename"`
	Data     string `json:"data"`
}

// EnvelopeData carries the exported records. Optional categories are nil
// when their inclusion flag was off, and nil must survive serialization:
// a flag-on category with zero records is [], a flag-off one is null, and
// import's overwrite purge keys off that difference. No omitempty here.
type EnvelopeData struct {
	Cars        []models.Car             `json:"cars"`
	Tracks      []models.Track           `json:"tracks"`
	Setups      []models.Setup           `json:"setups"`
	Sessions    []models.Session         `json:"sessions"`
	CornerNotes []models.CornerNote      `json:"cornerNotes"`
	TrackNotes  []models.TrackNote       `json:"trackNotes"`
	Maintenance []models.MaintenanceTask `json:"maintenance"`
	TrackImages []TrackImage             `json:"trackImages"`
}

// Envelope is the versioned wire format for export files. Its structure is
// a compatibility surface; existing exports must keep round-tripping.
type Envelope struct {
	Version    int           `json:"version"`
	ExportDate time.Time     `json:"exportDate"`
	AppName    string        `json:"appName"`
	Data       *EnvelopeData `json:"data"`
}

// ExportSelection names the cars and tracks to export.
type ExportSelection struct {
	CarIDs   []string `json:"carIds"`
	TrackIDs []string `json:"trackIds"`
}

// ExportFlags toggles the optional dependent categories. Corner notes are
// not a flag of their own; they ride along with exported sessions.
type ExportFlags struct {
	Setups      bool `json:"setups"`
	Sessions    bool `json:"sessions"`
	Maintenance bool `json:"maintenance"`
	TrackNotes  bool `json:"trackNotes"`
}

// ImportSummary reports per-kind counts. Partial mismatches never fail an
// import; they only show up here.
type ImportSummary struct {
	Imported map[string]int `json:"imported"`
	Skipped  map[string]int `json:"skipped"`
}

func newImportSummary() *ImportSummary {
	return &ImportSummary{
		Imported: map[string]int{},
		Skipped:  map[string]int{},
	}
}

// Transfer serializes a subset of a user's data graph into an Envelope and
// merges envelopes back in under an ImportMode.
type Transfer struct {
	repos  *repositories.Manager
	images *ImageService
	logger logging.Logger
}

func NewTransfer(repos *repositories.Manager, images *ImageService, logger logging.Logger) *Transfer {
	return &Transfer{repos: repos, images: images, logger: logger.With("module", "transfer")}
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func inSet(ref *string, set map[string]bool) bool {
	return ref != nil && set[*ref]
}

// Export produces an envelope with the selected cars and tracks plus every
// flagged dependent referencing them. Locally stored track images are
// embedded as base64 blobs.
func (t *Transfer) Export(ctx context.Context, ownerID string, sel ExportSelection, flags ExportFlags) (*Envelope, error) {
	carSet := toSet(sel.CarIDs)
	trackSet := toSet(sel.TrackIDs)

	data := &EnvelopeData{
		Cars:        []models.Car{},
		Tracks:      []models.Track{},
		TrackImages: []TrackImage{},
	}

	cars, err := t.repos.Cars.List(ownerID, func(c *models.Car) bool { return carSet[c.ID] })
	if err != nil {
		return nil, err
	}
	for _, c := range cars {
		data.Cars = append(data.Cars, *c)
	}

	tracks, err := t.repos.Tracks.List(ownerID, func(tr *models.Track) bool { return trackSet[tr.ID] })
	if err != nil {
		return nil, err
	}
	for _, tr := range tracks {
		data.Tracks = append(data.Tracks, *tr)
		filename := LocalFilename(tr.ImageURL)
		if filename == "" {
			continue
		}
		blob, err := t.images.Load(filename)
		if err != nil {
			// A missing image file is not worth failing the export over.
			t.logger.Warn(ctx, "track image unreadable, not embedded", "trackId", tr.ID, "file", filename)
			continue
		}
		data.TrackImages = append(data.TrackImages, TrackImage{
			Filename: filename,
			Data:     base64.StdEncoding.EncodeToString(blob),
		})
	}

	refersToSelection := func(carID, trackID *string) bool {
		return inSet(carID, carSet) || inSet(trackID, trackSet)
	}

	if flags.Setups {
		setups, err := t.repos.Setups.List(ownerID, func(s *models.Setup) bool {
			return refersToSelection(s.CarID, s.TrackID)
		})
		if err != nil {
			return nil, err
		}
		data.Setups = []models.Setup{}
		for _, s := range setups {
			data.Setups = append(data.Setups, *s)
		}
	}

	if flags.Sessions {
		sessions, err := t.repos.Sessions.List(ownerID, func(s *models.Session) bool {
			return refersToSelection(s.CarID, s.TrackID)
		})
		if err != nil {
			return nil, err
		}
		data.Sessions = []models.Session{}
		sessionIDs := map[string]bool{}
		for _, s := range sessions {
			data.Sessions = append(data.Sessions, *s)
			sessionIDs[s.ID] = true
		}

		notes, err := t.repos.CornerNotes.List(ownerID, func(n *models.CornerNote) bool {
			return sessionIDs[n.SessionID]
		})
		if err != nil {
			return nil, err
		}
		data.CornerNotes = []models.CornerNote{}
		for _, n := range notes {
			data.CornerNotes = append(data.CornerNotes, *n)
		}
	}

	if flags.TrackNotes {
		notes, err := t.repos.TrackNotes.List(ownerID, func(n *models.TrackNote) bool {
			return refersToSelection(n.CarID, n.TrackID)
		})
		if err != nil {
			return nil, err
		}
		data.TrackNotes = []models.TrackNote{}
		for _, n := range notes {
			data.TrackNotes = append(data.TrackNotes, *n)
		}
	}

	if flags.Maintenance {
		// Maintenance has no track reference; only the car set applies.
		tasks, err := t.repos.Maintenance.List(ownerID, func(m *models.MaintenanceTask) bool {
			return inSet(m.CarID, carSet)
		})
		if err != nil {
			return nil, err
		}
		data.Maintenance = []models.MaintenanceTask{}
		for _, m := range tasks {
			data.Maintenance = append(data.Maintenance, *m)
		}
	}

	return &Envelope{
		Version:    envelopeVersion,
		ExportDate: time.Now().UTC(),
		AppName:    envelopeAppName,
		Data:       data,
	}, nil
}

// Import merges an envelope into the owner's data. Only a structurally
// invalid envelope fails before any writes; everything else degrades into
// skipped counts.
func (t *Transfer) Import(ctx context.Context, ownerID string, env *Envelope, mode ImportMode) (*ImportSummary, error) {
	if env == nil || env.Version == 0 || env.Data == nil {
		return nil, fmt.Errorf("invalid export envelope: %w", common.ErrValidation)
	}
	if mode != ModeOverwrite && mode != ModePreserve {
		return nil, fmt.Errorf("unknown import mode %q: %w", mode, common.ErrValidation)
	}

	sum := newImportSummary()

	carIDMap, skippedCars, err := t.importCars(ownerID, env.Data.Cars, mode, sum)
	if err != nil {
		return nil, err
	}
	trackIDMap, skippedTracks, err := t.importTracks(ownerID, env.Data.Tracks, mode, sum)
	if err != nil {
		return nil, err
	}
	if err := t.importTrackImages(ctx, ownerID, env.Data.TrackImages, trackIDMap, skippedTracks, sum); err != nil {
		return nil, err
	}

	if mode == ModeOverwrite {
		if err := t.purgeDependents(ctx, ownerID, env.Data, carIDMap, trackIDMap); err != nil {
			return nil, err
		}
	}

	// remapRef resolves an imported foreign key through an id map. A
	// reference to a skipped parent drops the whole record (preserve mode
	// protects existing data from silent enrichment); a reference to a
	// parent absent from the envelope is nulled rather than left dangling.
	remapRef := func(ref *string, idMap map[string]string, skipped map[string]bool) (*string, bool) {
		if ref == nil {
			return nil, false
		}
		if skipped[*ref] {
			return nil, true
		}
		if newID, ok := idMap[*ref]; ok {
			mapped := newID
			return &mapped, false
		}
		return nil, false
	}

	var setups []*models.Setup
	for i := range env.Data.Setups {
		rec := env.Data.Setups[i]
		carRef, dropCar := remapRef(rec.CarID, carIDMap, skippedCars)
		trackRef, dropTrack := remapRef(rec.TrackID, trackIDMap, skippedTracks)
		if dropCar || dropTrack {
			sum.Skipped["setups"]++
			continue
		}
		rec.CarID, rec.TrackID = carRef, trackRef
		setups = append(setups, &rec)
	}
	if _, err := t.repos.Setups.InsertMany(ownerID, setups); err != nil {
		return nil, err
	}
	sum.Imported["setups"] += len(setups)

	sessionIDMap := map[string]string{}
	var sessions []*models.Session
	var sessionOldIDs []string
	for i := range env.Data.Sessions {
		rec := env.Data.Sessions[i]
		carRef, dropCar := remapRef(rec.CarID, carIDMap, skippedCars)
		trackRef, dropTrack := remapRef(rec.TrackID, trackIDMap, skippedTracks)
		if dropCar || dropTrack {
			sum.Skipped["sessions"]++
			continue
		}
		oldID := rec.ID
		rec.CarID, rec.TrackID = carRef, trackRef
		sessions = append(sessions, &rec)
		sessionOldIDs = append(sessionOldIDs, oldID)
	}
	if _, err := t.repos.Sessions.InsertMany(ownerID, sessions); err != nil {
		return nil, err
	}
	for i, s := range sessions {
		sessionIDMap[sessionOldIDs[i]] = s.ID
	}
	sum.Imported["sessions"] += len(sessions)

	var cornerNotes []*models.CornerNote
	for i := range env.Data.CornerNotes {
		rec := env.Data.CornerNotes[i]
		newSessionID, ok := sessionIDMap[rec.SessionID]
		if !ok {
			// Parent session was dropped or never imported.
			sum.Skipped["cornerNotes"]++
			continue
		}
		rec.SessionID = newSessionID
		cornerNotes = append(cornerNotes, &rec)
	}
	if _, err := t.repos.CornerNotes.InsertMany(ownerID, cornerNotes); err != nil {
		return nil, err
	}
	sum.Imported["cornerNotes"] += len(cornerNotes)

	var trackNotes []*models.TrackNote
	for i := range env.Data.TrackNotes {
		rec := env.Data.TrackNotes[i]
		carRef, dropCar := remapRef(rec.CarID, carIDMap, skippedCars)
		trackRef, dropTrack := remapRef(rec.TrackID, trackIDMap, skippedTracks)
		if dropCar || dropTrack {
			sum.Skipped["trackNotes"]++
			continue
		}
		rec.CarID, rec.TrackID = carRef, trackRef
		trackNotes = append(trackNotes, &rec)
	}
	if _, err := t.repos.TrackNotes.InsertMany(ownerID, trackNotes); err != nil {
		return nil, err
	}
	sum.Imported["trackNotes"] += len(trackNotes)

	var tasks []*models.MaintenanceTask
	for i := range env.Data.Maintenance {
		rec := env.Data.Maintenance[i]
		carRef, dropCar := remapRef(rec.CarID, carIDMap, skippedCars)
		if dropCar {
			sum.Skipped["maintenance"]++
			continue
		}
		rec.CarID = carRef
		tasks = append(tasks, &rec)
	}
	if _, err := t.repos.Maintenance.InsertMany(ownerID, tasks); err != nil {
		return nil, err
	}
	sum.Imported["maintenance"] += len(tasks)

	t.logger.Info(ctx, "import finished", "mode", string(mode),
		"imported", sum.Imported, "skipped", sum.Skipped)
	return sum, nil
}

func (t *Transfer) importCars(ownerID string, cars []models.Car, mode ImportMode, sum *ImportSummary) (map[string]string, map[string]bool, error) {
	existing, err := t.repos.Cars.List(ownerID)
	if err != nil {
		return nil, nil, err
	}

	idMap := map[string]string{}
	skipped := map[string]bool{}
	var fresh []*models.Car
	var freshOldIDs []string

	for i := range cars {
		car := cars[i]
		var match *models.Car
		for _, e := range existing {
			if e.Name == car.Name && e.Manufacturer == car.Manufacturer && e.Series == car.Series {
				match = e
				break
			}
		}
		switch {
		case match == nil:
			fresh = append(fresh, &car)
			freshOldIDs = append(freshOldIDs, car.ID)
		case mode == ModeOverwrite:
			rec := car
			if _, err := t.repos.Cars.Replace(ownerID, match.ID, &rec); err != nil {
				return nil, nil, err
			}
			idMap[car.ID] = match.ID
			sum.Imported["cars"]++
		default:
			idMap[car.ID] = match.ID
			skipped[car.ID] = true
			sum.Skipped["cars"]++
		}
	}

	if _, err := t.repos.Cars.InsertMany(ownerID, fresh); err != nil {
		return nil, nil, err
	}
	for i, rec := range fresh {
		idMap[freshOldIDs[i]] = rec.ID
		sum.Imported["cars"]++
	}
	return idMap, skipped, nil
}

func (t *Transfer) importTracks(ownerID string, tracks []models.Track, mode ImportMode, sum *ImportSummary) (map[string]string, map[string]bool, error) {
	existing, err := t.repos.Tracks.List(ownerID)
	if err != nil {
		return nil, nil, err
	}

	idMap := map[string]string{}
	skipped := map[string]bool{}
	var fresh []*models.Track
	var freshOldIDs []string

	for i := range tracks {
		track := tracks[i]
		var match *models.Track
		for _, e := range existing {
			if e.Name == track.Name && e.Location == track.Location {
				match = e
				break
			}
		}
		switch {
		case match == nil:
			fresh = append(fresh, &track)
			freshOldIDs = append(freshOldIDs, track.ID)
		case mode == ModeOverwrite:
			rec := track
			if _, err := t.repos.Tracks.Replace(ownerID, match.ID, &rec); err != nil {
				return nil, nil, err
			}
			idMap[track.ID] = match.ID
			sum.Imported["tracks"]++
		default:
			idMap[track.ID] = match.ID
			skipped[track.ID] = true
			sum.Skipped["tracks"]++
		}
	}

	if _, err := t.repos.Tracks.InsertMany(ownerID, fresh); err != nil {
		return nil, nil, err
	}
	for i, rec := range fresh {
		idMap[freshOldIDs[i]] = rec.ID
		sum.Imported["tracks"]++
	}
	return idMap, skipped, nil
}

// importTrackImages writes embedded images under their new track ids and
// rewrites the owning track's imageUrl. The filename stem is the track id
// the exporting installation used.
func (t *Transfer) importTrackImages(ctx context.Context, ownerID string, images []TrackImage, trackIDMap map[string]string, skippedTracks map[string]bool, sum *ImportSummary) error {
	for _, img := range images {
		ext := path.Ext(img.Filename)
		stem := strings.TrimSuffix(path.Base(img.Filename), ext)

		newID, ok := trackIDMap[stem]
		if !ok || skippedTracks[stem] {
			sum.Skipped["trackImages"]++
			continue
		}
		blob, err := base64.StdEncoding.DecodeString(img.Data)
		if err != nil {
			t.logger.Warn(ctx, "track image payload undecodable", "file", img.Filename)
			sum.Skipped["trackImages"]++
			continue
		}

		filename := newID + ext
		if err := t.images.Save(filename, blob); err != nil {
			return err
		}
		url, err := json.Marshal("/images/" + filename)
		if err != nil {
			return err
		}
		if _, err := t.repos.Tracks.Update(ownerID, newID, map[string]json.RawMessage{"imageUrl": url}); err != nil {
			return err
		}
		sum.Imported["trackImages"]++
	}
	return nil
}

// purgeDependents removes the owner's pre-existing dependents tied to the
// newly mapped car/track ids, per category actually present in the
// envelope, so the imported set replaces them instead of piling on top.
func (t *Transfer) purgeDependents(ctx context.Context, ownerID string, data *EnvelopeData, carIDMap, trackIDMap map[string]string) error {
	mappedCars := map[string]bool{}
	for _, id := range carIDMap {
		mappedCars[id] = true
	}
	mappedTracks := map[string]bool{}
	for _, id := range trackIDMap {
		mappedTracks[id] = true
	}

	tied := func(carID, trackID *string) bool {
		return inSet(carID, mappedCars) || inSet(trackID, mappedTracks)
	}

	if data.Setups != nil {
		if _, err := t.repos.Setups.DeleteWhere(ownerID, func(s *models.Setup) bool {
			return tied(s.CarID, s.TrackID)
		}); err != nil {
			return err
		}
	}

	if data.Sessions != nil {
		purged, err := t.repos.Sessions.List(ownerID, func(s *models.Session) bool {
			return tied(s.CarID, s.TrackID)
		})
		if err != nil {
			return err
		}
		purgedIDs := map[string]bool{}
		for _, s := range purged {
			purgedIDs[s.ID] = true
		}
		if _, err := t.repos.Sessions.DeleteWhere(ownerID, func(s *models.Session) bool {
			return tied(s.CarID, s.TrackID)
		}); err != nil {
			return err
		}
		// Corner notes of purged sessions must not survive as orphans.
		if _, err := t.repos.CornerNotes.DeleteWhere(ownerID, func(n *models.CornerNote) bool {
			return purgedIDs[n.SessionID]
		}); err != nil {
			return err
		}
	}

	if data.TrackNotes != nil {
		if _, err := t.repos.TrackNotes.DeleteWhere(ownerID, func(n *models.TrackNote) bool {
			return tied(n.CarID, n.TrackID)
		}); err != nil {
			return err
		}
	}

	if data.Maintenance != nil {
		if _, err := t.repos.Maintenance.DeleteWhere(ownerID, func(m *models.MaintenanceTask) bool {
			return inSet(m.CarID, mappedCars)
		}); err != nil {
			return err
		}
	}

	t.logger.Debug(ctx, "pre-existing dependents purged", "cars", len(mappedCars), "tracks", len(mappedTracks))
	return nil
}
