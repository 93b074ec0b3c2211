package models

// Session is an on-track outing (practice, qualifying, race, track day).
// Deleting a session cascades to its corner notes.
type Session struct {
	ID      string  `json:"id"`
	UserID  string  `json:"userId"`
	CarID   *string `json:"carId"`
	TrackID *string `json:"trackId"`

	Type string `json:"type"`
	Name string `json:"name"`
	Date string `json:"date"`

	Weather   string `json:"weather"`
	AirTemp   string `json:"airTemp"`
	TrackTemp string `json:"trackTemp"`

	SetupNotes  string   `json:"setupNotes"`
	BestLaptime string   `json:"bestLaptime"`
	FocusAreas  []string `json:"focusAreas"`
}

func (s *Session) EntityID() string      { return s.ID }
func (s *Session) SetEntityID(id string) { s.ID = id }
func (s *Session) OwnerID() string       { return s.UserID }
func (s *Session) SetOwnerID(id string)  { s.UserID = id }

func (s *Session) ApplyDefaults() {
	if s.FocusAreas == nil {
		s.FocusAreas = []string{}
	}
}
