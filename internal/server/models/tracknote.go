package models

// TrackNote is free-form commentary tied to a car/track combination.
// Unlike setups it is hard-deleted when either parent goes away.
type TrackNote struct {
	ID      string  `json:"id"`
	UserID  string  `json:"userId"`
	CarID   *string `json:"carId"`
	TrackID *string `json:"trackId"`
	Notes   string  `json:"notes"`
}

func (n *TrackNote) EntityID() string      { return n.ID }
func (n *TrackNote) SetEntityID(id string) { n.ID = id }
func (n *TrackNote) OwnerID() string       { return n.UserID }
func (n *TrackNote) SetOwnerID(id string)  { n.UserID = id }
