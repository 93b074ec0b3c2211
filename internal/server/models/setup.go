package models

// Setup is a chassis setup sheet. Both parent references are optional.
// When the referenced track is deleted, TrackID is nulled out but the
// setup survives; when the referenced car is deleted, the setup goes
// with it.
type Setup struct {
	ID      string  `json:"id"`
	UserID  string  `json:"userId"`
	CarID   *string `json:"carId"`
	TrackID *string `json:"trackId"`
	Name    string  `json:"name"`

	CamberFront string `json:"camberFront"`
	CamberRear  string `json:"camberRear"`
	ToeFront    string `json:"toeFront"`
	ToeRear     string `json:"toeRear"`
	Caster      string `json:"caster"`

	SpringFront string `json:"springFront"`
	SpringRear  string `json:"springRear"`
	WeightFront string `json:"weightFront"`
	WeightRear  string `json:"weightRear"`

	PressureFL string `json:"pressureFL"`
	PressureFR string `json:"pressureFR"`
	PressureRL string `json:"pressureRL"`
	PressureRR string `json:"pressureRR"`

	Notes string `json:"notes"`
}

func (s *Setup) EntityID() string      { return s.ID }
func (s *Setup) SetEntityID(id string) { s.ID = id }
func (s *Setup) OwnerID() string       { return s.UserID }
func (s *Setup) SetOwnerID(id string)  { s.UserID = id }
