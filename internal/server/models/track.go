package models

// Track describes a circuit. Corners is the ordered list of corner names
// and defines the valid cornerName keys for corner notes taken at this
// track. ImageURL either points at an external source or at a locally
// stored image under /images/.
type Track struct {
	ID           string   `json:"id"`
	UserID       string   `json:"userId"`
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	Length       string   `json:"length"`
	ImageURL     string   `json:"imageUrl"`
	Corners      []string `json:"corners"`
	CircuitNotes string   `json:"circuitNotes"`
}

func (t *Track) EntityID() string      { return t.ID }
func (t *Track) SetEntityID(id string) { t.ID = id }
func (t *Track) OwnerID() string       { return t.UserID }
func (t *Track) SetOwnerID(id string)  { t.UserID = id }

func (t *Track) ApplyDefaults() {
	if t.Corners == nil {
		t.Corners = []string{}
	}
}
