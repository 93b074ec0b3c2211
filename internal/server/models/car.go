package models

// Car is a parent entity: setups, sessions, track notes and maintenance
// tasks may reference it via carId. Deleting a car hard-deletes those
// dependents (see services.CascadeEngine).
type Car struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer"`
	Series       string `json:"series"`
}

func (c *Car) EntityID() string      { return c.ID }
func (c *Car) SetEntityID(id string) { c.ID = id }
func (c *Car) OwnerID() string       { return c.UserID }
func (c *Car) SetOwnerID(id string)  { c.UserID = id }
