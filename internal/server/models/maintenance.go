package models

import "encoding/json"

// TypeList is the maintenance task category list. Older datasets stored a
// single string here; both shapes are accepted on read, and the list form
// is always written back.
type TypeList []string

func (t *TypeList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if single == "" {
		*t = TypeList{}
	} else {
		*t = TypeList{single}
	}
	return nil
}

func (t TypeList) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}

// MaintenanceTask records work done on a car (service, repairs, part
// swaps). Only the car reference exists; tasks are hard-deleted with it.
type MaintenanceTask struct {
	ID          string   `json:"id"`
	UserID      string   `json:"userId"`
	CarID       *string  `json:"carId"`
	Date        string   `json:"date"`
	Type        TypeList `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Mileage     string   `json:"mileage"`
	PartsUsed   string   `json:"partsUsed"`
	Notes       string   `json:"notes"`
}

func (m *MaintenanceTask) EntityID() string      { return m.ID }
func (m *MaintenanceTask) SetEntityID(id string) { m.ID = id }
func (m *MaintenanceTask) OwnerID() string       { return m.UserID }
func (m *MaintenanceTask) SetOwnerID(id string)  { m.UserID = id }

func (m *MaintenanceTask) ApplyDefaults() {
	if m.Type == nil {
		m.Type = TypeList{}
	}
}
