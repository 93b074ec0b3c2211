package models

// CornerNote holds per-corner driving notes for one session. The pair
// (sessionId, cornerName) is unique per user; writes go through the
// upsert resolver rather than plain create.
type CornerNote struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	SessionID  string `json:"sessionId"`
	CornerName string `json:"cornerName"`
	Entry      string `json:"entry"`
	Apex       string `json:"apex"`
	Exit       string `json:"exit"`
}

func (n *CornerNote) EntityID() string      { return n.ID }
func (n *CornerNote) SetEntityID(id string) { n.ID = id }
func (n *CornerNote) OwnerID() string       { return n.UserID }
func (n *CornerNote) SetOwnerID(id string)  { n.UserID = id }
