package models

// PickMetadata is the denormalized player info the remote source attaches to a pick.
type PickMetadata struct {
	Team      string `json:"team,omitempty"`
	Status    string `json:"status,omitempty"`
	Position  string `json:"position,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// DraftPick is a single, immutable pick. Picks are ordered by PickNumber.
type DraftPick struct {
	DraftID    string       `json:"draft_id"`
	Round      int          `json:"round"`
	RosterID   FlexString   `json:"roster_id"`
	PlayerID   string       `json:"player_id"`
	PickedBy   string       `json:"picked_by"`
	PickNumber int          `json:"pick_no"`
	DraftSlot  int          `json:"draft_slot"`
	IsKeeper   bool         `json:"is_keeper,omitempty"`
	Metadata   PickMetadata `json:"metadata"`
}
