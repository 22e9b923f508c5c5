package models

// DraftType defines the type of draft.
type DraftType string

const (
	DraftTypeSnake   DraftType = "snake"
	DraftTypeLinear  DraftType = "linear"
	DraftTypeAuction DraftType = "auction"
)

// DraftStatus defines the status of a draft as reported by the remote source.
type DraftStatus string

const (
	DraftStatusPreDraft DraftStatus = "pre_draft"
	DraftStatusDrafting DraftStatus = "drafting"
	DraftStatusPaused   DraftStatus = "paused"
	DraftStatusComplete DraftStatus = "complete"
)

// IsTerminal reports whether no further picks can be made.
func (s DraftStatus) IsTerminal() bool {
	return s == DraftStatusComplete
}

// IsActive reports whether a user would still care about the draft.
func (s DraftStatus) IsActive() bool {
	return s == DraftStatusDrafting || s == DraftStatusPaused || s == DraftStatusPreDraft
}

// DraftSettings holds the immutable shape of a draft.
type DraftSettings struct {
	Teams        int `json:"teams"`
	Rounds       int `json:"rounds"`
	SlotsQB      int `json:"slots_qb"`
	SlotsRB      int `json:"slots_rb"`
	SlotsWR      int `json:"slots_wr"`
	SlotsTE      int `json:"slots_te"`
	SlotsFlex    int `json:"slots_flex"`
	SlotsBench   int `json:"slots_bn"`
	SlotsDef     int `json:"slots_def"`
	SlotsK       int `json:"slots_k"`
	PickTimerSec int `json:"pick_timer"`
}

// Draft represents a draft hosted by the remote source.
type Draft struct {
	ID             string                `json:"draft_id"`
	LeagueID       string                `json:"league_id,omitempty"`
	Type           DraftType             `json:"type"`
	Status         DraftStatus           `json:"status"`
	Sport          string                `json:"sport"`
	Season         string                `json:"season"`
	SeasonType     string                `json:"season_type,omitempty"`
	StartTime      int64                 `json:"start_time,omitempty"`
	Settings       DraftSettings         `json:"settings"`
	DraftOrder     map[string]int        `json:"draft_order,omitempty"`
	SlotToRosterID map[string]FlexString `json:"slot_to_roster_id,omitempty"`
	Metadata       map[string]any        `json:"metadata,omitempty"`
}

// TotalPicks is the number of picks in a fully completed draft.
func (d *Draft) TotalPicks() int {
	return d.Settings.Teams * d.Settings.Rounds
}
