package events

import (
	"github.com/alexmeckes/draftagent/go/internal/models"
)

// Event payload types that are shared between the syncer and gateway packages

const (
	// DraftUpdate carries either a NewPicksPayload or a DraftCompletePayload.
	DraftUpdate = "draft-update"
	// DraftError carries a DraftErrorPayload.
	DraftError = "draft-error"

	UpdateTypeNewPicks      = "new-picks"
	UpdateTypeDraftComplete = "draft-complete"
)

// NewPicksPayload is broadcast once per poll that observed a larger pick count.
type NewPicksPayload struct {
	Type        string             `json:"type"`
	Draft       *models.Draft      `json:"draft"`
	Picks       []models.DraftPick `json:"picks"`
	NewPicks    []models.DraftPick `json:"newPicks"`
	CurrentPick int                `json:"currentPick"`
	IsComplete  bool               `json:"isComplete"`
}

// DraftCompletePayload is broadcast once when the remote draft reaches a terminal status.
type DraftCompletePayload struct {
	Type  string             `json:"type"`
	Draft *models.Draft      `json:"draft"`
	Picks []models.DraftPick `json:"picks"`
}

// DraftErrorPayload tells room members that a poll failed and will be retried.
type DraftErrorPayload struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func NewPicks(d *models.Draft, picks, newPicks []models.DraftPick) NewPicksPayload {
	return NewPicksPayload{
		Type:        UpdateTypeNewPicks,
		Draft:       d,
		Picks:       picks,
		NewPicks:    newPicks,
		CurrentPick: len(picks) + 1,
		IsComplete:  d.Status.IsTerminal(),
	}
}

func DraftComplete(d *models.Draft, picks []models.DraftPick) DraftCompletePayload {
	return DraftCompletePayload{
		Type:  UpdateTypeDraftComplete,
		Draft: d,
		Picks: picks,
	}
}

func SyncFailed(err error) DraftErrorPayload {
	msg := "Unknown error"
	if err != nil {
		msg = err.Error()
	}
	return DraftErrorPayload{
		Message: "Failed to sync draft data",
		Error:   msg,
	}
}
