package draft

import (
	"errors"
	"fmt"

	"github.com/alexmeckes/draftagent/go/internal/models"
)

// ErrInvalidSettings is returned when a draft has no teams to rotate through.
var ErrInvalidSettings = errors.New("draft settings must have at least one team")

// Turn is the derived position of a draft after a given number of picks.
// It is always recomputed from the absolute pick count, never diffed.
type Turn struct {
	CurrentPick      int  `json:"currentPick"`
	CurrentRound     int  `json:"currentRound"`
	CurrentDraftSlot int  `json:"currentDraftSlot"`
	TotalPicks       int  `json:"totalPicks"`
	IsComplete       bool `json:"isComplete"`
}

// ComputeTurn derives whose turn it is after pickCount picks.
//
// Even rounds of a snake draft run in reverse, so the slot on the clock is
// teams - pickInRound there and pickInRound + 1 everywhere else. A complete
// draft reports slot 1.
func ComputeTurn(d *models.Draft, pickCount int) (Turn, error) {
	teams := d.Settings.Teams
	if teams <= 0 {
		return Turn{}, fmt.Errorf("draft %s: %w", d.ID, ErrInvalidSettings)
	}

	t := Turn{
		CurrentPick:      pickCount + 1,
		CurrentRound:     pickCount/teams + 1,
		TotalPicks:       teams * d.Settings.Rounds,
		CurrentDraftSlot: 1,
	}
	t.IsComplete = d.Status.IsTerminal() || t.CurrentPick > t.TotalPicks

	if !t.IsComplete {
		t.CurrentDraftSlot = SlotOnClock(d.Type, teams, pickCount)
	}
	return t, nil
}

// SlotOnClock returns the 1-indexed draft slot that makes pick pickCount+1.
func SlotOnClock(draftType models.DraftType, teams, pickCount int) int {
	round := pickCount/teams + 1
	pickInRound := pickCount % teams
	if draftType == models.DraftTypeSnake && round%2 == 0 {
		return teams - pickInRound
	}
	return pickInRound + 1
}

// PicksUntilNextTurn estimates how many selections happen before draftPosition
// picks again, using snake arithmetic.
func PicksUntilNextTurn(teams, round, draftPosition int) int {
	if round%2 == 0 {
		return 2 * (draftPosition - 1)
	}
	return 2 * (teams - draftPosition)
}
