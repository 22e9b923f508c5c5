package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexmeckes/draftagent/go/internal/models"
)

type CompositionResult struct {
	Analysis         string   `json:"analysis"`
	NeedScore        float64  `json:"needScore"`
	SynergyScore     float64  `json:"synergyScore"`
	CriticalNeeds    []string `json:"criticalNeeds"`
	ByeWeekConflicts []string `json:"byeWeekConflicts"`
}

func (r *CompositionResult) Summary() string { return r.Analysis }

// RosterCountPositions are tallied on the user's roster, in display order.
var RosterCountPositions = []string{"QB", "RB", "WR", "TE", "DEF", "K"}

// StartingSlotPositions are compared against the league's roster positions.
var StartingSlotPositions = []string{"QB", "RB", "WR", "TE", "FLEX"}

// DefaultStartingSlots apply when the league does not list a position.
var DefaultStartingSlots = map[string]int{"QB": 1, "RB": 2, "WR": 2, "TE": 1, "FLEX": 1}

const compositionSystemPrompt = `You are a fantasy football roster construction expert. You judge how a player fits the team being built.

Weigh:
- Current roster balance and positional needs
- Starting lineup requirements
- Bye week distribution
- Stack potential such as QB and WR pairs
- Bench depth

Respond with only a JSON object of this exact shape:
{
  "analysis": "2-3 sentence analysis of roster fit",
  "needScore": <number 1-10>,
  "synergyScore": <number 1-10>,
  "criticalNeeds": ["position1", "position2"],
  "byeWeekConflicts": []
}`

// CompositionAgent compares the user's roster with the starting requirements.
type CompositionAgent struct {
	invoke   Invoker
	defaults map[string]int
}

func NewCompositionAgent(invoke Invoker, defaults map[string]int) *CompositionAgent {
	if len(defaults) == 0 {
		defaults = DefaultStartingSlots
	}
	return &CompositionAgent{invoke: invoke, defaults: defaults}
}

func (a *CompositionAgent) Name() string { return "Team Composition Agent" }

// CountPositions tallies roster players by position. Positions outside
// RosterCountPositions are ignored.
func CountPositions(roster []models.Player) map[string]int {
	counts := make(map[string]int, len(RosterCountPositions))
	for _, pos := range RosterCountPositions {
		counts[pos] = 0
	}
	for _, p := range roster {
		if _, ok := counts[p.Position]; ok {
			counts[p.Position]++
		}
	}
	return counts
}

// StartingRequirements counts each starting position in the league's roster
// positions, falling back to defaults for positions the league omits.
func StartingRequirements(rosterPositions []string, defaults map[string]int) map[string]int {
	req := make(map[string]int, len(StartingSlotPositions))
	for _, slot := range rosterPositions {
		req[slot]++
	}
	out := make(map[string]int, len(StartingSlotPositions))
	for _, pos := range StartingSlotPositions {
		if n := req[pos]; n > 0 {
			out[pos] = n
		} else {
			out[pos] = defaults[pos]
		}
	}
	return out
}

func (a *CompositionAgent) Analyze(ctx context.Context, c *Context) (Result, error) {
	counts := CountPositions(c.UserRoster)
	req := StartingRequirements(c.League.RosterPositions, a.defaults)

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze how %s fits with the current roster.\n\n", c.playerLabel())
	b.WriteString("Current roster composition:\n")
	for _, pos := range RosterCountPositions {
		fmt.Fprintf(&b, "- %s: %d\n", pos, counts[pos])
	}
	b.WriteString("\nStarting requirements:\n")
	for _, pos := range StartingSlotPositions {
		fmt.Fprintf(&b, "- %s: %d\n", pos, req[pos])
	}
	fmt.Fprintf(&b, "\nCurrent pick: %d of %d\n\n", c.CurrentPick, c.TotalPicks)
	b.WriteString("Evaluate roster fit and positional needs.")

	var out CompositionResult
	if err := a.invoke(ctx, compositionSystemPrompt, b.String(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
