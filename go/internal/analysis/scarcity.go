package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexmeckes/draftagent/go/internal/draft"
	"github.com/alexmeckes/draftagent/go/internal/models"
)

type ScarcityResult struct {
	Analysis          string  `json:"analysis"`
	ScarcityScore     float64 `json:"scarcityScore"`
	Urgency           string  `json:"urgency"`
	TierDropoff       float64 `json:"tierDropoff"`
	AlternativesCount int     `json:"alternativesCount"`
}

func (r *ScarcityResult) Summary() string { return r.Analysis }

// Rank cutoffs used as starter tier proxies.
const (
	TierOneCutoff  = 100
	TierTwoCutoff  = 200
	StarterCutoff  = 300
	defaultPerTeam = 1
)

// DefaultPositionTargets is how many of each position a team typically rosters.
var DefaultPositionTargets = map[string]int{"QB": 1, "RB": 3, "WR": 3, "TE": 1}

// Availability counts remaining players at one position by rank tier.
type Availability struct {
	Top100   int
	Top200   int
	Starters int
	Total    int
}

const scarcitySystemPrompt = `You are a fantasy football position scarcity expert. You judge what is left in the player pool and where it runs thin.

Weigh:
- Remaining quality players at each position
- Tier dropoffs and cliffs
- The chance of a run on the position
- Replacement level quality

Respond with only a JSON object of this exact shape:
{
  "analysis": "2-3 sentence scarcity assessment",
  "scarcityScore": <number 1-10>,
  "urgency": "HIGH|MEDIUM|LOW",
  "tierDropoff": <number 1-5>,
  "alternativesCount": <number>
}`

// ScarcityAgent sizes the remaining pool and how many rivals still need the position.
type ScarcityAgent struct {
	invoke  Invoker
	targets map[string]int
}

func NewScarcityAgent(invoke Invoker, targets map[string]int) *ScarcityAgent {
	if len(targets) == 0 {
		targets = DefaultPositionTargets
	}
	return &ScarcityAgent{invoke: invoke, targets: targets}
}

func (a *ScarcityAgent) Name() string { return "Market Scarcity Agent" }

// CountAvailable buckets available players at position by rank. Players with
// no rank count toward Total only.
func CountAvailable(available []models.Player, position string) Availability {
	var out Availability
	for i := range available {
		p := &available[i]
		if p.Position != position {
			continue
		}
		out.Total++
		rank := p.Rank()
		if rank <= TierOneCutoff {
			out.Top100++
		}
		if rank <= TierTwoCutoff {
			out.Top200++
		}
		if rank <= StarterCutoff {
			out.Starters++
		}
	}
	return out
}

// TeamsNeeding estimates how many teams have not yet filled position:
// teams - floor((picksAtPosition / teams) / perTeamTarget), floored at zero.
func TeamsNeeding(picks []models.DraftPick, position string, teams int, targets map[string]int) int {
	if teams <= 0 {
		return 0
	}
	target := targets[position]
	if target <= 0 {
		target = defaultPerTeam
	}
	picked := 0
	for _, p := range picks {
		if p.Metadata.Position == position {
			picked++
		}
	}
	avgPerTeam := float64(picked) / float64(teams)
	return max(0, teams-int(avgPerTeam/float64(target)))
}

func (a *ScarcityAgent) Analyze(ctx context.Context, c *Context) (Result, error) {
	pos := c.Player.Position
	avail := CountAvailable(c.AvailablePlayers, pos)

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze position scarcity for %s.\n\n", c.playerLabel())
	fmt.Fprintf(&b, "Remaining quality players at %s:\n", pos)
	fmt.Fprintf(&b, "- Ranked inside the top %d: %d\n", TierOneCutoff, avail.Top100)
	fmt.Fprintf(&b, "- Ranked inside the top %d: %d\n", TierTwoCutoff, avail.Top200)
	fmt.Fprintf(&b, "- Total remaining starters: %d\n\n", avail.Starters)
	b.WriteString("Draft progress:\n")
	fmt.Fprintf(&b, "- Current pick: %d of %d\n", c.CurrentPick, c.TotalPicks)
	fmt.Fprintf(&b, "- Picks until your next: %d\n", draft.PicksUntilNextTurn(c.League.Teams, c.CurrentRound, c.DraftPosition))
	fmt.Fprintf(&b, "- Teams still needing %s: %d\n\n", pos, TeamsNeeding(c.AllPicks, pos, c.League.Teams, a.targets))
	fmt.Fprintf(&b, "Player rank: %s\n\n", rankLabel(c.Player.SearchRank))
	b.WriteString("Assess the urgency to draft this position.")

	var out ScarcityResult
	if err := a.invoke(ctx, scarcitySystemPrompt, b.String(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
