package analysis

import (
	"context"
	"fmt"
	"strings"
)

type ValueResult struct {
	Analysis        string  `json:"analysis"`
	ValueScore      float64 `json:"valueScore"`
	Recommendation  string  `json:"recommendation"`
	ADPDifferential float64 `json:"adpDifferential"`
}

func (r *ValueResult) Summary() string { return r.Analysis }

const valueSystemPrompt = `You are a fantasy football value analysis expert. You judge a player's value relative to where the draft currently stands.

Weigh:
- Average draft position against the current pick
- Projected points and value over replacement
- Tier based rankings
- Positional value trends

Respond with only a JSON object of this exact shape:
{
  "analysis": "2-3 sentence analysis of the player's value",
  "valueScore": <number 1-10>,
  "recommendation": "STRONG BUY|BUY|HOLD|PASS",
  "adpDifferential": <number -50 to +50>
}`

// ValueAgent passes rank, age and league scoring straight to the scorer.
type ValueAgent struct {
	invoke Invoker
}

func NewValueAgent(invoke Invoker) *ValueAgent {
	return &ValueAgent{invoke: invoke}
}

func (a *ValueAgent) Name() string { return "Value Agent" }

func (a *ValueAgent) Analyze(ctx context.Context, c *Context) (Result, error) {
	scoring := "Standard"
	if c.League.PPR {
		scoring = "PPR"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the value of %s.\n\n", c.playerLabel())
	fmt.Fprintf(&b, "Current pick: #%d (Round %d)\n", c.CurrentPick, c.CurrentRound)
	fmt.Fprintf(&b, "Player ADP: %s\n", rankLabel(c.Player.SearchRank))
	fmt.Fprintf(&b, "Player age: %s\n", ageLabel(c.Player.Age))
	fmt.Fprintf(&b, "Years experience: %d\n\n", c.Player.YearsExp)
	b.WriteString("Draft context:\n")
	fmt.Fprintf(&b, "- Your draft position: %d\n", c.DraftPosition)
	fmt.Fprintf(&b, "- Total teams: %d\n", c.League.Teams)
	fmt.Fprintf(&b, "- Scoring: %s\n\n", scoring)
	b.WriteString("Provide your value analysis.")

	var out ValueResult
	if err := a.invoke(ctx, valueSystemPrompt, b.String(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func rankLabel(rank int) string {
	if rank <= 0 {
		return "Unknown"
	}
	return fmt.Sprint(rank)
}

func ageLabel(age int) string {
	if age <= 0 {
		return "Unknown"
	}
	return fmt.Sprint(age)
}
