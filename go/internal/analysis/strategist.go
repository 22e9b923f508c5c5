package analysis

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/alexmeckes/draftagent/go/internal/draft"
	"github.com/alexmeckes/draftagent/go/internal/models"
)

const (
	VerdictDraft = "DRAFT"
	VerdictPass  = "PASS"

	// Alternatives shown to the synthesizer and returned to the caller.
	promptAlternatives   = 5
	returnedAlternatives = 3

	defaultConfidence = 6
)

// Alternative is a same-position player the user could take instead.
type Alternative struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Team     string `json:"team"`
	Rank     int    `json:"rank"`
}

// Synthesis is the combined recommendation for one player.
type Synthesis struct {
	Agents         AgentResults  `json:"agents"`
	Recommendation string        `json:"recommendation"`
	Confidence     int           `json:"confidence"`
	Verdict        string        `json:"verdict"`
	Alternatives   []Alternative `json:"alternatives"`
}

const strategistSystemPrompt = `You are the head fantasy football draft strategist. You receive reports from four specialist analysts and make the final call.

Your job:
1. Weigh every analyst perspective
2. Resolve disagreements between them
3. Make a clear DRAFT or PASS recommendation
4. Give a confidence level from 1 to 10
5. Suggest alternatives when recommending PASS

Be decisive and keep it to 3-4 sentences. Start with a clear recommendation.`

// Strategist fans a Context out to every agent and synthesizes their results.
type Strategist struct {
	agents  []Agent
	narrate Narrator
}

func NewStrategist(narrate Narrator, agents ...Agent) *Strategist {
	return &Strategist{agents: agents, narrate: narrate}
}

// NewDefaultStrategist wires the four standard agents to one completer.
func NewDefaultStrategist(c Completer, cfg Config) *Strategist {
	invoke := NewInvoker(NewNarrator(c, cfg.AgentModel))
	return NewStrategist(
		NewNarrator(c, cfg.SynthesisModel),
		NewValueAgent(invoke),
		NewCompositionAgent(invoke, cfg.StartingSlots),
		NewScarcityAgent(invoke, cfg.PositionTargets),
		NewRiskAgent(invoke),
	)
}

// Analyze runs every agent concurrently. Any agent failure fails the whole
// analysis and no partial result is returned.
func (s *Strategist) Analyze(ctx context.Context, c *Context) (*Synthesis, error) {
	results := make([]Result, len(s.agents))
	g, gctx := errgroup.WithContext(ctx)
	for i, a := range s.agents {
		g.Go(func() error {
			r, err := a.Analyze(gctx, c)
			if err != nil {
				return fmt.Errorf("%s: %w", a.Name(), err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Str("player_id", c.Player.PlayerID).Msg("Agent analysis failed")
		return nil, err
	}

	var agents AgentResults
	for _, r := range results {
		if err := agents.set(r); err != nil {
			return nil, err
		}
	}
	if !agents.complete() {
		return nil, fmt.Errorf("incomplete agent results for player %s", c.Player.PlayerID)
	}

	alternatives := FindAlternatives(c.Player, c.AvailablePlayers, promptAlternatives)
	text, err := s.narrate(ctx, strategistSystemPrompt, synthesisPrompt(c, &agents, alternatives))
	if err != nil {
		return nil, fmt.Errorf("synthesis: %w", err)
	}

	return &Synthesis{
		Agents:         agents,
		Recommendation: text,
		Confidence:     ExtractConfidence(text),
		Verdict:        ExtractVerdict(text),
		Alternatives:   alternatives[:min(returnedAlternatives, len(alternatives))],
	}, nil
}

func synthesisPrompt(c *Context, a *AgentResults, alternatives []Alternative) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Should I draft %s?\n\n", c.playerLabel())
	b.WriteString("Draft situation:\n")
	fmt.Fprintf(&b, "- Current pick: #%d (Round %d)\n", c.CurrentPick, c.CurrentRound)
	fmt.Fprintf(&b, "- Picks until my next turn: %d\n\n", draft.PicksUntilNextTurn(c.League.Teams, c.CurrentRound, c.DraftPosition))
	b.WriteString("Specialist analyses:\n\n")
	fmt.Fprintf(&b, "VALUE ANALYSIS (Score: %g/10):\n%s\nRecommendation: %s\n\n",
		a.Value.ValueScore, a.Value.Analysis, a.Value.Recommendation)
	fmt.Fprintf(&b, "TEAM FIT ANALYSIS (Need: %g/10):\n%s\nCritical needs: %s\n\n",
		a.TeamComposition.NeedScore, a.TeamComposition.Analysis, strings.Join(a.TeamComposition.CriticalNeeds, ", "))
	fmt.Fprintf(&b, "SCARCITY ANALYSIS (Score: %g/10):\n%s\nUrgency: %s\n\n",
		a.Scarcity.ScarcityScore, a.Scarcity.Analysis, a.Scarcity.Urgency)
	fmt.Fprintf(&b, "RISK ANALYSIS (Risk: %g/10):\n%s\nConcerns: %s\n\n",
		a.Risk.RiskScore, a.Risk.Analysis, strings.Join(a.Risk.PrimaryConcerns, ", "))
	b.WriteString("Top alternatives available:\n")
	for _, alt := range alternatives {
		fmt.Fprintf(&b, "- %s (%s, %s) - Rank: %d\n", alt.Name, alt.Position, alt.Team, alt.Rank)
	}
	b.WriteString("\nProvide your final recommendation.")
	return b.String()
}

// FindAlternatives returns up to n available players at the same position as
// player, best rank first. Unranked players sort last and ties keep input order.
func FindAlternatives(player models.Player, available []models.Player, n int) []Alternative {
	var pool []*models.Player
	for i := range available {
		p := &available[i]
		if p.Position == player.Position && p.PlayerID != player.PlayerID {
			pool = append(pool, p)
		}
	}
	slices.SortStableFunc(pool, func(a, b *models.Player) int {
		return a.Rank() - b.Rank()
	})

	out := make([]Alternative, 0, min(n, len(pool)))
	for _, p := range pool[:min(n, len(pool))] {
		out = append(out, Alternative{
			PlayerID: p.PlayerID,
			Name:     p.FullName(),
			Position: p.Position,
			Team:     p.Team,
			Rank:     p.Rank(),
		})
	}
	return out
}

var confidencePattern = regexp.MustCompile(`(?i)confidence:?\s*(\d+)`)

// ExtractConfidence reads an explicit "confidence N" from text, clamped to
// 1..10, and otherwise guesses from wording.
func ExtractConfidence(text string) int {
	if m := confidencePattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return min(10, max(1, n))
		}
	}
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "strongly"), strings.Contains(lower, "definitely"):
		return 9
	case strings.Contains(lower, "good"), strings.Contains(lower, "solid"):
		return 7
	case strings.Contains(lower, "risky"), strings.Contains(lower, "concern"):
		return 5
	}
	return defaultConfidence
}

// ExtractVerdict is DRAFT when the word appears anywhere in text.
func ExtractVerdict(text string) string {
	if strings.Contains(strings.ToUpper(text), VerdictDraft) {
		return VerdictDraft
	}
	return VerdictPass
}
