package analysis

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexmeckes/draftagent/go/internal/models"
)

func testContext() *Context {
	return &Context{
		Player:        player("wr1", "WR", 40),
		CurrentPick:   23,
		TotalPicks:    180,
		CurrentRound:  2,
		DraftPosition: 3,
		UserRoster:    []models.Player{player("rb1", "RB", 3)},
		AvailablePlayers: []models.Player{
			player("wr1", "WR", 40),
			player("wr2", "WR", 0),
			player("wr3", "WR", 45),
			player("wr4", "WR", 41),
			player("wr5", "WR", 90),
			player("wr6", "WR", 120),
			player("wr7", "WR", 300),
			player("qb1", "QB", 30),
		},
		League: LeagueSettings{
			Teams:           12,
			Rounds:          15,
			RosterPositions: []string{"QB", "RB", "WR", "WR", "WR", "TE", "FLEX", "BN"},
			PPR:             true,
		},
	}
}

// scriptedNarrator answers each system prompt with a canned reply.
func scriptedNarrator(replies map[string]string, calls *atomic.Int32) Narrator {
	return func(_ context.Context, system, _ string) (string, error) {
		calls.Add(1)
		for key, reply := range replies {
			if strings.Contains(system, key) {
				return reply, nil
			}
		}
		return "", errors.New("no reply scripted")
	}
}

var agentReplies = map[string]string{
	"value analysis":      `{"analysis":"good value","valueScore":8,"recommendation":"BUY","adpDifferential":5}`,
	"roster construction": `{"analysis":"fills WR","needScore":7,"synergyScore":6,"criticalNeeds":["WR"],"byeWeekConflicts":[]}`,
	"position scarcity":   `{"analysis":"deep position","scarcityScore":4,"urgency":"LOW","tierDropoff":2,"alternativesCount":6}`,
	"risk assessment":     `{"analysis":"stable","riskScore":3,"confidence":"HIGH","primaryConcerns":["age"],"upsideVariance":2}`,
}

func newTestStrategist(synthesis string, calls *atomic.Int32) *Strategist {
	invoke := NewInvoker(scriptedNarrator(agentReplies, calls))
	narrate := func(ctx context.Context, system, prompt string) (string, error) {
		calls.Add(1)
		return synthesis, nil
	}
	return NewStrategist(narrate,
		NewValueAgent(invoke),
		NewCompositionAgent(invoke, nil),
		NewScarcityAgent(invoke, nil),
		NewRiskAgent(invoke),
	)
}

func TestStrategistSynthesizes(t *testing.T) {
	var calls atomic.Int32
	s := newTestStrategist("DRAFT him. Confidence: 8/10. Solid WR2.", &calls)

	out, err := s.Analyze(context.Background(), testContext())
	require.NoError(t, err)

	assert.Equal(t, int32(5), calls.Load())
	assert.Equal(t, VerdictDraft, out.Verdict)
	assert.Equal(t, 8, out.Confidence)
	assert.Equal(t, 8.0, out.Agents.Value.ValueScore)
	assert.Equal(t, []string{"WR"}, out.Agents.TeamComposition.CriticalNeeds)
	assert.Equal(t, "LOW", out.Agents.Scarcity.Urgency)
	assert.Equal(t, "HIGH", out.Agents.Risk.Confidence)

	require.Len(t, out.Alternatives, 3)
	assert.Equal(t, "wr4", out.Alternatives[0].PlayerID)
	assert.Equal(t, "wr3", out.Alternatives[1].PlayerID)
	assert.Equal(t, "wr5", out.Alternatives[2].PlayerID)
}

func TestStrategistFailsWhenAnyAgentFails(t *testing.T) {
	replies := map[string]string{}
	for k, v := range agentReplies {
		replies[k] = v
	}
	replies["risk assessment"] = "I cannot assess this player."

	var calls atomic.Int32
	invoke := NewInvoker(scriptedNarrator(replies, &calls))
	synthCalled := false
	narrate := func(context.Context, string, string) (string, error) {
		synthCalled = true
		return "DRAFT", nil
	}
	s := NewStrategist(narrate,
		NewValueAgent(invoke),
		NewCompositionAgent(invoke, nil),
		NewScarcityAgent(invoke, nil),
		NewRiskAgent(invoke),
	)

	out, err := s.Analyze(context.Background(), testContext())
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Contains(t, err.Error(), "Risk Assessment Agent")
	assert.False(t, synthCalled)
}

func TestStrategistDoesNotMutateContext(t *testing.T) {
	var calls atomic.Int32
	s := newTestStrategist("PASS", &calls)
	c := testContext()
	before := testContext()

	_, err := s.Analyze(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, before, c)
}

func TestFindAlternatives(t *testing.T) {
	c := testContext()

	alts := FindAlternatives(c.Player, c.AvailablePlayers, 5)
	ids := make([]string, 0, len(alts))
	for _, a := range alts {
		ids = append(ids, a.PlayerID)
	}
	assert.Equal(t, []string{"wr4", "wr3", "wr5", "wr6", "wr7"}, ids)

	alts = FindAlternatives(c.Player, c.AvailablePlayers, 10)
	require.Len(t, alts, 6)
	assert.Equal(t, "wr2", alts[5].PlayerID)
	assert.Equal(t, models.MissingRank, alts[5].Rank)

	assert.Empty(t, FindAlternatives(player("k1", "K", 1), c.AvailablePlayers, 5))
}

func TestExtractConfidence(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"Confidence: 8/10", 8},
		{"my confidence 12", 10},
		{"CONFIDENCE:0", 1},
		{"I strongly recommend it", 9},
		{"Definitely a pick", 9},
		{"A solid choice", 7},
		{"Good value here", 7},
		{"This is risky", 5},
		{"Some concern about health", 5},
		{"Take him", 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractConfidence(tt.text), tt.text)
	}
}

func TestExtractVerdict(t *testing.T) {
	assert.Equal(t, VerdictDraft, ExtractVerdict("You should draft him now"))
	assert.Equal(t, VerdictDraft, ExtractVerdict("DRAFT"))
	assert.Equal(t, VerdictPass, ExtractVerdict("Pass on him, take a RB"))
}
