package analysis

import (
	"github.com/alexmeckes/draftagent/go/internal/models"
)

// LeagueSettings is the slice of draft and league configuration the agents read.
type LeagueSettings struct {
	Teams           int      `json:"teams"`
	Rounds          int      `json:"rounds"`
	RosterPositions []string `json:"roster_positions,omitempty"`
	PPR             bool     `json:"ppr"`
}

// Context is assembled once per request and shared by every agent. Agents
// must treat it, and every slice it holds, as read-only.
type Context struct {
	Player           models.Player      `json:"player"`
	CurrentPick      int                `json:"currentPick"`
	TotalPicks       int                `json:"totalPicks"`
	CurrentRound     int                `json:"currentRound"`
	DraftPosition    int                `json:"draftPosition"`
	UserRoster       []models.Player    `json:"userRoster"`
	AllPicks         []models.DraftPick `json:"allPicks"`
	AvailablePlayers []models.Player    `json:"availablePlayers"`
	League           LeagueSettings     `json:"leagueSettings"`
}

// Snapshot is the small part of a Context worth persisting next to a result.
type Snapshot struct {
	CurrentPick   int `json:"currentPick"`
	CurrentRound  int `json:"currentRound"`
	DraftPosition int `json:"draftPosition"`
}

func (c *Context) Snapshot() Snapshot {
	return Snapshot{
		CurrentPick:   c.CurrentPick,
		CurrentRound:  c.CurrentRound,
		DraftPosition: c.DraftPosition,
	}
}

func (c *Context) playerLabel() string {
	return c.Player.FullName() + " (" + c.Player.Position + ", " + c.Player.Team + ")"
}
