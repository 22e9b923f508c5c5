package models

import "slices"

// MissingRank is used in place of an absent search rank when ordering players.
const MissingRank = 999

// Player represents an entry in the remote source's player catalog.
type Player struct {
	PlayerID         string   `json:"player_id"`
	FirstName        string   `json:"first_name"`
	LastName         string   `json:"last_name"`
	Team             string   `json:"team"`
	Position         string   `json:"position"`
	Age              int      `json:"age,omitempty"`
	YearsExp         int      `json:"years_exp"`
	Status           string   `json:"status"`
	InjuryStatus     string   `json:"injury_status,omitempty"`
	InjuryBodyPart   string   `json:"injury_body_part,omitempty"`
	SearchFullName   string   `json:"search_full_name,omitempty"`
	SearchRank       int      `json:"search_rank,omitempty"`
	FantasyPositions []string `json:"fantasy_positions,omitempty"`
}

// FullName joins first and last name.
func (p *Player) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Rank returns the search rank, substituting MissingRank when absent.
func (p *Player) Rank() int {
	if p.SearchRank <= 0 {
		return MissingRank
	}
	return p.SearchRank
}

// IsDraftable reports whether the player is an active, fantasy relevant, ranked player.
func (p *Player) IsDraftable() bool {
	return p.Status == "Active" && len(p.FantasyPositions) > 0 && p.SearchRank < 5000
}

// SkillPositions are the positions considered by the analysis pipeline.
var SkillPositions = []string{"QB", "RB", "WR", "TE"}

// IsSkillPosition reports whether the player plays QB, RB, WR or TE.
func (p *Player) IsSkillPosition() bool {
	return slices.Contains(SkillPositions, p.Position)
}
