package models

// League is the subset of a remote league that the analysis pipeline reads.
type League struct {
	ID              string             `json:"league_id"`
	Name            string             `json:"name"`
	Status          string             `json:"status"`
	Sport           string             `json:"sport"`
	Season          string             `json:"season"`
	TotalRosters    int                `json:"total_rosters"`
	RosterPositions []string           `json:"roster_positions"`
	ScoringSettings map[string]float64 `json:"scoring_settings"`
	DraftID         string             `json:"draft_id"`
}

// IsPPR reports whether receptions score points.
func (l *League) IsPPR() bool {
	if l == nil {
		return false
	}
	return l.ScoringSettings["rec"] > 0
}

// TrendingPlayer is an entry in the remote source's add/drop trending list.
type TrendingPlayer struct {
	PlayerID string `json:"player_id"`
	Count    int    `json:"count"`
}
