package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexmeckes/draftagent/go/internal/models"
)

// TrendingSource lists players trending on the remote source.
type TrendingSource interface {
	GetTrendingPlayers(ctx context.Context, trendType string) ([]models.TrendingPlayer, error)
	GetAllPlayers(ctx context.Context) (map[string]models.Player, error)
}

var errInvalidTrendType = errors.New(`type must be "add" or "drop"`)

type trendingEntry struct {
	models.TrendingPlayer
	Player *models.Player `json:"player,omitempty"`
}

type PlayersHandler struct {
	source TrendingSource
}

func NewPlayersHandler(source TrendingSource) *PlayersHandler {
	return &PlayersHandler{source: source}
}

// HandleTrending handles GET /api/players/trending?type=add|drop. Entries are
// joined with the catalog when it is available.
func (h *PlayersHandler) HandleTrending(w http.ResponseWriter, r *http.Request) {
	trendType := r.URL.Query().Get("type")
	if trendType == "" {
		trendType = "add"
	}
	if trendType != "add" && trendType != "drop" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errInvalidTrendType.Error()})
		return
	}

	trending, err := h.source.GetTrendingPlayers(r.Context(), trendType)
	if err != nil {
		writeError(w, r, err, "Failed to get trending players")
		return
	}

	catalog, _ := h.source.GetAllPlayers(r.Context())
	out := make([]trendingEntry, 0, len(trending))
	for _, t := range trending {
		e := trendingEntry{TrendingPlayer: t}
		if p, ok := catalog[t.PlayerID]; ok {
			e.Player = &p
		}
		out = append(out, e)
	}
	writeJSON(w, http.StatusOK, map[string]any{"type": trendType, "players": out})
}

func (h *PlayersHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/players/trending", h.HandleTrending)
}
