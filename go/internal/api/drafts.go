package api

import (
	"cmp"
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/alexmeckes/draftagent/go/internal/analysis"
	"github.com/alexmeckes/draftagent/go/internal/draft/syncer"
	"github.com/alexmeckes/draftagent/go/internal/draftsource"
	"github.com/alexmeckes/draftagent/go/internal/models"
)

// DraftSource is the remote draft data the draft routes read.
type DraftSource interface {
	GetDraftWithPicks(ctx context.Context, draftID string) (*models.Draft, []models.DraftPick, error)
	GetDraftPicks(ctx context.Context, draftID string) ([]models.DraftPick, error)
	GetAllPlayers(ctx context.Context) (map[string]models.Player, error)
	GetActiveDraftsForUser(ctx context.Context, sleeperUserID string) ([]models.Draft, error)
}

// DraftSyncer controls background polling of drafts.
type DraftSyncer interface {
	StartSync(ctx context.Context, draftID string, interval time.Duration)
	StopSync(draftID string)
	GetDraftState(ctx context.Context, draftID string) (*syncer.DraftState, error)
}

// Recommender produces a draft recommendation for one player.
type Recommender interface {
	AnalyzePlayer(ctx context.Context, playerID, draftID, userID string) (*analysis.Synthesis, error)
}

type draftDetailsResponse struct {
	Draft    *models.Draft         `json:"draft"`
	Picks    []models.DraftPick    `json:"picks"`
	UserTeam *draftsource.UserTeam `json:"userTeam"`
	Players  []models.Player       `json:"players"`
}

type analyzePlayerResponse struct {
	PlayerID string              `json:"playerId"`
	Analysis *analysis.Synthesis `json:"analysis"`
}

// DraftsHandler handles HTTP requests under /api/drafts
type DraftsHandler struct {
	source      DraftSource
	users       UsersApp
	syncer      DraftSyncer
	recommender Recommender
}

func NewDraftsHandler(source DraftSource, users UsersApp, s DraftSyncer, rec Recommender) *DraftsHandler {
	return &DraftsHandler{
		source:      source,
		users:       users,
		syncer:      s,
		recommender: rec,
	}
}

// HandleActiveDrafts handles GET /api/drafts/active
func (h *DraftsHandler) HandleActiveDrafts(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		writeError(w, r, err, "Failed to get active drafts")
		return
	}
	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, "Failed to get active drafts")
		return
	}

	drafts, err := h.source.GetActiveDraftsForUser(r.Context(), user.SleeperUserID)
	if err != nil {
		writeError(w, r, err, "Failed to get active drafts")
		return
	}
	if drafts == nil {
		drafts = []models.Draft{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"drafts": drafts})
}

// HandleDraftDetails handles GET /api/drafts/{draftId}. Only draftable players
// are sent, best rank first.
func (h *DraftsHandler) HandleDraftDetails(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		writeError(w, r, err, "Failed to get draft details")
		return
	}
	draftID := r.PathValue("draftId")

	d, picks, err := h.source.GetDraftWithPicks(r.Context(), draftID)
	if err != nil {
		writeError(w, r, err, "Failed to get draft details")
		return
	}
	catalog, err := h.source.GetAllPlayers(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to get draft details")
		return
	}

	var team *draftsource.UserTeam
	if user, err := h.users.GetUser(r.Context(), userID); err == nil {
		team = draftsource.ResolveUserTeam(d, picks, user.SleeperUserID)
	} else {
		log.Debug().Err(err).Str("user_id", userID).Msg("draft details without user team")
	}

	players := make([]models.Player, 0, len(catalog))
	for _, p := range catalog {
		if p.IsDraftable() {
			players = append(players, p)
		}
	}
	slices.SortFunc(players, func(a, b models.Player) int {
		return cmp.Or(cmp.Compare(a.Rank(), b.Rank()), cmp.Compare(a.PlayerID, b.PlayerID))
	})

	writeJSON(w, http.StatusOK, draftDetailsResponse{
		Draft:    d,
		Picks:    picks,
		UserTeam: team,
		Players:  players,
	})
}

// HandleDraftPicks handles GET /api/drafts/{draftId}/picks
func (h *DraftsHandler) HandleDraftPicks(w http.ResponseWriter, r *http.Request) {
	picks, err := h.source.GetDraftPicks(r.Context(), r.PathValue("draftId"))
	if err != nil {
		writeError(w, r, err, "Failed to get draft picks")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"picks": picks})
}

// HandleDraftState handles GET /api/drafts/{draftId}/state
func (h *DraftsHandler) HandleDraftState(w http.ResponseWriter, r *http.Request) {
	state, err := h.syncer.GetDraftState(r.Context(), r.PathValue("draftId"))
	if err != nil {
		writeError(w, r, err, "Failed to get draft state")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// HandleStartSync handles POST /api/drafts/{draftId}/start-sync
func (h *DraftsHandler) HandleStartSync(w http.ResponseWriter, r *http.Request) {
	if _, err := requireUserID(r); err != nil {
		writeError(w, r, err, "Failed to start draft sync")
		return
	}
	var req struct {
		PollIntervalMs int `json:"pollIntervalMs"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err, "Failed to start draft sync")
		return
	}

	h.syncer.StartSync(r.Context(), r.PathValue("draftId"), time.Duration(req.PollIntervalMs)*time.Millisecond)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Draft sync started"})
}

// HandleStopSync handles POST /api/drafts/{draftId}/stop-sync
func (h *DraftsHandler) HandleStopSync(w http.ResponseWriter, r *http.Request) {
	h.syncer.StopSync(r.PathValue("draftId"))
	writeJSON(w, http.StatusOK, messageResponse{Message: "Draft sync stopped"})
}

// HandleAnalyzePlayer handles POST /api/drafts/{draftId}/analyze-player
func (h *DraftsHandler) HandleAnalyzePlayer(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		writeError(w, r, err, "Failed to analyze player")
		return
	}
	var req struct {
		PlayerID string `json:"playerId"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err, "Failed to analyze player")
		return
	}

	result, err := h.recommender.AnalyzePlayer(r.Context(), req.PlayerID, r.PathValue("draftId"), userID)
	if err != nil {
		writeError(w, r, err, "Failed to analyze player")
		return
	}
	writeJSON(w, http.StatusOK, analyzePlayerResponse{PlayerID: req.PlayerID, Analysis: result})
}

func (h *DraftsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/drafts/active", h.HandleActiveDrafts)
	mux.HandleFunc("GET /api/drafts/{draftId}", h.HandleDraftDetails)
	mux.HandleFunc("GET /api/drafts/{draftId}/picks", h.HandleDraftPicks)
	mux.HandleFunc("GET /api/drafts/{draftId}/state", h.HandleDraftState)
	mux.HandleFunc("POST /api/drafts/{draftId}/start-sync", h.HandleStartSync)
	mux.HandleFunc("POST /api/drafts/{draftId}/stop-sync", h.HandleStopSync)
	mux.HandleFunc("POST /api/drafts/{draftId}/analyze-player", h.HandleAnalyzePlayer)
}
