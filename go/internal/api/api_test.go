package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexmeckes/draftagent/go/internal/analysis"
	"github.com/alexmeckes/draftagent/go/internal/draft"
	"github.com/alexmeckes/draftagent/go/internal/draft/syncer"
	"github.com/alexmeckes/draftagent/go/internal/draftsource"
	"github.com/alexmeckes/draftagent/go/internal/models"
	"github.com/alexmeckes/draftagent/go/internal/recommendation"
	"github.com/alexmeckes/draftagent/go/internal/users"
)

var knownUser = &models.User{ID: uuid.MustParse("3c3b8f0e-61a4-4c0e-8d1e-7b2f9a3d4e5f"), SleeperUserID: "s-1", Username: "gridiron"}

type fakeUsers struct{}

func (fakeUsers) ConnectSleeper(_ context.Context, username string) (*models.User, error) {
	switch username {
	case "":
		return nil, users.ErrUsernameRequired
	case "gridiron":
		return knownUser, nil
	}
	return nil, draftsource.ErrUserNotFound
}

func (fakeUsers) GetUser(_ context.Context, id string) (*models.User, error) {
	if id == knownUser.ID.String() {
		return knownUser, nil
	}
	return nil, users.ErrUserNotFound
}

type fakeSource struct{}

var testDraft = &models.Draft{
	ID:         "d-1",
	Type:       models.DraftTypeSnake,
	Status:     models.DraftStatusDrafting,
	Settings:   models.DraftSettings{Teams: 2, Rounds: 2},
	DraftOrder: map[string]int{"s-1": 2},
}

func (fakeSource) GetDraftWithPicks(_ context.Context, id string) (*models.Draft, []models.DraftPick, error) {
	if id != "d-1" {
		return nil, nil, draftsource.ErrDraftNotFound
	}
	return testDraft, []models.DraftPick{{PickNumber: 1, PlayerID: "p1"}}, nil
}

func (s fakeSource) GetDraftPicks(ctx context.Context, id string) ([]models.DraftPick, error) {
	_, picks, err := s.GetDraftWithPicks(ctx, id)
	return picks, err
}

func (fakeSource) GetAllPlayers(context.Context) (map[string]models.Player, error) {
	return map[string]models.Player{
		"p1": {PlayerID: "p1", Position: "RB", Status: "Active", FantasyPositions: []string{"RB"}, SearchRank: 2},
		"p2": {PlayerID: "p2", Position: "WR", Status: "Active", FantasyPositions: []string{"WR"}, SearchRank: 1},
		"p3": {PlayerID: "p3", Position: "WR", Status: "Inactive", FantasyPositions: []string{"WR"}, SearchRank: 3},
	}, nil
}

func (fakeSource) GetActiveDraftsForUser(_ context.Context, sleeperUserID string) ([]models.Draft, error) {
	if sleeperUserID != "s-1" {
		return nil, nil
	}
	return []models.Draft{*testDraft}, nil
}

func (fakeSource) GetTrendingPlayers(_ context.Context, trendType string) ([]models.TrendingPlayer, error) {
	return []models.TrendingPlayer{{PlayerID: "p2", Count: 40}, {PlayerID: "gone", Count: 2}}, nil
}

type fakeSyncer struct {
	mu      sync.Mutex
	started map[string]time.Duration
	stopped []string
}

func (f *fakeSyncer) StartSync(_ context.Context, id string, interval time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started[id] = interval
}

func (f *fakeSyncer) StopSync(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = append(f.stopped, id)
}

func (f *fakeSyncer) GetDraftState(ctx context.Context, id string) (*syncer.DraftState, error) {
	d, picks, err := fakeSource{}.GetDraftWithPicks(ctx, id)
	if err != nil {
		return nil, err
	}
	turn, err := draft.ComputeTurn(d, len(picks))
	if err != nil {
		return nil, err
	}
	return &syncer.DraftState{Draft: d, Picks: picks, Turn: turn}, nil
}

type fakeRecommender struct{}

func (fakeRecommender) AnalyzePlayer(_ context.Context, playerID, draftID, userID string) (*analysis.Synthesis, error) {
	switch {
	case playerID == "":
		return nil, recommendation.ErrPlayerIDRequired
	case playerID == "broken":
		return nil, analysis.ErrMalformedResponse
	case userID != knownUser.ID.String():
		return nil, users.ErrUserNotFound
	}
	return &analysis.Synthesis{Recommendation: "DRAFT", Confidence: 8, Verdict: analysis.VerdictDraft}, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeSyncer) {
	t.Helper()
	s := &fakeSyncer{started: map[string]time.Duration{}}
	mux := http.NewServeMux()
	NewAuthHandler(fakeUsers{}).RegisterRoutes(mux)
	NewDraftsHandler(fakeSource{}, fakeUsers{}, s, fakeRecommender{}).RegisterRoutes(mux)
	NewPlayersHandler(fakeSource{}).RegisterRoutes(mux)
	srv := httptest.NewServer(LogRequests(mux))
	t.Cleanup(srv.Close)
	return srv, s
}

func do(t *testing.T, srv *httptest.Server, method, path, userID, body string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if userID != "" {
		req.Header.Set(UserIDHeader, userID)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestAuthRoutes(t *testing.T) {
	srv, _ := newTestServer(t)
	uid := knownUser.ID.String()

	status, body := do(t, srv, http.MethodPost, "/api/auth/sleeper-connect", "", `{"username":"gridiron"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, uid, body["user"].(map[string]any)["id"])

	status, body = do(t, srv, http.MethodPost, "/api/auth/sleeper-connect", "", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "username is required", body["error"])

	status, _ = do(t, srv, http.MethodPost, "/api/auth/sleeper-connect", "", `{"username":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, srv, http.MethodPost, "/api/auth/sleeper-connect", "", `{"username":`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, srv, http.MethodGet, "/api/auth/session", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = do(t, srv, http.MethodGet, "/api/auth/session", uuid.NewString(), "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = do(t, srv, http.MethodGet, "/api/auth/session", uid, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "gridiron", body["user"].(map[string]any)["username"])

	status, body = do(t, srv, http.MethodPost, "/api/auth/logout", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["message"])
}

func TestDraftRoutes(t *testing.T) {
	srv, s := newTestServer(t)
	uid := knownUser.ID.String()

	status, body := do(t, srv, http.MethodGet, "/api/drafts/active", uid, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["drafts"], 1)

	status, _ = do(t, srv, http.MethodGet, "/api/drafts/active", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = do(t, srv, http.MethodGet, "/api/drafts/active", uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = do(t, srv, http.MethodGet, "/api/drafts/d-1", uid, "")
	assert.Equal(t, http.StatusOK, status)
	players := body["players"].([]any)
	require.Len(t, players, 2)
	assert.Equal(t, "p2", players[0].(map[string]any)["player_id"])
	assert.Equal(t, float64(2), body["userTeam"].(map[string]any)["draftSlot"])

	status, _ = do(t, srv, http.MethodGet, "/api/drafts/missing", uid, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = do(t, srv, http.MethodGet, "/api/drafts/d-1/picks", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["picks"], 1)

	status, body = do(t, srv, http.MethodGet, "/api/drafts/d-1/state", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["currentPick"])
	assert.Equal(t, float64(2), body["currentDraftSlot"])

	status, _ = do(t, srv, http.MethodPost, "/api/drafts/d-1/start-sync", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = do(t, srv, http.MethodPost, "/api/drafts/d-1/start-sync", uid, "")
	assert.Equal(t, http.StatusOK, status)
	status, _ = do(t, srv, http.MethodPost, "/api/drafts/d-2/start-sync", uid, `{"pollIntervalMs":1500}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]time.Duration{"d-1": 0, "d-2": 1500 * time.Millisecond}, s.started)

	status, _ = do(t, srv, http.MethodPost, "/api/drafts/d-1/stop-sync", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"d-1"}, s.stopped)
}

func TestAnalyzePlayerRoute(t *testing.T) {
	srv, _ := newTestServer(t)
	uid := knownUser.ID.String()

	status, body := do(t, srv, http.MethodPost, "/api/drafts/d-1/analyze-player", uid, `{"playerId":"p2"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "p2", body["playerId"])
	assert.Equal(t, "DRAFT", body["analysis"].(map[string]any)["verdict"])

	status, _ = do(t, srv, http.MethodPost, "/api/drafts/d-1/analyze-player", "", `{"playerId":"p2"}`)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = do(t, srv, http.MethodPost, "/api/drafts/d-1/analyze-player", uid, `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "player id is required", body["error"])

	status, body = do(t, srv, http.MethodPost, "/api/drafts/d-1/analyze-player", uid, `{"playerId":"broken"}`)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to analyze player", body["error"])

	status, _ = do(t, srv, http.MethodPost, "/api/drafts/d-1/analyze-player", uuid.NewString(), `{"playerId":"p2"}`)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTrendingRoute(t *testing.T) {
	srv, _ := newTestServer(t)

	status, body := do(t, srv, http.MethodGet, "/api/players/trending", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "add", body["type"])
	players := body["players"].([]any)
	require.Len(t, players, 2)
	assert.NotNil(t, players[0].(map[string]any)["player"])
	assert.Nil(t, players[1].(map[string]any)["player"])

	status, _ = do(t, srv, http.MethodGet, "/api/players/trending?type=drop", "", "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = do(t, srv, http.MethodGet, "/api/players/trending?type=hot", "", "")
	assert.Equal(t, http.StatusBadRequest, status)
}
