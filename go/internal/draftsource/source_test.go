package draftsource

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexmeckes/draftagent/go/clients/sleeper_client"
	"github.com/alexmeckes/draftagent/go/internal/models"
)

type sleeperServer struct {
	*httptest.Server
	playerCalls atomic.Int32
}

func newSleeperServer(t *testing.T) *sleeperServer {
	t.Helper()
	s := &sleeperServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /players/nfl", func(w http.ResponseWriter, r *http.Request) {
		s.playerCalls.Add(1)
		_, _ = w.Write([]byte(`{"4034":{"first_name":"Christian","last_name":"McCaffrey","position":"RB","search_rank":1},"6794":{"player_id":"6794","first_name":"Justin","last_name":"Jefferson","position":"WR","search_rank":2}}`))
	})
	mux.HandleFunc("GET /draft/d1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"draft_id":"d1","type":"snake","status":"drafting","settings":{"teams":2,"rounds":3},"draft_order":{"u1":1,"u2":2},"slot_to_roster_id":{"1":1,"2":2}}`))
	})
	mux.HandleFunc("GET /draft/d1/picks", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"pick_no":2,"roster_id":2,"player_id":"6794","round":1},{"pick_no":1,"roster_id":"1","player_id":"4034","round":1}]`))
	})
	mux.HandleFunc("GET /draft/missing", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	})
	mux.HandleFunc("GET /user/u1/drafts/nfl/2026", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"draft_id":"a","status":"drafting"},{"draft_id":"b","status":"complete"},{"draft_id":"c","status":"pre_draft"},{"draft_id":"d","status":"paused"}]`))
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func TestGetAllPlayersCachesForTTL(t *testing.T) {
	srv := newSleeperServer(t)
	clock := clockwork.NewFakeClock()
	src := New(sleeper_client.NewSleeperClient(srv.URL), WithClock(clock))
	ctx := context.Background()

	players, err := src.GetAllPlayers(ctx)
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "4034", players["4034"].PlayerID, "player id is filled from the catalog key")

	clock.Advance(23 * time.Hour)
	_, err = src.GetAllPlayers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.playerCalls.Load())

	clock.Advance(2 * time.Hour)
	_, err = src.GetAllPlayers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), srv.playerCalls.Load())
}

func TestGetPlayerNotFound(t *testing.T) {
	srv := newSleeperServer(t)
	src := New(sleeper_client.NewSleeperClient(srv.URL))

	_, err := src.GetPlayer(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestGetDraftNullBodyIsNotFound(t *testing.T) {
	srv := newSleeperServer(t)
	src := New(sleeper_client.NewSleeperClient(srv.URL))

	_, err := src.GetDraft(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestGetDraftPicksSortedByPickNumber(t *testing.T) {
	srv := newSleeperServer(t)
	src := New(sleeper_client.NewSleeperClient(srv.URL))

	picks, err := src.GetDraftPicks(context.Background(), "d1")
	require.NoError(t, err)
	require.Len(t, picks, 2)
	assert.Equal(t, 1, picks[0].PickNumber)
	assert.Equal(t, models.FlexString("1"), picks[0].RosterID)
	assert.Equal(t, models.FlexString("2"), picks[1].RosterID)
}

func TestGetActiveDraftsForUserFiltersFinished(t *testing.T) {
	srv := newSleeperServer(t)
	clock := clockwork.NewFakeClockAt(time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC))
	src := New(sleeper_client.NewSleeperClient(srv.URL), WithClock(clock))

	drafts, err := src.GetActiveDraftsForUser(context.Background(), "u1")
	require.NoError(t, err)

	ids := make([]string, 0, len(drafts))
	for _, d := range drafts {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"a", "c", "d"}, ids)
}

func TestGetUserTeamInDraftUsesDraftOrderFallback(t *testing.T) {
	srv := newSleeperServer(t)
	src := New(sleeper_client.NewSleeperClient(srv.URL))

	team, err := src.GetUserTeamInDraft(context.Background(), "d1", "u2")
	require.NoError(t, err)
	require.NotNil(t, team.RosterID)
	require.NotNil(t, team.DraftSlot)
	assert.Equal(t, "2", *team.RosterID)
	assert.Equal(t, 2, *team.DraftSlot)
	require.Len(t, team.Picks, 1)
	assert.Equal(t, "6794", team.Picks[0].PlayerID)
}

func TestResolveUserTeam(t *testing.T) {
	d := &models.Draft{
		DraftOrder:     map[string]int{"7": 3},
		SlotToRosterID: map[string]models.FlexString{"7": "owner-1", "8": "owner-2"},
	}
	picks := []models.DraftPick{{RosterID: "7", PlayerID: "p1"}, {RosterID: "8", PlayerID: "p2"}}

	t.Run("owner found in slot mapping", func(t *testing.T) {
		team := ResolveUserTeam(d, picks, "owner-1")
		require.NotNil(t, team.RosterID)
		assert.Equal(t, "7", *team.RosterID)
		require.NotNil(t, team.DraftSlot)
		assert.Equal(t, 3, *team.DraftSlot)
		assert.Len(t, team.Picks, 1)
	})

	t.Run("owner without assigned slot", func(t *testing.T) {
		team := ResolveUserTeam(d, picks, "owner-2")
		require.NotNil(t, team.RosterID)
		assert.Nil(t, team.DraftSlot)
	})

	t.Run("no seat is not an error", func(t *testing.T) {
		team := ResolveUserTeam(d, picks, "stranger")
		assert.Nil(t, team.RosterID)
		assert.Nil(t, team.DraftSlot)
		assert.Empty(t, team.Picks)
	})
}

type failingAPI struct{ SleeperAPI }

func (failingAPI) GetDraft(context.Context, string) (*models.Draft, error) {
	return nil, fmt.Errorf("boom")
}

func (failingAPI) GetDraftPicks(context.Context, string) ([]models.DraftPick, error) {
	return nil, nil
}

func TestGetDraftWithPicksPropagatesErrors(t *testing.T) {
	_, _, err := New(failingAPI{}).GetDraftWithPicks(context.Background(), "d1")
	assert.EqualError(t, err, "boom")
}
