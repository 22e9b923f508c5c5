package draftsource

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/alexmeckes/draftagent/go/clients/sleeper_client"
	"github.com/alexmeckes/draftagent/go/internal/models"
)

var (
	ErrDraftNotFound  = errors.New("draft not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrUserNotFound   = errors.New("sleeper user not found")
	ErrLeagueNotFound = errors.New("league not found")
)

// DefaultCatalogTTL bounds how long the player catalog is served from memory.
const DefaultCatalogTTL = 24 * time.Hour

// SleeperAPI is what the source needs from the remote HTTP client.
type SleeperAPI interface {
	GetUser(ctx context.Context, usernameOrID string) (*models.SleeperUser, error)
	GetUserDrafts(ctx context.Context, userID, sport, season string) ([]models.Draft, error)
	GetLeague(ctx context.Context, leagueID string) (*models.League, error)
	GetDraft(ctx context.Context, draftID string) (*models.Draft, error)
	GetDraftPicks(ctx context.Context, draftID string) ([]models.DraftPick, error)
	GetAllPlayers(ctx context.Context, sport string) (map[string]models.Player, error)
	GetTrendingPlayers(ctx context.Context, sport, trendType string) ([]models.TrendingPlayer, error)
}

// UserTeam is a participant's seat in a draft. RosterID and DraftSlot are nil
// when the user has no seat.
type UserTeam struct {
	RosterID  *string            `json:"rosterId"`
	DraftSlot *int               `json:"draftSlot"`
	Picks     []models.DraftPick `json:"picks"`
}

// Source is a read-only accessor over the remote draft provider. Only the
// player catalog is cached; everything else is a pass-through read.
type Source struct {
	api        SleeperAPI
	clock      clockwork.Clock
	sport      string
	catalogTTL time.Duration

	catalogMu sync.Mutex
	players   map[string]models.Player
	fetchedAt time.Time
}

type Option func(*Source)

func WithClock(clock clockwork.Clock) Option {
	return func(s *Source) { s.clock = clock }
}

func WithCatalogTTL(ttl time.Duration) Option {
	return func(s *Source) {
		if ttl > 0 {
			s.catalogTTL = ttl
		}
	}
}

func WithSport(sport string) Option {
	return func(s *Source) {
		if sport != "" {
			s.sport = sport
		}
	}
}

func New(api SleeperAPI, opts ...Option) *Source {
	s := &Source{
		api:        api,
		clock:      clockwork.NewRealClock(),
		sport:      sleeper_client.SportNFL,
		catalogTTL: DefaultCatalogTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func mapNotFound(err error, sentinel error, id string) error {
	if errors.Is(err, sleeper_client.ErrNotFound) {
		return fmt.Errorf("%s: %w", id, sentinel)
	}
	return err
}

func (s *Source) GetDraft(ctx context.Context, draftID string) (*models.Draft, error) {
	d, err := s.api.GetDraft(ctx, draftID)
	if err != nil {
		return nil, mapNotFound(err, ErrDraftNotFound, draftID)
	}
	return d, nil
}

// GetDraftPicks returns the picks ordered by pick number.
func (s *Source) GetDraftPicks(ctx context.Context, draftID string) ([]models.DraftPick, error) {
	picks, err := s.api.GetDraftPicks(ctx, draftID)
	if err != nil {
		return nil, mapNotFound(err, ErrDraftNotFound, draftID)
	}
	slices.SortStableFunc(picks, func(a, b models.DraftPick) int {
		return a.PickNumber - b.PickNumber
	})
	return picks, nil
}

// GetDraftWithPicks fetches draft metadata and picks concurrently.
func (s *Source) GetDraftWithPicks(ctx context.Context, draftID string) (*models.Draft, []models.DraftPick, error) {
	var (
		d     *models.Draft
		picks []models.DraftPick
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d, err = s.GetDraft(gctx, draftID)
		return err
	})
	g.Go(func() error {
		var err error
		picks, err = s.GetDraftPicks(gctx, draftID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return d, picks, nil
}

func (s *Source) GetUser(ctx context.Context, usernameOrID string) (*models.SleeperUser, error) {
	u, err := s.api.GetUser(ctx, usernameOrID)
	if err != nil {
		return nil, mapNotFound(err, ErrUserNotFound, usernameOrID)
	}
	return u, nil
}

func (s *Source) GetLeague(ctx context.Context, leagueID string) (*models.League, error) {
	l, err := s.api.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, mapNotFound(err, ErrLeagueNotFound, leagueID)
	}
	return l, nil
}

func (s *Source) GetTrendingPlayers(ctx context.Context, trendType string) ([]models.TrendingPlayer, error) {
	return s.api.GetTrendingPlayers(ctx, s.sport, trendType)
}

// GetAllPlayers returns the player catalog keyed by player id. The map is
// shared and must be treated as read-only.
func (s *Source) GetAllPlayers(ctx context.Context) (map[string]models.Player, error) {
	s.catalogMu.Lock()
	defer s.catalogMu.Unlock()

	now := s.clock.Now()
	if len(s.players) > 0 && now.Sub(s.fetchedAt) < s.catalogTTL {
		return s.players, nil
	}

	players, err := s.api.GetAllPlayers(ctx, s.sport)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh player catalog: %w", err)
	}
	s.players = players
	s.fetchedAt = now

	log.Info().Int("players", len(players)).Str("sport", s.sport).Msg("player catalog refreshed")
	return s.players, nil
}

func (s *Source) GetPlayer(ctx context.Context, playerID string) (*models.Player, error) {
	players, err := s.GetAllPlayers(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := players[playerID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", playerID, ErrPlayerNotFound)
	}
	return &p, nil
}

// GetActiveDraftsForUser lists the user's drafts for the current season that
// have not finished.
func (s *Source) GetActiveDraftsForUser(ctx context.Context, sleeperUserID string) ([]models.Draft, error) {
	season := strconv.Itoa(s.clock.Now().Year())
	drafts, err := s.api.GetUserDrafts(ctx, sleeperUserID, s.sport, season)
	if err != nil {
		return nil, mapNotFound(err, ErrUserNotFound, sleeperUserID)
	}

	active := make([]models.Draft, 0, len(drafts))
	for _, d := range drafts {
		if d.Status.IsActive() {
			active = append(active, d)
		}
	}
	log.Debug().
		Str("sleeper_user_id", sleeperUserID).
		Int("drafts", len(drafts)).
		Int("active", len(active)).
		Msg("fetched user drafts")
	return active, nil
}

// GetUserTeamInDraft resolves the user's roster and draft slot. A user with no
// seat yields nil fields rather than an error.
func (s *Source) GetUserTeamInDraft(ctx context.Context, draftID, sleeperUserID string) (*UserTeam, error) {
	d, picks, err := s.GetDraftWithPicks(ctx, draftID)
	if err != nil {
		return nil, err
	}
	return ResolveUserTeam(d, picks, sleeperUserID), nil
}

// ResolveUserTeam scans the slot to roster mapping for the entry owned by the
// user, then falls back to the user keyed draft order.
func ResolveUserTeam(d *models.Draft, picks []models.DraftPick, sleeperUserID string) *UserTeam {
	team := &UserTeam{Picks: []models.DraftPick{}}

	keys := make([]string, 0, len(d.SlotToRosterID))
	for k := range d.SlotToRosterID {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, rosterID := range keys {
		if string(d.SlotToRosterID[rosterID]) != sleeperUserID {
			continue
		}
		id := rosterID
		team.RosterID = &id
		if slot, ok := d.DraftOrder[rosterID]; ok && slot > 0 {
			team.DraftSlot = &slot
		}
		break
	}

	if team.RosterID == nil {
		if slot, ok := d.DraftOrder[sleeperUserID]; ok && slot > 0 {
			team.DraftSlot = &slot
			if roster, ok := d.SlotToRosterID[strconv.Itoa(slot)]; ok && roster != "" {
				id := roster.String()
				team.RosterID = &id
			}
		}
	}

	if team.RosterID != nil {
		for _, p := range picks {
			if string(p.RosterID) == *team.RosterID {
				team.Picks = append(team.Picks, p)
			}
		}
	}
	return team
}
