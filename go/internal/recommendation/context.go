package recommendation

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/alexmeckes/draftagent/go/internal/analysis"
	"github.com/alexmeckes/draftagent/go/internal/draft"
	"github.com/alexmeckes/draftagent/go/internal/draftsource"
	"github.com/alexmeckes/draftagent/go/internal/models"
)

// BuildContext gathers everything the agents need for one player in one draft.
func (s *Service) BuildContext(ctx context.Context, playerID, draftID, userID string) (*analysis.Context, error) {
	var (
		d       *models.Draft
		picks   []models.DraftPick
		players map[string]models.Player
		user    *models.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d, picks, err = s.data.GetDraftWithPicks(gctx, draftID)
		return err
	})
	g.Go(func() error {
		var err error
		players, err = s.data.GetAllPlayers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		user, err = s.users.GetUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	player, ok := players[playerID]
	if !ok {
		return nil, fmt.Errorf("player %s: %w", playerID, draftsource.ErrPlayerNotFound)
	}

	turn, err := draft.ComputeTurn(d, len(picks))
	if err != nil {
		return nil, err
	}

	team := draftsource.ResolveUserTeam(d, picks, user.SleeperUserID)
	position := 1
	if team.DraftSlot != nil {
		position = *team.DraftSlot
	}

	roster := make([]models.Player, 0, len(team.Picks))
	for _, p := range team.Picks {
		if rp, ok := players[p.PlayerID]; ok {
			roster = append(roster, rp)
		}
	}

	settings := analysis.LeagueSettings{
		Teams:  d.Settings.Teams,
		Rounds: d.Settings.Rounds,
	}
	if league := s.league(ctx, d.LeagueID); league != nil {
		settings.RosterPositions = league.RosterPositions
		settings.PPR = league.IsPPR()
	}

	return &analysis.Context{
		Player:           player,
		CurrentPick:      turn.CurrentPick,
		TotalPicks:       turn.TotalPicks,
		CurrentRound:     turn.CurrentRound,
		DraftPosition:    position,
		UserRoster:       roster,
		AllPicks:         picks,
		AvailablePlayers: AvailablePlayers(players, picks),
		League:           settings,
	}, nil
}

// league is optional context; a failed lookup leaves the defaults in place.
func (s *Service) league(ctx context.Context, leagueID string) *models.League {
	if leagueID == "" {
		return nil
	}
	l, err := s.data.GetLeague(ctx, leagueID)
	if err != nil {
		log.Warn().Err(err).Str("league_id", leagueID).Msg("Analyzing without league settings")
		return nil
	}
	return l
}

// AvailablePlayers returns undrafted skill position players ordered by rank,
// then by id so map iteration order never leaks into results.
func AvailablePlayers(players map[string]models.Player, picks []models.DraftPick) []models.Player {
	drafted := make(map[string]struct{}, len(picks))
	for _, p := range picks {
		drafted[p.PlayerID] = struct{}{}
	}

	out := make([]models.Player, 0, len(players))
	for id, p := range players {
		if _, ok := drafted[id]; ok || !p.IsSkillPosition() {
			continue
		}
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b models.Player) int {
		return cmp.Or(cmp.Compare(a.Rank(), b.Rank()), cmp.Compare(a.PlayerID, b.PlayerID))
	})
	return out
}
