// Package sessions keeps a per user snapshot of each draft the syncer follows.
package sessions

import (
	"context"
	"fmt"
	"slices"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/alexmeckes/draftagent/go/internal/db"
	"github.com/alexmeckes/draftagent/go/internal/models"
	"github.com/alexmeckes/draftagent/go/internal/sqlutil"
)

// App records draft snapshots for every local user seated in a draft.
type App struct {
	conn    sqlutil.TxBeginner
	queries *db.Queries
	clock   clockwork.Clock
}

func NewApp(conn sqlutil.TxBeginner, queries *db.Queries, clock clockwork.Clock) *App {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &App{conn: conn, queries: queries, clock: clock}
}

// snapshot is what draft_data holds.
type snapshot struct {
	Draft     *models.Draft `json:"draft"`
	PickCount int           `json:"pick_count"`
}

// RecordDraft upserts a session row for each known user whose sleeper id
// appears in the draft's slot mapping or draft order.
func (a *App) RecordDraft(ctx context.Context, d *models.Draft, picks []models.DraftPick) error {
	ids := seatedSleeperIDs(d)
	if len(ids) == 0 {
		return nil
	}

	data, err := sqlutil.ToNullRawMessage(snapshot{Draft: d, PickCount: len(picks)})
	if err != nil {
		return fmt.Errorf("failed to encode draft snapshot: %w", err)
	}
	now := sqlutil.ToUnixMillis(a.clock.Now())

	recorded := 0
	err = sqlutil.Run(ctx, a.conn, a.queries.WithTx, func(q *db.Queries) error {
		users, err := q.ListUsersBySleeperIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to list seated users: %w", err)
		}
		for _, u := range users {
			if err := q.UpsertDraftSession(ctx, db.UpsertDraftSessionParams{
				UserID:       u.ID,
				DraftID:      d.ID,
				LeagueID:     d.LeagueID,
				Status:       string(d.Status),
				DraftData:    data,
				LastSyncedAt: now,
			}); err != nil {
				return fmt.Errorf("failed to upsert session for user %s: %w", u.ID, err)
			}
		}
		recorded = len(users)
		return nil
	})
	if err != nil {
		return err
	}

	log.Debug().Str("draft_id", d.ID).Int("sessions", recorded).Msg("Recorded draft sessions")
	return nil
}

// ListForUser returns the user's sessions, most recently synced first.
func (a *App) ListForUser(ctx context.Context, user *models.User) ([]models.DraftSession, error) {
	rows, err := a.queries.ListDraftSessionsByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list draft sessions: %w", err)
	}
	out := make([]models.DraftSession, 0, len(rows))
	for _, r := range rows {
		out = append(out, toModel(r))
	}
	return out, nil
}

// Get returns one session. The error wraps sql.ErrNoRows when the user never followed the draft.
func (a *App) Get(ctx context.Context, user *models.User, draftID string) (*models.DraftSession, error) {
	row, err := a.queries.GetDraftSession(ctx, user.ID, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft session: %w", err)
	}
	s := toModel(row)
	return &s, nil
}

func toModel(r db.DraftSession) models.DraftSession {
	return models.DraftSession{
		UserID:       r.UserID,
		DraftID:      r.DraftID,
		LeagueID:     r.LeagueID,
		Status:       models.DraftStatus(r.Status),
		DraftData:    sqlutil.FromNullRawMessage(r.DraftData),
		LastSyncedAt: sqlutil.FromUnixMillis(r.LastSyncedAt),
	}
}

func seatedSleeperIDs(d *models.Draft) []string {
	seen := make(map[string]struct{}, len(d.SlotToRosterID)+len(d.DraftOrder))
	for _, id := range d.SlotToRosterID {
		if s := id.String(); s != "" {
			seen[s] = struct{}{}
		}
	}
	for id := range d.DraftOrder {
		seen[id] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
