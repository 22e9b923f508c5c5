// Package recommendation answers "should I draft this player" requests,
// memoizing each synthesis per player, draft, user and hour.
package recommendation

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/alexmeckes/draftagent/go/internal/analysis"
	"github.com/alexmeckes/draftagent/go/internal/effect"
	"github.com/alexmeckes/draftagent/go/internal/models"
)

// DefaultAnalysisTimeout bounds one uncached analysis, scorer calls included.
const DefaultAnalysisTimeout = 90 * time.Second

var ErrPlayerIDRequired = errors.New("player id is required")

// DraftData is the remote draft source as the service uses it.
type DraftData interface {
	GetDraftWithPicks(ctx context.Context, draftID string) (*models.Draft, []models.DraftPick, error)
	GetAllPlayers(ctx context.Context) (map[string]models.Player, error)
	GetLeague(ctx context.Context, leagueID string) (*models.League, error)
}

// UserLookup resolves the requesting local user.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// Analyzer turns a context into a synthesis.
type Analyzer interface {
	Analyze(ctx context.Context, c *analysis.Context) (*analysis.Synthesis, error)
}

type Service struct {
	data     DraftData
	users    UserLookup
	analyzer Analyzer
	cache    *Cache
	timeout  time.Duration

	group singleflight.Group
}

type Option func(*Service)

func WithAnalysisTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func NewService(data DraftData, users UserLookup, analyzer Analyzer, cache *Cache, opts ...Option) *Service {
	s := &Service{
		data:     data,
		users:    users,
		analyzer: analyzer,
		cache:    cache,
		timeout:  DefaultAnalysisTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzePlayer returns the cached synthesis for this hour or computes a new
// one. Concurrent identical requests share one computation, and a computation
// keeps running if the caller goes away. Failed analyses are never cached.
func (s *Service) AnalyzePlayer(ctx context.Context, playerID, draftID, userID string) (*analysis.Synthesis, error) {
	if playerID == "" {
		return nil, ErrPlayerIDRequired
	}

	key := s.cache.Key(playerID, draftID, userID)
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	v, err, shared := s.group.Do(key, func() (any, error) {
		if hit, ok := s.cache.Get(ctx, key); ok {
			log.Debug().Str("player_id", playerID).Str("draft_id", draftID).Msg("Returning cached analysis")
			return hit, nil
		}

		c, err := s.BuildContext(ctx, playerID, draftID, userID)
		if err != nil {
			return nil, err
		}

		log.Info().Str("player_id", playerID).Str("draft_id", draftID).Msg("Running player analysis")
		result, err := s.analyzer.Analyze(ctx, c)
		if err != nil {
			return nil, err
		}

		effect.BestEffort(ctx, "cache analysis", func(ctx context.Context) error {
			return s.cache.Put(ctx, Entry{
				Key:      key,
				PlayerID: playerID,
				DraftID:  draftID,
				UserID:   userID,
				Snapshot: c.Snapshot(),
				Result:   result,
			})
		})
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debug().Str("player_id", playerID).Msg("Shared in-flight analysis")
	}
	return v.(*analysis.Synthesis), nil
}
