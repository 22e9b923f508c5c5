package recommendation

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/alexmeckes/draftagent/go/internal/analysis"
	"github.com/alexmeckes/draftagent/go/internal/db"
	"github.com/alexmeckes/draftagent/go/internal/sqlutil"
)

// DefaultTTL is how long a stored synthesis stays live.
const DefaultTTL = time.Hour

// CacheQuerier defines what the cache needs from the database layer
type CacheQuerier interface {
	UpsertAnalysisCache(ctx context.Context, arg db.UpsertAnalysisCacheParams) error
	GetLiveAnalysisCache(ctx context.Context, id string, now int64) (db.AnalysisCache, error)
}

// Cache memoizes syntheses in the analysis_cache table.
type Cache struct {
	queries CacheQuerier
	clock   clockwork.Clock
	ttl     time.Duration
}

func NewCache(queries CacheQuerier, clock clockwork.Clock, ttl time.Duration) *Cache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{queries: queries, clock: clock, ttl: ttl}
}

// Key buckets a request by the current hour of day, so entries roll over on
// the hour even when their TTL has not passed.
func (c *Cache) Key(playerID, draftID, userID string) string {
	sum := md5.Sum(fmt.Appendf(nil, "%s-%s-%s-%d", playerID, draftID, userID, c.clock.Now().Hour()))
	return hex.EncodeToString(sum[:])
}

// Get returns the live synthesis stored under key. Read failures count as a miss.
func (c *Cache) Get(ctx context.Context, key string) (*analysis.Synthesis, bool) {
	row, err := c.queries.GetLiveAnalysisCache(ctx, key, sqlutil.ToUnixMillis(c.clock.Now()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		log.Warn().Err(err).Str("cache_key", key).Msg("Analysis cache read failed")
		return nil, false
	}

	raw := sqlutil.FromNullRawMessage(row.Result)
	if len(raw) == 0 {
		return nil, false
	}
	var out analysis.Synthesis
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Warn().Err(err).Str("cache_key", key).Msg("Discarding undecodable cache entry")
		return nil, false
	}
	return &out, true
}

// Entry is one synthesis to store.
type Entry struct {
	Key      string
	PlayerID string
	DraftID  string
	UserID   string
	Snapshot analysis.Snapshot
	Result   *analysis.Synthesis
}

// Put stores e with the cache TTL, replacing any entry under the same key.
func (c *Cache) Put(ctx context.Context, e Entry) error {
	snapshot, err := sqlutil.ToNullRawMessage(e.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode draft context: %w", err)
	}
	result, err := sqlutil.ToNullRawMessage(e.Result)
	if err != nil {
		return fmt.Errorf("failed to encode synthesis: %w", err)
	}

	now := c.clock.Now()
	return c.queries.UpsertAnalysisCache(ctx, db.UpsertAnalysisCacheParams{
		ID:           e.Key,
		PlayerID:     e.PlayerID,
		DraftID:      e.DraftID,
		UserID:       e.UserID,
		DraftContext: snapshot,
		Result:       result,
		CreatedAt:    sqlutil.ToUnixMillis(now),
		ExpiresAt:    sqlutil.ToUnixMillis(now.Add(c.ttl)),
	})
}
