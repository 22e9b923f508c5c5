package main

import (
	"database/sql"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/alexmeckes/draftagent/go/clients/anthropic_client"
	"github.com/alexmeckes/draftagent/go/clients/sleeper_client"
	"github.com/alexmeckes/draftagent/go/internal/analysis"
	"github.com/alexmeckes/draftagent/go/internal/api"
	"github.com/alexmeckes/draftagent/go/internal/db"
	"github.com/alexmeckes/draftagent/go/internal/draft/gateway"
	"github.com/alexmeckes/draftagent/go/internal/draft/syncer"
	"github.com/alexmeckes/draftagent/go/internal/draftsource"
	"github.com/alexmeckes/draftagent/go/internal/health"
	"github.com/alexmeckes/draftagent/go/internal/recommendation"
	"github.com/alexmeckes/draftagent/go/internal/sessions"
	"github.com/alexmeckes/draftagent/go/internal/users"
)

type Services struct {
	Gateway *gateway.Service
	Syncer  *syncer.Syncer
	Health  *health.Checker

	Auth    *api.AuthHandler
	Drafts  *api.DraftsHandler
	Players *api.PlayersHandler
}

func setupServices(database *sql.DB, dialect db.Dialect, config *Config, gw *gateway.Service, startedAt time.Time) *Services {
	// Wire up dependency injection chain
	// Clients → Source → App layer → Handlers
	clock := clockwork.NewRealClock()
	queries := db.New(database, dialect)

	// Remote draft source
	sleeper := sleeper_client.NewSleeperClient(getEnv("SLEEPER_BASE_URL", sleeper_client.BaseURL))
	source := draftsource.New(sleeper,
		draftsource.WithClock(clock),
		draftsource.WithCatalogTTL(config.Catalog.TTL),
		draftsource.WithSport(getEnv("SLEEPER_SPORT", sleeper_client.SportNFL)),
	)

	// Users
	userRepo := users.NewRepository(queries)
	userApp := users.NewApp(userRepo, source, clock)

	// Syncer
	sessionApp := sessions.NewApp(database, queries, clock)
	draftSyncer := syncer.New(source, gw.Broadcaster(),
		syncer.WithClock(clock),
		syncer.WithSessionRecorder(sessionApp),
		syncer.WithDefaultInterval(config.Sync.PollInterval),
		syncer.WithFetchTimeout(config.Sync.FetchTimeout),
	)

	// Analysis
	apiKey := getEnv("ANTHROPIC_API_KEY", getEnv("CLAUDE_API_KEY", ""))
	scorer := anthropic_client.NewAnthropicClient(getEnv("ANTHROPIC_BASE_URL", anthropic_client.BaseURL), apiKey, config.Scorer.Timeout)
	strategist := analysis.NewDefaultStrategist(scorer, config.Analysis)
	cache := recommendation.NewCache(queries, clock, config.Cache.TTL)
	recommender := recommendation.NewService(source, userApp, strategist, cache,
		recommendation.WithAnalysisTimeout(config.Scorer.AnalysisTimeout),
	)

	return &Services{
		Gateway: gw,
		Syncer:  draftSyncer,
		Health:  health.NewChecker(database, gw, draftSyncer, startedAt),
		Auth:    api.NewAuthHandler(userApp),
		Drafts:  api.NewDraftsHandler(source, userApp, draftSyncer, recommender),
		Players: api.NewPlayersHandler(source),
	}
}
