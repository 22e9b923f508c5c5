package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/alexmeckes/draftagent/go/internal/models"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameRequired = errors.New("username is required")
)

// UsersRepository defines what the app layer needs from the repository
type UsersRepository interface {
	UpsertUser(ctx context.Context, u *models.User) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// SleeperUsers looks up accounts on the remote draft source.
type SleeperUsers interface {
	GetUser(ctx context.Context, usernameOrID string) (*models.SleeperUser, error)
}

// App handles users business logic
type App struct {
	repo    UsersRepository
	sleeper SleeperUsers
	clock   clockwork.Clock
}

// NewApp creates a new users App
func NewApp(repo UsersRepository, sleeper SleeperUsers, clock clockwork.Clock) *App {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &App{
		repo:    repo,
		sleeper: sleeper,
		clock:   clock,
	}
}

// ConnectSleeper links a sleeper account to a local user, creating the user
// on first connect and refreshing the profile afterwards.
func (a *App) ConnectSleeper(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	remote, err := a.sleeper.GetUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up sleeper user %s: %w", username, err)
	}

	now := a.clock.Now()
	user, err := a.repo.UpsertUser(ctx, &models.User{
		ID:            uuid.New(),
		SleeperUserID: remote.UserID,
		Username:      remote.Username,
		DisplayName:   remote.DisplayName,
		Avatar:        remote.Avatar,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", user.ID.String()).
		Str("sleeper_user_id", user.SleeperUserID).
		Msg("Connected sleeper account")
	return user, nil
}

// GetUser retrieves a user by its local id. Malformed ids are reported as not found.
func (a *App) GetUser(ctx context.Context, id string) (*models.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return a.repo.GetUser(ctx, uid)
}
