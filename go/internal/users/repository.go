package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/alexmeckes/draftagent/go/internal/db"
	"github.com/alexmeckes/draftagent/go/internal/models"
	"github.com/alexmeckes/draftagent/go/internal/sqlutil"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	UpsertUser(ctx context.Context, arg db.UpsertUserParams) (db.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (db.User, error)
	GetUserBySleeperID(ctx context.Context, sleeperUserID string) (db.User, error)
	ListUsersBySleeperIDs(ctx context.Context, sleeperUserIDs []string) ([]db.User, error)
}

// Repository implements user data access operations
type Repository struct {
	queries Querier
}

// NewRepository creates a new users repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// UpsertUser stores the profile under its sleeper id. An existing row keeps its id.
func (r *Repository) UpsertUser(ctx context.Context, u *models.User) (*models.User, error) {
	row, err := r.queries.UpsertUser(ctx, db.UpsertUserParams{
		ID:            u.ID,
		SleeperUserID: u.SleeperUserID,
		Username:      u.Username,
		DisplayName:   sqlutil.ToSqlString(u.DisplayName),
		Avatar:        sqlutil.ToSqlString(u.Avatar),
		Now:           sqlutil.ToUnixMillis(u.UpdatedAt),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return dbUserToModel(row), nil
}

// GetUser retrieves a user by ID
func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row, err := r.queries.GetUser(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return dbUserToModel(row), nil
}

// ListBySleeperIDs returns the local users linked to any of the given sleeper ids.
func (r *Repository) ListBySleeperIDs(ctx context.Context, sleeperUserIDs []string) ([]*models.User, error) {
	rows, err := r.queries.ListUsersBySleeperIDs(ctx, sleeperUserIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	out := make([]*models.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, dbUserToModel(row))
	}
	return out, nil
}

// dbUserToModel converts a database user to domain model
func dbUserToModel(u db.User) *models.User {
	return &models.User{
		ID:            u.ID,
		SleeperUserID: u.SleeperUserID,
		Username:      u.Username,
		DisplayName:   sqlutil.FromSqlString(u.DisplayName, u.Username),
		Avatar:        sqlutil.FromSqlString(u.Avatar, ""),
		CreatedAt:     sqlutil.FromUnixMillis(u.CreatedAt),
		UpdatedAt:     sqlutil.FromUnixMillis(u.UpdatedAt),
	}
}
