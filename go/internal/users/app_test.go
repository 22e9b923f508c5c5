package users

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexmeckes/draftagent/go/internal/db/dbtest"
	"github.com/alexmeckes/draftagent/go/internal/draftsource"
	"github.com/alexmeckes/draftagent/go/internal/models"
)

type fakeSleeper struct {
	users map[string]models.SleeperUser
}

func (f *fakeSleeper) GetUser(_ context.Context, username string) (*models.SleeperUser, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, draftsource.ErrUserNotFound
	}
	return &u, nil
}

func newTestApp(t *testing.T) (*App, *Repository, *clockwork.FakeClock, *fakeSleeper) {
	_, q := dbtest.NewSQLite(t)
	repo := NewRepository(q)
	clock := clockwork.NewFakeClockAt(time.Date(2025, 8, 30, 18, 0, 0, 0, time.UTC))
	sleeper := &fakeSleeper{users: map[string]models.SleeperUser{
		"gridiron": {UserID: "s-100", Username: "gridiron", DisplayName: "Gridiron", Avatar: "abc"},
	}}
	return NewApp(repo, sleeper, clock), repo, clock, sleeper
}

func TestConnectSleeperCreatesThenRefreshes(t *testing.T) {
	app, _, clock, sleeper := newTestApp(t)
	ctx := context.Background()

	first, err := app.ConnectSleeper(ctx, " gridiron ")
	require.NoError(t, err)
	assert.Equal(t, "s-100", first.SleeperUserID)
	assert.Equal(t, "Gridiron", first.DisplayName)

	clock.Advance(time.Hour)
	sleeper.users["gridiron"] = models.SleeperUser{UserID: "s-100", Username: "gridiron", DisplayName: "New Name"}

	second, err := app.ConnectSleeper(ctx, "gridiron")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "New Name", second.DisplayName)
	assert.Empty(t, second.Avatar)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	got, err := app.GetUser(ctx, first.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.DisplayName)
}

func TestConnectSleeperErrors(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	ctx := context.Background()

	_, err := app.ConnectSleeper(ctx, "  ")
	assert.ErrorIs(t, err, ErrUsernameRequired)

	_, err = app.ConnectSleeper(ctx, "nobody")
	assert.ErrorIs(t, err, draftsource.ErrUserNotFound)
}

func TestGetUserNotFound(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	ctx := context.Background()

	_, err := app.GetUser(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = app.GetUser(ctx, "6f1c1f7e-8d6b-4c59-9a0e-2f4b8b7f1d11")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListBySleeperIDs(t *testing.T) {
	app, repo, _, sleeper := newTestApp(t)
	ctx := context.Background()
	sleeper.users["second"] = models.SleeperUser{UserID: "s-200", Username: "second"}

	_, err := app.ConnectSleeper(ctx, "gridiron")
	require.NoError(t, err)
	_, err = app.ConnectSleeper(ctx, "second")
	require.NoError(t, err)

	got, err := repo.ListBySleeperIDs(ctx, []string{"s-200", "s-999"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "second", got[0].Username)
	assert.Equal(t, "second", got[0].DisplayName)
}
