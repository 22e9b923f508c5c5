package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

const upsertUser = `
INSERT INTO users (id, sleeper_user_id, username, display_name, avatar, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (sleeper_user_id) DO UPDATE SET
    username = excluded.username,
    display_name = excluded.display_name,
    avatar = excluded.avatar,
    updated_at = excluded.updated_at`

type UpsertUserParams struct {
	ID            uuid.UUID
	SleeperUserID string
	Username      string
	DisplayName   sql.NullString
	Avatar        sql.NullString
	Now           int64
}

// UpsertUser inserts a user or refreshes the profile of the existing row with
// the same sleeper id. The existing row keeps its id.
func (q *Queries) UpsertUser(ctx context.Context, arg UpsertUserParams) (User, error) {
	_, err := q.db.ExecContext(ctx, q.rebind(upsertUser),
		arg.ID,
		arg.SleeperUserID,
		arg.Username,
		arg.DisplayName,
		arg.Avatar,
		arg.Now,
		arg.Now,
	)
	if err != nil {
		return User{}, err
	}
	return q.GetUserBySleeperID(ctx, arg.SleeperUserID)
}

const userColumns = `id, sleeper_user_id, username, display_name, avatar, created_at, updated_at`

const getUser = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

func (q *Queries) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	row := q.db.QueryRowContext(ctx, q.rebind(getUser), id)
	return scanUser(row)
}

const getUserBySleeperID = `SELECT ` + userColumns + ` FROM users WHERE sleeper_user_id = ?`

func (q *Queries) GetUserBySleeperID(ctx context.Context, sleeperUserID string) (User, error) {
	row := q.db.QueryRowContext(ctx, q.rebind(getUserBySleeperID), sleeperUserID)
	return scanUser(row)
}

const listUsersBySleeperIDs = `SELECT ` + userColumns + ` FROM users WHERE sleeper_user_id IN (%s) ORDER BY sleeper_user_id`

func (q *Queries) ListUsersBySleeperIDs(ctx context.Context, sleeperUserIDs []string) ([]User, error) {
	if len(sleeperUserIDs) == 0 {
		return nil, nil
	}
	args := make([]interface{}, len(sleeperUserIDs))
	for i, id := range sleeperUserIDs {
		args[i] = id
	}
	query := q.rebind(sprintfIn(listUsersBySleeperIDs, len(args)))
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []User
	for rows.Next() {
		i, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (User, error) {
	var i User
	err := row.Scan(
		&i.ID,
		&i.SleeperUserID,
		&i.Username,
		&i.DisplayName,
		&i.Avatar,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
