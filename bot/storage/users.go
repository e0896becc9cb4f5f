// Package storage holds the sqlx repositories for the battle schema:
// users, logs, and the read-side leaderboard queries.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ojakoo/springbot/bot/domain"
)

// Users reads and writes the users table.
type Users struct {
	db *sqlx.DB
}

// NewUsers returns a users repository backed by db.
func NewUsers(db *sqlx.DB) *Users {
	return &Users{db: db}
}

// Get fetches one user by id. The second return value is false when the
// user does not exist.
func (r *Users) Get(ctx context.Context, id int64) (domain.User, bool, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		`SELECT id, user_name, guild FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, fmt.Errorf("select user %d: %w", id, err)
	}
	return user, true, nil
}

// InsertIfAbsent creates the user row. A conflicting id is a no-op so
// repeated /start commands never error.
func (r *Users) InsertIfAbsent(ctx context.Context, user domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, user_name, guild)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO NOTHING`,
		user.ID, user.Name, user.Guild)
	if err != nil {
		return fmt.Errorf("insert user %d: %w", user.ID, err)
	}
	return nil
}

// AssignGuild writes the guild exactly once. Rows with a guild already
// set are left untouched, which makes double button presses no-ops.
func (r *Users) AssignGuild(ctx context.Context, id int64, guild domain.Guild) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET guild = $2 WHERE id = $1 AND guild IS NULL`,
		id, guild)
	if err != nil {
		return fmt.Errorf("assign guild for user %d: %w", id, err)
	}
	return nil
}
