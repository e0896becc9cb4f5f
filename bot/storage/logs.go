package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ojakoo/springbot/bot/domain"
)

// Logs appends to the logs table. Entries are insert-only; nothing in
// the bot updates or deletes them.
type Logs struct {
	db *sqlx.DB
}

// NewLogs returns a logs repository backed by db.
func NewLogs(db *sqlx.DB) *Logs {
	return &Logs{db: db}
}

// Insert persists one completed activity submission.
func (r *Logs) Insert(ctx context.Context, entry domain.LogEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO logs (user_id, guild, sport, distance)
		 VALUES ($1, $2, $3, $4)`,
		entry.UserID, entry.Guild, entry.Sport, entry.Distance)
	if err != nil {
		return fmt.Errorf("insert log for user %d: %w", entry.UserID, err)
	}
	return nil
}
