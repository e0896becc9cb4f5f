package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ojakoo/springbot/bot/domain"
)

// GuildSportTotal is one aggregation row: total kilometers and entry
// count for a guild/sport pair.
type GuildSportTotal struct {
	Guild    domain.Guild `db:"guild"`
	Sport    domain.Sport `db:"sport"`
	Total    float64      `db:"total"`
	Entries  int          `db:"entries"`
}

// SportTotal is one per-sport total for a single user.
type SportTotal struct {
	Sport domain.Sport `db:"sport"`
	Total float64      `db:"total"`
}

// Contributor is a leaderboard row.
type Contributor struct {
	UserName string  `db:"user_name"`
	Total    float64 `db:"total"`
}

// Stats runs the read-side aggregation queries. These are stateless
// transforms over the logs table; no session state is involved.
type Stats struct {
	db *sqlx.DB
}

// NewStats returns a stats repository backed by db.
func NewStats(db *sqlx.DB) *Stats {
	return &Stats{db: db}
}

// TotalsBySport sums distances per guild and sport over all time.
func (r *Stats) TotalsBySport(ctx context.Context) ([]GuildSportTotal, error) {
	var rows []GuildSportTotal
	err := r.db.SelectContext(ctx, &rows,
		`SELECT guild, sport,
		        COALESCE(SUM(distance), 0) AS total,
		        COUNT(*)::int AS entries
		   FROM logs
		  GROUP BY guild, sport`)
	if err != nil {
		return nil, fmt.Errorf("totals by sport: %w", err)
	}
	return rows, nil
}

// TotalsBySportBetween sums distances per guild and sport for entries
// created in [from, to).
func (r *Stats) TotalsBySportBetween(ctx context.Context, from, to time.Time) ([]GuildSportTotal, error) {
	var rows []GuildSportTotal
	err := r.db.SelectContext(ctx, &rows,
		`SELECT guild, sport,
		        COALESCE(SUM(distance), 0) AS total,
		        COUNT(*)::int AS entries
		   FROM logs
		  WHERE created_at >= $1 AND created_at < $2
		  GROUP BY guild, sport`,
		from, to)
	if err != nil {
		return nil, fmt.Errorf("totals by sport between: %w", err)
	}
	return rows, nil
}

// UserTotals sums one user's distances per sport.
func (r *Stats) UserTotals(ctx context.Context, userID int64) ([]SportTotal, error) {
	var rows []SportTotal
	err := r.db.SelectContext(ctx, &rows,
		`SELECT sport, COALESCE(SUM(distance), 0) AS total
		   FROM logs
		  WHERE user_id = $1
		  GROUP BY sport`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("user totals for %d: %w", userID, err)
	}
	return rows, nil
}

// TopContributors lists the guild's best contributors for entries
// created in [from, to), highest total first.
func (r *Stats) TopContributors(ctx context.Context, guild domain.Guild, from, to time.Time, limit int) ([]Contributor, error) {
	var rows []Contributor
	err := r.db.SelectContext(ctx, &rows,
		`SELECT users.user_name, SUM(logs.distance) AS total
		   FROM logs
		   JOIN users ON logs.user_id = users.id
		  WHERE logs.guild = $1
		    AND logs.created_at >= $2 AND logs.created_at < $3
		  GROUP BY users.id, users.user_name
		  ORDER BY total DESC
		  LIMIT $4`,
		guild, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("top contributors for %s: %w", guild, err)
	}
	return rows, nil
}

// TopContributorsAllTime lists the guild's best contributors over all
// time, highest total first.
func (r *Stats) TopContributorsAllTime(ctx context.Context, guild domain.Guild, limit int) ([]Contributor, error) {
	var rows []Contributor
	err := r.db.SelectContext(ctx, &rows,
		`SELECT users.user_name, SUM(logs.distance) AS total
		   FROM logs
		   JOIN users ON logs.user_id = users.id
		  WHERE logs.guild = $1
		  GROUP BY users.id, users.user_name
		  ORDER BY total DESC
		  LIMIT $2`,
		guild, limit)
	if err != nil {
		return nil, fmt.Errorf("all-time top contributors for %s: %w", guild, err)
	}
	return rows, nil
}
