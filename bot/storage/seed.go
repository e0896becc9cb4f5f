package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"log/slog"

	"github.com/ojakoo/springbot/bot/domain"
	"github.com/ojakoo/springbot/core/logger"
)

// Seed loads a small development dataset: a handful of users per guild
// and a few logs so the stats commands return something. All inserts
// tolerate conflicts, so seeding an existing database is harmless.
func Seed(ctx context.Context, db *sqlx.DB) error {
	type seedUser struct {
		id    int64
		name  string
		guild domain.Guild
	}
	users := []seedUser{
		{1, "Aino", domain.GuildSIK},
		{2, "Eero", domain.GuildSIK},
		{3, "Helmi", domain.GuildSIK},
		{4, "Juho", domain.GuildKIK},
		{5, "Kerttu", domain.GuildKIK},
		{6, "Lauri", domain.GuildKIK},
	}
	for _, u := range users {
		_, err := db.ExecContext(ctx,
			`INSERT INTO users (id, user_name, guild)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (id) DO NOTHING`,
			u.id, u.name, u.guild)
		if err != nil {
			return fmt.Errorf("seed user %d: %w", u.id, err)
		}
	}

	var existing int
	if err := db.GetContext(ctx, &existing, `SELECT COUNT(*) FROM logs`); err != nil {
		return fmt.Errorf("seed count logs: %w", err)
	}
	if existing > 0 {
		logger.SEED.Info("seed skipped",
			slog.String("event", "db.seed"),
			slog.Int("existing_logs", existing),
		)
		return nil
	}

	type seedLog struct {
		userID   int64
		guild    domain.Guild
		sport    domain.Sport
		distance float64
	}
	logs := []seedLog{
		{1, domain.GuildSIK, domain.SportRunningWalking, 10},
		{1, domain.GuildSIK, domain.SportBiking, 24.5},
		{2, domain.GuildSIK, domain.SportActivity, 8.4},
		{3, domain.GuildSIK, domain.SportRunningWalking, 5.5},
		{4, domain.GuildKIK, domain.SportBiking, 31},
		{5, domain.GuildKIK, domain.SportRunningWalking, 12.2},
		{5, domain.GuildKIK, domain.SportActivity, 7},
		{6, domain.GuildKIK, domain.SportRunningWalking, 3.1},
	}
	for _, l := range logs {
		_, err := db.ExecContext(ctx,
			`INSERT INTO logs (user_id, guild, sport, distance)
			 VALUES ($1, $2, $3, $4)`,
			l.userID, l.guild, l.sport, l.distance)
		if err != nil {
			return fmt.Errorf("seed log for user %d: %w", l.userID, err)
		}
	}

	logger.SEED.Info("seed complete",
		slog.String("event", "db.seed"),
		slog.Int("users", len(users)),
		slog.Int("logs", len(logs)),
	)
	return nil
}
