package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/ojakoo/springbot/bot/domain"
	"github.com/ojakoo/springbot/bot/storage"
	"github.com/ojakoo/springbot/core/logger"
)

// SportComparison lines up both guilds' totals for one sport. Every
// sport appears exactly once even when no entries exist yet.
type SportComparison struct {
	Sport domain.Sport
	SIK   float64
	KIK   float64
}

// StatusReport is the battle standing shown by /status.
type StatusReport struct {
	Rows    []SportComparison
	SIKWins int
	KIKWins int
}

// Leader returns the guild currently winning more categories, or ""
// on a tie.
func (r StatusReport) Leader() domain.Guild {
	switch {
	case r.SIKWins > r.KIKWins:
		return domain.GuildSIK
	case r.KIKWins > r.SIKWins:
		return domain.GuildKIK
	}
	return ""
}

// DailyReport is the admin day summary: per-sport totals and the top
// contributors of each guild for one calendar day.
type DailyReport struct {
	Day    time.Time
	Rows   []SportComparison
	TopSIK []storage.Contributor
	TopKIK []storage.Contributor
}

// TotalReport is the admin all-time summary.
type TotalReport struct {
	Totals []storage.GuildSportTotal
	TopSIK []storage.Contributor
	TopKIK []storage.Contributor
}

// PersonalReport lists the caller's per-sport totals, zero-filled so
// every sport is present.
type PersonalReport struct {
	Totals []SportTotal
}

// SportTotal is one per-sport kilometer total.
type SportTotal struct {
	Sport domain.Sport
	Total float64
}

const (
	dailyTopLimit   = 10
	allTimeTopLimit = 5
)

// Stats computes the leaderboard reports. All methods are stateless
// read transforms over the logs table.
type Stats struct {
	repo *storage.Stats
}

// NewStats returns the stats service.
func NewStats(repo *storage.Stats) *Stats {
	return &Stats{repo: repo}
}

// Status builds the current battle standing.
func (s *Stats) Status(ctx context.Context) (StatusReport, error) {
	rows, err := s.repo.TotalsBySport(ctx)
	if err != nil {
		logger.SVCStats.Error("status query failed",
			slog.String("event", "stats.status"),
			slog.String("err", err.Error()),
		)
		return StatusReport{}, err
	}
	report := StatusReport{Rows: CompareTotals(rows)}
	report.SIKWins, report.KIKWins = CountWins(report.Rows)
	return report, nil
}

// Daily builds the summary for the calendar day containing at.
func (s *Stats) Daily(ctx context.Context, at time.Time) (DailyReport, error) {
	from := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	to := from.AddDate(0, 0, 1)

	rows, err := s.repo.TotalsBySportBetween(ctx, from, to)
	if err != nil {
		logger.SVCStats.Error("daily query failed",
			slog.String("event", "stats.daily"),
			slog.String("err", err.Error()),
		)
		return DailyReport{}, err
	}
	topSIK, err := s.repo.TopContributors(ctx, domain.GuildSIK, from, to, dailyTopLimit)
	if err != nil {
		return DailyReport{}, err
	}
	topKIK, err := s.repo.TopContributors(ctx, domain.GuildKIK, from, to, dailyTopLimit)
	if err != nil {
		return DailyReport{}, err
	}
	return DailyReport{
		Day:    from,
		Rows:   CompareTotals(rows),
		TopSIK: topSIK,
		TopKIK: topKIK,
	}, nil
}

// AllTime builds the all-time summary with entry counts.
func (s *Stats) AllTime(ctx context.Context) (TotalReport, error) {
	totals, err := s.repo.TotalsBySport(ctx)
	if err != nil {
		logger.SVCStats.Error("all-time query failed",
			slog.String("event", "stats.all"),
			slog.String("err", err.Error()),
		)
		return TotalReport{}, err
	}
	topSIK, err := s.repo.TopContributorsAllTime(ctx, domain.GuildSIK, allTimeTopLimit)
	if err != nil {
		return TotalReport{}, err
	}
	topKIK, err := s.repo.TopContributorsAllTime(ctx, domain.GuildKIK, allTimeTopLimit)
	if err != nil {
		return TotalReport{}, err
	}
	return TotalReport{Totals: totals, TopSIK: topSIK, TopKIK: topKIK}, nil
}

// Personal builds the caller's per-sport totals.
func (s *Stats) Personal(ctx context.Context, userID int64) (PersonalReport, error) {
	rows, err := s.repo.UserTotals(ctx, userID)
	if err != nil {
		logger.SVCStats.Error("personal query failed",
			slog.String("event", "stats.personal"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return PersonalReport{}, err
	}

	bySport := make(map[domain.Sport]float64, len(rows))
	for _, row := range rows {
		bySport[row.Sport] = row.Total
	}
	report := PersonalReport{}
	for _, sport := range domain.Sports() {
		report.Totals = append(report.Totals, SportTotal{Sport: sport, Total: bySport[sport]})
	}
	return report, nil
}

// CompareTotals zero-fills and pairs the aggregation rows so every
// sport is represented for both guilds.
func CompareTotals(rows []storage.GuildSportTotal) []SportComparison {
	type key struct {
		guild domain.Guild
		sport domain.Sport
	}
	sums := make(map[key]float64, len(rows))
	for _, row := range rows {
		sums[key{row.Guild, row.Sport}] = row.Total
	}

	out := make([]SportComparison, 0, len(domain.Sports()))
	for _, sport := range domain.Sports() {
		out = append(out, SportComparison{
			Sport: sport,
			SIK:   sums[key{domain.GuildSIK, sport}],
			KIK:   sums[key{domain.GuildKIK, sport}],
		})
	}
	return out
}

// CountWins counts category wins per guild; equal totals win nothing.
func CountWins(rows []SportComparison) (sik, kik int) {
	for _, row := range rows {
		switch {
		case row.SIK > row.KIK:
			sik++
		case row.KIK > row.SIK:
			kik++
		}
	}
	return sik, kik
}
