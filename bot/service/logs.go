package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ojakoo/springbot/bot/domain"
	"github.com/ojakoo/springbot/bot/storage"
	"github.com/ojakoo/springbot/core/logger"
)

// Logs records completed activity submissions.
type Logs struct {
	store *storage.Logs
}

// NewLogs returns the logs service.
func NewLogs(store *storage.Logs) *Logs {
	return &Logs{store: store}
}

// RecordEntry persists one log entry.
func (s *Logs) RecordEntry(ctx context.Context, entry domain.LogEntry) error {
	if err := s.store.Insert(ctx, entry); err != nil {
		logger.SVCLogs.Error("log insert failed",
			slog.String("event", "logs.record"),
			slog.Int64("user_id", entry.UserID),
			slog.String("sport", string(entry.Sport)),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("record entry: %w", err)
	}
	logger.SVCLogs.Info("entry recorded",
		slog.String("event", "logs.record"),
		slog.Int64("user_id", entry.UserID),
		slog.String("guild", string(entry.Guild)),
		slog.String("sport", string(entry.Sport)),
		slog.Float64("distance", entry.Distance),
	)
	return nil
}
