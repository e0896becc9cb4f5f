// Package service wraps the storage repositories with the logging and
// error conventions shared by the bot's services.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ojakoo/springbot/bot/domain"
	"github.com/ojakoo/springbot/bot/storage"
	"github.com/ojakoo/springbot/core/logger"
)

// Users manages registered participants.
type Users struct {
	store *storage.Users
}

// NewUsers returns the users service.
func NewUsers(store *storage.Users) *Users {
	return &Users{store: store}
}

// GetUser fetches one user; found is false for unknown ids.
func (s *Users) GetUser(ctx context.Context, id int64) (domain.User, bool, error) {
	user, found, err := s.store.Get(ctx, id)
	if err != nil {
		logger.SVCUsers.Error("user lookup failed",
			slog.String("event", "users.get"),
			slog.Int64("user_id", id),
			slog.String("err", err.Error()),
		)
		return domain.User{}, false, err
	}
	return user, found, nil
}

// GetUserByTelegramID adapts GetUser for helpers that resolve the
// current sender; an unknown id yields a zero user, not an error.
func (s *Users) GetUserByTelegramID(ctx context.Context, id int64) (domain.User, error) {
	user, _, err := s.GetUser(ctx, id)
	return user, err
}

// RegisterUser creates the user if absent. Guild stays unset; it is
// assigned separately once the user picks a side.
func (s *Users) RegisterUser(ctx context.Context, user domain.User) error {
	if err := s.store.InsertIfAbsent(ctx, user); err != nil {
		logger.SVCUsers.Error("user insert failed",
			slog.String("event", "users.register"),
			slog.Int64("user_id", user.ID),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("register user: %w", err)
	}
	logger.SVCUsers.Debug("user registered",
		slog.String("event", "users.register"),
		slog.Int64("user_id", user.ID),
	)
	return nil
}

// AssignGuild stores the user's guild; once set it never changes, and
// repeated assignments are silent no-ops.
func (s *Users) AssignGuild(ctx context.Context, id int64, guild domain.Guild) error {
	if err := s.store.AssignGuild(ctx, id, guild); err != nil {
		logger.SVCUsers.Error("guild assignment failed",
			slog.String("event", "users.assign_guild"),
			slog.Int64("user_id", id),
			slog.String("guild", string(guild)),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("assign guild: %w", err)
	}
	logger.SVCUsers.Info("guild assigned",
		slog.String("event", "users.assign_guild"),
		slog.Int64("user_id", id),
		slog.String("guild", string(guild)),
	)
	return nil
}
