// Package flow implements the conversational state machine that turns
// independent chat events into complete registration and activity-log
// transactions. The engine is transport-free: it consumes typed events,
// consults the session store and the persistence services, and returns
// a Reply describing what to send. Only the engine mutates sessions.
package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ojakoo/springbot/bot/domain"
	"github.com/ojakoo/springbot/bot/session"
	"github.com/ojakoo/springbot/core/logger"
)

// ErrNotRegistered rejects a log attempt by a user without a guild.
var ErrNotRegistered = errors.New("flow: user is not registered")

// UserService is the engine's view of user persistence.
type UserService interface {
	GetUser(ctx context.Context, id int64) (domain.User, bool, error)
	// RegisterUser inserts the user if absent; a duplicate is a no-op.
	RegisterUser(ctx context.Context, user domain.User) error
	// AssignGuild sets the guild once; it is a no-op when already set.
	AssignGuild(ctx context.Context, id int64, guild domain.Guild) error
}

// LogService is the engine's view of log persistence.
type LogService interface {
	RecordEntry(ctx context.Context, entry domain.LogEntry) error
}

// Engine drives both conversation flows against the session store.
type Engine struct {
	sessions *session.Store
	users    UserService
	logs     LogService
}

// NewEngine wires the engine with its collaborators.
func NewEngine(sessions *session.Store, users UserService, logs LogService) *Engine {
	return &Engine{sessions: sessions, users: users, logs: logs}
}

// Start handles /start. A registered user with a guild gets a recap and
// no session; anyone else is inserted (if absent) and put into a
// registration session awaiting the guild choice.
func (e *Engine) Start(ctx context.Context, userID int64, displayName string) (Reply, error) {
	release := e.sessions.Acquire(userID)
	defer release()

	user, found, err := e.users.GetUser(ctx, userID)
	if err != nil {
		return Reply{Kind: ReplyStoreFailed, Err: err}, err
	}
	if found && user.HasGuild() {
		return Reply{Kind: ReplyWelcomeBack, Guild: *user.Guild}, nil
	}

	if err := e.users.RegisterUser(ctx, domain.User{ID: userID, Name: displayName}); err != nil {
		return Reply{Kind: ReplyStoreFailed, Err: err}, err
	}

	sess := e.sessions.Begin(userID, session.KindRegistration)
	_ = e.sessions.Update(userID, func(s *session.Session) {
		s.Reg.DisplayName = displayName
	})
	logger.Debug(ctx, "flow", "registration.begin",
		slog.Int64("user_id", userID),
		slog.String("step", sess.Step.String()),
	)
	return Reply{Kind: ReplyChooseGuild}, nil
}

// SelectGuild handles a guild button press. It only acts inside a
// registration session awaiting the guild; anything else (stale or
// double-tapped buttons included) is ignored without touching state.
func (e *Engine) SelectGuild(ctx context.Context, userID int64, guild domain.Guild) (Reply, error) {
	release := e.sessions.Acquire(userID)
	defer release()

	sess, ok := e.sessions.Find(userID)
	if !ok || sess.Kind != session.KindRegistration || sess.Step != session.StepGuild {
		return none(), nil
	}

	if err := e.users.AssignGuild(ctx, userID, guild); err != nil {
		// Session stays so the user can press again or /cancel.
		return Reply{Kind: ReplyStoreFailed, Err: err}, err
	}

	e.sessions.End(userID)
	logger.Info(ctx, "flow", "registration.complete",
		slog.Int64("user_id", userID),
		slog.String("guild", string(guild)),
	)
	return Reply{Kind: ReplyGuildConfirmed, Guild: guild}, nil
}

// BeginLog handles a proof-of-activity photo. Registration with a guild
// is a precondition; otherwise no session is created.
func (e *Engine) BeginLog(ctx context.Context, userID int64) (Reply, error) {
	release := e.sessions.Acquire(userID)
	defer release()

	user, found, err := e.users.GetUser(ctx, userID)
	if err != nil {
		return Reply{Kind: ReplyStoreFailed, Err: err}, err
	}
	if !found || !user.HasGuild() {
		return Reply{Kind: ReplyNotRegistered, Err: ErrNotRegistered}, nil
	}

	sess := e.sessions.Begin(userID, session.KindLog)
	logger.Debug(ctx, "flow", "log.begin",
		slog.Int64("user_id", userID),
		slog.String("step", sess.Step.String()),
	)
	return Reply{Kind: ReplyChooseSport}, nil
}

// SelectSport handles a sport button press while a log session awaits
// the sport. The session advances to the distance step.
func (e *Engine) SelectSport(ctx context.Context, userID int64, sport domain.Sport) (Reply, error) {
	release := e.sessions.Acquire(userID)
	defer release()

	sess, ok := e.sessions.Find(userID)
	if !ok || sess.Kind != session.KindLog || sess.Step != session.StepSport {
		return none(), nil
	}

	err := e.sessions.Update(userID, func(s *session.Session) {
		s.Log.Sport = sport
		s.Step = session.StepDistance
	})
	if err != nil {
		// The session vanished between Find and Update; treat as stale.
		return none(), nil
	}
	logger.Debug(ctx, "flow", "log.sport",
		slog.Int64("user_id", userID),
		slog.String("sport", string(sport)),
	)
	return Reply{Kind: ReplyAskDistance, Sport: sport}, nil
}

// SubmitDistance handles free text while a log session awaits the
// distance. Validation failures keep the session for a retry; on
// success the entry is committed with the user's current guild (never
// the one cached at session start) and the session ends.
func (e *Engine) SubmitDistance(ctx context.Context, userID int64, text string) (Reply, error) {
	release := e.sessions.Acquire(userID)
	defer release()

	sess, ok := e.sessions.Find(userID)
	if !ok || sess.Kind != session.KindLog || sess.Step != session.StepDistance {
		return none(), nil
	}
	sport := sess.Log.Sport

	km, err := ParseDistance(text, sport.InputRules())
	if err != nil {
		logger.Debug(ctx, "flow", "log.distance.rejected",
			slog.Int64("user_id", userID),
			slog.String("sport", string(sport)),
			slog.String("err", err.Error()),
		)
		return Reply{Kind: ReplyBadDistance, Sport: sport, Err: err}, nil
	}

	user, found, err := e.users.GetUser(ctx, userID)
	if err != nil {
		return Reply{Kind: ReplyStoreFailed, Err: err}, err
	}
	if !found || !user.HasGuild() {
		// Registration disappeared mid-flow; drop the session.
		e.sessions.End(userID)
		return Reply{Kind: ReplyNotRegistered, Err: ErrNotRegistered}, nil
	}

	entry := domain.LogEntry{
		UserID:   userID,
		Guild:    *user.Guild,
		Sport:    sport,
		Distance: km,
	}
	if err := e.logs.RecordEntry(ctx, entry); err != nil {
		err = fmt.Errorf("record log entry: %w", err)
		return Reply{Kind: ReplyStoreFailed, Err: err}, err
	}

	e.sessions.End(userID)
	logger.Info(ctx, "flow", "log.complete",
		slog.Int64("user_id", userID),
		slog.String("guild", string(entry.Guild)),
		slog.String("sport", string(sport)),
		slog.Float64("distance", km),
	)
	return Reply{Kind: ReplyLogSaved, Sport: sport, Distance: km}, nil
}

// Cancel ends whatever session the user has. It always confirms, also
// when there was nothing to cancel, so double /cancel stays harmless.
func (e *Engine) Cancel(ctx context.Context, userID int64) (Reply, error) {
	release := e.sessions.Acquire(userID)
	defer release()

	e.sessions.End(userID)
	logger.Debug(ctx, "flow", "session.cancelled", slog.Int64("user_id", userID))
	return Reply{Kind: ReplyCancelled}, nil
}

// AwaitingDistance reports whether the user's next expected event is
// free-text distance input. The text router uses this to decide whether
// a plain message belongs to the conversation.
func (e *Engine) AwaitingDistance(userID int64) bool {
	sess, ok := e.sessions.Find(userID)
	return ok && sess.Kind == session.KindLog && sess.Step == session.StepDistance
}
