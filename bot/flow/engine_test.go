package flow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ojakoo/springbot/bot/domain"
	"github.com/ojakoo/springbot/bot/session"
)

type fakeUsers struct {
	users map[int64]*domain.User

	getErr    error
	assignErr error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[int64]*domain.User)}
}

func (f *fakeUsers) GetUser(ctx context.Context, id int64) (domain.User, bool, error) {
	if f.getErr != nil {
		return domain.User{}, false, f.getErr
	}
	user, ok := f.users[id]
	if !ok {
		return domain.User{}, false, nil
	}
	return *user, true, nil
}

func (f *fakeUsers) RegisterUser(ctx context.Context, user domain.User) error {
	if _, exists := f.users[user.ID]; exists {
		return nil
	}
	copied := user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUsers) AssignGuild(ctx context.Context, id int64, guild domain.Guild) error {
	if f.assignErr != nil {
		return f.assignErr
	}
	if user, ok := f.users[id]; ok && user.Guild == nil {
		user.Guild = &guild
	}
	return nil
}

func (f *fakeUsers) addRegistered(id int64, name string, guild domain.Guild) {
	f.users[id] = &domain.User{ID: id, Name: name, Guild: &guild}
}

type fakeLogs struct {
	entries []domain.LogEntry
	err     error
}

func (f *fakeLogs) RecordEntry(ctx context.Context, entry domain.LogEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func newTestEngine() (*Engine, *session.Store, *fakeUsers, *fakeLogs) {
	store := session.NewStore()
	users := newFakeUsers()
	logs := &fakeLogs{}
	return NewEngine(store, users, logs), store, users, logs
}

func TestStartRegistersNewUser(t *testing.T) {
	engine, store, users, _ := newTestEngine()
	ctx := context.Background()

	reply, err := engine.Start(ctx, 1, "Pekka P")
	require.NoError(t, err)
	require.Equal(t, ReplyChooseGuild, reply.Kind)

	user, found, _ := users.GetUser(ctx, 1)
	require.True(t, found)
	require.Equal(t, "Pekka P", user.Name)
	require.False(t, user.HasGuild())

	sess, ok := store.Find(1)
	require.True(t, ok)
	require.Equal(t, session.KindRegistration, sess.Kind)
	require.Equal(t, session.StepGuild, sess.Step)
	require.Equal(t, "Pekka P", sess.Reg.DisplayName)
}

func TestStartWelcomesBackRegisteredUser(t *testing.T) {
	engine, store, users, _ := newTestEngine()
	users.addRegistered(1, "Pekka P", domain.GuildSIK)

	reply, err := engine.Start(context.Background(), 1, "Pekka P")
	require.NoError(t, err)
	require.Equal(t, ReplyWelcomeBack, reply.Kind)
	require.Equal(t, domain.GuildSIK, reply.Guild)

	_, ok := store.Find(1)
	require.False(t, ok, "a returning user gets no session")
}

func TestSelectGuildCompletesRegistration(t *testing.T) {
	engine, store, users, _ := newTestEngine()
	ctx := context.Background()

	_, err := engine.Start(ctx, 1, "Pekka P")
	require.NoError(t, err)

	reply, err := engine.SelectGuild(ctx, 1, domain.GuildKIK)
	require.NoError(t, err)
	require.Equal(t, ReplyGuildConfirmed, reply.Kind)
	require.Equal(t, domain.GuildKIK, reply.Guild)

	user, _, _ := users.GetUser(ctx, 1)
	require.True(t, user.HasGuild())
	require.Equal(t, domain.GuildKIK, *user.Guild)

	_, ok := store.Find(1)
	require.False(t, ok)
}

func TestSelectGuildIgnoresSecondPress(t *testing.T) {
	engine, _, users, _ := newTestEngine()
	ctx := context.Background()

	_, _ = engine.Start(ctx, 1, "Pekka P")
	_, _ = engine.SelectGuild(ctx, 1, domain.GuildSIK)

	reply, err := engine.SelectGuild(ctx, 1, domain.GuildKIK)
	require.NoError(t, err)
	require.Equal(t, ReplyNone, reply.Kind)

	user, _, _ := users.GetUser(ctx, 1)
	require.Equal(t, domain.GuildSIK, *user.Guild, "first choice stands")
}

func TestSelectGuildIgnoredWithoutSession(t *testing.T) {
	engine, _, _, _ := newTestEngine()

	reply, err := engine.SelectGuild(context.Background(), 1, domain.GuildSIK)
	require.NoError(t, err)
	require.Equal(t, ReplyNone, reply.Kind)
}

func TestStartLookupFailure(t *testing.T) {
	engine, store, users, _ := newTestEngine()
	users.getErr = errors.New("connection refused")

	reply, err := engine.Start(context.Background(), 1, "Pekka P")
	require.Error(t, err)
	require.Equal(t, ReplyStoreFailed, reply.Kind)

	_, ok := store.Find(1)
	require.False(t, ok)
}

func TestSelectGuildPersistFailureKeepsSession(t *testing.T) {
	engine, store, users, _ := newTestEngine()
	ctx := context.Background()

	_, _ = engine.Start(ctx, 1, "Pekka P")
	users.assignErr = errors.New("connection refused")

	reply, err := engine.SelectGuild(ctx, 1, domain.GuildSIK)
	require.Error(t, err)
	require.Equal(t, ReplyStoreFailed, reply.Kind)

	sess, ok := store.Find(1)
	require.True(t, ok, "session survives so the user can press again")
	require.Equal(t, session.StepGuild, sess.Step)

	users.assignErr = nil
	reply, err = engine.SelectGuild(ctx, 1, domain.GuildSIK)
	require.NoError(t, err)
	require.Equal(t, ReplyGuildConfirmed, reply.Kind)
}

func TestBeginLogRequiresRegistration(t *testing.T) {
	engine, store, _, _ := newTestEngine()

	reply, err := engine.BeginLog(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, ReplyNotRegistered, reply.Kind)

	_, ok := store.Find(1)
	require.False(t, ok, "no session for an unregistered user")
	require.Equal(t, 0, store.Len())
}

func TestFullLogRoundTrip(t *testing.T) {
	engine, store, users, logs := newTestEngine()
	ctx := context.Background()
	users.addRegistered(1, "Pekka P", domain.GuildSIK)

	reply, err := engine.BeginLog(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, ReplyChooseSport, reply.Kind)

	reply, err = engine.SelectSport(ctx, 1, domain.SportRunningWalking)
	require.NoError(t, err)
	require.Equal(t, ReplyAskDistance, reply.Kind)
	require.Equal(t, domain.SportRunningWalking, reply.Sport)

	reply, err = engine.SubmitDistance(ctx, 1, "5.5")
	require.NoError(t, err)
	require.Equal(t, ReplyLogSaved, reply.Kind)
	require.InDelta(t, 5.5, reply.Distance, 1e-9)

	require.Len(t, logs.entries, 1)
	entry := logs.entries[0]
	require.Equal(t, int64(1), entry.UserID)
	require.Equal(t, domain.GuildSIK, entry.Guild)
	require.Equal(t, domain.SportRunningWalking, entry.Sport)
	require.InDelta(t, 5.5, entry.Distance, 1e-9)

	_, ok := store.Find(1)
	require.False(t, ok)
}

func TestStepLogConvertsToKilometers(t *testing.T) {
	engine, _, users, logs := newTestEngine()
	ctx := context.Background()
	users.addRegistered(1, "Pekka P", domain.GuildKIK)

	_, _ = engine.BeginLog(ctx, 1)
	_, _ = engine.SelectSport(ctx, 1, domain.SportActivity)

	reply, err := engine.SubmitDistance(ctx, 1, "10000")
	require.NoError(t, err)
	require.Equal(t, ReplyLogSaved, reply.Kind)

	require.Len(t, logs.entries, 1)
	require.InDelta(t, 7.0, logs.entries[0].Distance, 1e-9)
}

func TestInvalidDistanceKeepsSession(t *testing.T) {
	engine, store, users, logs := newTestEngine()
	ctx := context.Background()
	users.addRegistered(1, "Pekka P", domain.GuildSIK)

	_, _ = engine.BeginLog(ctx, 1)
	_, _ = engine.SelectSport(ctx, 1, domain.SportBiking)

	reply, err := engine.SubmitDistance(ctx, 1, "abc")
	require.NoError(t, err)
	require.Equal(t, ReplyBadDistance, reply.Kind)
	require.ErrorIs(t, reply.Err, ErrInvalidFormat)
	require.Empty(t, logs.entries)

	sess, ok := store.Find(1)
	require.True(t, ok, "session survives for a retry")
	require.Equal(t, session.StepDistance, sess.Step)

	reply, err = engine.SubmitDistance(ctx, 1, "12.5")
	require.NoError(t, err)
	require.Equal(t, ReplyLogSaved, reply.Kind)
	require.Len(t, logs.entries, 1)
}

func TestBelowMinimumDistanceRejected(t *testing.T) {
	engine, _, users, _ := newTestEngine()
	ctx := context.Background()
	users.addRegistered(1, "Pekka P", domain.GuildSIK)

	_, _ = engine.BeginLog(ctx, 1)
	_, _ = engine.SelectSport(ctx, 1, domain.SportBiking)

	reply, err := engine.SubmitDistance(ctx, 1, "0.5")
	require.NoError(t, err)
	require.Equal(t, ReplyBadDistance, reply.Kind)
	require.ErrorIs(t, reply.Err, ErrBelowMinimum)
}

func TestPersistenceFailureKeepsSession(t *testing.T) {
	engine, store, users, logs := newTestEngine()
	ctx := context.Background()
	users.addRegistered(1, "Pekka P", domain.GuildSIK)
	logs.err = errors.New("connection refused")

	_, _ = engine.BeginLog(ctx, 1)
	_, _ = engine.SelectSport(ctx, 1, domain.SportBiking)

	reply, err := engine.SubmitDistance(ctx, 1, "5.0")
	require.Error(t, err)
	require.Equal(t, ReplyStoreFailed, reply.Kind)

	_, ok := store.Find(1)
	require.True(t, ok, "session survives so the user can retry")

	logs.err = nil
	reply, err = engine.SubmitDistance(ctx, 1, "5.0")
	require.NoError(t, err)
	require.Equal(t, ReplyLogSaved, reply.Kind)
	require.Len(t, logs.entries, 1)
}

func TestCommitUsesCurrentGuild(t *testing.T) {
	engine, _, users, logs := newTestEngine()
	ctx := context.Background()
	users.addRegistered(1, "Pekka P", domain.GuildSIK)

	_, _ = engine.BeginLog(ctx, 1)
	_, _ = engine.SelectSport(ctx, 1, domain.SportBiking)

	// Guild changes out of band before the distance arrives.
	kik := domain.GuildKIK
	users.users[1].Guild = &kik

	reply, err := engine.SubmitDistance(ctx, 1, "5.0")
	require.NoError(t, err)
	require.Equal(t, ReplyLogSaved, reply.Kind)
	require.Equal(t, domain.GuildKIK, logs.entries[0].Guild)
}

func TestSubmitDistanceIgnoredOutsideDistanceStep(t *testing.T) {
	engine, _, users, logs := newTestEngine()
	ctx := context.Background()
	users.addRegistered(1, "Pekka P", domain.GuildSIK)

	reply, err := engine.SubmitDistance(ctx, 1, "5.0")
	require.NoError(t, err)
	require.Equal(t, ReplyNone, reply.Kind)

	_, _ = engine.BeginLog(ctx, 1)

	reply, err = engine.SubmitDistance(ctx, 1, "5.0")
	require.NoError(t, err)
	require.Equal(t, ReplyNone, reply.Kind)
	require.Empty(t, logs.entries)
}

func TestSelectSportIgnoredOutsideSportStep(t *testing.T) {
	engine, _, users, _ := newTestEngine()
	ctx := context.Background()
	users.addRegistered(1, "Pekka P", domain.GuildSIK)

	reply, err := engine.SelectSport(ctx, 1, domain.SportBiking)
	require.NoError(t, err)
	require.Equal(t, ReplyNone, reply.Kind)

	_, _ = engine.BeginLog(ctx, 1)
	_, _ = engine.SelectSport(ctx, 1, domain.SportBiking)

	reply, err = engine.SelectSport(ctx, 1, domain.SportActivity)
	require.NoError(t, err)
	require.Equal(t, ReplyNone, reply.Kind, "double tap keeps the first sport")
}

func TestCancelEndsSessionAndStaysIdempotent(t *testing.T) {
	engine, store, users, _ := newTestEngine()
	ctx := context.Background()
	users.addRegistered(1, "Pekka P", domain.GuildSIK)

	_, _ = engine.BeginLog(ctx, 1)

	reply, err := engine.Cancel(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, ReplyCancelled, reply.Kind)
	_, ok := store.Find(1)
	require.False(t, ok)

	reply, err = engine.Cancel(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, ReplyCancelled, reply.Kind, "cancel without a session still confirms")
}

func TestAwaitingDistance(t *testing.T) {
	engine, _, users, _ := newTestEngine()
	ctx := context.Background()
	users.addRegistered(1, "Pekka P", domain.GuildSIK)

	require.False(t, engine.AwaitingDistance(1))

	_, _ = engine.BeginLog(ctx, 1)
	require.False(t, engine.AwaitingDistance(1), "sport not chosen yet")

	_, _ = engine.SelectSport(ctx, 1, domain.SportBiking)
	require.True(t, engine.AwaitingDistance(1))

	_, _ = engine.Cancel(ctx, 1)
	require.False(t, engine.AwaitingDistance(1))
}

func TestStartReplacesLogSession(t *testing.T) {
	engine, store, _, _ := newTestEngine()
	ctx := context.Background()

	// Unregistered user starts a registration while no log is possible.
	_, _ = engine.Start(ctx, 1, "Pekka P")
	_, _ = engine.SelectGuild(ctx, 1, domain.GuildSIK)

	_, _ = engine.BeginLog(ctx, 1)
	sess, ok := store.Find(1)
	require.True(t, ok)
	require.Equal(t, session.KindLog, sess.Kind)

	// /start for a registered user leaves the session alone.
	reply, err := engine.Start(ctx, 1, "Pekka P")
	require.NoError(t, err)
	require.Equal(t, ReplyWelcomeBack, reply.Kind)
	sess, ok = store.Find(1)
	require.True(t, ok)
	require.Equal(t, session.KindLog, sess.Kind)
}
