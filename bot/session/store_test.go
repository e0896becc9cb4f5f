package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBeginSetsFirstStep(t *testing.T) {
	store := NewStore()

	reg := store.Begin(1, KindRegistration)
	require.Equal(t, StepGuild, reg.Step)
	require.False(t, reg.StartedAt.IsZero())

	log := store.Begin(2, KindLog)
	require.Equal(t, StepSport, log.Step)
}

func TestBeginReplacesExistingSession(t *testing.T) {
	store := NewStore()

	store.Begin(1, KindRegistration)
	store.Begin(1, KindLog)

	sess, ok := store.Find(1)
	require.True(t, ok)
	require.Equal(t, KindLog, sess.Kind)
	require.Equal(t, StepSport, sess.Step)
	require.Equal(t, 1, store.Len())
}

func TestFindReturnsCopy(t *testing.T) {
	store := NewStore()
	store.Begin(1, KindLog)

	sess, ok := store.Find(1)
	require.True(t, ok)
	sess.Step = StepDistance

	fresh, _ := store.Find(1)
	require.Equal(t, StepSport, fresh.Step)
}

func TestUpdateRequiresSession(t *testing.T) {
	store := NewStore()

	err := store.Update(1, func(s *Session) { s.Step = StepDistance })
	require.ErrorIs(t, err, ErrNoActiveSession)

	store.Begin(1, KindLog)
	err = store.Update(1, func(s *Session) { s.Step = StepDistance })
	require.NoError(t, err)

	sess, _ := store.Find(1)
	require.Equal(t, StepDistance, sess.Step)
}

func TestEndIsIdempotent(t *testing.T) {
	store := NewStore()
	store.Begin(1, KindRegistration)

	store.End(1)
	store.End(1)

	_, ok := store.Find(1)
	require.False(t, ok)
	require.Equal(t, 0, store.Len())
}

func TestSessionsAreIndependentPerUser(t *testing.T) {
	store := NewStore()
	store.Begin(1, KindRegistration)
	store.Begin(2, KindLog)

	store.End(1)

	_, ok := store.Find(2)
	require.True(t, ok)
}

func TestAcquireSerializesPerUser(t *testing.T) {
	store := NewStore()

	const workers = 16
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := store.Acquire(7)
			defer release()
			counter++
		}()
	}
	wg.Wait()

	require.Equal(t, workers, counter)
}
