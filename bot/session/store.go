// Package session keeps the per-user in-flight conversation state. A
// user has at most one session at a time, across both session kinds;
// beginning a new session silently replaces the old one. Sessions live
// only in process memory and do not survive a restart.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/ojakoo/springbot/bot/domain"
)

// ErrNoActiveSession is returned by Update when the user has no session.
var ErrNoActiveSession = errors.New("session: no active session")

// Kind distinguishes the two conversation flows.
type Kind int

const (
	// KindRegistration collects the user's guild after /start.
	KindRegistration Kind = iota + 1
	// KindLog collects sport and distance for one activity submission.
	KindLog
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindRegistration:
		return "registration"
	case KindLog:
		return "log"
	}
	return "unknown"
}

// Step names the next field the conversation is waiting for.
type Step int

const (
	StepGuild Step = iota + 1
	StepSport
	StepDistance
)

// String returns the step name used in logs.
func (s Step) String() string {
	switch s {
	case StepGuild:
		return "guild"
	case StepSport:
		return "sport"
	case StepDistance:
		return "distance"
	}
	return "unknown"
}

// Registration carries the fields of an in-flight registration.
type Registration struct {
	DisplayName string
}

// LogDraft carries the fields of an in-flight activity log. Sport is
// empty until the user picks one.
type LogDraft struct {
	Sport domain.Sport
}

// Session is a tagged union: exactly one of Reg or Log is meaningful,
// selected by Kind. Step is the explicit state tag of the conversation.
type Session struct {
	UserID    int64
	Kind      Kind
	Step      Step
	StartedAt time.Time

	Reg Registration // Kind == KindRegistration
	Log LogDraft     // Kind == KindLog
}

// Store maps user ids to their single in-flight session. All methods
// are safe for concurrent use; Acquire additionally provides per-user
// mutual exclusion so an engine can treat a whole find-decide-update
// sequence as atomic for one user while other users proceed freely.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session

	locksMu sync.Mutex
	locks   map[int64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]*Session),
		locks:    make(map[int64]*userLock),
	}
}

// Begin discards any existing session for the user and creates a fresh
// one of the requested kind, positioned at its first step.
func (s *Store) Begin(userID int64, kind Kind) Session {
	sess := &Session{
		UserID:    userID,
		Kind:      kind,
		StartedAt: time.Now(),
	}
	switch kind {
	case KindRegistration:
		sess.Step = StepGuild
	case KindLog:
		sess.Step = StepSport
	}

	s.mu.Lock()
	s.sessions[userID] = sess
	s.mu.Unlock()
	return *sess
}

// Find returns a copy of the user's session, if any. Mutations go
// through Update only.
func (s *Store) Find(userID int64) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// Update applies mutate to the user's session. It fails with
// ErrNoActiveSession when the user has none.
func (s *Store) Update(userID int64, mutate func(*Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return ErrNoActiveSession
	}
	mutate(sess)
	return nil
}

// End removes the user's session. Ending an absent session is a no-op
// so cancellation stays idempotent.
func (s *Store) End(userID int64) {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
}

// Len reports the number of in-flight sessions across all users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Acquire takes the per-user lock and returns its release function.
// Telebot dispatches updates on separate goroutines, so without this a
// slow store round-trip could interleave two events for the same user.
func (s *Store) Acquire(userID int64) func() {
	s.locksMu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, userID)
		}
		s.locksMu.Unlock()
	}
}
