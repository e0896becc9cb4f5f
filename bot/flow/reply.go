package flow

import "github.com/ojakoo/springbot/bot/domain"

// ReplyKind tells the transport layer which message to render. The
// engine decides outcomes; wording and keyboards stay outside the core.
type ReplyKind int

const (
	// ReplyNone means the event had no transition in the current state
	// and was ignored; nothing is sent.
	ReplyNone ReplyKind = iota
	// ReplyWelcomeBack greets an already registered user on /start.
	ReplyWelcomeBack
	// ReplyChooseGuild shows the registration guild keyboard.
	ReplyChooseGuild
	// ReplyGuildConfirmed confirms registration and explains next steps.
	ReplyGuildConfirmed
	// ReplyChooseSport shows the sport keyboard for a new log.
	ReplyChooseSport
	// ReplyAskDistance prompts for distance input for the chosen sport.
	ReplyAskDistance
	// ReplyLogSaved confirms a persisted log entry.
	ReplyLogSaved
	// ReplyNotRegistered asks the user to /start before logging.
	ReplyNotRegistered
	// ReplyCancelled confirms cancellation, active session or not.
	ReplyCancelled
	// ReplyBadDistance reports a validation failure; the session stays
	// in place so the user can retry.
	ReplyBadDistance
	// ReplyStoreFailed reports a persistence failure with an escalation
	// hint; the session is left as-is so a retry or /cancel is possible.
	ReplyStoreFailed
)

// Reply is the engine's decision for one inbound event.
type Reply struct {
	Kind     ReplyKind
	Guild    domain.Guild
	Sport    domain.Sport
	Distance float64
	// Err carries the typed validation or persistence error for
	// ReplyBadDistance and ReplyStoreFailed.
	Err error
}

func none() Reply { return Reply{Kind: ReplyNone} }
