// Package domain holds the Spring Battle vocabulary: the two competing
// guilds, the sport categories with their input rules, and the persisted
// entities the bot reads and writes.
package domain

import "time"

// Guild is one of the two competing teams. It is fixed after registration.
type Guild string

const (
	GuildSIK Guild = "SIK"
	GuildKIK Guild = "KIK"
)

// Guilds returns the closed set of guilds in presentation order.
func Guilds() []Guild {
	return []Guild{GuildSIK, GuildKIK}
}

// ParseGuild maps a raw button value onto a Guild.
func ParseGuild(raw string) (Guild, bool) {
	switch Guild(raw) {
	case GuildSIK:
		return GuildSIK, true
	case GuildKIK:
		return GuildKIK, true
	}
	return "", false
}

// Sport is an activity category. Each sport defines how free-text input
// is converted into kilometers.
type Sport string

const (
	SportRunningWalking Sport = "Running/Walking"
	SportBiking         Sport = "Biking"
	// SportActivity records daily steps; the step count is converted to
	// kilometers with StepFactor.
	SportActivity Sport = "Activity"
)

// StepFactor converts one step into kilometers for SportActivity.
const StepFactor = 0.0007

// MinKilometers is the smallest accepted distance for sports measured
// directly in kilometers.
const MinKilometers = 1.0

// Sports returns the closed set of sports in presentation order.
func Sports() []Sport {
	return []Sport{SportRunningWalking, SportBiking, SportActivity}
}

// ParseSport maps a raw button value onto a Sport.
func ParseSport(raw string) (Sport, bool) {
	switch Sport(raw) {
	case SportRunningWalking:
		return SportRunningWalking, true
	case SportBiking:
		return SportBiking, true
	case SportActivity:
		return SportActivity, true
	}
	return "", false
}

// InputRules describe how distance input is validated for a sport.
// When Steps is true the input must be a whole number of steps (at
// least one) and is multiplied by StepFactor; otherwise the input is a
// decimal kilometer value bounded below by MinKm.
type InputRules struct {
	Steps      bool
	StepFactor float64
	MinKm      float64
}

// InputRules returns the validation rules for the sport.
func (s Sport) InputRules() InputRules {
	if s == SportActivity {
		return InputRules{Steps: true, StepFactor: StepFactor}
	}
	return InputRules{MinKm: MinKilometers}
}

// User is a registered chat participant. Guild stays nil until the user
// completes registration and is never changed afterwards.
type User struct {
	ID    int64  `db:"id"`
	Name  string `db:"user_name"`
	Guild *Guild `db:"guild"`
}

// HasGuild reports whether the user finished registration.
func (u User) HasGuild() bool {
	return u.Guild != nil && *u.Guild != ""
}

// LogEntry is one completed activity submission. Entries are immutable:
// they are inserted once and never updated or deleted by the bot.
type LogEntry struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UserID    int64     `db:"user_id"`
	// Guild is denormalized from the user at write time so leaderboard
	// queries avoid a join.
	Guild    Guild   `db:"guild"`
	Sport    Sport   `db:"sport"`
	Distance float64 `db:"distance"`
}
