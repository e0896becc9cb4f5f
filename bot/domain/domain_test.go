package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseGuild(t *testing.T) {
	guild, ok := ParseGuild("SIK")
	require.True(t, ok)
	require.Equal(t, GuildSIK, guild)

	guild, ok = ParseGuild("KIK")
	require.True(t, ok)
	require.Equal(t, GuildKIK, guild)

	for _, raw := range []string{"", "sik", "SIK ", "TIK"} {
		_, ok := ParseGuild(raw)
		require.False(t, ok, "input %q", raw)
	}
}

func TestParseSport(t *testing.T) {
	for _, sport := range Sports() {
		parsed, ok := ParseSport(string(sport))
		require.True(t, ok)
		require.Equal(t, sport, parsed)
	}

	for _, raw := range []string{"", "running", "Running", "Swimming"} {
		_, ok := ParseSport(raw)
		require.False(t, ok, "input %q", raw)
	}
}

func TestInputRules(t *testing.T) {
	activity := SportActivity.InputRules()
	require.True(t, activity.Steps)
	require.InDelta(t, StepFactor, activity.StepFactor, 1e-12)

	for _, sport := range []Sport{SportRunningWalking, SportBiking} {
		rules := sport.InputRules()
		require.False(t, rules.Steps)
		require.InDelta(t, MinKilometers, rules.MinKm, 1e-12)
	}
}

func TestHasGuild(t *testing.T) {
	require.False(t, User{}.HasGuild())

	empty := Guild("")
	require.False(t, User{Guild: &empty}.HasGuild())

	sik := GuildSIK
	require.True(t, User{Guild: &sik}.HasGuild())
}
