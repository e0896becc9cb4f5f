package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ojakoo/springbot/bot/domain"
	"github.com/ojakoo/springbot/bot/service"
	"github.com/ojakoo/springbot/bot/storage"
)

func TestRenderStatusLeaderLine(t *testing.T) {
	report := service.StatusReport{
		Rows: []service.SportComparison{
			{Sport: domain.SportRunningWalking, SIK: 10, KIK: 5},
			{Sport: domain.SportBiking, SIK: 8, KIK: 3},
			{Sport: domain.SportActivity, SIK: 1, KIK: 2},
		},
		SIKWins: 2,
		KIKWins: 1,
	}

	text := renderStatus(report)
	require.Contains(t, text, "JAPPADAIDA! SIK has the lead by winning 2 categories.")
	require.Contains(t, text, "KIK:\n")
	require.Contains(t, text, "SIK:\n")
	require.Contains(t, text, " - Running/Walking: 10.0 km \U0001F3C6")
	require.Contains(t, text, " - Activity: 2.0 km \U0001F3C6")
}

func TestRenderStatusEven(t *testing.T) {
	report := service.StatusReport{
		Rows:    service.CompareTotals(nil),
		SIKWins: 0,
		KIKWins: 0,
	}
	text := renderStatus(report)
	require.Contains(t, text, "It seems to be even with 0 category wins for both guilds.")
	require.NotContains(t, text, "\U0001F3C6")
}

func TestRenderPersonalListsEverySport(t *testing.T) {
	sik := domain.GuildSIK
	report := service.PersonalReport{
		Totals: []service.SportTotal{
			{Sport: domain.SportRunningWalking, Total: 12.5},
			{Sport: domain.SportBiking, Total: 0},
			{Sport: domain.SportActivity, Total: 0.7},
		},
	}
	text := renderPersonal(domain.User{ID: 1, Name: "Pekka", Guild: &sik}, report)
	require.Contains(t, text, "for SIK")
	require.Contains(t, text, "Running/Walking: 12.5km")
	require.Contains(t, text, "Biking: 0.0km")
	require.Contains(t, text, "Activity: 0.7km")
}

func TestRenderDailyEscapesUserNames(t *testing.T) {
	report := service.DailyReport{
		Day:  time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Rows: service.CompareTotals(nil),
		TopSIK: []storage.Contributor{
			{UserName: "Pekka_P", Total: 5.5},
		},
	}
	text := renderDaily(report)
	require.Contains(t, text, "Daily stats for 2026-04-01")
	require.Contains(t, text, `Pekka\_P`)
	require.Contains(t, text, "1. ")
}

func TestRenderAllTimeCoversEveryGuildAndSport(t *testing.T) {
	report := service.TotalReport{
		Totals: []storage.GuildSportTotal{
			{Guild: domain.GuildSIK, Sport: domain.SportBiking, Total: 40, Entries: 4},
		},
	}
	text := renderAllTime(report)
	require.Contains(t, text, "SIK Biking: 40.0km and 4 entries")
	for _, guild := range domain.Guilds() {
		for _, sport := range domain.Sports() {
			require.Contains(t, text, string(guild)+" "+string(sport)+":")
		}
	}
}

func TestDistancePrompts(t *testing.T) {
	require.Contains(t, distancePrompt(domain.SportActivity), "steps")
	require.Contains(t, distancePrompt(domain.SportBiking), "5.5")

	require.Contains(t, distanceErrorText(domain.SportActivity), "whole numbers")
	require.Contains(t, distanceErrorText(domain.SportRunningWalking), "minimum distance is 1km")
}

func TestStoreFailedTextUsesContact(t *testing.T) {
	withContact := &Handlers{cfg: Config{Contact: "@Ojakoo"}}
	require.Contains(t, withContact.storeFailedText(), "@Ojakoo")

	plain := &Handlers{}
	require.Equal(t, "Something went wrong please try again.", plain.storeFailedText())
}

func TestWelcomeTextMentionsCommands(t *testing.T) {
	h := &Handlers{cfg: Config{Contact: "@Ojakoo"}}
	text := h.welcomeText()
	require.True(t, strings.HasPrefix(text, "Hello there, welcome to the KIK-SIK Spring Battle!"))
	require.Contains(t, text, "/personal")
	require.Contains(t, text, "/status")
	require.Contains(t, text, "@Ojakoo")
}
