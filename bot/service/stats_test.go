package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ojakoo/springbot/bot/domain"
	"github.com/ojakoo/springbot/bot/storage"
)

func TestCompareTotalsZeroFillsEverySport(t *testing.T) {
	rows := CompareTotals(nil)
	require.Len(t, rows, len(domain.Sports()))
	for i, sport := range domain.Sports() {
		require.Equal(t, sport, rows[i].Sport)
		require.Zero(t, rows[i].SIK)
		require.Zero(t, rows[i].KIK)
	}
}

func TestCompareTotalsPairsGuilds(t *testing.T) {
	rows := CompareTotals([]storage.GuildSportTotal{
		{Guild: domain.GuildSIK, Sport: domain.SportBiking, Total: 42.5},
		{Guild: domain.GuildKIK, Sport: domain.SportBiking, Total: 17.0},
		{Guild: domain.GuildKIK, Sport: domain.SportActivity, Total: 3.5},
	})

	bySport := make(map[domain.Sport]SportComparison)
	for _, row := range rows {
		bySport[row.Sport] = row
	}

	require.InDelta(t, 42.5, bySport[domain.SportBiking].SIK, 1e-9)
	require.InDelta(t, 17.0, bySport[domain.SportBiking].KIK, 1e-9)
	require.Zero(t, bySport[domain.SportActivity].SIK)
	require.InDelta(t, 3.5, bySport[domain.SportActivity].KIK, 1e-9)
	require.Zero(t, bySport[domain.SportRunningWalking].SIK)
	require.Zero(t, bySport[domain.SportRunningWalking].KIK)
}

func TestCountWins(t *testing.T) {
	sik, kik := CountWins([]SportComparison{
		{Sport: domain.SportRunningWalking, SIK: 10, KIK: 5},
		{Sport: domain.SportBiking, SIK: 3, KIK: 8},
		{Sport: domain.SportActivity, SIK: 4, KIK: 4},
	})
	require.Equal(t, 1, sik)
	require.Equal(t, 1, kik, "a tie wins nothing")
}

func TestStatusReportLeader(t *testing.T) {
	require.Equal(t, domain.GuildSIK, StatusReport{SIKWins: 2, KIKWins: 1}.Leader())
	require.Equal(t, domain.GuildKIK, StatusReport{SIKWins: 0, KIKWins: 3}.Leader())
	require.Equal(t, domain.Guild(""), StatusReport{SIKWins: 1, KIKWins: 1}.Leader())
}
