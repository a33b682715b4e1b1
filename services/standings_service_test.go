package services

import (
	"context"
	"testing"

	"github.com/Manecharo/verzot-sub000/models"
	"github.com/stretchr/testify/require"
)

func completedLeagueMatch(id, tournamentID, home, away, homeScore, awayScore int) *models.Match {
	return &models.Match{
		ID:           id,
		TournamentID: tournamentID,
		HomeTeamID:   home,
		AwayTeamID:   away,
		HomeScore:    &homeScore,
		AwayScore:    &awayScore,
		Status:       models.MatchStatusCompleted,
		Phase:        models.PhaseLeague,
		Round:        1,
	}
}

func TestStandingsCompute(t *testing.T) {
	tournament := leagueTournament(1, 7)
	tournament.Rules = models.Rules{PointsForWin: 3, PointsForDraw: 1, PointsForLoss: 0}

	matchRepo := newFakeMatchRepo(
		completedLeagueMatch(1, 1, 10, 20, 2, 0),
		completedLeagueMatch(2, 1, 10, 30, 1, 1),
		completedLeagueMatch(3, 1, 20, 30, 0, 1),
	)
	svc := NewStandingsService(
		newFakeTournamentRepo(tournament),
		newFakeTeamRepo(10, 20, 30),
		matchRepo, newFakeEventRepo(), testHub(), testLogger())

	view, err := svc.Compute(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, view.TournamentID)
	require.Nil(t, view.Group)
	require.False(t, view.TieBrokenRandomly)
	require.Len(t, view.Rows, 3)

	// 10: W+D = 4 points, 30: W+D = 4 points but worse GD, 20: 0 points.
	require.Equal(t, 10, view.Rows[0].TeamID)
	require.Equal(t, 4, view.Rows[0].Points)
	require.Equal(t, 30, view.Rows[1].TeamID)
	require.Equal(t, 4, view.Rows[1].Points)
	require.Equal(t, 20, view.Rows[2].TeamID)
	require.Equal(t, 0, view.Rows[2].Points)
}

func TestStandingsComputeGroup(t *testing.T) {
	tournament := leagueTournament(1, 7)
	tournament.Format = models.FormatGroup

	groupA, groupB := "A", "B"
	matchA := completedLeagueMatch(1, 1, 10, 20, 3, 0)
	matchA.Phase = models.PhaseGroup
	matchA.Group = &groupA
	matchB := completedLeagueMatch(2, 1, 30, 40, 1, 0)
	matchB.Phase = models.PhaseGroup
	matchB.Group = &groupB
	// A scheduled group fixture contributes its teams to the roster but no
	// points yet.
	pending := &models.Match{
		ID: 3, TournamentID: 1, HomeTeamID: 20, AwayTeamID: 50,
		Status: models.MatchStatusScheduled, Phase: models.PhaseGroup, Group: &groupA, Round: 1,
	}

	svc := NewStandingsService(
		newFakeTournamentRepo(tournament),
		newFakeTeamRepo(10, 20, 30, 40, 50),
		newFakeMatchRepo(matchA, matchB, pending),
		newFakeEventRepo(), testHub(), testLogger())

	view, err := svc.ComputeGroup(context.Background(), 1, "A")
	require.NoError(t, err)
	require.NotNil(t, view.Group)
	require.Equal(t, "A", *view.Group)
	require.Len(t, view.Rows, 3, "roster comes from the group's fixtures")

	teamsSeen := map[int]bool{}
	for _, row := range view.Rows {
		teamsSeen[row.TeamID] = true
	}
	require.True(t, teamsSeen[10] && teamsSeen[20] && teamsSeen[50])
	require.False(t, teamsSeen[30], "group B teams stay out")
	require.Equal(t, 10, view.Rows[0].TeamID)
}

func TestStandingsFairPlayUsesCardEvents(t *testing.T) {
	tournament := leagueTournament(1, 7)
	tournament.Rules = models.Rules{PointsForWin: 3, PointsForDraw: 1, PointsForLoss: 0}
	tournament.Tiebreakers = models.TiebreakerRules{
		Criteria: []models.TiebreakerCriterion{
			models.TiebreakPoints,
			models.TiebreakGoalDifference,
			models.TiebreakGoalsFor,
			models.TiebreakFairPlay,
		},
		YellowCardPoints: 1,
		RedCardPoints:    3,
	}

	// Identical records for 10 and 20; team 10 collected a red card.
	matchRepo := newFakeMatchRepo(
		completedLeagueMatch(1, 1, 10, 30, 1, 0),
		completedLeagueMatch(2, 1, 20, 30, 1, 0),
	)
	eventRepo := newFakeEventRepo(
		&models.MatchEvent{ID: 1, MatchID: 1, Type: models.EventRedCard, Half: 2, Minute: 80, TeamID: 10, PlayerID: 4},
		&models.MatchEvent{ID: 2, MatchID: 2, Type: models.EventYellowCard, Half: 1, Minute: 30, TeamID: 20, PlayerID: 8},
	)
	svc := NewStandingsService(
		newFakeTournamentRepo(tournament),
		newFakeTeamRepo(10, 20, 30),
		matchRepo, eventRepo, testHub(), testLogger())

	view, err := svc.Compute(context.Background(), 1)
	require.NoError(t, err)
	require.False(t, view.TieBrokenRandomly)
	require.Equal(t, 20, view.Rows[0].TeamID, "cleaner record ranks higher")
	require.Equal(t, 10, view.Rows[1].TeamID)
}

func TestStandingsRandomFallbackIsFlagged(t *testing.T) {
	tournament := leagueTournament(1, 7)
	tournament.Rules = models.Rules{PointsForWin: 3, PointsForDraw: 1, PointsForLoss: 0}
	tournament.Tiebreakers = models.TiebreakerRules{
		Criteria: []models.TiebreakerCriterion{models.TiebreakPoints, models.TiebreakRandom},
	}

	matchRepo := newFakeMatchRepo(
		completedLeagueMatch(1, 1, 10, 30, 1, 0),
		completedLeagueMatch(2, 1, 20, 40, 1, 0),
	)
	svc := NewStandingsService(
		newFakeTournamentRepo(tournament),
		newFakeTeamRepo(10, 20, 30, 40),
		matchRepo, newFakeEventRepo(), testHub(), testLogger())

	first, err := svc.Compute(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, first.TieBrokenRandomly)

	// Seeded by the tournament, so the order is stable across calls.
	second, err := svc.Compute(context.Background(), 1)
	require.NoError(t, err)
	for i := range first.Rows {
		require.Equal(t, first.Rows[i].TeamID, second.Rows[i].TeamID)
	}
}

func TestStandingsUnknownTournament(t *testing.T) {
	svc := NewStandingsService(
		newFakeTournamentRepo(),
		newFakeTeamRepo(),
		newFakeMatchRepo(), newFakeEventRepo(), testHub(), testLogger())

	_, err := svc.Compute(context.Background(), 404)
	require.ErrorIs(t, err, ErrTournamentNotFound)
}
