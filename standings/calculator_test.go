package standings

import (
	"testing"

	"github.com/Manecharo/verzot-sub000/models"
	"github.com/stretchr/testify/require"
)

func completedMatch(id, home, away, homeScore, awayScore int) *models.Match {
	return &models.Match{
		ID:           id,
		HomeTeamID:   home,
		AwayTeamID:   away,
		HomeScore:    &homeScore,
		AwayScore:    &awayScore,
		Status:       models.MatchStatusCompleted,
		Phase:        models.PhaseLeague,
		Round:        1,
		TournamentID: 1,
	}
}

func defaultRules() models.Rules {
	return models.Rules{PointsForWin: 3, PointsForDraw: 1, PointsForLoss: 0}
}

func rowByTeam(t *testing.T, rows []*models.StandingRow, teamID int) *models.StandingRow {
	t.Helper()
	for _, r := range rows {
		if r.TeamID == teamID {
			return r
		}
	}
	t.Fatalf("no standing row for team %d", teamID)
	return nil
}

func TestComputeFoldsCompletedMatches(t *testing.T) {
	// Full single round-robin over four teams where team 1 wins everything
	// 3:0, team 2 beats the rest, and so on down.
	matches := []*models.Match{
		completedMatch(1, 1, 2, 3, 0),
		completedMatch(2, 1, 3, 3, 0),
		completedMatch(3, 1, 4, 3, 0),
		completedMatch(4, 2, 3, 2, 0),
		completedMatch(5, 2, 4, 2, 0),
		completedMatch(6, 3, 4, 1, 0),
	}

	rows, randomUsed, err := Compute(Input{
		TeamIDs: []int{1, 2, 3, 4},
		Matches: matches,
		Rules:   defaultRules(),
	})
	require.NoError(t, err)
	require.False(t, randomUsed)
	require.Len(t, rows, 4)

	top := rows[0]
	require.Equal(t, 1, top.TeamID)
	require.Equal(t, 3, top.Played)
	require.Equal(t, 3, top.Won)
	require.Equal(t, 0, top.Drawn)
	require.Equal(t, 0, top.Lost)
	require.Equal(t, 9, top.Points)
	require.Equal(t, 9, top.GoalDifference)

	// played = won + drawn + lost and points follow the rules for every row.
	for i, row := range rows {
		require.Equal(t, row.Played, row.Won+row.Drawn+row.Lost)
		require.Equal(t, row.Won*3+row.Drawn, row.Points)
		require.Equal(t, row.GoalsFor-row.GoalsAgainst, row.GoalDifference)
		require.NotNil(t, row.Rank)
		require.Equal(t, i+1, *row.Rank)
	}
	require.Equal(t, []int{1, 2, 3, 4}, []int{rows[0].TeamID, rows[1].TeamID, rows[2].TeamID, rows[3].TeamID})
}

func TestComputeSkipsUnfinishedMatches(t *testing.T) {
	score := 1
	matches := []*models.Match{
		completedMatch(1, 1, 2, 2, 0),
		{ID: 2, HomeTeamID: 1, AwayTeamID: 2, Status: models.MatchStatusScheduled},
		{ID: 3, HomeTeamID: 1, AwayTeamID: 2, Status: models.MatchStatusInProgress, HomeScore: &score, AwayScore: &score},
		{ID: 4, HomeTeamID: 1, AwayTeamID: 2, Status: models.MatchStatusCanceled},
	}

	rows, _, err := Compute(Input{TeamIDs: []int{1, 2}, Matches: matches, Rules: defaultRules()})
	require.NoError(t, err)
	require.Equal(t, 1, rowByTeam(t, rows, 1).Played)
	require.Equal(t, 1, rowByTeam(t, rows, 2).Played)
}

func TestComputeRejectsBadInput(t *testing.T) {
	t.Run("completed match with a team outside the roster", func(t *testing.T) {
		_, _, err := Compute(Input{
			TeamIDs: []int{1, 2},
			Matches: []*models.Match{completedMatch(1, 1, 99, 1, 0)},
			Rules:   defaultRules(),
		})
		require.ErrorIs(t, err, ErrUnknownTeam)
	})

	t.Run("completed match without a score", func(t *testing.T) {
		_, _, err := Compute(Input{
			TeamIDs: []int{1, 2},
			Matches: []*models.Match{{ID: 1, HomeTeamID: 1, AwayTeamID: 2, Status: models.MatchStatusCompleted}},
			Rules:   defaultRules(),
		})
		require.ErrorIs(t, err, ErrMatchWithoutScore)
	})

	t.Run("fairPlay criterion without card weights", func(t *testing.T) {
		_, _, err := Compute(Input{
			TeamIDs: []int{1, 2},
			Rules:   defaultRules(),
			Tiebreakers: models.TiebreakerRules{
				Criteria: []models.TiebreakerCriterion{models.TiebreakPoints, models.TiebreakFairPlay},
			},
		})
		require.ErrorIs(t, err, ErrFairPlayWeightsRequired)
	})
}

func TestComputeHeadToHeadTiebreak(t *testing.T) {
	// Teams 1 and 2 finish level on points, goal difference and goals
	// scored, but team 2 won the mutual fixture.
	matches := []*models.Match{
		completedMatch(1, 2, 1, 1, 0),
		completedMatch(2, 1, 3, 2, 1),
		completedMatch(3, 3, 2, 2, 1),
	}

	rows, randomUsed, err := Compute(Input{
		TeamIDs: []int{1, 2, 3},
		Matches: matches,
		Rules:   defaultRules(),
		Tiebreakers: models.TiebreakerRules{
			Criteria: []models.TiebreakerCriterion{
				models.TiebreakPoints,
				models.TiebreakGoalDifference,
				models.TiebreakGoalsFor,
				models.TiebreakHeadToHead,
			},
		},
	})
	require.NoError(t, err)
	require.False(t, randomUsed)

	r1 := rowByTeam(t, rows, 1)
	r2 := rowByTeam(t, rows, 2)
	require.Equal(t, r1.Points, r2.Points)
	require.Equal(t, r1.GoalDifference, r2.GoalDifference)
	require.Equal(t, r1.GoalsFor, r2.GoalsFor)
	require.Less(t, *r2.Rank, *r1.Rank, "head-to-head winner should rank above")
}

func TestComputeFairPlayTiebreak(t *testing.T) {
	matches := []*models.Match{
		completedMatch(1, 1, 3, 2, 0),
		completedMatch(2, 2, 3, 2, 0),
	}

	rows, _, err := Compute(Input{
		TeamIDs: []int{1, 2, 3},
		Matches: matches,
		Rules:   defaultRules(),
		Tiebreakers: models.TiebreakerRules{
			Criteria:         []models.TiebreakerCriterion{models.TiebreakPoints, models.TiebreakFairPlay},
			YellowCardPoints: 1,
			RedCardPoints:    3,
		},
		// Team 1 carries a red card, team 2 only a yellow.
		Discipline: map[int]int{1: 3, 2: 1},
	})
	require.NoError(t, err)
	require.Less(t, *rowByTeam(t, rows, 2).Rank, *rowByTeam(t, rows, 1).Rank)
}

func TestComputeRandomTiebreak(t *testing.T) {
	matches := []*models.Match{
		completedMatch(1, 1, 3, 1, 0),
		completedMatch(2, 2, 4, 1, 0),
	}
	input := Input{
		TeamIDs: []int{1, 2, 3, 4},
		Matches: matches,
		Rules:   defaultRules(),
		Tiebreakers: models.TiebreakerRules{
			Criteria: []models.TiebreakerCriterion{models.TiebreakPoints, models.TiebreakRandom},
		},
		Seed: 1234,
	}

	first, randomUsed, err := Compute(input)
	require.NoError(t, err)
	require.True(t, randomUsed, "identical records must trip the random fallback")

	// Same seed, same ordering.
	second, _, err := Compute(input)
	require.NoError(t, err)
	for i := range first {
		require.Equal(t, first[i].TeamID, second[i].TeamID)
	}
}

func TestComputeDefaultsCriteriaWhenUnset(t *testing.T) {
	// Team 2 has the better goal difference on equal points; with no
	// configured criteria the default points/GD/GF chain must apply.
	matches := []*models.Match{
		completedMatch(1, 1, 3, 1, 0),
		completedMatch(2, 2, 3, 4, 0),
	}

	rows, randomUsed, err := Compute(Input{
		TeamIDs: []int{1, 2, 3},
		Matches: matches,
		Rules:   defaultRules(),
	})
	require.NoError(t, err)
	require.False(t, randomUsed)
	require.Equal(t, 2, rows[0].TeamID)
	require.Equal(t, 1, rows[1].TeamID)
}

func TestComputeCustomPointsRules(t *testing.T) {
	matches := []*models.Match{
		completedMatch(1, 1, 2, 2, 2),
		completedMatch(2, 1, 2, 1, 0),
	}

	rows, _, err := Compute(Input{
		TeamIDs: []int{1, 2},
		Matches: matches,
		Rules:   models.Rules{PointsForWin: 2, PointsForDraw: 1, PointsForLoss: 0},
	})
	require.NoError(t, err)
	require.Equal(t, 3, rowByTeam(t, rows, 1).Points)
	require.Equal(t, 1, rowByTeam(t, rows, 2).Points)
}
