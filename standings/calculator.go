package standings

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Manecharo/verzot-sub000/models"
)

var (
	ErrUnknownTeam             = errors.New("completed match references a team outside the standings roster")
	ErrMatchWithoutScore       = errors.New("completed match has no recorded score")
	ErrFairPlayWeightsRequired = errors.New("fairPlay tiebreaker requires explicit yellow and red card point values")
)

// Input is everything Compute needs. Discipline maps team id to accumulated
// disciplinary points and is only consulted by the fairPlay criterion. Seed
// feeds the deterministic random fallback.
type Input struct {
	TeamIDs     []int
	Matches     []*models.Match
	Rules       models.Rules
	Tiebreakers models.TiebreakerRules
	Discipline  map[int]int
	Seed        int64
}

// Compute folds the completed matches into one StandingRow per team and
// orders the rows with the configured tiebreaker chain. The second return
// value reports whether the random fallback had to break a tie; callers are
// expected to surface that, since it means the configured chain was
// insufficient. Compute is pure: same input, same ordering.
func Compute(input Input) ([]*models.StandingRow, bool, error) {
	criteria := input.Tiebreakers.Criteria
	if len(criteria) == 0 {
		criteria = []models.TiebreakerCriterion{
			models.TiebreakPoints,
			models.TiebreakGoalDifference,
			models.TiebreakGoalsFor,
		}
	}
	if containsCriterion(criteria, models.TiebreakFairPlay) {
		if input.Tiebreakers.YellowCardPoints <= 0 || input.Tiebreakers.RedCardPoints <= 0 {
			return nil, false, ErrFairPlayWeightsRequired
		}
	}

	rows := make(map[int]*models.StandingRow, len(input.TeamIDs))
	for _, id := range input.TeamIDs {
		rows[id] = &models.StandingRow{TeamID: id}
	}

	for _, m := range input.Matches {
		if m.Status != models.MatchStatusCompleted {
			continue
		}
		home, okHome := rows[m.HomeTeamID]
		away, okAway := rows[m.AwayTeamID]
		if !okHome || !okAway {
			return nil, false, fmt.Errorf("%w: match %d (%d vs %d)", ErrUnknownTeam, m.ID, m.HomeTeamID, m.AwayTeamID)
		}
		if m.HomeScore == nil || m.AwayScore == nil {
			return nil, false, fmt.Errorf("%w: match %d", ErrMatchWithoutScore, m.ID)
		}
		applyResult(home, *m.HomeScore, *m.AwayScore, input.Rules)
		applyResult(away, *m.AwayScore, *m.HomeScore, input.Rules)
	}

	ordered := make([]*models.StandingRow, 0, len(input.TeamIDs))
	for _, id := range input.TeamIDs {
		ordered = append(ordered, rows[id])
	}

	chain := newChain(criteria, input)
	sort.SliceStable(ordered, func(i, j int) bool {
		return chain.less(ordered[i], ordered[j])
	})

	for i, row := range ordered {
		rank := i + 1
		row.Rank = &rank
	}

	return ordered, chain.randomUsed, nil
}

func applyResult(row *models.StandingRow, scored, conceded int, rules models.Rules) {
	row.Played++
	row.GoalsFor += scored
	row.GoalsAgainst += conceded
	row.GoalDifference = row.GoalsFor - row.GoalsAgainst

	switch {
	case scored > conceded:
		row.Won++
		row.Points += rules.PointsForWin
	case scored == conceded:
		row.Drawn++
		row.Points += rules.PointsForDraw
	default:
		row.Lost++
		row.Points += rules.PointsForLoss
	}
}

func containsCriterion(criteria []models.TiebreakerCriterion, want models.TiebreakerCriterion) bool {
	for _, c := range criteria {
		if c == want {
			return true
		}
	}
	return false
}
