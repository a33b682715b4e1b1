package brackets

import (
	"errors"
	"fmt"

	"github.com/Manecharo/verzot-sub000/models"
)

var (
	ErrUnevenBracket     = errors.New("bracket round has an odd number of matches")
	ErrMatchNotCompleted = errors.New("bracket progression requires completed matches")
	ErrMatchNotDecisive  = errors.New("knockout match finished level with no penalty shootout recorded")
)

// Winner returns the team advancing from a completed knockout match: the
// higher score, or the penalty shootout when regulation (and extra time)
// finished level.
func Winner(m *models.Match) (int, error) {
	if m.Status != models.MatchStatusCompleted {
		return 0, fmt.Errorf("%w: match %d is %s", ErrMatchNotCompleted, m.ID, m.Status)
	}
	if m.HomeScore == nil || m.AwayScore == nil {
		return 0, fmt.Errorf("%w: match %d has no score", ErrMatchNotCompleted, m.ID)
	}

	switch {
	case *m.HomeScore > *m.AwayScore:
		return m.HomeTeamID, nil
	case *m.AwayScore > *m.HomeScore:
		return m.AwayTeamID, nil
	}

	if m.HasPenalties && m.HomePenaltyScore != nil && m.AwayPenaltyScore != nil {
		if *m.HomePenaltyScore > *m.AwayPenaltyScore {
			return m.HomeTeamID, nil
		}
		if *m.AwayPenaltyScore > *m.HomePenaltyScore {
			return m.AwayTeamID, nil
		}
	}

	return 0, fmt.Errorf("%w: match %d", ErrMatchNotDecisive, m.ID)
}

// NextRound pairs the winners of adjacent matches (2k, 2k+1) of a completed
// knockout round into the next round's drafts. Rounds must carry an even
// match count; a single match is the final, after which there is nothing to
// generate. Matches are paired in slice order, so callers pass the round
// sorted the way it was seeded.
func NextRound(completed []*models.Match) ([]*models.MatchDraft, error) {
	if len(completed) <= 1 {
		return nil, nil
	}
	if len(completed)%2 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrUnevenBracket, len(completed))
	}
	return NextRoundWithByes(completed, nil)
}

// NextRoundWithByes is NextRound for a seeding round that handed out byes:
// the bye teams re-enter the draw after the winners, and if the resulting
// field is odd again, the last entrant gets the next round's bye.
func NextRoundWithByes(completed []*models.Match, byeTeamIDs []int) ([]*models.MatchDraft, error) {
	if len(completed) == 0 {
		return nil, nil
	}

	winners := make([]int, 0, len(completed)+len(byeTeamIDs))
	for _, m := range completed {
		w, err := Winner(m)
		if err != nil {
			return nil, err
		}
		winners = append(winners, w)
	}
	winners = append(winners, byeTeamIDs...)
	if len(winners) <= 1 {
		return nil, nil
	}

	phase := models.PhaseForTeamCount(len(winners))
	round := completed[0].Round + 1
	tournamentID := completed[0].TournamentID

	drafts := make([]*models.MatchDraft, 0, (len(winners)+1)/2)
	for i := 0; i+1 < len(winners); i += 2 {
		home := winners[i]
		away := winners[i+1]
		drafts = append(drafts, &models.MatchDraft{
			TournamentID: tournamentID,
			HomeTeamID:   &home,
			AwayTeamID:   &away,
			Phase:        phase,
			Round:        round,
		})
	}
	if len(winners)%2 == 1 {
		bye := winners[len(winners)-1]
		drafts = append(drafts, &models.MatchDraft{
			TournamentID: tournamentID,
			Phase:        phase,
			Round:        round,
			IsBye:        true,
			ByeTeamID:    &bye,
		})
	}

	return drafts, nil
}
