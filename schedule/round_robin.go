package schedule

import (
	"context"

	"github.com/Manecharo/verzot-sub000/models"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() Generator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// Generate emits one fixture per unordered pair of teams, n(n-1)/2 in total.
// The lower-index team of each pair is the home side.
func (g *RoundRobinGenerator) Generate(ctx context.Context, params GenerateParams) ([]*models.MatchDraft, error) {
	if err := validateTeams(params.TeamIDs); err != nil {
		return nil, err
	}

	n := len(params.TeamIDs)
	drafts := make([]*models.MatchDraft, 0, n*(n-1)/2)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			home := params.TeamIDs[i]
			away := params.TeamIDs[j]
			drafts = append(drafts, &models.MatchDraft{
				TournamentID: params.TournamentID,
				HomeTeamID:   &home,
				AwayTeamID:   &away,
				Phase:        models.PhaseLeague,
				Round:        1,
			})
		}
	}

	return drafts, nil
}
