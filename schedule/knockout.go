package schedule

import (
	"context"
	"math/rand"

	"github.com/Manecharo/verzot-sub000/models"
)

type KnockoutGenerator struct{}

func NewKnockoutGenerator() Generator {
	return &KnockoutGenerator{}
}

func (g *KnockoutGenerator) GetName() string {
	return "Knockout"
}

// Generate seeds the first knockout round. The roster is shuffled with the
// params seed (same seed, same order, so regeneration is reproducible) and
// consecutive teams are paired. With an odd roster the last seeded team gets
// a bye: an IsBye draft is emitted instead of a playable fixture and the team
// advances automatically.
func (g *KnockoutGenerator) Generate(ctx context.Context, params GenerateParams) ([]*models.MatchDraft, error) {
	if err := validateTeams(params.TeamIDs); err != nil {
		return nil, err
	}

	seeded := make([]int, len(params.TeamIDs))
	copy(seeded, params.TeamIDs)
	rng := rand.New(rand.NewSource(params.Seed))
	rng.Shuffle(len(seeded), func(i, j int) {
		seeded[i], seeded[j] = seeded[j], seeded[i]
	})

	phase := models.PhaseForTeamCount(len(seeded))
	drafts := make([]*models.MatchDraft, 0, (len(seeded)+1)/2)

	for i := 0; i+1 < len(seeded); i += 2 {
		home := seeded[i]
		away := seeded[i+1]
		drafts = append(drafts, &models.MatchDraft{
			TournamentID: params.TournamentID,
			HomeTeamID:   &home,
			AwayTeamID:   &away,
			Phase:        phase,
			Round:        1,
		})
	}

	if len(seeded)%2 == 1 {
		bye := seeded[len(seeded)-1]
		drafts = append(drafts, &models.MatchDraft{
			TournamentID: params.TournamentID,
			Phase:        phase,
			Round:        1,
			IsBye:        true,
			ByeTeamID:    &bye,
		})
	}

	return drafts, nil
}
