package schedule

import (
	"context"

	"github.com/Manecharo/verzot-sub000/models"
)

const defaultTeamsPerGroup = 4

type GroupStageGenerator struct{}

func NewGroupStageGenerator() Generator {
	return &GroupStageGenerator{}
}

func (g *GroupStageGenerator) GetName() string {
	return "GroupStage"
}

// Generate partitions the roster into groups by contiguous slicing (any
// shuffling is the caller's responsibility) and plays round-robin inside each
// group. Group labels are letters starting at 'A'.
func (g *GroupStageGenerator) Generate(ctx context.Context, params GenerateParams) ([]*models.MatchDraft, error) {
	if err := validateTeams(params.TeamIDs); err != nil {
		return nil, err
	}

	size := params.Structure.TeamsPerGroup
	if size < 2 {
		size = defaultTeamsPerGroup
	}
	if params.Structure.GroupCount > 0 {
		// Explicit group count wins; spread teams as evenly as slicing allows.
		size = (len(params.TeamIDs) + params.Structure.GroupCount - 1) / params.Structure.GroupCount
		if size < 2 {
			size = 2
		}
	}

	drafts := make([]*models.MatchDraft, 0)

	for gi, start := 0, 0; start < len(params.TeamIDs); gi, start = gi+1, start+size {
		end := start + size
		if end > len(params.TeamIDs) {
			end = len(params.TeamIDs)
		}
		group := params.TeamIDs[start:end]
		label := groupLabel(gi)

		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				home := group[i]
				away := group[j]
				lbl := label
				drafts = append(drafts, &models.MatchDraft{
					TournamentID: params.TournamentID,
					HomeTeamID:   &home,
					AwayTeamID:   &away,
					Phase:        models.PhaseGroup,
					Group:        &lbl,
					Round:        1,
				})
			}
		}
	}

	return drafts, nil
}

func groupLabel(index int) string {
	// Past 'Z' the labels double up: AA, AB, ...
	if index < 26 {
		return string(rune('A' + index))
	}
	return string(rune('A'+index/26-1)) + string(rune('A'+index%26))
}
