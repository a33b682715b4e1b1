package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/Manecharo/verzot-sub000/models"
)

var (
	ErrInsufficientTeams = errors.New("not enough teams to generate a schedule (minimum 2 required)")
	ErrUnknownFormat     = errors.New("no schedule generator registered for tournament format")
)

// GenerateParams carries everything a generator needs. Seed drives the
// knockout shuffle; callers derive it from the tournament so regeneration is
// reproducible.
type GenerateParams struct {
	TournamentID int
	TeamIDs      []int
	Structure    models.StructureConfig
	Seed         int64
}

type Generator interface {
	Generate(ctx context.Context, params GenerateParams) ([]*models.MatchDraft, error)

	GetName() string
}

// ForFormat selects the pairing strategy for a tournament format. Hybrid and
// double-elimination tournaments start from their first stage; later stages
// are produced by bracket progression, not by the generator.
func ForFormat(format models.TournamentFormat) (Generator, error) {
	switch format {
	case models.FormatLeague:
		return NewRoundRobinGenerator(), nil
	case models.FormatGroup, models.FormatGroupKnockout:
		return NewGroupStageGenerator(), nil
	case models.FormatKnockout, models.FormatDoubleElimination:
		return NewKnockoutGenerator(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func validateTeams(teamIDs []int) error {
	if len(teamIDs) < 2 {
		return fmt.Errorf("%w: found %d", ErrInsufficientTeams, len(teamIDs))
	}
	return nil
}
