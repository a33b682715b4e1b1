package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Manecharo/verzot-sub000/brackets"
	"github.com/Manecharo/verzot-sub000/models"
	"github.com/Manecharo/verzot-sub000/repositories"
	"github.com/Manecharo/verzot-sub000/schedule"
)

// GenerateScheduleInput controls a (re)generation run. ManualDates, when
// present, is applied positionally to the playable fixtures and bypasses the
// automatic slotting for those entries.
type GenerateScheduleInput struct {
	TournamentID int
	StartDate    time.Time
	ManualDates  []time.Time
	SlotPolicy   *schedule.SlotPolicy
}

type ScheduleService interface {
	// Generate builds the fixture list for the tournament and atomically
	// replaces its scheduled fixtures. Completed, in-progress and canceled
	// matches are never touched, so regeneration is safe mid-tournament.
	Generate(ctx context.Context, input GenerateScheduleInput, requestingUserID int, role models.UserRole) ([]*models.MatchDraft, error)
}

type scheduleService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	hub            *brackets.Hub
	logger         *slog.Logger
}

func NewScheduleService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) ScheduleService {
	return &scheduleService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		hub:            hub,
		logger:         logger,
	}
}

func (s *scheduleService) Generate(ctx context.Context, input GenerateScheduleInput, requestingUserID int, role models.UserRole) ([]*models.MatchDraft, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, input.TournamentID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if role != models.RoleAdmin && (role != models.RoleOrganizer || tournament.OrganizerID != requestingUserID) {
		return nil, ErrForbiddenOperation
	}

	teams, err := s.teamRepo.ListByTournament(ctx, nil, input.TournamentID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	generator, err := schedule.ForFormat(tournament.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	drafts, err := generator.Generate(ctx, schedule.GenerateParams{
		TournamentID: tournament.ID,
		TeamIDs:      teamIDs(teams),
		Structure:    tournament.Structure,
		// Seeding from the tournament id keeps knockout shuffles
		// reproducible across regenerations.
		Seed: int64(tournament.ID),
	})
	if err != nil {
		if errors.Is(err, schedule.ErrInsufficientTeams) {
			return nil, fmt.Errorf("%w: %v", ErrInsufficientTeams, err)
		}
		return nil, err
	}

	s.applyDates(drafts, input, tournament)

	if err := s.matchRepo.ReplaceScheduled(ctx, tournament.ID, drafts); err != nil {
		return nil, mapRepositoryError(err)
	}

	s.logger.Info("schedule generated",
		slog.Int("tournament_id", tournament.ID),
		slog.String("generator", generator.GetName()),
		slog.Int("fixtures", len(drafts)))
	s.hub.Publish(tournament.ID, brackets.UpdateSchedule, drafts)

	return drafts, nil
}

func (s *scheduleService) applyDates(drafts []*models.MatchDraft, input GenerateScheduleInput, tournament *models.Tournament) {
	if len(input.ManualDates) > 0 {
		i := 0
		for _, d := range drafts {
			if d.IsBye || i >= len(input.ManualDates) {
				continue
			}
			d.ScheduledDate = input.ManualDates[i]
			i++
		}
	}

	start := input.StartDate
	if start.IsZero() {
		start = tournament.StartDate
	}
	policy := schedule.DefaultSlotPolicy()
	if input.SlotPolicy != nil {
		policy = *input.SlotPolicy
	}
	schedule.ApplySlots(drafts, start, policy)
}
