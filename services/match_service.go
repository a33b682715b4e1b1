package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Manecharo/verzot-sub000/brackets"
	"github.com/Manecharo/verzot-sub000/models"
	"github.com/Manecharo/verzot-sub000/repositories"
)

// UpdateScoreInput carries a full score patch; nil half-time and penalty
// fields clear nothing, they are written as given.
type UpdateScoreInput struct {
	HomeScore         int
	AwayScore         int
	HalfTimeHomeScore *int
	HalfTimeAwayScore *int
	HasPenalties      bool
	HomePenaltyScore  *int
	AwayPenaltyScore  *int
}

type MatchService interface {
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, filter repositories.MatchFilter) ([]*models.Match, error)
	// UpdateStatus applies one edge of the lifecycle graph. An illegal edge
	// returns ErrInvalidStatusTransition and leaves the match unchanged.
	UpdateStatus(ctx context.Context, id int, next models.MatchStatus, requestingUserID int) (*models.Match, error)
	// Confirm records one role's attestation of a completed result. It is
	// idempotent per role; a repeat call is a no-op, not an error.
	Confirm(ctx context.Context, id int, role models.ConfirmRole, requestingUserID int) (*models.Match, error)
	// UpdateScore is allowed from in-progress until the completed result is
	// fully confirmed, after which the match is locked.
	UpdateScore(ctx context.Context, id int, input UpdateScoreInput, requestingUserID int) (*models.Match, error)
}

type matchService struct {
	matchRepo repositories.MatchRepository
	hub       *brackets.Hub
	logger    *slog.Logger
}

func NewMatchService(matchRepo repositories.MatchRepository, hub *brackets.Hub, logger *slog.Logger) MatchService {
	return &matchService{matchRepo: matchRepo, hub: hub, logger: logger}
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	m, err := s.matchRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return m, nil
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int, filter repositories.MatchFilter) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID, filter)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return matches, nil
}

func (s *matchService) UpdateStatus(ctx context.Context, id int, next models.MatchStatus, requestingUserID int) (*models.Match, error) {
	m, err := s.matchRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if !isValidMatchTransition(m.Status, next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, m.Status, next)
	}
	// A completed match is read by standings and bracket progression, both
	// of which need a score. Completion waits until one is recorded.
	if next == models.MatchStatusCompleted && (m.HomeScore == nil || m.AwayScore == nil) {
		return nil, fmt.Errorf("%w: match %d cannot complete without a recorded score", ErrValidationFailed, id)
	}

	if err := s.matchRepo.UpdateStatus(ctx, nil, id, next); err != nil {
		return nil, mapRepositoryError(err)
	}
	s.logger.Info("match status changed",
		slog.Int("match_id", id),
		slog.String("from", string(m.Status)),
		slog.String("to", string(next)),
		slog.Int("requested_by", requestingUserID))
	m.Status = next
	s.hub.Publish(m.TournamentID, brackets.UpdateMatchStatus, m)
	return m, nil
}

func (s *matchService) Confirm(ctx context.Context, id int, role models.ConfirmRole, requestingUserID int) (*models.Match, error) {
	m, err := s.matchRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if m.Status != models.MatchStatusCompleted {
		return nil, fmt.Errorf("%w: match %d is %s", ErrMatchNotCompleted, id, m.Status)
	}
	switch role {
	case models.ConfirmRoleHome, models.ConfirmRoleAway, models.ConfirmRoleReferee:
	default:
		return nil, fmt.Errorf("%w: unknown confirmation role %q", ErrValidationFailed, role)
	}
	if role == models.ConfirmRoleReferee && m.RefereeID == nil {
		return nil, fmt.Errorf("%w: no referee assigned to match %d", ErrConfirmRoleNotApplicable, id)
	}

	if alreadyConfirmed(m, role) {
		// Idempotent: repeating a confirmation changes nothing.
		return m, nil
	}

	now := time.Now()
	if err := s.matchRepo.SetConfirmation(ctx, nil, id, role, now); err != nil {
		return nil, mapRepositoryError(err)
	}
	applyConfirmation(m, role, now)

	s.logger.Info("match result confirmed",
		slog.Int("match_id", id),
		slog.String("role", string(role)),
		slog.Int("requested_by", requestingUserID),
		slog.Bool("fully_confirmed", m.FullyConfirmed()))
	s.hub.Publish(m.TournamentID, brackets.UpdateMatchStatus, m)
	return m, nil
}

func (s *matchService) UpdateScore(ctx context.Context, id int, input UpdateScoreInput, requestingUserID int) (*models.Match, error) {
	m, err := s.matchRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if m.Status != models.MatchStatusInProgress && m.Status != models.MatchStatusCompleted {
		return nil, fmt.Errorf("%w: cannot record a score on a %s match", ErrValidationFailed, m.Status)
	}
	if m.FullyConfirmed() {
		return nil, fmt.Errorf("%w: match %d", ErrMatchLocked, id)
	}
	if err := validatePenaltyScores(m.Status, input); err != nil {
		return nil, err
	}

	m.HomeScore = intPtr(input.HomeScore)
	m.AwayScore = intPtr(input.AwayScore)
	m.HalfTimeHomeScore = input.HalfTimeHomeScore
	m.HalfTimeAwayScore = input.HalfTimeAwayScore
	m.HasPenalties = input.HasPenalties
	m.HomePenaltyScore = input.HomePenaltyScore
	m.AwayPenaltyScore = input.AwayPenaltyScore

	if err := s.matchRepo.UpdateScore(ctx, nil, m); err != nil {
		return nil, mapRepositoryError(err)
	}
	s.logger.Info("match score updated",
		slog.Int("match_id", id),
		slog.Int("home", input.HomeScore),
		slog.Int("away", input.AwayScore),
		slog.Int("requested_by", requestingUserID))
	s.hub.Publish(m.TournamentID, brackets.UpdateMatchScore, m)
	return m, nil
}

// validatePenaltyScores enforces the invariant that penalty scores exist if
// and only if the shootout flag is set on a drawn completed match.
func validatePenaltyScores(status models.MatchStatus, input UpdateScoreInput) error {
	if !input.HasPenalties {
		if input.HomePenaltyScore != nil || input.AwayPenaltyScore != nil {
			return ErrPenaltyScoreInconsistent
		}
		return nil
	}
	if input.HomeScore != input.AwayScore {
		return ErrPenaltyScoreInconsistent
	}
	if status == models.MatchStatusCompleted {
		if input.HomePenaltyScore == nil || input.AwayPenaltyScore == nil {
			return ErrPenaltyScoreInconsistent
		}
		if *input.HomePenaltyScore == *input.AwayPenaltyScore {
			return fmt.Errorf("%w: a shootout cannot end level", ErrPenaltyScoreInconsistent)
		}
	}
	return nil
}

func alreadyConfirmed(m *models.Match, role models.ConfirmRole) bool {
	switch role {
	case models.ConfirmRoleHome:
		return m.HomeConfirmed
	case models.ConfirmRoleAway:
		return m.AwayConfirmed
	case models.ConfirmRoleReferee:
		return m.RefereeConfirmed
	default:
		return false
	}
}

func applyConfirmation(m *models.Match, role models.ConfirmRole, at time.Time) {
	switch role {
	case models.ConfirmRoleHome:
		m.HomeConfirmed = true
		m.HomeConfirmedAt = &at
	case models.ConfirmRoleAway:
		m.AwayConfirmed = true
		m.AwayConfirmedAt = &at
	case models.ConfirmRoleReferee:
		m.RefereeConfirmed = true
		m.RefereeConfirmedAt = &at
	}
}
