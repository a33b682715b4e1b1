package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Manecharo/verzot-sub000/models"
	"github.com/Manecharo/verzot-sub000/repositories"
	"github.com/Manecharo/verzot-sub000/storage"
)

type TournamentService interface {
	Create(ctx context.Context, organizerID int, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, limit, offset int) ([]*models.Tournament, error)
	UpdateStatus(ctx context.Context, id int, next models.TournamentStatus, requestingUserID int, role models.UserRole) (*models.Tournament, error)
	UploadBadge(ctx context.Context, id int, contentType string, badge io.Reader, requestingUserID int, role models.UserRole) (*models.Tournament, error)
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		uploader:       uploader,
		logger:         logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, organizerID int, t *models.Tournament) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	if t.MinTeams < 2 {
		return fmt.Errorf("%w: minimum team count must be at least 2", ErrValidationFailed)
	}
	if t.MinTeams > t.MaxTeams {
		return ErrTournamentInvalidTeamBounds
	}
	if !t.EndDate.After(t.StartDate) {
		return ErrTournamentInvalidDateRange
	}
	rules, err := pointsRulesOrDefault(t.Rules)
	if err != nil {
		return err
	}
	t.Rules = rules
	if err := validateTiebreakers(t.Tiebreakers); err != nil {
		return err
	}

	t.OrganizerID = organizerID
	t.Status = models.TournamentStatusDraft

	if err := s.tournamentRepo.Create(ctx, nil, t); err != nil {
		return mapRepositoryError(err)
	}
	s.logger.Info("tournament created",
		slog.Int("tournament_id", t.ID),
		slog.String("format", string(t.Format)),
		slog.Int("organizer_id", organizerID))
	return nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	populateTournamentBadgeURL(t, s.uploader)
	return t, nil
}

func (s *tournamentService) List(ctx context.Context, limit, offset int) ([]*models.Tournament, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	tournaments, err := s.tournamentRepo.List(ctx, nil, limit, offset)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	for _, t := range tournaments {
		populateTournamentBadgeURL(t, s.uploader)
	}
	return tournaments, nil
}

func (s *tournamentService) UpdateStatus(ctx context.Context, id int, next models.TournamentStatus, requestingUserID int, role models.UserRole) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if err := s.authorizeOrganizer(t, requestingUserID, role); err != nil {
		return nil, err
	}
	if !isValidTournamentTransition(t.Status, next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrTournamentInvalidStatusTransition, t.Status, next)
	}
	if t.Status == next {
		return t, nil
	}

	// Starting a tournament requires the registered roster to be inside the
	// configured bounds.
	if next == models.TournamentStatusInProgress {
		teams, err := s.teamRepo.ListByTournament(ctx, nil, id)
		if err != nil {
			return nil, mapRepositoryError(err)
		}
		if len(teams) < t.MinTeams || len(teams) > t.MaxTeams {
			return nil, fmt.Errorf("%w: %d teams registered, bounds are [%d, %d]",
				ErrValidationFailed, len(teams), t.MinTeams, t.MaxTeams)
		}
	}

	if err := s.tournamentRepo.UpdateStatus(ctx, nil, id, next); err != nil {
		return nil, mapRepositoryError(err)
	}
	s.logger.Info("tournament status changed",
		slog.Int("tournament_id", id),
		slog.String("from", string(t.Status)),
		slog.String("to", string(next)))
	t.Status = next
	return t, nil
}

func (s *tournamentService) UploadBadge(ctx context.Context, id int, contentType string, badge io.Reader, requestingUserID int, role models.UserRole) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if err := s.authorizeOrganizer(t, requestingUserID, role); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("tournaments/%d/badge", id)
	result, err := s.uploader.Upload(ctx, key, contentType, badge)
	if err != nil {
		return nil, fmt.Errorf("failed to upload tournament badge: %w", err)
	}
	if err := s.tournamentRepo.UpdateBadgeKey(ctx, nil, id, &result.Key); err != nil {
		return nil, mapRepositoryError(err)
	}
	t.BadgeKey = &result.Key
	populateTournamentBadgeURL(t, s.uploader)
	return t, nil
}

func (s *tournamentService) authorizeOrganizer(t *models.Tournament, requestingUserID int, role models.UserRole) error {
	if role == models.RoleAdmin {
		return nil
	}
	if role == models.RoleOrganizer && t.OrganizerID == requestingUserID {
		return nil
	}
	return ErrForbiddenOperation
}

// pointsRulesOrDefault fills the conventional 3/1/0 scheme when the caller
// leaves all three point values at zero.
func pointsRulesOrDefault(rules models.Rules) (models.Rules, error) {
	if rules.PointsForWin == 0 && rules.PointsForDraw == 0 && rules.PointsForLoss == 0 {
		rules.PointsForWin = 3
		rules.PointsForDraw = 1
		return rules, nil
	}
	if rules.PointsForWin < rules.PointsForDraw || rules.PointsForDraw < rules.PointsForLoss {
		return rules, fmt.Errorf("%w: points must not reward a worse result more", ErrValidationFailed)
	}
	return rules, nil
}

func validateTiebreakers(tb models.TiebreakerRules) error {
	valid := map[models.TiebreakerCriterion]bool{
		models.TiebreakPoints:         true,
		models.TiebreakHeadToHead:     true,
		models.TiebreakGoalDifference: true,
		models.TiebreakGoalsFor:       true,
		models.TiebreakFairPlay:       true,
		models.TiebreakRandom:         true,
	}
	for _, c := range tb.Criteria {
		if !valid[c] {
			return fmt.Errorf("%w: unknown tiebreaker criterion %q", ErrValidationFailed, c)
		}
		if c == models.TiebreakFairPlay && (tb.YellowCardPoints <= 0 || tb.RedCardPoints <= 0) {
			return fmt.Errorf("%w: fairPlay requires explicit yellow and red card point values", ErrValidationFailed)
		}
	}
	return nil
}
