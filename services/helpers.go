package services

import (
	"errors"

	"github.com/Manecharo/verzot-sub000/models"
	"github.com/Manecharo/verzot-sub000/repositories"
	"github.com/Manecharo/verzot-sub000/storage"
)

// --- Общие хелперы ---

func intPtr(v int) *int {
	return &v
}

// isValidTournamentTransition keeps tournament statuses monotonic;
// cancellation is the only sideways move and is allowed from any
// non-terminal status.
func isValidTournamentTransition(current, next models.TournamentStatus) bool {
	if current == next {
		return true
	}
	if next == models.TournamentStatusCanceled {
		return current != models.TournamentStatusCompleted && current != models.TournamentStatusCanceled
	}
	allowedTransitions := map[models.TournamentStatus][]models.TournamentStatus{
		models.TournamentStatusDraft:              {models.TournamentStatusPublished},
		models.TournamentStatusPublished:          {models.TournamentStatusRegistrationOpen},
		models.TournamentStatusRegistrationOpen:   {models.TournamentStatusRegistrationClosed},
		models.TournamentStatusRegistrationClosed: {models.TournamentStatusInProgress},
		models.TournamentStatusInProgress:         {models.TournamentStatusCompleted},
		models.TournamentStatusCompleted:          {},
		models.TournamentStatusCanceled:           {},
	}
	for _, allowed := range allowedTransitions[current] {
		if next == allowed {
			return true
		}
	}
	return false
}

// isValidMatchTransition is the match lifecycle graph. Completed and
// canceled are terminal.
func isValidMatchTransition(current, next models.MatchStatus) bool {
	allowedTransitions := map[models.MatchStatus][]models.MatchStatus{
		models.MatchStatusScheduled:  {models.MatchStatusInProgress, models.MatchStatusCanceled},
		models.MatchStatusInProgress: {models.MatchStatusCompleted, models.MatchStatusCanceled},
		models.MatchStatusCompleted:  {},
		models.MatchStatusCanceled:   {},
	}
	for _, allowed := range allowedTransitions[current] {
		if next == allowed {
			return true
		}
	}
	return false
}

// mapRepositoryError converts repo sentinels to service-level ones so
// handlers only ever match on the services package.
func mapRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrEventNotFound):
		return ErrEventNotFound
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrTournamentNameConflict):
		return ErrTournamentNameConflict
	default:
		return err
	}
}

func teamIDs(teams []*models.Team) []int {
	ids := make([]int, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
	}
	return ids
}

// --- Хелперы для заполнения URL бейджей ---

func populateTournamentBadgeURL(t *models.Tournament, uploader storage.FileUploader) {
	if t != nil && t.BadgeKey != nil && *t.BadgeKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*t.BadgeKey)
		t.BadgeURL = &url
	}
}
