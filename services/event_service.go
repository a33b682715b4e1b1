package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Manecharo/verzot-sub000/brackets"
	"github.com/Manecharo/verzot-sub000/models"
	"github.com/Manecharo/verzot-sub000/repositories"
)

const (
	maxEventMinute    = 120
	maxEventAddedTime = 15
)

type EventService interface {
	// AddEvent validates and appends one event. Events are only accepted
	// once the match is in progress or later, and never after the completed
	// result has been fully confirmed.
	AddEvent(ctx context.Context, event *models.MatchEvent, requestingUserID int) (*models.MatchEvent, error)
	// RemoveEvent deletes an event under the same gate as AddEvent. A
	// correction is a remove followed by an add; events are never edited in
	// place.
	RemoveEvent(ctx context.Context, matchID, eventID int, requestingUserID int) error
	// Timeline returns the match events ordered by (half, minute, addedTime).
	Timeline(ctx context.Context, matchID int) ([]*models.MatchEvent, error)
}

type eventService struct {
	matchRepo repositories.MatchRepository
	eventRepo repositories.MatchEventRepository
	hub       *brackets.Hub
	logger    *slog.Logger
}

func NewEventService(
	matchRepo repositories.MatchRepository,
	eventRepo repositories.MatchEventRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) EventService {
	return &eventService{
		matchRepo: matchRepo,
		eventRepo: eventRepo,
		hub:       hub,
		logger:    logger,
	}
}

func (s *eventService) AddEvent(ctx context.Context, event *models.MatchEvent, requestingUserID int) (*models.MatchEvent, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, event.MatchID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if err := s.checkMutable(match); err != nil {
		return nil, err
	}
	if err := validateEvent(match, event); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Append(ctx, nil, event); err != nil {
		return nil, mapRepositoryError(err)
	}
	s.logger.Info("match event recorded",
		slog.Int("match_id", event.MatchID),
		slog.Int("event_id", event.ID),
		slog.String("type", string(event.Type)),
		slog.Int("requested_by", requestingUserID))
	s.hub.Publish(match.TournamentID, brackets.UpdateEvent, event)
	return event, nil
}

func (s *eventService) RemoveEvent(ctx context.Context, matchID, eventID int, requestingUserID int) error {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return mapRepositoryError(err)
	}
	if err := s.checkMutable(match); err != nil {
		return err
	}

	if err := s.eventRepo.Delete(ctx, nil, matchID, eventID); err != nil {
		return mapRepositoryError(err)
	}
	s.logger.Info("match event removed",
		slog.Int("match_id", matchID),
		slog.Int("event_id", eventID),
		slog.Int("requested_by", requestingUserID))
	s.hub.Publish(match.TournamentID, brackets.UpdateEvent, map[string]int{"removed_event_id": eventID})
	return nil
}

func (s *eventService) Timeline(ctx context.Context, matchID int) ([]*models.MatchEvent, error) {
	if _, err := s.matchRepo.GetByID(ctx, nil, matchID); err != nil {
		return nil, mapRepositoryError(err)
	}
	events, err := s.eventRepo.ListByMatch(ctx, nil, matchID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return events, nil
}

// checkMutable holds the recording window open from kickoff until full
// confirmation. Events on a merely scheduled match are rejected here rather
// than by caller-level policy.
func (s *eventService) checkMutable(match *models.Match) error {
	switch match.Status {
	case models.MatchStatusScheduled:
		return fmt.Errorf("%w: match %d has not started", ErrInvalidEvent, match.ID)
	case models.MatchStatusCanceled:
		return fmt.Errorf("%w: match %d is canceled", ErrInvalidEvent, match.ID)
	}
	if match.FullyConfirmed() {
		return fmt.Errorf("%w: match %d", ErrMatchLocked, match.ID)
	}
	return nil
}

func validateEvent(match *models.Match, event *models.MatchEvent) error {
	switch event.Type {
	case models.EventGoal, models.EventOwnGoal, models.EventYellowCard, models.EventRedCard,
		models.EventSecondYellow, models.EventPenaltyGoal, models.EventPenaltyMissed,
		models.EventPenaltySaved, models.EventSubstitutionIn, models.EventSubstitutionOut,
		models.EventInjury, models.EventAssist:
	default:
		return fmt.Errorf("%w: unknown event type %q", ErrInvalidEvent, event.Type)
	}

	if !match.HasTeam(event.TeamID) {
		return fmt.Errorf("%w: team %d is not playing in match %d", ErrInvalidEvent, event.TeamID, match.ID)
	}
	if event.Half < models.HalfFirst || event.Half > models.HalfPenalties {
		return fmt.Errorf("%w: half %d out of range [1, 5]", ErrInvalidEvent, event.Half)
	}
	if event.Minute < 0 || event.Minute > maxEventMinute {
		return fmt.Errorf("%w: minute %d out of range [0, %d]", ErrInvalidEvent, event.Minute, maxEventMinute)
	}
	if event.AddedTime < 0 || event.AddedTime > maxEventAddedTime {
		return fmt.Errorf("%w: added time %d out of range [0, %d]", ErrInvalidEvent, event.AddedTime, maxEventAddedTime)
	}
	if event.PlayerID <= 0 {
		return fmt.Errorf("%w: player is required", ErrInvalidEvent)
	}
	if event.Type.RequiresSecondaryPlayer() && event.SecondaryPlayerID == nil {
		return fmt.Errorf("%w: %s requires a secondary player", ErrInvalidEvent, event.Type)
	}
	return nil
}
