package services

import (
	"context"
	"log/slog"

	"github.com/Manecharo/verzot-sub000/brackets"
	"github.com/Manecharo/verzot-sub000/models"
	"github.com/Manecharo/verzot-sub000/repositories"
	"github.com/Manecharo/verzot-sub000/standings"
	"golang.org/x/sync/errgroup"
)

// StandingsView is the read-only projection handed to the UI layer. It is
// recomputed on every call and never persisted as ground truth.
type StandingsView struct {
	TournamentID      int                   `json:"tournament_id"`
	Group             *string               `json:"group,omitempty"`
	Rows              []*models.StandingRow `json:"rows"`
	TieBrokenRandomly bool                  `json:"tie_broken_randomly,omitempty"`
}

type StandingsService interface {
	Compute(ctx context.Context, tournamentID int) (*StandingsView, error)
	ComputeGroup(ctx context.Context, tournamentID int, group string) (*StandingsView, error)
}

type standingsService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	eventRepo      repositories.MatchEventRepository
	hub            *brackets.Hub
	logger         *slog.Logger
}

func NewStandingsService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	eventRepo repositories.MatchEventRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) StandingsService {
	return &standingsService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		eventRepo:      eventRepo,
		hub:            hub,
		logger:         logger,
	}
}

func (s *standingsService) Compute(ctx context.Context, tournamentID int) (*StandingsView, error) {
	return s.compute(ctx, tournamentID, nil)
}

func (s *standingsService) ComputeGroup(ctx context.Context, tournamentID int, group string) (*StandingsView, error) {
	return s.compute(ctx, tournamentID, &group)
}

func (s *standingsService) compute(ctx context.Context, tournamentID int, group *string) (*StandingsView, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	var (
		teams   []*models.Team
		matches []*models.Match
		events  []*models.MatchEvent
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.ListByTournament(gctx, nil, tournamentID)
		return err
	})
	g.Go(func() error {
		// The group roster is derived from all of the group's fixtures, so
		// group standings load unfiltered; Compute only folds completed
		// matches either way.
		filter := repositories.MatchFilter{Group: group}
		if group == nil {
			completed := models.MatchStatusCompleted
			filter.Status = &completed
		}
		var err error
		matches, err = s.matchRepo.ListByTournament(gctx, nil, tournamentID, filter)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = s.eventRepo.ListByTournament(gctx, nil, tournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, mapRepositoryError(err)
	}

	roster := teamIDs(teams)
	if group != nil {
		roster = groupRoster(matches)
	}

	rows, randomUsed, err := standings.Compute(standings.Input{
		TeamIDs:     roster,
		Matches:     matches,
		Rules:       tournament.Rules,
		Tiebreakers: tournament.Tiebreakers,
		Discipline:  disciplinePoints(events, matches, tournament.Tiebreakers),
		Seed:        int64(tournament.ID),
	})
	if err != nil {
		return nil, err
	}
	if randomUsed {
		// Informational, not fatal: the configured criteria chain could not
		// separate every pair and the seeded fallback decided the order.
		s.logger.Warn("standings tie resolved by random fallback",
			slog.Int("tournament_id", tournamentID),
			slog.Any("criteria", tournament.Tiebreakers.Criteria))
	}

	view := &StandingsView{
		TournamentID:      tournamentID,
		Group:             group,
		Rows:              rows,
		TieBrokenRandomly: randomUsed,
	}
	s.hub.Publish(tournamentID, brackets.UpdateStandings, view)
	return view, nil
}

// groupRoster derives a group's team set from its fixtures; group membership
// has no table of its own, the fixtures are the source of truth.
func groupRoster(matches []*models.Match) []int {
	seen := make(map[int]bool)
	roster := make([]int, 0)
	for _, m := range matches {
		for _, id := range []int{m.HomeTeamID, m.AwayTeamID} {
			if !seen[id] {
				seen[id] = true
				roster = append(roster, id)
			}
		}
	}
	return roster
}

// disciplinePoints folds card events into per-team totals using the
// configured weights. A second yellow counts at the red weight on top of the
// yellow already booked.
func disciplinePoints(events []*models.MatchEvent, matches []*models.Match, tb models.TiebreakerRules) map[int]int {
	inScope := make(map[int]bool, len(matches))
	for _, m := range matches {
		inScope[m.ID] = true
	}

	points := make(map[int]int)
	for _, e := range events {
		if !inScope[e.MatchID] {
			continue
		}
		switch e.Type {
		case models.EventYellowCard:
			points[e.TeamID] += tb.YellowCardPoints
		case models.EventRedCard, models.EventSecondYellow:
			points[e.TeamID] += tb.RedCardPoints
		}
	}
	return points
}
