package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Manecharo/verzot-sub000/brackets"
	"github.com/Manecharo/verzot-sub000/models"
	"github.com/Manecharo/verzot-sub000/repositories"
	"github.com/Manecharo/verzot-sub000/schedule"
	"github.com/Manecharo/verzot-sub000/standings"
	"golang.org/x/sync/errgroup"
)

// BracketRound is one knockout round with its display name.
type BracketRound struct {
	Round   int             `json:"round"`
	Name    string          `json:"name"`
	Matches []*models.Match `json:"matches"`
}

type BracketService interface {
	// AdvanceRound pairs the winners of a fully completed knockout round
	// into the next round and persists the new fixtures. Entrants that sat
	// out the round on a bye re-enter the draw here.
	AdvanceRound(ctx context.Context, tournamentID, round int, requestingUserID int, role models.UserRole) ([]*models.MatchDraft, error)
	// SeedKnockout builds the first knockout round of a hybrid tournament
	// from the final group standings, taking the configured number of
	// advancing teams per group.
	SeedKnockout(ctx context.Context, tournamentID int, requestingUserID int, role models.UserRole) ([]*models.MatchDraft, error)
	// View returns the bracket grouped by round with human-readable names.
	View(ctx context.Context, tournamentID int) ([]BracketRound, error)
}

type bracketService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	eventRepo      repositories.MatchEventRepository
	hub            *brackets.Hub
	logger         *slog.Logger
}

func NewBracketService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	eventRepo repositories.MatchEventRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		eventRepo:      eventRepo,
		hub:            hub,
		logger:         logger,
	}
}

func (s *bracketService) AdvanceRound(ctx context.Context, tournamentID, round int, requestingUserID int, role models.UserRole) ([]*models.MatchDraft, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if role != models.RoleAdmin && (role != models.RoleOrganizer || tournament.OrganizerID != requestingUserID) {
		return nil, ErrForbiddenOperation
	}

	var (
		matches []*models.Match
		teams   []*models.Team
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(gctx, nil, tournamentID, repositories.MatchFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.ListByTournament(gctx, nil, tournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, mapRepositoryError(err)
	}

	byRound := knockoutByRound(matches)
	knockout := byRound[round]
	if len(knockout) == 0 {
		return nil, fmt.Errorf("%w: no knockout matches in round %d", ErrValidationFailed, round)
	}
	for _, m := range knockout {
		if m.Status != models.MatchStatusCompleted {
			return nil, fmt.Errorf("%w: match %d is %s", ErrRoundNotComplete, m.ID, m.Status)
		}
	}

	// Byes are not persisted as fixtures, so the holder of a bye in this
	// round is recovered from the match history: any entrant that has not
	// lost a knockout match and has no fixture in the round sat it out, and
	// re-enters the draw behind the winners.
	entrants, err := s.knockoutEntrants(ctx, tournament, teams, matches)
	if err != nil {
		return nil, err
	}
	byes, err := carriedByes(entrants, byRound, round)
	if err != nil {
		return nil, mapBracketError(err)
	}
	drafts, err := brackets.NextRoundWithByes(knockout, byes)
	if err != nil {
		return nil, mapBracketError(err)
	}
	if len(drafts) == 0 {
		// Single completed match and nobody on a bye: the bracket has its
		// champion.
		return nil, nil
	}

	schedule.ApplySlots(drafts, latestDate(knockout).AddDate(0, 0, 2), schedule.DefaultSlotPolicy())
	if err := s.matchRepo.CreateFromDrafts(ctx, nil, drafts); err != nil {
		return nil, mapRepositoryError(err)
	}

	s.logger.Info("bracket advanced",
		slog.Int("tournament_id", tournamentID),
		slog.Int("from_round", round),
		slog.Int("next_fixtures", len(drafts)))
	s.hub.Publish(tournamentID, brackets.UpdateBracket, drafts)
	return drafts, nil
}

func (s *bracketService) SeedKnockout(ctx context.Context, tournamentID int, requestingUserID int, role models.UserRole) ([]*models.MatchDraft, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if role != models.RoleAdmin && (role != models.RoleOrganizer || tournament.OrganizerID != requestingUserID) {
		return nil, ErrForbiddenOperation
	}
	if tournament.Format != models.FormatGroupKnockout {
		return nil, fmt.Errorf("%w: format %s has no seeded knockout stage", ErrValidationFailed, tournament.Format)
	}

	var (
		matches []*models.Match
		events  []*models.MatchEvent
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(gctx, nil, tournamentID, repositories.MatchFilter{})
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

	if len(filterKnockout(matches)) > 0 {
		return nil, fmt.Errorf("%w: knockout stage already seeded", ErrValidationFailed)
	}

	entrants, err := groupAdvancers(tournament, matches, events)
	if err != nil {
		return nil, err
	}

	generator := schedule.NewKnockoutGenerator()
	drafts, err := generator.Generate(ctx, schedule.GenerateParams{
		TournamentID: tournamentID,
		TeamIDs:      entrants,
		Structure:    tournament.Structure,
		Seed:         int64(tournament.ID),
	})
	if err != nil {
		if errors.Is(err, schedule.ErrInsufficientTeams) {
			return nil, fmt.Errorf("%w: %v", ErrInsufficientTeams, err)
		}
		return nil, err
	}

	schedule.ApplySlots(drafts, latestDate(matches).AddDate(0, 0, 2), schedule.DefaultSlotPolicy())
	if err := s.matchRepo.CreateFromDrafts(ctx, nil, drafts); err != nil {
		return nil, mapRepositoryError(err)
	}

	s.logger.Info("knockout stage seeded",
		slog.Int("tournament_id", tournamentID),
		slog.Int("entrants", len(entrants)),
		slog.Int("fixtures", len(drafts)))
	s.hub.Publish(tournamentID, brackets.UpdateBracket, drafts)
	return drafts, nil
}

func (s *bracketService) View(ctx context.Context, tournamentID int) ([]BracketRound, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID, repositories.MatchFilter{})
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	knockout := filterKnockout(matches)
	if len(knockout) == 0 {
		return []BracketRound{}, nil
	}

	byRound := make(map[int][]*models.Match)
	totalRounds := 0
	for _, m := range knockout {
		byRound[m.Round] = append(byRound[m.Round], m)
		if m.Round > totalRounds {
			totalRounds = m.Round
		}
	}
	// The depth of the bracket is known from its first round's size even if
	// later rounds do not exist yet.
	depth := bracketDepth(len(byRound[1]) * 2)
	if depth < totalRounds {
		depth = totalRounds
	}

	view := make([]BracketRound, 0, len(byRound))
	for round := 1; round <= totalRounds; round++ {
		if len(byRound[round]) == 0 {
			continue
		}
		view = append(view, BracketRound{
			Round:   round,
			Name:    brackets.RoundName(round, depth),
			Matches: byRound[round],
		})
	}
	return view, nil
}

// knockoutEntrants returns the teams that entered the bracket. A pure
// knockout bracket takes the whole roster; a hybrid one takes the group
// advancers, recomputed from the final group standings.
func (s *bracketService) knockoutEntrants(ctx context.Context, tournament *models.Tournament, teams []*models.Team, matches []*models.Match) ([]int, error) {
	if tournament.Format != models.FormatGroupKnockout {
		return teamIDs(teams), nil
	}
	events, err := s.eventRepo.ListByTournament(ctx, nil, tournament.ID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return groupAdvancers(tournament, matches, events)
}

// groupAdvancers ranks every group and takes its top advancing_teams_count
// teams, interleaved by rank so group winners are seeded apart from the
// runners-up. Groups with unplayed fixtures block seeding.
func groupAdvancers(tournament *models.Tournament, matches []*models.Match, events []*models.MatchEvent) ([]int, error) {
	byGroup := make(map[string][]*models.Match)
	for _, m := range matches {
		if m.Phase != models.PhaseGroup || m.Group == nil {
			continue
		}
		byGroup[*m.Group] = append(byGroup[*m.Group], m)
	}
	if len(byGroup) == 0 {
		return nil, fmt.Errorf("%w: tournament %d has no group fixtures", ErrValidationFailed, tournament.ID)
	}

	labels := make([]string, 0, len(byGroup))
	for label := range byGroup {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	advancing := tournament.Structure.AdvancingTeamsCount
	if advancing <= 0 {
		advancing = 2
	}

	ranked := make(map[string][]*models.StandingRow, len(byGroup))
	for _, label := range labels {
		group := byGroup[label]
		for _, m := range group {
			if m.Status == models.MatchStatusScheduled || m.Status == models.MatchStatusInProgress {
				return nil, fmt.Errorf("%w: group %s match %d is %s", ErrRoundNotComplete, label, m.ID, m.Status)
			}
		}
		rows, _, err := standings.Compute(standings.Input{
			TeamIDs:     groupRoster(group),
			Matches:     group,
			Rules:       tournament.Rules,
			Tiebreakers: tournament.Tiebreakers,
			Discipline:  disciplinePoints(events, group, tournament.Tiebreakers),
			Seed:        int64(tournament.ID),
		})
		if err != nil {
			return nil, err
		}
		if len(rows) < advancing {
			return nil, fmt.Errorf("%w: group %s has %d teams, %d must advance", ErrValidationFailed, label, len(rows), advancing)
		}
		ranked[label] = rows
	}

	entrants := make([]int, 0, advancing*len(labels))
	for rank := 0; rank < advancing; rank++ {
		for _, label := range labels {
			entrants = append(entrants, ranked[label][rank].TeamID)
		}
	}
	return entrants, nil
}

// carriedByes returns the entrants that are still alive but have no fixture
// in the given round. Losers of every earlier completed knockout match are
// out; everyone else without a pairing sat the round out on a bye.
func carriedByes(entrants []int, byRound map[int][]*models.Match, round int) ([]int, error) {
	alive := make(map[int]bool, len(entrants))
	for _, id := range entrants {
		alive[id] = true
	}
	for r := 1; r < round; r++ {
		for _, m := range byRound[r] {
			if m.Status != models.MatchStatusCompleted {
				continue
			}
			winner, err := brackets.Winner(m)
			if err != nil {
				return nil, err
			}
			if winner == m.HomeTeamID {
				delete(alive, m.AwayTeamID)
			} else {
				delete(alive, m.HomeTeamID)
			}
		}
	}

	playing := make(map[int]bool, len(byRound[round])*2)
	for _, m := range byRound[round] {
		playing[m.HomeTeamID] = true
		playing[m.AwayTeamID] = true
	}

	byes := make([]int, 0, 1)
	for _, id := range entrants {
		if alive[id] && !playing[id] {
			byes = append(byes, id)
		}
	}
	return byes, nil
}

// mapBracketError translates progression sentinels into service ones so the
// transport layer can tell a business-rule violation from a server fault.
func mapBracketError(err error) error {
	switch {
	case errors.Is(err, brackets.ErrMatchNotDecisive):
		return fmt.Errorf("%w: %v", ErrMatchNotDecisive, err)
	case errors.Is(err, brackets.ErrMatchNotCompleted):
		return fmt.Errorf("%w: %v", ErrMatchNotCompleted, err)
	case errors.Is(err, brackets.ErrUnevenBracket):
		return fmt.Errorf("%w: %v", ErrUnevenBracket, err)
	default:
		return err
	}
}

func filterKnockout(matches []*models.Match) []*models.Match {
	knockout := make([]*models.Match, 0, len(matches))
	for _, m := range matches {
		switch m.Phase {
		case models.PhaseLeague, models.PhaseGroup:
		default:
			knockout = append(knockout, m)
		}
	}
	return knockout
}

func knockoutByRound(matches []*models.Match) map[int][]*models.Match {
	byRound := make(map[int][]*models.Match)
	for _, m := range filterKnockout(matches) {
		byRound[m.Round] = append(byRound[m.Round], m)
	}
	return byRound
}

func latestDate(matches []*models.Match) time.Time {
	var latest time.Time
	for _, m := range matches {
		if m.ScheduledDate.After(latest) {
			latest = m.ScheduledDate
		}
	}
	return latest
}

func bracketDepth(teams int) int {
	depth := 0
	for size := 1; size < teams; size *= 2 {
		depth++
	}
	return depth
}
