package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Manecharo/verzot-sub000/models"
)

var (
	ErrMatchNotFound      = errors.New("match not found")
	ErrDraftMissingTeams  = errors.New("match draft has no home or away team")
	ErrUnknownConfirmRole = errors.New("unknown confirmation role")
)

// MatchFilter narrows ListByTournament. Nil fields are not filtered on.
type MatchFilter struct {
	Status *models.MatchStatus
	Phase  *models.MatchPhase
	Group  *string
	Round  *int
}

type MatchRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, filter MatchFilter) ([]*models.Match, error)
	CreateFromDrafts(ctx context.Context, exec SQLExecutor, drafts []*models.MatchDraft) error
	// ReplaceScheduled atomically swaps the tournament's scheduled fixtures
	// for the given drafts inside one transaction. Matches in any other
	// status are untouched.
	ReplaceScheduled(ctx context.Context, tournamentID int, drafts []*models.MatchDraft) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error
	UpdateScore(ctx context.Context, exec SQLExecutor, match *models.Match) error
	// SetConfirmation sets one role's confirmation flag. Each role maps to
	// its own pair of columns, so concurrent confirmations by different
	// roles never contend; re-confirming keeps the original timestamp.
	SetConfirmation(ctx context.Context, exec SQLExecutor, id int, role models.ConfirmRole, at time.Time) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `
	id, tournament_id, home_team_id, away_team_id, scheduled_date, location,
	phase, group_label, round, status,
	home_score, away_score, ht_home_score, ht_away_score,
	has_penalties, home_penalty_score, away_penalty_score,
	referee_id, home_confirmed, home_confirmed_at,
	away_confirmed, away_confirmed_at, referee_confirmed, referee_confirmed_at`

func (r *postgresMatchRepository) scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	err := rowScanner.Scan(
		&m.ID, &m.TournamentID, &m.HomeTeamID, &m.AwayTeamID, &m.ScheduledDate, &m.Location,
		&m.Phase, &m.Group, &m.Round, &m.Status,
		&m.HomeScore, &m.AwayScore, &m.HalfTimeHomeScore, &m.HalfTimeAwayScore,
		&m.HasPenalties, &m.HomePenaltyScore, &m.AwayPenaltyScore,
		&m.RefereeID, &m.HomeConfirmed, &m.HomeConfirmedAt,
		&m.AwayConfirmed, &m.AwayConfirmedAt, &m.RefereeConfirmed, &m.RefereeConfirmedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + matchColumns + ` FROM matches WHERE id = $1`
	return r.scanMatch(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, filter MatchFilter) ([]*models.Match, error) {
	executor := r.getExecutor(exec)

	query := `SELECT` + matchColumns + ` FROM matches WHERE tournament_id = $1`
	args := []interface{}{tournamentID}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Phase != nil {
		args = append(args, *filter.Phase)
		query += fmt.Sprintf(" AND phase = $%d", len(args))
	}
	if filter.Group != nil {
		args = append(args, *filter.Group)
		query += fmt.Sprintf(" AND group_label = $%d", len(args))
	}
	if filter.Round != nil {
		args = append(args, *filter.Round)
		query += fmt.Sprintf(" AND round = $%d", len(args))
	}
	query += ` ORDER BY round, scheduled_date, id`

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, err := r.scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

const insertMatchQuery = `
	INSERT INTO matches
	    (tournament_id, home_team_id, away_team_id, scheduled_date, location,
	     phase, group_label, round, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func (r *postgresMatchRepository) CreateFromDrafts(ctx context.Context, exec SQLExecutor, drafts []*models.MatchDraft) error {
	executor := r.getExecutor(exec)
	for _, d := range drafts {
		if d.IsBye {
			continue
		}
		if d.HomeTeamID == nil || d.AwayTeamID == nil {
			return ErrDraftMissingTeams
		}
		_, err := executor.ExecContext(ctx, insertMatchQuery,
			d.TournamentID, *d.HomeTeamID, *d.AwayTeamID, d.ScheduledDate, d.Location,
			d.Phase, d.Group, d.Round, models.MatchStatusScheduled,
		)
		if err != nil {
			return fmt.Errorf("failed to insert fixture for tournament %d: %w", d.TournamentID, err)
		}
	}
	return nil
}

func (r *postgresMatchRepository) ReplaceScheduled(ctx context.Context, tournamentID int, drafts []*models.MatchDraft) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ReplaceScheduled failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Only scheduled fixtures are replaceable; the status predicate is what
	// protects completed and in-progress matches from regeneration.
	_, err = tx.ExecContext(ctx,
		`DELETE FROM matches WHERE tournament_id = $1 AND status = $2`,
		tournamentID, models.MatchStatusScheduled)
	if err != nil {
		return fmt.Errorf("ReplaceScheduled failed to clear scheduled fixtures: %w", err)
	}

	if err := r.CreateFromDrafts(ctx, tx, drafts); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE matches SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateScore(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `
		UPDATE matches
		SET home_score = $1, away_score = $2,
		    ht_home_score = $3, ht_away_score = $4,
		    has_penalties = $5, home_penalty_score = $6, away_penalty_score = $7
		WHERE id = $8`,
		m.HomeScore, m.AwayScore,
		m.HalfTimeHomeScore, m.HalfTimeAwayScore,
		m.HasPenalties, m.HomePenaltyScore, m.AwayPenaltyScore,
		m.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) SetConfirmation(ctx context.Context, exec SQLExecutor, id int, role models.ConfirmRole, at time.Time) error {
	executor := r.getExecutor(exec)

	var query string
	switch role {
	case models.ConfirmRoleHome:
		query = `UPDATE matches SET home_confirmed = TRUE, home_confirmed_at = COALESCE(home_confirmed_at, $1) WHERE id = $2`
	case models.ConfirmRoleAway:
		query = `UPDATE matches SET away_confirmed = TRUE, away_confirmed_at = COALESCE(away_confirmed_at, $1) WHERE id = $2`
	case models.ConfirmRoleReferee:
		query = `UPDATE matches SET referee_confirmed = TRUE, referee_confirmed_at = COALESCE(referee_confirmed_at, $1) WHERE id = $2`
	default:
		return fmt.Errorf("%w: %q", ErrUnknownConfirmRole, role)
	}

	result, err := executor.ExecContext(ctx, query, at, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}
