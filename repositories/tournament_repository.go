package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Manecharo/verzot-sub000/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name already exists")
)

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	List(ctx context.Context, exec SQLExecutor, limit, offset int) ([]*models.Tournament, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
	UpdateBadgeKey(ctx context.Context, exec SQLExecutor, id int, badgeKey *string) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// Structure, rules and tiebreakers are stored as JSON columns; the engine
// consumes them verbatim, no per-field SQL is needed.
func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	executor := r.getExecutor(exec)

	structureJSON, err := json.Marshal(t.Structure)
	if err != nil {
		return fmt.Errorf("failed to marshal structure: %w", err)
	}
	rulesJSON, err := json.Marshal(t.Rules)
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}
	tiebreakJSON, err := json.Marshal(t.Tiebreakers)
	if err != nil {
		return fmt.Errorf("failed to marshal tiebreaker rules: %w", err)
	}

	query := `
		INSERT INTO tournaments
		    (name, description, organizer_id, format, structure, rules, tiebreaker_rules,
		     min_teams, max_teams, start_date, end_date, location, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`

	err = executor.QueryRowContext(ctx, query,
		t.Name, t.Description, t.OrganizerID, t.Format,
		structureJSON, rulesJSON, tiebreakJSON,
		t.MinTeams, t.MaxTeams, t.StartDate, t.EndDate, t.Location, t.Status,
	).Scan(&t.ID, &t.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return ErrTournamentNameConflict
	}
	return err
}

func (r *postgresTournamentRepository) scanTournament(rowScanner interface{ Scan(...interface{}) error }) (*models.Tournament, error) {
	var t models.Tournament
	var structureJSON, rulesJSON, tiebreakJSON []byte
	err := rowScanner.Scan(
		&t.ID, &t.Name, &t.Description, &t.OrganizerID, &t.Format,
		&structureJSON, &rulesJSON, &tiebreakJSON,
		&t.MinTeams, &t.MaxTeams, &t.StartDate, &t.EndDate, &t.Location,
		&t.Status, &t.BadgeKey, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(structureJSON, &t.Structure); err != nil {
		return nil, fmt.Errorf("tournament %d: invalid structure JSON: %w", t.ID, err)
	}
	if err := json.Unmarshal(rulesJSON, &t.Rules); err != nil {
		return nil, fmt.Errorf("tournament %d: invalid rules JSON: %w", t.ID, err)
	}
	if err := json.Unmarshal(tiebreakJSON, &t.Tiebreakers); err != nil {
		return nil, fmt.Errorf("tournament %d: invalid tiebreaker JSON: %w", t.ID, err)
	}
	return &t, nil
}

const tournamentColumns = `
	id, name, description, organizer_id, format, structure, rules, tiebreaker_rules,
	min_teams, max_teams, start_date, end_date, location, status, badge_key, created_at`

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	return r.scanTournament(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentRepository) List(ctx context.Context, exec SQLExecutor, limit, offset int) ([]*models.Tournament, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + tournamentColumns + ` FROM tournaments ORDER BY start_date DESC LIMIT $1 OFFSET $2`
	rows, err := executor.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t, err := r.scanTournament(rows)
		if err != nil {
			return nil, err
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE tournaments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateBadgeKey(ctx context.Context, exec SQLExecutor, id int, badgeKey *string) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE tournaments SET badge_key = $1 WHERE id = $2`, badgeKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
