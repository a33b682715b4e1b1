package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Manecharo/verzot-sub000/models"
)

var ErrTeamNotFound = errors.New("team not found")

// TeamRepository only reads: teams are owned by the team-management
// subsystem, the engine needs registered roster ids per tournament.
type TeamRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Team, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, name, roster_id, created_at FROM teams WHERE id = $1`
	var t models.Team
	err := executor.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.RosterID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Team, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT t.id, t.name, t.roster_id, t.created_at
		FROM teams t
		JOIN tournament_registrations tr ON tr.team_id = t.id
		WHERE tr.tournament_id = $1
		ORDER BY tr.registered_at, t.id`
	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.RosterID, &t.CreatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, &t)
	}
	return teams, rows.Err()
}
