package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Manecharo/verzot-sub000/models"
)

var ErrEventNotFound = errors.New("match event not found")

type MatchEventRepository interface {
	Append(ctx context.Context, exec SQLExecutor, event *models.MatchEvent) error
	Delete(ctx context.Context, exec SQLExecutor, matchID, eventID int) error
	// ListByMatch returns the timeline ordered by (half, minute, added_time);
	// ordering is applied here at read time, writes need no serialization.
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.MatchEvent, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.MatchEvent, error)
}

type postgresMatchEventRepository struct {
	db *sql.DB
}

func NewPostgresMatchEventRepository(db *sql.DB) MatchEventRepository {
	return &postgresMatchEventRepository{db: db}
}

func (r *postgresMatchEventRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchEventRepository) Append(ctx context.Context, exec SQLExecutor, e *models.MatchEvent) error {
	executor := r.getExecutor(exec)
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO match_events
		    (match_id, type, half, minute, added_time, team_id, player_id,
		     secondary_player_id, field_x, field_y, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	return executor.QueryRowContext(ctx, query,
		e.MatchID, e.Type, e.Half, e.Minute, e.AddedTime, e.TeamID, e.PlayerID,
		e.SecondaryPlayerID, e.FieldX, e.FieldY, e.CreatedAt,
	).Scan(&e.ID)
}

func (r *postgresMatchEventRepository) Delete(ctx context.Context, exec SQLExecutor, matchID, eventID int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`DELETE FROM match_events WHERE id = $1 AND match_id = $2`, eventID, matchID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

const eventColumns = `
	id, match_id, type, half, minute, added_time, team_id, player_id,
	secondary_player_id, field_x, field_y, created_at`

func (r *postgresMatchEventRepository) scanEvents(rows *sql.Rows) ([]*models.MatchEvent, error) {
	events := make([]*models.MatchEvent, 0)
	for rows.Next() {
		var e models.MatchEvent
		err := rows.Scan(
			&e.ID, &e.MatchID, &e.Type, &e.Half, &e.Minute, &e.AddedTime,
			&e.TeamID, &e.PlayerID, &e.SecondaryPlayerID, &e.FieldX, &e.FieldY, &e.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

func (r *postgresMatchEventRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.MatchEvent, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + eventColumns + `
		FROM match_events
		WHERE match_id = $1
		ORDER BY half, minute, added_time, id`
	rows, err := executor.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanEvents(rows)
}

func (r *postgresMatchEventRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.MatchEvent, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + eventColumns + `
		FROM match_events e
		WHERE EXISTS (SELECT 1 FROM matches m WHERE m.id = e.match_id AND m.tournament_id = $1)
		ORDER BY e.match_id, e.half, e.minute, e.added_time, e.id`
	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanEvents(rows)
}
