package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/fixture-engine/models"
)

var ErrScheduleNotFound = errors.New("schedule not found")

// ScheduleRepository stores the bracket structures of a generated schedule
// (groups, playoff brackets, divisions, custom rounds) as one JSONB document.
// Matches live in their own table and are not part of the snapshot.
type ScheduleRepository interface {
	Upsert(ctx context.Context, exec SQLExecutor, tournamentID int, schedule *models.Schedule) error
	Get(ctx context.Context, exec SQLExecutor, tournamentID int) (*models.Schedule, error)
	Delete(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresScheduleRepository struct {
	db *sql.DB
}

func NewPostgresScheduleRepository(db *sql.DB) ScheduleRepository {
	return &postgresScheduleRepository{db: db}
}

func (r *postgresScheduleRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresScheduleRepository) Upsert(ctx context.Context, exec SQLExecutor, tournamentID int, schedule *models.Schedule) error {
	snapshot := *schedule
	snapshot.Matches = nil
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode schedule snapshot: %w", err)
	}

	query := `
		INSERT INTO schedules (tournament_id, snapshot, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (tournament_id) DO UPDATE SET snapshot = EXCLUDED.snapshot, updated_at = NOW()`
	if _, err = r.getExecutor(exec).ExecContext(ctx, query, tournamentID, payload); err != nil {
		if code, constraint, ok := pqConstraint(err); ok && code == pqForeignKeyViolation && constraint == "schedules_tournament_id_fkey" {
			return ErrTournamentNotFound
		}
		return err
	}
	return nil
}

func (r *postgresScheduleRepository) Get(ctx context.Context, exec SQLExecutor, tournamentID int) (*models.Schedule, error) {
	var payload []byte
	err := r.getExecutor(exec).QueryRowContext(ctx,
		`SELECT snapshot FROM schedules WHERE tournament_id = $1`, tournamentID,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}

	var s models.Schedule
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("failed to decode schedule snapshot of tournament %d: %w", tournamentID, err)
	}
	return &s, nil
}

func (r *postgresScheduleRepository) Delete(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	_, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM schedules WHERE tournament_id = $1`, tournamentID)
	return err
}
