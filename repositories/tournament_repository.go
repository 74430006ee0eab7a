package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/fixture-engine/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name conflict for this organizer")
	ErrTournamentInvalidOrg   = errors.New("invalid organizer reference")
)

type ListTournamentsFilter struct {
	OrganizerID *int
	Status      *models.TournamentStatus
	Limit       int
	Offset      int
}

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
	UpdateDisciplinary(ctx context.Context, exec SQLExecutor, id int, points map[string]int) error
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

const tournamentColumns = `id, name, team_ids, settings, status, organizer_id, created_at, disciplinary`

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	settings, err := json.Marshal(t.Settings)
	if err != nil {
		return fmt.Errorf("failed to encode format settings: %w", err)
	}
	if t.Status == "" {
		t.Status = models.StatusDraft
	}

	query := `
		INSERT INTO tournaments (name, team_ids, settings, status, organizer_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err = r.getExecutor(nil).QueryRowContext(ctx, query,
		t.Name, pq.StringArray(t.TeamIDs), settings, t.Status, t.OrganizerID,
	).Scan(&t.ID, &t.CreatedAt)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	t, err := r.scanTournament(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.OrganizerID != nil {
		query += fmt.Sprintf(" AND organizer_id = $%d", argID)
		args = append(args, *filter.OrganizerID)
		argID++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}

	query += " ORDER BY created_at DESC, id DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.getExecutor(nil).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		t, scanErr := r.scanTournament(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, *t)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	query := `UPDATE tournaments SET status = $1 WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, status, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateDisciplinary(ctx context.Context, exec SQLExecutor, id int, points map[string]int) error {
	if points == nil {
		points = map[string]int{}
	}
	payload, err := json.Marshal(points)
	if err != nil {
		return fmt.Errorf("failed to encode disciplinary points: %w", err)
	}
	result, err := r.getExecutor(exec).ExecContext(ctx, `UPDATE tournaments SET disciplinary = $1 WHERE id = $2`, payload, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) scanTournament(row rowScanner) (*models.Tournament, error) {
	var (
		t            models.Tournament
		teamIDs      pq.StringArray
		settings     []byte
		disciplinary []byte
	)
	if err := row.Scan(&t.ID, &t.Name, &teamIDs, &settings, &t.Status, &t.OrganizerID, &t.CreatedAt, &disciplinary); err != nil {
		return nil, err
	}
	t.TeamIDs = []string(teamIDs)
	if err := json.Unmarshal(settings, &t.Settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings of tournament %d: %w", t.ID, err)
	}
	if len(disciplinary) > 0 {
		if err := json.Unmarshal(disciplinary, &t.DisciplinaryPoints); err != nil {
			return nil, fmt.Errorf("failed to decode disciplinary points of tournament %d: %w", t.ID, err)
		}
	}
	return &t, nil
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if code, constraint, ok := pqConstraint(err); ok {
		switch {
		case code == pqUniqueViolation && constraint == "tournaments_organizer_id_name_key":
			return ErrTournamentNameConflict
		case code == pqForeignKeyViolation && constraint == "tournaments_organizer_id_fkey":
			return ErrTournamentInvalidOrg
		}
	}
	return err
}
