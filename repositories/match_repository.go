package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/fixture-engine/models"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchIDConflict        = errors.New("match id already exists in this tournament")
	ErrMatchTournamentInvalid = errors.New("match tournament conflict or invalid")
	ErrMatchParticipantsEqual = errors.New("match has the same participant on both sides")
)

type ListMatchesFilter struct {
	Round     *int
	IsPlayoff *bool
}

type MatchRepository interface {
	BatchCreate(ctx context.Context, exec SQLExecutor, tournamentID int, matches []models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, tournamentID int, matchID string) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, filter ListMatchesFilter) ([]models.Match, error)
	UpdateResult(ctx context.Context, exec SQLExecutor, tournamentID int, matchID string, homeGoals, awayGoals int, dateISO *string) error
	UpdateParticipants(ctx context.Context, exec SQLExecutor, tournamentID int, matchID, homeTeamID, awayTeamID string) error
	CountCompleted(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
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
	id, tournament_id, home_team_id, away_team_id, round, home_goals, away_goals, date_iso,
	is_playoff, playoff_round, playoff_match, group_index, division, is_elimination, updated_at`

// BatchCreate inserts generated matches. Call it inside a transaction: a failed
// row leaves the earlier rows behind otherwise.
func (r *postgresMatchRepository) BatchCreate(ctx context.Context, exec SQLExecutor, tournamentID int, matches []models.Match) error {
	if len(matches) == 0 {
		return nil
	}
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches
			(tournament_id, id, home_team_id, away_team_id, round, home_goals, away_goals, date_iso,
			 is_playoff, playoff_round, playoff_match, group_index, division, is_elimination)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	for _, m := range matches {
		_, err := executor.ExecContext(ctx, query,
			tournamentID, m.ID, m.HomeTeamID, m.AwayTeamID, m.Round, m.HomeGoals, m.AwayGoals, m.DateISO,
			m.IsPlayoff, m.PlayoffRound, m.PlayoffMatch, m.GroupIndex, m.Division, m.IsElimination,
		)
		if err != nil {
			return fmt.Errorf("BatchCreate failed for match %s: %w", m.ID, r.handleMatchError(err))
		}
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, tournamentID int, matchID string) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1 AND id = $2`
	m, err := scanMatch(r.getExecutor(exec).QueryRowContext(ctx, query, tournamentID, matchID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, filter ListMatchesFilter) ([]models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	placeholderIndex := 2

	if filter.Round != nil {
		queryBuilder.WriteString(" AND round = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.Round)
		placeholderIndex++
	}
	if filter.IsPlayoff != nil {
		queryBuilder.WriteString(" AND is_playoff = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.IsPlayoff)
	}

	queryBuilder.WriteString(" ORDER BY round ASC, playoff_match ASC NULLS FIRST, id ASC")

	rows, err := r.getExecutor(exec).QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		m, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, *m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, tournamentID int, matchID string, homeGoals, awayGoals int, dateISO *string) error {
	query := `
		UPDATE matches SET home_goals = $1, away_goals = $2, date_iso = COALESCE($3, date_iso), updated_at = NOW()
		WHERE tournament_id = $4 AND id = $5`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, homeGoals, awayGoals, dateISO, tournamentID, matchID)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateParticipants(ctx context.Context, exec SQLExecutor, tournamentID int, matchID, homeTeamID, awayTeamID string) error {
	query := `
		UPDATE matches SET home_team_id = $1, away_team_id = $2, updated_at = NOW()
		WHERE tournament_id = $3 AND id = $4`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, homeTeamID, awayTeamID, tournamentID, matchID)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) CountCompleted(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	query := `
		SELECT COUNT(*) FROM matches
		WHERE tournament_id = $1 AND home_goals IS NOT NULL AND away_goals IS NOT NULL`
	var n int
	if err := r.getExecutor(exec).QueryRowContext(ctx, query, tournamentID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *postgresMatchRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	_, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM matches WHERE tournament_id = $1`, tournamentID)
	return err
}

func scanMatch(row rowScanner) (*models.Match, error) {
	var m models.Match
	err := row.Scan(
		&m.ID, &m.TournamentID, &m.HomeTeamID, &m.AwayTeamID, &m.Round, &m.HomeGoals, &m.AwayGoals, &m.DateISO,
		&m.IsPlayoff, &m.PlayoffRound, &m.PlayoffMatch, &m.GroupIndex, &m.Division, &m.IsElimination, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if code, constraint, ok := pqConstraint(err); ok {
		switch {
		case code == pqUniqueViolation && constraint == "matches_pkey":
			return ErrMatchIDConflict
		case code == pqForeignKeyViolation && constraint == "matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case code == pqCheckViolation && constraint == "matches_distinct_sides":
			return ErrMatchParticipantsEqual
		}
	}
	return err
}
