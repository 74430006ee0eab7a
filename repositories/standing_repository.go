package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/fixture-engine/models"
)

// leagueGroup is stored in place of a NULL group_index so the primary key holds.
const leagueGroup = -1

type TournamentStandingRepository interface {
	ReplaceForTournament(ctx context.Context, exec SQLExecutor, tournamentID int, standings []models.TournamentStanding) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.TournamentStanding, error)
}

type postgresTournamentStandingRepository struct {
	db *sql.DB // Main DB connection, can be used if exec is nil
}

func NewPostgresTournamentStandingRepository(db *sql.DB) TournamentStandingRepository {
	return &postgresTournamentStandingRepository{db: db}
}

func (r *postgresTournamentStandingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// ReplaceForTournament drops the stored table and writes the new one. Run it in
// the same transaction as the result that caused the recomputation.
func (r *postgresTournamentStandingRepository) ReplaceForTournament(ctx context.Context, exec SQLExecutor, tournamentID int, standings []models.TournamentStanding) error {
	executor := r.getExecutor(exec)

	if _, err := executor.ExecContext(ctx, `DELETE FROM tournament_standings WHERE tournament_id = $1`, tournamentID); err != nil {
		return fmt.Errorf("failed to clear standings: %w", err)
	}

	query := `
		INSERT INTO tournament_standings
			(tournament_id, group_index, team_id, position, points, played, won, drawn, lost,
			 goals_for, goals_against, goal_difference, disciplinary_points,
			 head_to_head_points, head_to_head_goal_difference, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())`

	for _, s := range standings {
		group := leagueGroup
		if s.GroupIndex != nil {
			group = *s.GroupIndex
		}
		_, err := executor.ExecContext(ctx, query,
			tournamentID, group, s.TeamID, s.Position, s.Points, s.Played, s.Won, s.Drawn, s.Lost,
			s.GoalsFor, s.GoalsAgainst, s.GoalDifference, s.DisciplinaryPoints,
			s.HeadToHeadPoints, s.HeadToHeadGoalDifference,
		)
		if err != nil {
			return fmt.Errorf("failed to insert standing for team %s: %w", s.TeamID, err)
		}
	}
	return nil
}

func (r *postgresTournamentStandingRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.TournamentStanding, error) {
	query := `
		SELECT tournament_id, group_index, team_id, position, points, played, won, drawn, lost,
		       goals_for, goals_against, goal_difference, disciplinary_points,
		       head_to_head_points, head_to_head_goal_difference, updated_at
		FROM tournament_standings
		WHERE tournament_id = $1
		ORDER BY group_index ASC, position ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	standings := make([]models.TournamentStanding, 0)
	for rows.Next() {
		var (
			s     models.TournamentStanding
			group int
		)
		if err := rows.Scan(
			&s.TournamentID, &group, &s.TeamID, &s.Position, &s.Points, &s.Played, &s.Won, &s.Drawn, &s.Lost,
			&s.GoalsFor, &s.GoalsAgainst, &s.GoalDifference, &s.DisciplinaryPoints,
			&s.HeadToHeadPoints, &s.HeadToHeadGoalDifference, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if group != leagueGroup {
			g := group
			s.GroupIndex = &g
		}
		standings = append(standings, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return standings, nil
}
