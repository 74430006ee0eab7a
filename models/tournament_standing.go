package models

import "time"

type TeamStanding struct {
	TeamID                   string `json:"team_id" db:"team_id"`
	Position                 int    `json:"position" db:"position"`
	Points                   int    `json:"points" db:"points"`
	Played                   int    `json:"played" db:"played"`
	Won                      int    `json:"won" db:"won"`
	Drawn                    int    `json:"drawn" db:"drawn"`
	Lost                     int    `json:"lost" db:"lost"`
	GoalsFor                 int    `json:"goals_for" db:"goals_for"`
	GoalsAgainst             int    `json:"goals_against" db:"goals_against"`
	GoalDifference           int    `json:"goal_difference" db:"goal_difference"`
	DisciplinaryPoints       int    `json:"disciplinary_points" db:"disciplinary_points"`
	HeadToHeadPoints         *int   `json:"head_to_head_points,omitempty" db:"head_to_head_points"`
	HeadToHeadGoalDifference *int   `json:"head_to_head_goal_difference,omitempty" db:"head_to_head_goal_difference"`
}

// TournamentStanding is a persisted standings row.
type TournamentStanding struct {
	TeamStanding
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	GroupIndex   *int      `json:"group_index,omitempty" db:"group_index"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
