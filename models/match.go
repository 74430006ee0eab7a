package models

import "time"

// Match is a materialized fixture. HomeTeamID/AwayTeamID hold either a team ID or
// the token form of a ParticipantRef while the slot is still unresolved.
type Match struct {
	ID            string  `json:"id" db:"id"`
	TournamentID  int     `json:"tournament_id,omitempty" db:"tournament_id"`
	HomeTeamID    string  `json:"home_team_id" db:"home_team_id"`
	AwayTeamID    string  `json:"away_team_id" db:"away_team_id"`
	Round         int     `json:"round" db:"round"`
	HomeGoals     *int    `json:"home_goals,omitempty" db:"home_goals"`
	AwayGoals     *int    `json:"away_goals,omitempty" db:"away_goals"`
	DateISO       *string `json:"date,omitempty" db:"date_iso"`
	IsPlayoff     bool    `json:"is_playoff" db:"is_playoff"`
	PlayoffRound  *int    `json:"playoff_round,omitempty" db:"playoff_round"`
	PlayoffMatch  *int    `json:"playoff_match,omitempty" db:"playoff_match"`
	GroupIndex    *int    `json:"group_index,omitempty" db:"group_index"`
	Division      *int    `json:"division,omitempty" db:"division"`
	IsElimination *bool   `json:"is_elimination,omitempty" db:"is_elimination"`

	UpdatedAt time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// IsComplete is true only when both scores are present.
func (m *Match) IsComplete() bool {
	return m.HomeGoals != nil && m.AwayGoals != nil
}

// Involves reports whether teamID plays in the match.
func (m *Match) Involves(teamID string) bool {
	return m.HomeTeamID == teamID || m.AwayTeamID == teamID
}

// Winner returns the winning team ID of a complete, decisive match.
func (m *Match) Winner() (string, bool) {
	if !m.IsComplete() || *m.HomeGoals == *m.AwayGoals {
		return "", false
	}
	if *m.HomeGoals > *m.AwayGoals {
		return m.HomeTeamID, true
	}
	return m.AwayTeamID, true
}

// Loser returns the losing team ID of a complete, decisive match.
func (m *Match) Loser() (string, bool) {
	if !m.IsComplete() || *m.HomeGoals == *m.AwayGoals {
		return "", false
	}
	if *m.HomeGoals > *m.AwayGoals {
		return m.AwayTeamID, true
	}
	return m.HomeTeamID, true
}

func IntPtr(v int) *int          { return &v }
func BoolPtr(v bool) *bool       { return &v }
func StringPtr(v string) *string { return &v }
