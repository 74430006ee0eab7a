package models

import "time"

// TournamentStatus mirrors the tournament_status enum in the database.
type TournamentStatus string

const (
	StatusDraft     TournamentStatus = "draft"
	StatusScheduled TournamentStatus = "scheduled"
	StatusActive    TournamentStatus = "active"
	StatusCompleted TournamentStatus = "completed"
)

type Tournament struct {
	ID          int              `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	TeamIDs     []string         `json:"team_ids" db:"team_ids"`
	Settings    FormatSettings   `json:"settings" db:"-"`
	Status      TournamentStatus `json:"status" db:"status"`
	OrganizerID int              `json:"organizer_id" db:"organizer_id"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`

	// DisciplinaryPoints per team; lower ranks higher on a tie.
	DisciplinaryPoints map[string]int `json:"disciplinary_points,omitempty" db:"disciplinary"`

	// Loaded on demand, not stored on the tournaments row.
	Schedule  *Schedule            `json:"schedule,omitempty" db:"-"`
	Matches   []Match              `json:"matches,omitempty" db:"-"`
	Standings []TournamentStanding `json:"standings,omitempty" db:"-"`
}
