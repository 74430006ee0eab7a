package models

// BracketMatch is one slot of a PlayoffBracket. Home == Away with Winner preset
// marks an automatic bye. TBD v TBD is an unfilled slot, not a bye.
type BracketMatch struct {
	MatchID   string          `json:"match_id"`
	Home      ParticipantRef  `json:"home"`
	Away      ParticipantRef  `json:"away"`
	HomeGoals *int            `json:"home_goals,omitempty"`
	AwayGoals *int            `json:"away_goals,omitempty"`
	DateISO   *string         `json:"date,omitempty"`
	Winner    *ParticipantRef `json:"winner,omitempty"`
}

func (b *BracketMatch) IsBye() bool {
	return b.Home.Kind != RefTBD && b.Home.Equal(b.Away)
}

type PlayoffBracket struct {
	Round   int            `json:"round"`
	Matches []BracketMatch `json:"matches"`
}

// CustomPlayoffMatch is a templated playoff fixture. IsElimination, when set,
// overrides the round-level flag.
type CustomPlayoffMatch struct {
	BracketMatch
	Name          string `json:"name"`
	IsElimination *bool  `json:"is_elimination,omitempty"`
}

type CustomPlayoffRound struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Round         int                  `json:"round"`
	Matches       []CustomPlayoffMatch `json:"matches"`
	IsElimination bool                 `json:"is_elimination"`
	Description   string               `json:"description"`
}

// Eliminates reports whether the loser of m is knocked out.
func (r *CustomPlayoffRound) Eliminates(m *CustomPlayoffMatch) bool {
	if m.IsElimination != nil {
		return *m.IsElimination
	}
	return r.IsElimination
}

// Schedule is everything a generator produces for one tournament.
type Schedule struct {
	Mode               FormatMode           `json:"mode"`
	Matches            []Match              `json:"matches"`
	Groups             [][]string           `json:"groups,omitempty"`
	Playoff            []PlayoffBracket     `json:"playoff,omitempty"`
	Division1          []PlayoffBracket     `json:"division_1,omitempty"`
	Division2          []PlayoffBracket     `json:"division_2,omitempty"`
	CustomRounds       []CustomPlayoffRound `json:"custom_rounds,omitempty"`
	PlayoffRoundOffset int                  `json:"playoff_round_offset"`
}
