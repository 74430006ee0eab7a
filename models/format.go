package models

type FormatMode string

const (
	FormatRoundRobin       FormatMode = "round_robin"
	FormatSwissElimination FormatMode = "swiss_elimination"
	FormatGroupsDivisions  FormatMode = "groups_divisions"
	FormatCustomPlayoff    FormatMode = "custom_playoff"
)

// FormatSettings is the per-tournament format configuration, stored as JSON.
type FormatSettings struct {
	Mode FormatMode `json:"mode"`

	// Round-robin legs (1 = single, 2 = home and away). Clamped to 1..4.
	Legs int `json:"legs,omitempty"`
	// Top N of the league table that go into a playoff bracket after a round robin.
	PlayoffQualifiers int `json:"playoff_qualifiers,omitempty"`

	// Swiss elimination league-stage legs, default 2.
	LeagueRounds int `json:"league_rounds,omitempty"`

	NumberOfGroups int        `json:"number_of_groups,omitempty"`
	TeamsPerGroup  int        `json:"teams_per_group,omitempty"`
	GroupRounds    int        `json:"group_rounds,omitempty"`
	ExistingGroups [][]string `json:"existing_groups,omitempty"`

	ReSeedRound5 bool `json:"re_seed_round_5,omitempty"`

	// RandomSeed makes group shuffles and coin tosses reproducible.
	RandomSeed *int64 `json:"random_seed,omitempty"`
}

func (f FormatSettings) IsKnownMode() bool {
	switch f.Mode {
	case FormatRoundRobin, FormatSwissElimination, FormatGroupsDivisions, FormatCustomPlayoff:
		return true
	}
	return false
}
