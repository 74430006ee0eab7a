package brackets

import (
	"math/rand"
	"sort"

	"github.com/Dosada05/fixture-engine/models"
)

const (
	pointsWin  = 3
	pointsDraw = 1
)

// CalculateTeamStandings aggregates the complete matches of teamID. Matches
// missing either score are not counted.
func CalculateTeamStandings(matches []models.Match, teamID string) models.TeamStanding {
	s := models.TeamStanding{TeamID: teamID}
	for i := range matches {
		m := &matches[i]
		if !m.Involves(teamID) || !m.IsComplete() {
			continue
		}
		gf, ga := *m.HomeGoals, *m.AwayGoals
		if m.AwayTeamID == teamID {
			gf, ga = ga, gf
		}
		s.Played++
		s.GoalsFor += gf
		s.GoalsAgainst += ga
		switch {
		case gf > ga:
			s.Won++
		case gf == ga:
			s.Drawn++
		default:
			s.Lost++
		}
	}
	s.GoalDifference = s.GoalsFor - s.GoalsAgainst
	s.Points = pointsWin*s.Won + pointsDraw*s.Drawn
	return s
}

// SortTeamsByStandings orders a table: points, goal difference and goals for
// descending, then head-to-head points and goal difference when both sides
// carry them, then disciplinary points ascending. Teams still level are ordered
// by team ID, or by a coin toss drawn from rng when one is given. Position is
// set 1-based. The input slice is not modified.
func SortTeamsByStandings(standings []models.TeamStanding, rng *rand.Rand) []models.TeamStanding {
	out := make([]models.TeamStanding, len(standings))
	copy(out, standings)

	toss := coinToss(out, rng)
	sort.SliceStable(out, func(i, j int) bool {
		if c := compareStandings(out[i], out[j]); c != 0 {
			return c < 0
		}
		if toss != nil {
			return toss[out[i].TeamID] < toss[out[j].TeamID]
		}
		return out[i].TeamID < out[j].TeamID
	})

	for i := range out {
		out[i].Position = i + 1
	}
	return out
}

// compareStandings returns a negative number when a ranks above b and zero
// when the whole chain is level.
func compareStandings(a, b models.TeamStanding) int {
	if a.Points != b.Points {
		return b.Points - a.Points
	}
	if a.GoalDifference != b.GoalDifference {
		return b.GoalDifference - a.GoalDifference
	}
	if a.GoalsFor != b.GoalsFor {
		return b.GoalsFor - a.GoalsFor
	}
	if a.HeadToHeadPoints != nil && b.HeadToHeadPoints != nil && *a.HeadToHeadPoints != *b.HeadToHeadPoints {
		return *b.HeadToHeadPoints - *a.HeadToHeadPoints
	}
	if a.HeadToHeadGoalDifference != nil && b.HeadToHeadGoalDifference != nil && *a.HeadToHeadGoalDifference != *b.HeadToHeadGoalDifference {
		return *b.HeadToHeadGoalDifference - *a.HeadToHeadGoalDifference
	}
	return a.DisciplinaryPoints - b.DisciplinaryPoints
}

// coinToss draws one key per team. Keys are drawn in team ID order so the
// outcome depends on the seed only, not on how the input was ordered.
func coinToss(standings []models.TeamStanding, rng *rand.Rand) map[string]int64 {
	if rng == nil {
		return nil
	}
	ids := make([]string, 0, len(standings))
	for _, s := range standings {
		ids = append(ids, s.TeamID)
	}
	sort.Strings(ids)
	keys := make(map[string]int64, len(ids))
	for _, id := range ids {
		keys[id] = rng.Int63()
	}
	return keys
}

// CalculateStandings builds and sorts the table for a roster. Teams level on
// points, goal difference and goals for get head-to-head figures from the
// matches played among themselves. disciplinary may be nil.
func CalculateStandings(teamIDs []string, matches []models.Match, disciplinary map[string]int, rng *rand.Rand) []models.TeamStanding {
	table := make([]models.TeamStanding, 0, len(teamIDs))
	for _, id := range teamIDs {
		s := CalculateTeamStandings(matches, id)
		s.DisciplinaryPoints = disciplinary[id]
		table = append(table, s)
	}

	clusters := make(map[[3]int][]int)
	for i, s := range table {
		key := [3]int{s.Points, s.GoalDifference, s.GoalsFor}
		clusters[key] = append(clusters[key], i)
	}
	for _, idx := range clusters {
		if len(idx) < 2 {
			continue
		}
		tied := make(map[string]bool, len(idx))
		for _, i := range idx {
			tied[table[i].TeamID] = true
		}
		among := make([]models.Match, 0)
		for _, m := range matches {
			if tied[m.HomeTeamID] && tied[m.AwayTeamID] {
				among = append(among, m)
			}
		}
		for _, i := range idx {
			h2h := CalculateTeamStandings(among, table[i].TeamID)
			table[i].HeadToHeadPoints = models.IntPtr(h2h.Points)
			table[i].HeadToHeadGoalDifference = models.IntPtr(h2h.GoalDifference)
		}
	}

	return SortTeamsByStandings(table, rng)
}

// FinalOrder returns the team IDs of a sorted table.
func FinalOrder(standings []models.TeamStanding) []string {
	ids := make([]string, len(standings))
	for i, s := range standings {
		ids[i] = s.TeamID
	}
	return ids
}

// LeagueComplete reports whether every non-playoff match has both scores.
func LeagueComplete(matches []models.Match) bool {
	played := false
	for i := range matches {
		if matches[i].IsPlayoff {
			continue
		}
		if !matches[i].IsComplete() {
			return false
		}
		played = true
	}
	return played
}

// GroupTables returns the finishing order of every group whose matches are all
// complete, keyed by group index. disciplinary may be nil.
func GroupTables(groups [][]string, matches []models.Match, disciplinary map[string]int, rng *rand.Rand) map[int][]string {
	byGroup := make(map[int][]models.Match)
	for _, m := range matches {
		if m.GroupIndex != nil && !m.IsPlayoff {
			byGroup[*m.GroupIndex] = append(byGroup[*m.GroupIndex], m)
		}
	}

	tables := make(map[int][]string)
	for gi, group := range groups {
		gm := byGroup[gi]
		if len(gm) == 0 || !LeagueComplete(gm) {
			continue
		}
		tables[gi] = FinalOrder(CalculateStandings(group, gm, disciplinary, rng))
	}
	return tables
}
