package brackets

import (
	"fmt"

	"github.com/Dosada05/fixture-engine/models"
)

const (
	minLegs = 1
	maxLegs = 4
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() Generator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// Generate builds the league fixtures and, when PlayoffQualifiers is at least 2,
// a seeded playoff bracket played after the last league round.
func (g *RoundRobinGenerator) Generate(params GenerateParams) (*models.Schedule, error) {
	matches := GenerateRoundRobinSchedule(params.TeamIDs, params.Settings.Legs)
	schedule := &models.Schedule{
		Mode:    models.FormatRoundRobin,
		Matches: matches,
	}

	qualifiers := params.Settings.PlayoffQualifiers
	if qualifiers > len(params.TeamIDs) {
		qualifiers = len(params.TeamIDs)
	}
	if qualifiers < 2 {
		return schedule, nil
	}

	schedule.Playoff = generateBrackets(qualifiers, "po-")
	schedule.PlayoffRoundOffset = nextRound(matches)
	schedule.Matches = append(schedule.Matches, offsetPlayoffMatches(CreatePlayoffMatches(schedule.Playoff), schedule.PlayoffRoundOffset, nil)...)
	return schedule, nil
}

// GenerateRoundRobinSchedule pairs every team with every other team legs times
// using the circle method. Rounds are numbered from 0 and increase globally
// across legs; home and away alternate with the parity of the global round.
func GenerateRoundRobinSchedule(teams []string, legs int) []models.Match {
	return roundRobin(teams, legs, "rr")
}

func roundRobin(teams []string, legs int, idPrefix string) []models.Match {
	if len(teams) < 2 {
		return []models.Match{}
	}
	legs = clampLegs(legs)

	working := make([]string, len(teams))
	copy(working, teams)
	if len(working)%2 != 0 {
		working = append(working, models.ByeTeamID)
	}
	count := len(working)
	half := count / 2
	roundsPerLeg := count - 1

	left := make([]string, half)
	copy(left, working[:half])
	right := make([]string, half)
	for i := 0; i < half; i++ {
		right[i] = working[count-1-i]
	}

	matches := make([]models.Match, 0, legs*half*roundsPerLeg)
	perRound := make(map[int]int)

	for round := 0; round < roundsPerLeg; round++ {
		for i := 0; i < half; i++ {
			a, b := left[i], right[i]
			if a == models.ByeTeamID || b == models.ByeTeamID {
				continue
			}
			for leg := 0; leg < legs; leg++ {
				globalRound := round + leg*roundsPerLeg
				home, away := a, b
				if globalRound%2 != 0 {
					home, away = b, a
				}
				perRound[globalRound]++
				matches = append(matches, models.Match{
					ID:         fmt.Sprintf("%s-r%d-m%d", idPrefix, globalRound+1, perRound[globalRound]),
					HomeTeamID: home,
					AwayTeamID: away,
					Round:      globalRound,
				})
			}
		}

		if half < 2 {
			continue
		}
		// Fixed pivot: left[0] stays, everything else moves one seat around the circle.
		lastLeft := left[half-1]
		firstRight := right[0]
		right = append(right[1:], lastLeft)
		left = append([]string{left[0], firstRight}, left[1:half-1]...)
	}

	sortMatches(matches)
	return matches
}

func clampLegs(legs int) int {
	if legs < minLegs {
		return minLegs
	}
	if legs > maxLegs {
		return maxLegs
	}
	return legs
}

// nextRound returns max(Round)+1, or 0 for an empty list.
func nextRound(matches []models.Match) int {
	next := 0
	for _, m := range matches {
		if m.Round+1 > next {
			next = m.Round + 1
		}
	}
	return next
}
