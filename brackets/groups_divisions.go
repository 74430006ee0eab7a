package brackets

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/Dosada05/fixture-engine/models"
)

const (
	division1           = 1
	division2           = 2
	minDivision2Entries = 4
	maxGroupLegs        = 2
)

type GroupsConfig struct {
	NumberOfGroups int
	TeamsPerGroup  int
	// GroupRounds is the number of legs inside a group, 1 or 2.
	GroupRounds int
	// ExistingGroups, when set, replaces the random draw (manual edits by an organizer).
	ExistingGroups [][]string
}

type GroupsDivisionsGenerator struct{}

func NewGroupsDivisionsGenerator() Generator {
	return &GroupsDivisionsGenerator{}
}

func (g *GroupsDivisionsGenerator) GetName() string {
	return "GroupsWithDivisions"
}

func (g *GroupsDivisionsGenerator) Generate(params GenerateParams) (*models.Schedule, error) {
	cfg := GroupsConfig{
		NumberOfGroups: params.Settings.NumberOfGroups,
		TeamsPerGroup:  params.Settings.TeamsPerGroup,
		GroupRounds:    params.Settings.GroupRounds,
		ExistingGroups: params.Settings.ExistingGroups,
	}
	return GenerateGroupsWithDivisions(params.TeamIDs, cfg, params.rng()), nil
}

// GenerateGroupsWithDivisions draws groups, schedules a round robin inside each
// and derives two knockout divisions from group finishing positions.
//
// Group round numbers are deliberately shared: round 0 of every group is global
// round 0, so a fixture calendar shows "Round 1" as every group's first matchday.
// Playoff rounds start after the last group round; PlayoffRound stays zero-based
// within each division.
func GenerateGroupsWithDivisions(teams []string, cfg GroupsConfig, rng *rand.Rand) *models.Schedule {
	groups := cfg.ExistingGroups
	if len(groups) == 0 {
		groups = drawGroups(teams, cfg.NumberOfGroups, cfg.TeamsPerGroup, rng)
	}

	legs := cfg.GroupRounds
	if legs < 1 {
		legs = 1
	}
	if legs > maxGroupLegs {
		legs = maxGroupLegs
	}

	matches := make([]models.Match, 0)
	for gi, group := range groups {
		groupMatches := roundRobin(group, legs, fmt.Sprintf("g%d", gi+1))
		for i := range groupMatches {
			groupMatches[i].GroupIndex = models.IntPtr(gi)
			groupMatches[i].IsPlayoff = false
		}
		matches = append(matches, groupMatches...)
	}
	sortMatches(matches)

	offset := nextRound(matches)
	schedule := &models.Schedule{
		Mode:               models.FormatGroupsDivisions,
		Groups:             groups,
		PlayoffRoundOffset: offset,
	}

	div1 := qualifierSlots(groups, 1, 2)
	if len(div1) >= 2 {
		schedule.Division1 = populateSeeds(generateBrackets(len(div1), "d1-"), div1)
		matches = append(matches, offsetPlayoffMatches(CreatePlayoffMatches(schedule.Division1), offset, models.IntPtr(division1))...)
	}

	div2 := qualifierSlots(groups, 3, 4)
	if len(div2) >= minDivision2Entries {
		schedule.Division2 = populateSeeds(generateBrackets(len(div2), "d2-"), div2)
		matches = append(matches, offsetPlayoffMatches(CreatePlayoffMatches(schedule.Division2), offset, models.IntPtr(division2))...)
	} else if len(div2) > 0 {
		slog.Info("division 2 skipped, not enough qualifier slots", slog.Int("slots", len(div2)))
	}

	schedule.Matches = matches
	return schedule
}

// drawGroups shuffles the roster and slices it into groups of teamsPerGroup.
// Short rosters leave the trailing groups undersized.
func drawGroups(teams []string, numberOfGroups, teamsPerGroup int, rng *rand.Rand) [][]string {
	if numberOfGroups < 1 {
		numberOfGroups = 1
	}
	if teamsPerGroup < 1 {
		teamsPerGroup = (len(teams) + numberOfGroups - 1) / numberOfGroups
	}

	shuffled := make([]string, len(teams))
	copy(shuffled, teams)
	if rng != nil {
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
	}

	capacity := numberOfGroups * teamsPerGroup
	if len(shuffled) < capacity {
		slog.Warn("not enough teams to fill every group",
			slog.Int("teams", len(shuffled)),
			slog.Int("groups", numberOfGroups),
			slog.Int("teams_per_group", teamsPerGroup))
	} else if len(shuffled) > capacity {
		slog.Warn("more teams than group capacity, extra teams left out",
			slog.Int("teams", len(shuffled)),
			slog.Int("capacity", capacity))
	}

	groups := make([][]string, numberOfGroups)
	for i := range groups {
		start := i * teamsPerGroup
		end := start + teamsPerGroup
		if start > len(shuffled) {
			start = len(shuffled)
		}
		if end > len(shuffled) {
			end = len(shuffled)
		}
		groups[i] = append([]string{}, shuffled[start:end]...)
	}
	return groups
}

// qualifierSlots lists group positions from..to for every group that is big
// enough, all firsts before all seconds so seeding pits group winners against
// runners-up from other groups.
func qualifierSlots(groups [][]string, from, to int) []models.ParticipantRef {
	slots := make([]models.ParticipantRef, 0)
	for pos := from; pos <= to; pos++ {
		for gi, group := range groups {
			if len(group) >= pos {
				slots = append(slots, models.GroupPosition(gi, pos))
			}
		}
	}
	return slots
}
