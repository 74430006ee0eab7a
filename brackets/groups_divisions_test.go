package brackets

import (
	"testing"

	"github.com/Dosada05/fixture-engine/models"
)

func TestGenerateGroupsWithDivisionsEightTeams(t *testing.T) {
	for _, groupRounds := range []int{1, 2} {
		seed := int64(7)
		schedule := GenerateGroupsWithDivisions(teamList(8), GroupsConfig{
			NumberOfGroups: 2,
			TeamsPerGroup:  4,
			GroupRounds:    groupRounds,
		}, NewRand(&seed))

		lastGroupRound := groupRounds*3 - 1
		roundsSeen := make(map[int]map[int]bool)
		var div1, div2 []models.Match
		for _, m := range schedule.Matches {
			switch {
			case !m.IsPlayoff:
				if m.GroupIndex == nil {
					t.Fatalf("group match %s has no group index", m.ID)
				}
				if m.Round < 0 || m.Round > lastGroupRound {
					t.Errorf("group match %s in round %d, want 0..%d", m.ID, m.Round, lastGroupRound)
				}
				if roundsSeen[*m.GroupIndex] == nil {
					roundsSeen[*m.GroupIndex] = make(map[int]bool)
				}
				roundsSeen[*m.GroupIndex][m.Round] = true
			case m.Division != nil && *m.Division == 1:
				div1 = append(div1, m)
			case m.Division != nil && *m.Division == 2:
				div2 = append(div2, m)
			default:
				t.Errorf("playoff match %s has no division", m.ID)
			}
		}

		for g := 0; g < 2; g++ {
			for r := 0; r <= lastGroupRound; r++ {
				if !roundsSeen[g][r] {
					t.Errorf("group %d has no match in shared round %d", g, r)
				}
			}
		}

		if schedule.PlayoffRoundOffset != lastGroupRound+1 {
			t.Errorf("expected playoff offset %d, got %d", lastGroupRound+1, schedule.PlayoffRoundOffset)
		}
		if len(div1) != 3 || len(div2) != 3 {
			t.Errorf("expected both divisions to have 3 matches, got %d and %d", len(div1), len(div2))
		}
		for _, m := range append(div1, div2...) {
			if m.Round < schedule.PlayoffRoundOffset {
				t.Errorf("division match %s not shifted past the group stage", m.ID)
			}
			if *m.PlayoffRound != m.Round-schedule.PlayoffRoundOffset {
				t.Errorf("division match %s: playoff round %d does not match round %d", m.ID, *m.PlayoffRound, m.Round)
			}
		}

		semi := schedule.Division1[0].Matches[0]
		if semi.Home.String() != "group-0-1st" || semi.Away.String() != "group-1-2nd" {
			t.Errorf("division 1 first semi: got %s v %s", semi.Home, semi.Away)
		}
		semi = schedule.Division2[0].Matches[1]
		if semi.Home.String() != "group-1-3rd" || semi.Away.String() != "group-0-4th" {
			t.Errorf("division 2 second semi: got %s v %s", semi.Home, semi.Away)
		}
	}
}

func TestGenerateGroupsWithDivisionsDrawCoversRoster(t *testing.T) {
	seed := int64(99)
	schedule := GenerateGroupsWithDivisions(teamList(8), GroupsConfig{NumberOfGroups: 2, TeamsPerGroup: 4}, NewRand(&seed))

	if len(schedule.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(schedule.Groups))
	}
	seen := make(map[string]int)
	for _, group := range schedule.Groups {
		if len(group) != 4 {
			t.Errorf("expected 4 teams per group, got %d", len(group))
		}
		for _, id := range group {
			seen[id]++
		}
	}
	for _, id := range teamList(8) {
		if seen[id] != 1 {
			t.Errorf("team %s drawn %d times", id, seen[id])
		}
	}
}

func TestGenerateGroupsWithDivisionsSeedIsReproducible(t *testing.T) {
	cfg := GroupsConfig{NumberOfGroups: 3, TeamsPerGroup: 4}
	seed := int64(2024)

	first := GenerateGroupsWithDivisions(teamList(12), cfg, NewRand(&seed))
	second := GenerateGroupsWithDivisions(teamList(12), cfg, NewRand(&seed))

	for g := range first.Groups {
		for i := range first.Groups[g] {
			if first.Groups[g][i] != second.Groups[g][i] {
				t.Fatalf("draws differ: %v vs %v", first.Groups, second.Groups)
			}
		}
	}
}

func TestGenerateGroupsWithDivisionsExistingGroups(t *testing.T) {
	existing := [][]string{{"A", "B", "C"}, {"D", "E", "F"}}
	schedule := GenerateGroupsWithDivisions(nil, GroupsConfig{ExistingGroups: existing, GroupRounds: 1}, nil)

	if schedule.Groups[0][0] != "A" || schedule.Groups[1][2] != "F" {
		t.Errorf("existing groups not kept: %v", schedule.Groups)
	}
	for _, m := range schedule.Matches {
		if m.IsPlayoff || m.GroupIndex == nil {
			continue
		}
		inGroup := false
		for _, id := range existing[*m.GroupIndex] {
			if id == m.HomeTeamID {
				inGroup = true
			}
		}
		if !inGroup {
			t.Errorf("match %s pairs a team outside group %d", m.ID, *m.GroupIndex)
		}
	}
	// Two groups of three only produce two third-place slots.
	if len(schedule.Division2) != 0 {
		t.Errorf("division 2 should be skipped, got %d rounds", len(schedule.Division2))
	}
	if len(schedule.Division1) == 0 {
		t.Error("division 1 should be built")
	}
}

func TestGenerateGroupsWithDivisionsShortRoster(t *testing.T) {
	seed := int64(1)
	schedule := GenerateGroupsWithDivisions(teamList(6), GroupsConfig{NumberOfGroups: 2, TeamsPerGroup: 4}, NewRand(&seed))

	if len(schedule.Groups[0]) != 4 || len(schedule.Groups[1]) != 2 {
		t.Errorf("expected groups of 4 and 2, got %v", schedule.Groups)
	}
	if len(schedule.Division2) != 0 {
		t.Error("division 2 needs four slots")
	}
}

func TestGenerateGroupsWithDivisionsLegsClamp(t *testing.T) {
	existing := [][]string{{"A", "B", "C", "D"}}

	tests := []struct {
		name        string
		groupRounds int
		want        int
	}{
		{"zero plays once", 0, 6},
		{"single leg", 1, 6},
		{"home and away", 2, 12},
		{"above two is capped", 3, 12},
		{"far above two is capped", 9, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule := GenerateGroupsWithDivisions(nil, GroupsConfig{ExistingGroups: existing, GroupRounds: tt.groupRounds}, nil)
			got := 0
			for _, m := range schedule.Matches {
				if !m.IsPlayoff {
					got++
				}
			}
			if got != tt.want {
				t.Errorf("expected %d group matches, got %d", tt.want, got)
			}
		})
	}
}
