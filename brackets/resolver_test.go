package brackets

import (
	"testing"

	"github.com/Dosada05/fixture-engine/models"
)

func TestResolverResolve(t *testing.T) {
	r := NewResolver(
		[]string{"A", "B", "C"},
		map[int][]string{1: {"X", "Y"}},
		[]models.Match{played("m1", "A", "C", 0, 3)},
	)

	tests := []struct {
		name string
		ref  models.ParticipantRef
		want string
	}{
		{"team passes through", models.Team("Q"), "Q"},
		{"seed from table", models.Seed(2), "B"},
		{"seed beyond table", models.Seed(4), "seed-4"},
		{"group position", models.GroupPosition(1, 2), "Y"},
		{"unfinished group", models.GroupPosition(0, 1), "group-0-1st"},
		{"winner from results", models.WinnerOf("m1"), "C"},
		{"loser from results", models.LoserOf("m1"), "A"},
		{"unplayed match", models.WinnerOf("m9"), "winner-m9"},
		{"tbd stays", models.TBD(), "TBD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Resolve(tt.ref).String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolverDrawDoesNotAdvance(t *testing.T) {
	r := NewResolver(nil, nil, []models.Match{played("m1", "A", "B", 1, 1)})

	if got := r.Resolve(models.WinnerOf("m1")); got.IsResolved() {
		t.Errorf("a draw has no winner, got %s", got)
	}
}

func TestResolveBracketsPropagatesWithinOnePass(t *testing.T) {
	brackets := PopulatePlayoffBrackets(GeneratePlayoffBrackets(teamList(4)), []string{"A", "B", "C", "D"})
	results := []models.Match{
		score("R1M1", 2, 1), // A v D
		score("R1M2", 0, 1), // B v C
	}

	resolved := NewResolver(nil, nil, results).ResolveBrackets(brackets)

	final := resolved[1].Matches[0]
	if final.Home.String() != "A" || final.Away.String() != "C" {
		t.Errorf("final: got %s v %s", final.Home, final.Away)
	}
	if final.Winner != nil {
		t.Errorf("unplayed final should have no winner, got %s", final.Winner)
	}
	semi := resolved[0].Matches[0]
	if semi.Winner == nil || semi.Winner.String() != "A" || *semi.HomeGoals != 2 {
		t.Errorf("semi 1 should record A's win, got %+v", semi)
	}

	if brackets[1].Matches[0].Home.IsResolved() {
		t.Error("input bracket was modified")
	}
}

func TestResolveBracketsByePropagation(t *testing.T) {
	brackets := PopulatePlayoffBrackets(GeneratePlayoffBrackets(teamList(3)), []string{"A", "B", "C"})
	resolved := NewResolver(nil, nil, []models.Match{score("R1M1", 1, 0)}).ResolveBrackets(brackets)

	final := resolved[len(resolved)-1].Matches[0]
	if final.Home.String() != "A" || final.Away.String() != "C" {
		t.Errorf("final: got %s v %s", final.Home, final.Away)
	}
}

func TestResolveScheduleDivisions(t *testing.T) {
	schedule := GenerateGroupsWithDivisions(nil, GroupsConfig{
		ExistingGroups: [][]string{{"A", "B", "C", "D"}, {"E", "F", "G", "H"}},
		GroupRounds:    1,
	}, nil)

	var group []models.Match
	for _, m := range schedule.Matches {
		if !m.IsPlayoff {
			// Home side always wins, giving a decisive table.
			m.HomeGoals = models.IntPtr(1)
			m.AwayGoals = models.IntPtr(0)
			group = append(group, m)
		}
	}
	tables := GroupTables(schedule.Groups, group, nil, nil)
	if len(tables) != 2 {
		t.Fatalf("expected two finished groups, got %d", len(tables))
	}

	resolved := NewResolver(nil, tables, group).ResolveSchedule(schedule)

	semi := resolved.Division1[0].Matches[0]
	if semi.Home.String() != tables[0][0] || semi.Away.String() != tables[1][1] {
		t.Errorf("division 1 semi: got %s v %s", semi.Home, semi.Away)
	}
	for _, m := range resolved.Matches {
		if m.Division == nil || *m.PlayoffRound != 0 {
			continue
		}
		if !models.ParseParticipantRef(m.HomeTeamID).IsResolved() || !models.ParseParticipantRef(m.AwayTeamID).IsResolved() {
			t.Errorf("division semi %s still holds placeholders: %s v %s", m.ID, m.HomeTeamID, m.AwayTeamID)
		}
	}
	for _, m := range schedule.Matches {
		if m.Division != nil && models.ParseParticipantRef(m.HomeTeamID).IsResolved() {
			t.Fatal("ResolveSchedule modified its input")
		}
	}
}
