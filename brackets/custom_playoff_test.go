package brackets

import (
	"testing"

	"github.com/Dosada05/fixture-engine/models"
)

func score(id string, home, away int) models.Match {
	return models.Match{ID: id, HomeGoals: models.IntPtr(home), AwayGoals: models.IntPtr(away)}
}

func findCustom(rounds []models.CustomPlayoffRound, id string) (models.CustomPlayoffRound, models.CustomPlayoffMatch, bool) {
	for _, r := range rounds {
		for _, m := range r.Matches {
			if m.MatchID == id {
				return r, m, true
			}
		}
	}
	return models.CustomPlayoffRound{}, models.CustomPlayoffMatch{}, false
}

func TestGenerateHomebushPlayoffStructure(t *testing.T) {
	rounds := GenerateHomebushPlayoff(8, false)
	if len(rounds) != 6 {
		t.Fatalf("expected 6 rounds, got %d", len(rounds))
	}

	tests := []struct {
		id        string
		round     int
		home      string
		away      string
		eliminate bool
	}{
		{HomebushQualifierA, 1, "seed-1", "seed-2", false},
		{HomebushQualifierB, 1, "seed-3", "seed-4", false},
		{HomebushElimA, 1, "seed-5", "seed-8", true},
		{HomebushElimB, 1, "seed-6", "seed-7", true},
		{HomebushElimC, 2, "winner-hb-ea", "winner-hb-eb", true},
		{HomebushSemiUpper, 3, "loser-hb-qa", "winner-hb-qb", false},
		{HomebushKnockout, 4, "loser-hb-su", "winner-hb-ec", true},
		{HomebushPrelimFinA, 5, "winner-hb-qa", "winner-hb-ko", true},
		{HomebushPrelimFinB, 5, "winner-hb-su", "loser-hb-qb", true},
		{HomebushGrandFinal, 6, "winner-hb-pfa", "winner-hb-pfb", true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			round, m, ok := findCustom(rounds, tt.id)
			if !ok {
				t.Fatalf("match %s missing", tt.id)
			}
			if round.Round != tt.round {
				t.Errorf("expected round %d, got %d", tt.round, round.Round)
			}
			if m.Home.String() != tt.home || m.Away.String() != tt.away {
				t.Errorf("got %s v %s, want %s v %s", m.Home, m.Away, tt.home, tt.away)
			}
			if got := round.Eliminates(&m); got != tt.eliminate {
				t.Errorf("eliminates: got %v, want %v", got, tt.eliminate)
			}
		})
	}
}

func TestGenerateHomebushPlayoffNinthSeed(t *testing.T) {
	rounds := GenerateHomebushPlayoff(9, false)

	round, playIn, ok := findCustom(rounds, HomebushPlayIn)
	if !ok {
		t.Fatal("play-in missing")
	}
	if round.Round != 1 || playIn.Home.String() != "seed-8" || playIn.Away.String() != "seed-9" || !round.Eliminates(&playIn) {
		t.Errorf("unexpected play-in %s v %s in round %d", playIn.Home, playIn.Away, round.Round)
	}
	if _, ea, _ := findCustom(rounds, HomebushElimA); ea.Away.String() != "winner-hb-pi" {
		t.Errorf("elimination A should wait for the play-in, got %s v %s", ea.Home, ea.Away)
	}

	matches := CreateCustomPlayoffMatches(rounds, 0)
	if len(matches) != 11 {
		t.Errorf("expected 11 matches, got %d", len(matches))
	}
	seeded := 0
	for _, m := range matches {
		if m.HomeTeamID == "seed-9" || m.AwayTeamID == "seed-9" {
			seeded++
		}
	}
	if seeded != 1 {
		t.Errorf("ninth seed should play exactly one scheduled match, got %d", seeded)
	}
}

func TestResolveHomebushNinthSeedAdvances(t *testing.T) {
	rounds := GenerateHomebushPlayoff(9, false)
	schedule := &models.Schedule{CustomRounds: rounds, Matches: CreateCustomPlayoffMatches(rounds, 0)}
	results := []models.Match{score(HomebushPlayIn, 0, 2)} // T8 v T9

	resolved := NewResolver(teamList(9), nil, results).ResolveSchedule(schedule)

	for _, m := range resolved.Matches {
		if m.ID == HomebushElimA && (m.HomeTeamID != "T5" || m.AwayTeamID != "T9") {
			t.Errorf("elimination A: got %s v %s, want T5 v T9", m.HomeTeamID, m.AwayTeamID)
		}
	}
}

func TestGenerateHomebushPlayoffReseedSlots(t *testing.T) {
	rounds := GenerateHomebushPlayoff(8, true)

	tests := []struct {
		id, home, away string
	}{
		{HomebushPrelimFinA, "reseed-1", "reseed-4"},
		{HomebushPrelimFinB, "reseed-2", "reseed-3"},
	}
	for _, tt := range tests {
		_, m, _ := findCustom(rounds, tt.id)
		if m.Home.String() != tt.home || m.Away.String() != tt.away {
			t.Errorf("%s: got %s v %s, want %s v %s", tt.id, m.Home, m.Away, tt.home, tt.away)
		}
	}

	for _, reseed := range []bool{false, true} {
		for _, teams := range []int{8, 9} {
			for _, m := range CreateCustomPlayoffMatches(GenerateHomebushPlayoff(teams, reseed), 0) {
				if m.HomeTeamID == m.AwayTeamID {
					t.Errorf("teams %d reseed %v: %s materialized as %s v %s", teams, reseed, m.ID, m.HomeTeamID, m.AwayTeamID)
				}
			}
		}
	}
}

func TestCreateCustomPlayoffMatchesOffsets(t *testing.T) {
	matches := CreateCustomPlayoffMatches(GenerateHomebushPlayoff(8, false), 7)

	byID := make(map[string]models.Match)
	for _, m := range matches {
		byID[m.ID] = m
	}
	if qa := byID[HomebushQualifierA]; qa.Round != 7 || *qa.PlayoffRound != 0 || *qa.IsElimination {
		t.Errorf("qualifier A: round %d, playoff round %d, elimination %v", qa.Round, *qa.PlayoffRound, *qa.IsElimination)
	}
	if gf := byID[HomebushGrandFinal]; gf.Round != 12 || *gf.PlayoffRound != 5 || !*gf.IsElimination {
		t.Errorf("grand final: round %d, playoff round %d", gf.Round, *gf.PlayoffRound)
	}
	if eb := byID[HomebushElimB]; *eb.PlayoffMatch != 4 {
		t.Errorf("elimination B should be the fourth match of its round, got %d", *eb.PlayoffMatch)
	}
}

func TestCustomPlayoffGenerator(t *testing.T) {
	t.Run("eight teams", func(t *testing.T) {
		schedule, err := NewCustomPlayoffGenerator().Generate(GenerateParams{
			TeamIDs:  teamList(8),
			Settings: models.FormatSettings{Mode: models.FormatCustomPlayoff, Legs: 1},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if schedule.PlayoffRoundOffset != 7 {
			t.Errorf("expected offset 7, got %d", schedule.PlayoffRoundOffset)
		}
		if len(schedule.Matches) != 28+10 {
			t.Errorf("expected 38 matches, got %d", len(schedule.Matches))
		}
	})

	t.Run("too few teams plays league only", func(t *testing.T) {
		schedule, err := NewCustomPlayoffGenerator().Generate(GenerateParams{
			TeamIDs:  teamList(6),
			Settings: models.FormatSettings{Mode: models.FormatCustomPlayoff, Legs: 1},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(schedule.CustomRounds) != 0 || len(schedule.Matches) != 15 {
			t.Errorf("expected a bare league, got %d rounds and %d matches", len(schedule.CustomRounds), len(schedule.Matches))
		}
	})
}

// homebushResults: T2 takes Qualifier A, T3 Qualifier B, T1 recovers through
// the upper semi, T5 comes through the elimination side and the knockout.
func homebushResults() []models.Match {
	return []models.Match{
		score(HomebushQualifierA, 1, 2), // T1 v T2
		score(HomebushQualifierB, 3, 0), // T3 v T4
		score(HomebushElimA, 2, 0),      // T5 v T8
		score(HomebushElimB, 0, 1),      // T6 v T7
		score(HomebushElimC, 2, 1),      // T5 v T7
		score(HomebushSemiUpper, 2, 0),  // T1 v T3
		score(HomebushKnockout, 0, 1),   // T3 v T5
	}
}

func TestResolveHomebushStrictProgression(t *testing.T) {
	schedule := &models.Schedule{CustomRounds: GenerateHomebushPlayoff(8, false)}
	resolved := NewResolver(teamList(8), nil, homebushResults()).ResolveSchedule(schedule)

	tests := []struct {
		id, home, away string
	}{
		{HomebushSemiUpper, "T1", "T3"},
		{HomebushKnockout, "T3", "T5"},
		{HomebushPrelimFinA, "T2", "T5"},
		{HomebushPrelimFinB, "T1", "T4"},
		{HomebushGrandFinal, "winner-hb-pfa", "winner-hb-pfb"},
	}
	for _, tt := range tests {
		_, m, _ := findCustom(resolved.CustomRounds, tt.id)
		if m.Home.String() != tt.home || m.Away.String() != tt.away {
			t.Errorf("%s: got %s v %s, want %s v %s", tt.id, m.Home, m.Away, tt.home, tt.away)
		}
	}
}

func TestResolveHomebushReseed(t *testing.T) {
	rounds := GenerateHomebushPlayoff(8, true)
	schedule := &models.Schedule{
		CustomRounds: rounds,
		Matches:      CreateCustomPlayoffMatches(rounds, 0),
	}

	t.Run("waits for the knockout", func(t *testing.T) {
		partial := homebushResults()[:6]
		resolved := NewResolver(teamList(8), nil, partial).ResolveSchedule(schedule)
		_, m, _ := findCustom(resolved.CustomRounds, HomebushPrelimFinA)
		if m.Home.Kind != models.RefReseed {
			t.Errorf("preliminary final re-seeded too early: %s v %s", m.Home, m.Away)
		}
	})

	t.Run("orders survivors by table position", func(t *testing.T) {
		resolved := NewResolver(teamList(8), nil, homebushResults()).ResolveSchedule(schedule)

		// Survivors T2, T1, T4, T5 re-seed to T1 v T5 and T2 v T4.
		_, pfa, _ := findCustom(resolved.CustomRounds, HomebushPrelimFinA)
		_, pfb, _ := findCustom(resolved.CustomRounds, HomebushPrelimFinB)
		if pfa.Home.String() != "T1" || pfa.Away.String() != "T5" {
			t.Errorf("preliminary final A: got %s v %s", pfa.Home, pfa.Away)
		}
		if pfb.Home.String() != "T2" || pfb.Away.String() != "T4" {
			t.Errorf("preliminary final B: got %s v %s", pfb.Home, pfb.Away)
		}

		found := false
		for _, m := range resolved.Matches {
			if m.ID != HomebushPrelimFinB {
				continue
			}
			found = true
			if m.HomeTeamID != "T2" || m.AwayTeamID != "T4" {
				t.Errorf("materialized preliminary final B not rewritten: %s v %s", m.HomeTeamID, m.AwayTeamID)
			}
		}
		if !found {
			t.Error("preliminary final B was not materialized")
		}
	})

	if _, m, _ := findCustom(schedule.CustomRounds, HomebushPrelimFinA); m.Home.Kind != models.RefReseed {
		t.Error("ResolveSchedule modified its input")
	}
}
