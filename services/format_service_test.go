package services

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/Dosada05/fixture-engine/models"
)

func TestFormatServiceValidateSettings(t *testing.T) {
	svc := NewFormatService()
	four := []string{"A", "B", "C", "D"}

	tests := []struct {
		name     string
		settings models.FormatSettings
		teams    []string
		wantErr  error
	}{
		{"round robin ok", models.FormatSettings{Mode: models.FormatRoundRobin, Legs: 2}, four, nil},
		{"unknown mode", models.FormatSettings{Mode: "ladder"}, four, ErrUnknownFormatMode},
		{"one team", models.FormatSettings{Mode: models.FormatRoundRobin}, []string{"A"}, ErrNotEnoughTeams},
		{"duplicate team", models.FormatSettings{Mode: models.FormatRoundRobin}, []string{"A", "B", "A"}, ErrDuplicateTeamID},
		{"bye is reserved", models.FormatSettings{Mode: models.FormatRoundRobin}, []string{"A", models.ByeTeamID}, ErrReservedTeamID},
		{"ref token is reserved", models.FormatSettings{Mode: models.FormatRoundRobin}, []string{"A", "seed-1"}, ErrReservedTeamID},
		{"padded id", models.FormatSettings{Mode: models.FormatRoundRobin}, []string{"A", " B"}, ErrValidationFailed},
		{"too many legs", models.FormatSettings{Mode: models.FormatRoundRobin, Legs: 5}, four, ErrInvalidLegs},
		{"single qualifier", models.FormatSettings{Mode: models.FormatRoundRobin, PlayoffQualifiers: 1}, four, ErrInvalidQualifiers},
		{"more qualifiers than teams", models.FormatSettings{Mode: models.FormatRoundRobin, PlayoffQualifiers: 5}, four, ErrInvalidQualifiers},
		{"swiss needs four", models.FormatSettings{Mode: models.FormatSwissElimination}, []string{"A", "B", "C"}, ErrNotEnoughTeams},
		{"swiss ok", models.FormatSettings{Mode: models.FormatSwissElimination}, four, nil},
		{"group rounds", models.FormatSettings{Mode: models.FormatGroupsDivisions, GroupRounds: 3}, four, ErrInvalidGroupRounds},
		{"negative groups", models.FormatSettings{Mode: models.FormatGroupsDivisions, NumberOfGroups: -1}, four, ErrInvalidGroupSettings},
		{
			"group team outside roster",
			models.FormatSettings{Mode: models.FormatGroupsDivisions, ExistingGroups: [][]string{{"A", "B"}, {"C", "Z"}}},
			four, ErrInvalidGroupSettings,
		},
		{
			"team in two groups",
			models.FormatSettings{Mode: models.FormatGroupsDivisions, ExistingGroups: [][]string{{"A", "B"}, {"B", "C"}}},
			four, ErrDuplicateTeamID,
		},
		{
			"group of one",
			models.FormatSettings{Mode: models.FormatGroupsDivisions, ExistingGroups: [][]string{{"A", "B", "C"}, {"D"}}},
			four, ErrInvalidGroupSettings,
		},
		{"custom playoff ok", models.FormatSettings{Mode: models.FormatCustomPlayoff, ReSeedRound5: true}, four, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidateSettings(tt.settings, tt.teams)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFormatServiceParseSettings(t *testing.T) {
	svc := NewFormatService()

	settings, err := svc.ParseSettings(json.RawMessage(`{"mode":"round_robin","legs":2,"playoff_qualifiers":4}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Mode != models.FormatRoundRobin || settings.Legs != 2 || settings.PlayoffQualifiers != 4 {
		t.Errorf("unexpected settings %+v", settings)
	}

	for _, raw := range []string{``, `  `, `{"mode":"round_robin","leggs":2}`, `[1,2]`} {
		if _, err := svc.ParseSettings(json.RawMessage(raw)); !errors.Is(err, ErrValidationFailed) {
			t.Errorf("%q: expected a validation error, got %v", raw, err)
		}
	}
}

func TestFormatServicePreview(t *testing.T) {
	svc := NewFormatService()

	t.Run("round robin with playoff", func(t *testing.T) {
		s, err := svc.Preview(models.FormatSettings{Mode: models.FormatRoundRobin, PlayoffQualifiers: 4}, []string{"A", "B", "C", "D", "E"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		league, playoff := 0, 0
		for _, m := range s.Matches {
			if m.IsPlayoff {
				playoff++
			} else {
				league++
			}
		}
		if league != 10 {
			t.Errorf("expected 10 league matches, got %d", league)
		}
		if playoff != 3 {
			t.Errorf("expected 3 playoff matches, got %d", playoff)
		}
		if s.PlayoffRoundOffset != 5 {
			t.Errorf("expected playoff offset 5, got %d", s.PlayoffRoundOffset)
		}
	})

	t.Run("invalid settings are not generated", func(t *testing.T) {
		if _, err := svc.Preview(models.FormatSettings{Mode: models.FormatSwissElimination}, []string{"A", "B"}); !errors.Is(err, ErrNotEnoughTeams) {
			t.Fatalf("expected ErrNotEnoughTeams, got %v", err)
		}
	})

	t.Run("seeded group draw is reproducible", func(t *testing.T) {
		seed := int64(42)
		settings := models.FormatSettings{Mode: models.FormatGroupsDivisions, NumberOfGroups: 2, TeamsPerGroup: 4, RandomSeed: &seed}
		teams := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
		first, err := svc.Preview(settings, teams)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, _ := svc.Preview(settings, teams)
		a, _ := json.Marshal(first.Groups)
		b, _ := json.Marshal(second.Groups)
		if string(a) != string(b) {
			t.Errorf("draws differ: %s vs %s", a, b)
		}
	})
}

func TestFormatServiceListModes(t *testing.T) {
	modes := NewFormatService().ListModes()
	if len(modes) != 4 {
		t.Fatalf("expected 4 modes, got %d", len(modes))
	}
	for _, m := range modes {
		if m.Generator == "" || m.MinTeams < 2 {
			t.Errorf("incomplete mode info %+v", m)
		}
	}
}

func TestFormatServiceResolve(t *testing.T) {
	svc := NewFormatService()
	settings := models.FormatSettings{Mode: models.FormatRoundRobin, PlayoffQualifiers: 2}
	teams := []string{"A", "B", "C"}

	schedule, err := svc.Preview(settings, teams)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	rank := map[string]int{"A": 0, "B": 1, "C": 2}
	for i := range schedule.Matches {
		m := &schedule.Matches[i]
		if m.IsPlayoff {
			continue
		}
		if rank[m.HomeTeamID] < rank[m.AwayTeamID] {
			m.HomeGoals, m.AwayGoals = models.IntPtr(2), models.IntPtr(0)
		} else {
			m.HomeGoals, m.AwayGoals = models.IntPtr(0), models.IntPtr(2)
		}
	}

	outcome, err := svc.Resolve(ResolveInput{TeamIDs: teams, Settings: settings, Schedule: schedule})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if outcome.Status != models.StatusActive || outcome.Standings[0].TeamID != "A" {
		t.Errorf("unexpected outcome: status %s, leader %s", outcome.Status, outcome.Standings[0].TeamID)
	}
	final := outcome.Schedule.Playoff[0].Matches[0]
	if final.Home.String() != "A" || final.Away.String() != "B" {
		t.Errorf("final: got %s v %s", final.Home, final.Away)
	}

	if _, err := svc.Resolve(ResolveInput{TeamIDs: teams, Settings: settings}); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("expected a validation error without a schedule, got %v", err)
	}
}
