package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Dosada05/fixture-engine/brackets"
	"github.com/Dosada05/fixture-engine/models"
)

const (
	minSwissTeams = 4
	maxLegs       = 4
	maxGroupLegs  = 2
)

// FormatService validates format settings and runs the engine without touching
// storage.
type FormatService interface {
	ParseSettings(raw json.RawMessage) (models.FormatSettings, error)
	ValidateSettings(settings models.FormatSettings, teamIDs []string) error
	Preview(settings models.FormatSettings, teamIDs []string) (*models.Schedule, error)
	Resolve(input ResolveInput) (*ResultOutcome, error)
	ListModes() []FormatModeInfo
}

// ResolveInput is a schedule plus results, evaluated without storage.
type ResolveInput struct {
	TeamIDs            []string
	Settings           models.FormatSettings
	Schedule           *models.Schedule
	DisciplinaryPoints map[string]int
}

type FormatModeInfo struct {
	Mode      models.FormatMode `json:"mode"`
	Generator string            `json:"generator"`
	MinTeams  int               `json:"min_teams"`
}

type formatService struct{}

func NewFormatService() FormatService {
	return &formatService{}
}

// ParseSettings decodes settings strictly: unknown fields are rejected so typos
// do not silently fall back to defaults.
func (s *formatService) ParseSettings(raw json.RawMessage) (models.FormatSettings, error) {
	var settings models.FormatSettings
	if len(bytes.TrimSpace(raw)) == 0 {
		return settings, fmt.Errorf("%w: settings are required", ErrValidationFailed)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&settings); err != nil {
		return settings, fmt.Errorf("%w: invalid settings: %v", ErrValidationFailed, err)
	}
	return settings, nil
}

func (s *formatService) ValidateSettings(settings models.FormatSettings, teamIDs []string) error {
	if !settings.IsKnownMode() {
		return fmt.Errorf("%w: %q", ErrUnknownFormatMode, settings.Mode)
	}
	if err := validateTeamIDs(teamIDs); err != nil {
		return err
	}

	if settings.Legs < 0 || settings.Legs > maxLegs || settings.LeagueRounds < 0 || settings.LeagueRounds > maxLegs {
		return ErrInvalidLegs
	}

	switch settings.Mode {
	case models.FormatRoundRobin:
		q := settings.PlayoffQualifiers
		if q < 0 || q == 1 || q > len(teamIDs) {
			return ErrInvalidQualifiers
		}
	case models.FormatSwissElimination:
		if len(teamIDs) < minSwissTeams {
			return fmt.Errorf("%w: swiss elimination needs at least %d teams, got %d", ErrNotEnoughTeams, minSwissTeams, len(teamIDs))
		}
	case models.FormatGroupsDivisions:
		if settings.GroupRounds < 0 || settings.GroupRounds > maxGroupLegs {
			return ErrInvalidGroupRounds
		}
		if settings.NumberOfGroups < 0 || settings.TeamsPerGroup < 0 {
			return fmt.Errorf("%w: group counts must not be negative", ErrInvalidGroupSettings)
		}
		if len(settings.ExistingGroups) > 0 {
			if err := validateExistingGroups(settings.ExistingGroups, teamIDs); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *formatService) Preview(settings models.FormatSettings, teamIDs []string) (*models.Schedule, error) {
	if err := s.ValidateSettings(settings, teamIDs); err != nil {
		return nil, err
	}
	return generateSchedule(settings, teamIDs)
}

// Resolve computes standings, fills bracket slots and derives the status from
// the results already present on input.Schedule.Matches.
func (s *formatService) Resolve(input ResolveInput) (*ResultOutcome, error) {
	if input.Schedule == nil {
		return nil, fmt.Errorf("%w: schedule is required", ErrValidationFailed)
	}
	if input.Settings.Mode == "" {
		input.Settings.Mode = input.Schedule.Mode
	}
	if err := s.ValidateSettings(input.Settings, input.TeamIDs); err != nil {
		return nil, err
	}
	for _, m := range input.Schedule.Matches {
		if (m.HomeGoals != nil && *m.HomeGoals < 0) || (m.AwayGoals != nil && *m.AwayGoals < 0) {
			return nil, fmt.Errorf("%w: match %s", ErrInvalidScore, m.ID)
		}
	}

	t := &models.Tournament{
		TeamIDs:            input.TeamIDs,
		Settings:           input.Settings,
		DisciplinaryPoints: input.DisciplinaryPoints,
	}
	p := computeProgress(t, input.Schedule, input.Schedule.Matches)
	return &ResultOutcome{Standings: p.Standings, Schedule: p.Resolved, Status: p.Status}, nil
}

func (s *formatService) ListModes() []FormatModeInfo {
	modes := []struct {
		mode     models.FormatMode
		minTeams int
	}{
		{models.FormatRoundRobin, 2},
		{models.FormatSwissElimination, minSwissTeams},
		{models.FormatGroupsDivisions, 2},
		{models.FormatCustomPlayoff, 2},
	}
	out := make([]FormatModeInfo, 0, len(modes))
	for _, m := range modes {
		gen, err := brackets.NewGenerator(m.mode)
		if err != nil {
			continue
		}
		out = append(out, FormatModeInfo{Mode: m.mode, Generator: gen.GetName(), MinTeams: m.minTeams})
	}
	return out
}

func generateSchedule(settings models.FormatSettings, teamIDs []string) (*models.Schedule, error) {
	gen, err := brackets.NewGenerator(settings.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormatMode, err)
	}
	schedule, err := gen.Generate(brackets.GenerateParams{TeamIDs: teamIDs, Settings: settings})
	if err != nil {
		return nil, fmt.Errorf("%s generator failed: %w", gen.GetName(), err)
	}
	return schedule, nil
}

func validateTeamIDs(teamIDs []string) error {
	if len(teamIDs) < 2 {
		return fmt.Errorf("%w: at least 2 teams are required, got %d", ErrNotEnoughTeams, len(teamIDs))
	}
	seen := make(map[string]bool, len(teamIDs))
	for _, id := range teamIDs {
		if strings.TrimSpace(id) == "" || id != strings.TrimSpace(id) {
			return fmt.Errorf("%w: team ids must be non-empty without surrounding spaces, got %q", ErrValidationFailed, id)
		}
		if id == models.ByeTeamID || models.ParseParticipantRef(id).Kind != models.RefTeam {
			return fmt.Errorf("%w: %q", ErrReservedTeamID, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: %q", ErrDuplicateTeamID, id)
		}
		seen[id] = true
	}
	return nil
}

func validateExistingGroups(groups [][]string, teamIDs []string) error {
	roster := make(map[string]bool, len(teamIDs))
	for _, id := range teamIDs {
		roster[id] = true
	}
	placed := make(map[string]bool)
	for gi, group := range groups {
		if len(group) < 2 {
			return fmt.Errorf("%w: group %d needs at least 2 teams", ErrInvalidGroupSettings, gi)
		}
		for _, id := range group {
			if !roster[id] {
				return fmt.Errorf("%w: team %q in group %d is not in the roster", ErrInvalidGroupSettings, id, gi)
			}
			if placed[id] {
				return fmt.Errorf("%w: %q", ErrDuplicateTeamID, id)
			}
			placed[id] = true
		}
	}
	return nil
}
