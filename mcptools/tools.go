package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Dosada05/fixture-engine/brackets"
	"github.com/Dosada05/fixture-engine/models"
	"github.com/Dosada05/fixture-engine/services"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

const (
	ToolListFormats        = "list_formats"
	ToolPreviewSchedule    = "preview_schedule"
	ToolCalculateStandings = "calculate_standings"
	ToolResolveSchedule    = "resolve_schedule"
)

// PreviewArgs represents the parameters for the preview_schedule tool
type PreviewArgs struct {
	TeamIDs  []string              `json:"team_ids"`
	Settings models.FormatSettings `json:"settings"`
}

// StandingsArgs represents the parameters for the calculate_standings tool
type StandingsArgs struct {
	TeamIDs            []string       `json:"team_ids"`
	Matches            []models.Match `json:"matches"`
	DisciplinaryPoints map[string]int `json:"disciplinary_points,omitempty"`
	RandomSeed         *int64         `json:"random_seed,omitempty"`
}

// ResolveArgs represents the parameters for the resolve_schedule tool. Results
// are keyed by match ID and applied on top of the schedule's own scores.
type ResolveArgs struct {
	TeamIDs            []string              `json:"team_ids"`
	Settings           models.FormatSettings `json:"settings"`
	Schedule           *models.Schedule      `json:"schedule"`
	Results            map[string][2]int     `json:"results,omitempty"`
	DisciplinaryPoints map[string]int        `json:"disciplinary_points,omitempty"`
}

type ToolHandler struct {
	formatService services.FormatService
	logger        *logrus.Logger
}

func NewToolHandler(formatService services.FormatService, logger *logrus.Logger) *ToolHandler {
	return &ToolHandler{formatService: formatService, logger: logger}
}

func (h *ToolHandler) Tools() []mcp.Tool {
	teamIDs := map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "string"},
		"description": "Team IDs in seed order",
	}
	settings := map[string]interface{}{
		"type":        "object",
		"description": "Format settings: mode, legs, playoff_qualifiers, league_rounds, number_of_groups, teams_per_group, group_rounds, existing_groups, re_seed_round_5, random_seed",
	}

	return []mcp.Tool{
		{
			Name:        ToolListFormats,
			Description: "List the supported tournament formats and their minimum team counts",
			InputSchema: mcp.ToolInputSchema{Type: "object", Properties: map[string]interface{}{}},
		},
		{
			Name:        ToolPreviewSchedule,
			Description: "Generate the full fixture list and playoff brackets for a roster without saving anything",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"team_ids": teamIDs,
					"settings": settings,
				},
			},
		},
		{
			Name:        ToolCalculateStandings,
			Description: "Rank teams from match results: points, goal difference, goals for, head-to-head, disciplinary points",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"team_ids": teamIDs,
					"matches": map[string]interface{}{
						"type":        "array",
						"description": "Matches with home_team_id, away_team_id, home_goals, away_goals",
					},
					"disciplinary_points": map[string]interface{}{"type": "object"},
					"random_seed":         map[string]interface{}{"type": "integer"},
				},
			},
		},
		{
			Name:        ToolResolveSchedule,
			Description: "Apply results to a schedule returned by preview_schedule and fill every bracket slot that is decided",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"team_ids": teamIDs,
					"settings": settings,
					"schedule": map[string]interface{}{"type": "object"},
					"results": map[string]interface{}{
						"type":        "object",
						"description": "match_id -> [home_goals, away_goals]",
					},
					"disciplinary_points": map[string]interface{}{"type": "object"},
				},
			},
		},
	}
}

func (h *ToolHandler) Call(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	switch name {
	case ToolListFormats:
		return jsonResult(h.formatService.ListModes())
	case ToolPreviewSchedule:
		return h.handlePreview(args)
	case ToolCalculateStandings:
		return h.handleStandings(args)
	case ToolResolveSchedule:
		return h.handleResolve(args)
	default:
		h.logger.WithField("tool", name).Warn("Unknown tool called")
		return errorResult("Unknown tool: " + name), nil
	}
}

func (h *ToolHandler) handlePreview(args map[string]interface{}) (*mcp.CallToolResult, error) {
	var in PreviewArgs
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}

	schedule, err := h.formatService.Preview(in.Settings, in.TeamIDs)
	if err != nil {
		h.logger.WithError(err).Warn("Preview rejected")
		return errorResult(fmt.Sprintf("Failed to generate schedule: %s", err)), nil
	}
	h.logger.WithFields(logrus.Fields{"mode": schedule.Mode, "matches": len(schedule.Matches)}).Info("Schedule previewed")
	return jsonResult(schedule)
}

func (h *ToolHandler) handleStandings(args map[string]interface{}) (*mcp.CallToolResult, error) {
	var in StandingsArgs
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if len(in.TeamIDs) == 0 {
		return nil, fmt.Errorf("team_ids is required")
	}

	var table []models.TeamStanding
	if in.RandomSeed != nil {
		table = brackets.CalculateStandings(in.TeamIDs, in.Matches, in.DisciplinaryPoints, brackets.NewRand(in.RandomSeed))
	} else {
		table = brackets.CalculateStandings(in.TeamIDs, in.Matches, in.DisciplinaryPoints, nil)
	}
	return jsonResult(table)
}

func (h *ToolHandler) handleResolve(args map[string]interface{}) (*mcp.CallToolResult, error) {
	var in ResolveArgs
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.Schedule == nil {
		return nil, fmt.Errorf("schedule is required")
	}

	for i := range in.Schedule.Matches {
		m := &in.Schedule.Matches[i]
		if score, ok := in.Results[m.ID]; ok {
			m.HomeGoals = models.IntPtr(score[0])
			m.AwayGoals = models.IntPtr(score[1])
		}
	}

	outcome, err := h.formatService.Resolve(services.ResolveInput{
		TeamIDs:            in.TeamIDs,
		Settings:           in.Settings,
		Schedule:           in.Schedule,
		DisciplinaryPoints: in.DisciplinaryPoints,
	})
	if err != nil {
		h.logger.WithError(err).Warn("Resolve rejected")
		return errorResult(fmt.Sprintf("Failed to resolve schedule: %s", err)), nil
	}
	return jsonResult(outcome)
}

// decodeArgs round-trips the loosely typed arguments into a typed struct.
func decodeArgs(args map[string]interface{}, dst interface{}) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to encode arguments: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	text, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Type: "text", Text: string(text)}},
	}, nil
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Type: "text", Text: text}},
		IsError: true,
	}
}
