package plannermcp

import (
	"context"
	"encoding/json"

	"github.com/2beens/workoutplanner/internal/calendar"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler parses tool input, calls the service and formats the MCP result.
type Handler struct {
	service contextService
}

func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

// PersonalBestInput is the input for get_personal_best.
type PersonalBestInput struct {
	ExerciseID string `json:"exercise_id" jsonschema:"Exercise id (e.g. squat)"`
}

// GetPersonalBestTool returns the MCP tool handler for get_personal_best.
func (h *Handler) GetPersonalBestTool() func(context.Context, *mcp.CallToolRequest, PersonalBestInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in PersonalBestInput) (*mcp.CallToolResult, any, error) {
		if in.ExerciseID == "" {
			return errorResult("Missing exercise_id"), nil, nil
		}
		best, err := h.service.PersonalBest(ctx, in.ExerciseID)
		if err != nil {
			return errorResult("Error fetching personal best: " + err.Error()), nil, nil
		}
		return jsonResult(best), nil, nil
	}
}

// ProgressTrendInput is the input for get_progress_trend.
type ProgressTrendInput struct {
	ExerciseID string `json:"exercise_id" jsonschema:"Exercise id (e.g. squat)"`
	Days       int    `json:"days,omitempty" jsonschema:"Window in days counted back from today (default 30)"`
}

// GetProgressTrendTool returns the MCP tool handler for get_progress_trend.
func (h *Handler) GetProgressTrendTool() func(context.Context, *mcp.CallToolRequest, ProgressTrendInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ProgressTrendInput) (*mcp.CallToolResult, any, error) {
		if in.ExerciseID == "" {
			return errorResult("Missing exercise_id"), nil, nil
		}
		if in.Days < 0 {
			return errorResult("Invalid days: must be positive"), nil, nil
		}
		trend, err := h.service.ProgressTrend(ctx, in.ExerciseID, in.Days)
		if err != nil {
			return errorResult("Error computing progress trend: " + err.Error()), nil, nil
		}
		return jsonResult(trend), nil, nil
	}
}

// CompletionStatsInput is the input for get_completion_stats.
type CompletionStatsInput struct {
	FromDate string `json:"from_date,omitempty" jsonschema:"Start date (YYYY-MM-DD)"`
	ToDate   string `json:"to_date,omitempty" jsonschema:"End date (YYYY-MM-DD)"`
}

// GetCompletionStatsTool returns the MCP tool handler for get_completion_stats.
func (h *Handler) GetCompletionStatsTool() func(context.Context, *mcp.CallToolRequest, CompletionStatsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in CompletionStatsInput) (*mcp.CallToolResult, any, error) {
		if in.FromDate != "" || in.ToDate != "" {
			if !calendar.IsISODate(in.FromDate) {
				return errorResult("Invalid from_date: use YYYY-MM-DD"), nil, nil
			}
			if !calendar.IsISODate(in.ToDate) {
				return errorResult("Invalid to_date: use YYYY-MM-DD"), nil, nil
			}
		}
		completion, err := h.service.CompletionStats(ctx, in.FromDate, in.ToDate)
		if err != nil {
			return errorResult("Error computing completion stats: " + err.Error()), nil, nil
		}
		return jsonResult(completion), nil, nil
	}
}

// WeekPlanInput is the input for get_week_plan.
type WeekPlanInput struct {
	Date string `json:"date,omitempty" jsonschema:"Any date (YYYY-MM-DD) of the wanted week"`
}

// GetWeekPlanTool returns the MCP tool handler for get_week_plan.
func (h *Handler) GetWeekPlanTool() func(context.Context, *mcp.CallToolRequest, WeekPlanInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in WeekPlanInput) (*mcp.CallToolResult, any, error) {
		if in.Date != "" && !calendar.IsISODate(in.Date) {
			return errorResult("Invalid date: use YYYY-MM-DD"), nil, nil
		}
		week, err := h.service.WeekPlan(ctx, in.Date)
		if err != nil {
			return errorResult("Error fetching week plan: " + err.Error()), nil, nil
		}
		return jsonResult(week), nil, nil
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}
