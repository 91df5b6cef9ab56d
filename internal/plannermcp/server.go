package plannermcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with read-only planner tools: personal best,
// progress trend, completion stats and the week plan.
// Used by the main backend when mounting MCP at /mcp and by cmd/planner_mcp over stdio.
func NewServer(source stateSource) *mcp.Server {
	h := NewHandler(NewContextService(source))
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "workout-planner",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_personal_best",
		Description: "Returns the personal best of an exercise (max weight, reps, seconds or distance depending on its type) with the date it was set. Arg: exercise_id. Use when you need to know the top performance so far.",
	}, h.GetPersonalBestTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_progress_trend",
		Description: "Returns the progress direction (up, down, stable, insufficient_data) of an exercise over the last N days. Args: exercise_id; optional: days (default 30).",
	}, h.GetProgressTrendTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_completion_stats",
		Description: "Returns how many planned exercises were actually logged, per date and overall. Optional args: from_date, to_date (YYYY-MM-DD); without them every planned date is counted.",
	}, h.GetCompletionStatsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_week_plan",
		Description: "Returns the seven days of a planner week with their plan items (exercises and routine snapshots). Optional arg: date (YYYY-MM-DD), any day of the wanted week; defaults to the current planner week.",
	}, h.GetWeekPlanTool())

	return s
}
