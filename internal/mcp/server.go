// Package mcp exposes plan conversion over the Model Context Protocol so
// an LLM client can fetch, preview, and render training plans.
package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/coroscal/internal/convert"
)

// New creates an MCP server with the conversion tools registered.
func New(conv *convert.Converter, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("coroscal", version,
		server.WithToolCapabilities(false),
		server.WithInstructions("COROS training plan converter. Preview a plan's schedule against a start date, then generate an iCalendar (.ics) document of all-day workout events."),
	)

	h := &handlers{conv: conv, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolPreviewSchedule, Handler: h.previewSchedule},
		server.ServerTool{Tool: toolGenerateCalendar, Handler: h.generateCalendar},
	)

	return s
}

// handlers holds dependencies for MCP tool handlers.
type handlers struct {
	conv *convert.Converter
	log  *slog.Logger
}

// --- Tool definitions ---

var toolPreviewSchedule = mcp.NewTool("preview_schedule",
	mcp.WithDescription("Resolve a COROS training plan to calendar dates. Returns one entry per workout with date, weekday, title, and description. The start date is weekday-aligned forward when the plan labels weekdays."),
	mcp.WithString("plan_url", mcp.Description("COROS training plan share URL (contains planId=...)")),
	mcp.WithString("raw_text", mcp.Description("Raw plan data pasted from the plan page or API, used when no URL is given")),
	mcp.WithString("start_date", mcp.Description("Plan start date (YYYY-MM-DD). Defaults to today.")),
)

var toolGenerateCalendar = mcp.NewTool("generate_calendar",
	mcp.WithDescription("Convert a COROS training plan into an iCalendar (.ics) document of all-day events, ready to import into a calendar app."),
	mcp.WithString("plan_url", mcp.Description("COROS training plan share URL (contains planId=...)")),
	mcp.WithString("raw_text", mcp.Description("Raw plan data pasted from the plan page or API, used when no URL is given")),
	mcp.WithString("start_date", mcp.Description("Plan start date (YYYY-MM-DD). Defaults to today.")),
)

// --- Tool handlers ---

func (h *handlers) previewSchedule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := h.schedule(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	type entry struct {
		Date        string `json:"date"`
		Weekday     string `json:"weekday"`
		Title       string `json:"title"`
		Description string `json:"description,omitempty"`
	}
	out := struct {
		StartDate     string  `json:"start_date"`
		TotalWorkouts int     `json:"total_workouts"`
		TotalWeeks    int     `json:"total_weeks"`
		Events        []entry `json:"events"`
	}{
		StartDate:     res.StartDate,
		TotalWorkouts: res.Plan.Len(),
		TotalWeeks:    res.Plan.Weeks(),
	}
	for _, e := range res.Events {
		out.Events = append(out.Events, entry{
			Date:        e.DateString(),
			Weekday:     e.WeekdayName(),
			Title:       e.Title,
			Description: e.Description,
		})
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) generateCalendar(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := h.schedule(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := h.conv.Render(res)
	if err != nil {
		h.log.Error("mcp generate_calendar", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(doc), nil
}

func (h *handlers) schedule(ctx context.Context, req mcp.CallToolRequest) (*convert.Result, error) {
	planURL := req.GetString("plan_url", "")
	rawText := req.GetString("raw_text", "")
	startDate := req.GetString("start_date", "")
	return h.conv.Schedule(ctx, planURL, rawText, startDate)
}
