// Package convert orchestrates a full conversion run: source input to
// parsed plan, plan to dated schedule, schedule to calendar document. Every
// run is request-scoped; the Converter holds only configuration.
package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/meltforce/coroscal/internal/coros"
	"github.com/meltforce/coroscal/internal/ics"
	"github.com/meltforce/coroscal/internal/models"
	"github.com/meltforce/coroscal/internal/plan"
	"github.com/meltforce/coroscal/internal/schedule"
)

// ErrNoInput is returned when a request carries neither a plan URL nor raw
// plan text.
var ErrNoInput = errors.New("either a plan URL or raw plan text is required")

// Converter runs conversions. Shared by the HTTP server, the CLI, and the
// MCP surface.
type Converter struct {
	coros    *coros.Client
	renderer ics.Renderer
	log      *slog.Logger
}

// New creates a Converter.
func New(client *coros.Client, renderer ics.Renderer, log *slog.Logger) *Converter {
	return &Converter{coros: client, renderer: renderer, log: log}
}

// Result is one completed scheduling run, ready for preview or rendering.
type Result struct {
	Plan      *models.Plan
	StartDate string
	Events    []models.ScheduledEvent
}

// Schedule fetches or parses the plan and resolves it against the anchor
// date string (empty means today). It fails outright on the first error;
// there is no partial output.
func (c *Converter) Schedule(ctx context.Context, planURL, rawText, anchorStr string) (*Result, error) {
	anchor, err := schedule.ParseAnchor(anchorStr)
	if err != nil {
		return nil, err
	}

	p, err := c.load(ctx, planURL, rawText)
	if err != nil {
		return nil, err
	}

	events, err := schedule.Compute(p, anchor)
	if err != nil {
		return nil, err
	}

	c.log.Info("plan scheduled",
		"workouts", p.Len(),
		"weeks", p.Weeks(),
		"start", events[0].DateString(),
	)

	return &Result{
		Plan:      p,
		StartDate: events[0].DateString(),
		Events:    events,
	}, nil
}

// Render serializes a scheduling result into the calendar document.
func (c *Converter) Render(res *Result) (string, error) {
	doc, err := c.renderer.Render(res.Events)
	if err != nil {
		return "", fmt.Errorf("rendering calendar: %w", err)
	}
	return doc, nil
}

// load turns the request input into a plan: a URL goes through the COROS
// API; raw text is sniffed as either a pasted API JSON payload or scraped
// page text.
func (c *Converter) load(ctx context.Context, planURL, rawText string) (*models.Plan, error) {
	switch {
	case planURL != "":
		return c.coros.FetchPlan(ctx, planURL)
	case strings.TrimSpace(rawText) != "":
		trimmed := strings.TrimSpace(rawText)
		if strings.HasPrefix(trimmed, "{") {
			detail, err := coros.DecodeDetail([]byte(trimmed))
			if err != nil {
				return nil, err
			}
			return coros.BuildPlan(detail, c.coros.Dict())
		}
		return plan.Parse(strings.NewReader(rawText))
	default:
		return nil, ErrNoInput
	}
}
