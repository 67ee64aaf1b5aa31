package convert

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/meltforce/coroscal/internal/coros"
	"github.com/meltforce/coroscal/internal/ics"
	"github.com/meltforce/coroscal/internal/plan"
	"github.com/meltforce/coroscal/internal/schedule"
)

func testConverter() *Converter {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := coros.NewClient("http://127.0.0.1:1", "", nil, time.Second, log)
	renderer := ics.Renderer{Now: func() time.Time {
		return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	}}
	return New(client, renderer, log)
}

const rawText = "Week 1\nEasy Run\n00:40:00\n6.44 km\nTempo Run\n00:35:00\n"

// TestScheduleFromRawText verifies the text path end to end: parse,
// schedule with a literal anchor (no weekday labels), render.
func TestScheduleFromRawText(t *testing.T) {
	c := testConverter()

	res, err := c.Schedule(context.Background(), "", rawText, "2024-01-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Events) != 2 {
		t.Fatalf("events = %d, want 2", len(res.Events))
	}
	// Text input carries no weekday labels: the anchor is used literally.
	if res.StartDate != "2024-01-03" {
		t.Errorf("start = %s, want 2024-01-03", res.StartDate)
	}

	doc, err := c.Render(res)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.Contains(doc, "SUMMARY:Easy Run") || !strings.Contains(doc, "SUMMARY:Tempo Run") {
		t.Errorf("document missing summaries:\n%s", doc)
	}

	// Same inputs, same bytes.
	res2, _ := c.Schedule(context.Background(), "", rawText, "2024-01-03")
	doc2, _ := c.Render(res2)
	if doc != doc2 {
		t.Error("two runs over the same input differ")
	}
}

// TestScheduleFromPastedJSON verifies raw input starting with "{" is
// treated as an API payload, which carries weekday labels and therefore
// aligns the anchor forward.
func TestScheduleFromPastedJSON(t *testing.T) {
	c := testConverter()

	// Single workout on dayNo 2 (Tuesday). Anchor 2024-01-01 is a Monday.
	payload := `{"data": {"entities": [
		{"dayNo": 2, "idInPlan": "a",
		 "exerciseBarChart": [{"name": "Run", "targetType": 2, "targetValue": 1800}]}
	]}}`

	res, err := c.Schedule(context.Background(), "", payload, "2024-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StartDate != "2024-01-02" {
		t.Errorf("start = %s, want 2024-01-02 (aligned to Tuesday)", res.StartDate)
	}
}

// TestScheduleErrors verifies error kinds pass through undisturbed so
// callers can classify them.
func TestScheduleErrors(t *testing.T) {
	c := testConverter()
	ctx := context.Background()

	if _, err := c.Schedule(ctx, "", "", ""); !errors.Is(err, ErrNoInput) {
		t.Errorf("no input err = %v, want ErrNoInput", err)
	}
	if _, err := c.Schedule(ctx, "", rawText, "03/01/2024"); !errors.Is(err, schedule.ErrBadAnchor) {
		t.Errorf("bad anchor err = %v, want ErrBadAnchor", err)
	}
	if _, err := c.Schedule(ctx, "", "nothing parseable here", ""); !errors.Is(err, plan.ErrNoWorkouts) {
		t.Errorf("bad text err = %v, want ErrNoWorkouts", err)
	}
	if _, err := c.Schedule(ctx, "https://t.coros.com/plan", "", ""); !errors.Is(err, coros.ErrBadPlanURL) {
		t.Errorf("bad url err = %v, want ErrBadPlanURL", err)
	}
}
