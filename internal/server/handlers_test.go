package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/meltforce/coroscal/internal/convert"
	"github.com/meltforce/coroscal/internal/coros"
	"github.com/meltforce/coroscal/internal/ics"
)

func testServer() *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := coros.NewClient("http://127.0.0.1:1", "", nil, time.Second, log)
	renderer := ics.Renderer{Now: func() time.Time {
		return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	}}
	return New(convert.New(client, renderer, log), log)
}

func postJSON(t *testing.T, s *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

const rawTextBody = `{"raw_text": "Week 1\nEasy Run\n00:40:00\n6.44 km\nTempo Run\n00:35:00\n", "start_date": "2024-01-03"}`

// TestHandlePreview verifies the preview endpoint returns the resolved
// schedule as structured JSON.
func TestHandlePreview(t *testing.T) {
	rec := postJSON(t, testServer(), "/api/v1/preview", rawTextBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		StartDate     string `json:"start_date"`
		TotalWorkouts int    `json:"total_workouts"`
		TotalWeeks    int    `json:"total_weeks"`
		Events        []struct {
			Date    string `json:"date"`
			Weekday string `json:"weekday"`
			Title   string `json:"title"`
		} `json:"events"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if resp.TotalWorkouts != 2 || resp.TotalWeeks != 1 {
		t.Errorf("totals = %d workouts / %d weeks, want 2 / 1", resp.TotalWorkouts, resp.TotalWeeks)
	}
	if resp.StartDate != "2024-01-03" {
		t.Errorf("start_date = %s, want 2024-01-03", resp.StartDate)
	}
	if len(resp.Events) != 2 {
		t.Fatalf("events = %d, want 2", len(resp.Events))
	}
	if resp.Events[0].Title != "Easy Run" || resp.Events[0].Date != "2024-01-03" {
		t.Errorf("event 0 = %+v", resp.Events[0])
	}
	if resp.Events[0].Weekday != "Wednesday" {
		t.Errorf("event 0 weekday = %s, want Wednesday", resp.Events[0].Weekday)
	}
}

// TestHandleCalendar verifies the calendar endpoint returns a .ics
// attachment containing one VEVENT per workout.
func TestHandleCalendar(t *testing.T) {
	rec := postJSON(t, testServer(), "/api/v1/calendar", rawTextBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("content-type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, ".ics") {
		t.Errorf("content-disposition = %q", cd)
	}

	body := rec.Body.String()
	if got := strings.Count(body, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("VEVENT count = %d, want 2", got)
	}
	if !strings.Contains(body, "DTSTART;VALUE=DATE:20240103") {
		t.Errorf("missing first event date:\n%s", body)
	}
}

// TestHandleBadRequests verifies input errors map to 400 with a JSON error
// message.
func TestHandleBadRequests(t *testing.T) {
	s := testServer()
	tests := []struct {
		name, body string
	}{
		{"invalid json", "{"},
		{"no input", "{}"},
		{"bad anchor", `{"raw_text": "Run\n00:30:00\n", "start_date": "01/02/2024"}`},
		{"unparseable text", `{"raw_text": "nothing here"}`},
		{"bad plan url", `{"plan_url": "https://t.coros.com/plan"}`},
	}
	for _, tt := range tests {
		rec := postJSON(t, s, "/api/v1/preview", tt.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.name, rec.Code)
		}
		var resp map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Errorf("%s: decode error: %v", tt.name, err)
			continue
		}
		if resp["error"] == "" {
			t.Errorf("%s: missing error message", tt.name)
		}
	}
}

// TestHandleUpstreamFailure verifies an unreachable COROS API maps to 502.
func TestHandleUpstreamFailure(t *testing.T) {
	rec := postJSON(t, testServer(), "/api/v1/calendar", `{"plan_url": "https://t.coros.com/plan?planId=1"}`)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

// TestHandleHealthz verifies the health endpoint.
func TestHandleHealthz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/healthz", nil)
	rec := httptest.NewRecorder()
	testServer().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
