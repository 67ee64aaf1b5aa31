package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/meltforce/coroscal/internal/convert"
	"github.com/meltforce/coroscal/internal/coros"
	"github.com/meltforce/coroscal/internal/plan"
	"github.com/meltforce/coroscal/internal/schedule"
)

// conversionRequest is the body of both /preview and /calendar: a plan URL
// or pasted raw data, plus an optional start date (empty = today).
type conversionRequest struct {
	PlanURL   string `json:"plan_url"`
	RawText   string `json:"raw_text"`
	StartDate string `json:"start_date"`
}

// previewEvent is one scheduled workout in the preview response.
type previewEvent struct {
	Date        string `json:"date"`
	Weekday     string `json:"weekday"`
	DayIndex    int    `json:"day_index"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// previewResponse summarizes the resolved schedule before download.
type previewResponse struct {
	StartDate     string         `json:"start_date"`
	TotalWorkouts int            `json:"total_workouts"`
	TotalWeeks    int            `json:"total_weeks"`
	Events        []previewEvent `json:"events"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	res, err := s.conv.Schedule(r.Context(), req.PlanURL, req.RawText, req.StartDate)
	if err != nil {
		s.writeConversionError(w, err)
		return
	}

	events := make([]previewEvent, 0, len(res.Events))
	for _, e := range res.Events {
		events = append(events, previewEvent{
			Date:        e.DateString(),
			Weekday:     e.WeekdayName(),
			DayIndex:    e.DayIndex,
			Title:       e.Title,
			Description: e.Description,
		})
	}

	writeJSON(w, http.StatusOK, previewResponse{
		StartDate:     res.StartDate,
		TotalWorkouts: res.Plan.Len(),
		TotalWeeks:    res.Plan.Weeks(),
		Events:        events,
	})
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	res, err := s.conv.Schedule(r.Context(), req.PlanURL, req.RawText, req.StartDate)
	if err != nil {
		s.writeConversionError(w, err)
		return
	}

	doc, err := s.conv.Render(res)
	if err != nil {
		s.log.Error("render error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="coros_training_plan.ics"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc)) //nolint:errcheck
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (conversionRequest, bool) {
	var req conversionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return req, false
	}
	return req, true
}

// writeConversionError maps conversion error kinds to HTTP statuses: bad
// input is the caller's fault, everything else is an upstream or internal
// failure.
func (s *Server) writeConversionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, convert.ErrNoInput),
		errors.Is(err, plan.ErrNoWorkouts),
		errors.Is(err, schedule.ErrBadAnchor),
		errors.Is(err, schedule.ErrEmptyPlan),
		errors.Is(err, coros.ErrBadPlanURL):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		s.log.Error("conversion error", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
