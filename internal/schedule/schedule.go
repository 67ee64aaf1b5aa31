// Package schedule resolves a parsed training plan against an anchor date,
// producing dated events with forward-only weekday alignment.
package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/meltforce/coroscal/internal/models"
)

var (
	// ErrBadAnchor is returned for anchor date strings not in YYYY-MM-DD form.
	ErrBadAnchor = errors.New("anchor date must be in YYYY-MM-DD form")

	// ErrEmptyPlan is returned when scheduling a plan with no workouts.
	ErrEmptyPlan = errors.New("plan has no workouts to schedule")
)

// ParseAnchor parses a YYYY-MM-DD anchor date string. An empty string means
// "today" (in UTC, truncated to the date).
func ParseAnchor(s string) (time.Time, error) {
	if s == "" {
		return Today(), nil
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadAnchor, s)
	}
	return t, nil
}

// Today returns the current date at midnight UTC.
func Today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Align returns the anchor advanced forward (never backward) to the next
// date falling on the required plan weekday (0=Mon..6=Sun). The shift is
// always 0-6 days. A required weekday of WeekdayUnknown leaves the anchor
// untouched: unlabeled plans start literally on the anchor date.
func Align(anchor time.Time, required int) time.Time {
	if required == models.WeekdayUnknown {
		return anchor
	}
	// time.Weekday has Sunday=0; the plan layout has Monday=0.
	anchorWd := (int(anchor.Weekday()) + 6) % 7
	shift := (required - anchorWd + 7) % 7
	return anchor.AddDate(0, 0, shift)
}

// Compute resolves every workout in the plan to an absolute date. The
// aligned anchor represents the plan's first scheduled day; each event is
// placed at its day-index offset relative to the first record.
func Compute(p *models.Plan, anchor time.Time) ([]models.ScheduledEvent, error) {
	if p.Len() == 0 {
		return nil, ErrEmptyPlan
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	first := p.Workouts[0]
	start := Align(anchor, first.Weekday)

	events := make([]models.ScheduledEvent, 0, p.Len())
	for _, w := range p.Workouts {
		events = append(events, models.ScheduledEvent{
			Date:        start.AddDate(0, 0, w.DayIndex-first.DayIndex),
			Title:       w.Title,
			Description: Describe(w),
			DayIndex:    w.DayIndex,
		})
	}
	return events, nil
}

// Describe assembles the multi-line description text for a workout: one
// line per structured segment, the training load, then free-text notes.
func Describe(w models.WorkoutRecord) string {
	var lines []string
	if l := segmentLine("Warm Up", w.WarmUp); l != "" {
		lines = append(lines, l)
	}
	if l := segmentLine("Training", w.Training); l != "" {
		lines = append(lines, l)
	}
	if l := segmentLine("Cool Down", w.CoolDown); l != "" {
		lines = append(lines, l)
	}
	if w.TrainingLoad != "" {
		lines = append(lines, "Training Load: "+w.TrainingLoad)
	}
	if w.Notes != "" {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, w.Notes)
	}
	return strings.Join(lines, "\n")
}

// segmentLine renders "label: duration / distance", omitting absent parts.
func segmentLine(label string, s *models.Segment) string {
	if s.Empty() {
		return ""
	}
	switch {
	case s.Duration != "" && s.Distance != "":
		return fmt.Sprintf("%s: %s / %s", label, s.Duration, s.Distance)
	case s.Duration != "":
		return fmt.Sprintf("%s: %s", label, s.Duration)
	default:
		return fmt.Sprintf("%s: %s", label, s.Distance)
	}
}
