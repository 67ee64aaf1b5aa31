package models

import "fmt"

// Weekday values follow the COROS plan layout: 0 = Monday .. 6 = Sunday.
// WeekdayUnknown marks records parsed from sources that carry no
// day-of-week labeling (pasted page text).
const WeekdayUnknown = -1

var weekdayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// WeekdayName returns the English name for a plan weekday, or "" when unknown.
func WeekdayName(wd int) string {
	if wd < 0 || wd > 6 {
		return ""
	}
	return weekdayNames[wd]
}

// Segment is one structured part of a workout (warm up, training, cool down).
// Duration and Distance are pre-formatted display strings ("5min", "6.44km");
// either may be empty.
type Segment struct {
	Duration string `json:"duration,omitempty"`
	Distance string `json:"distance,omitempty"`
}

// Empty reports whether the segment carries no data at all.
func (s *Segment) Empty() bool {
	return s == nil || (s.Duration == "" && s.Distance == "")
}

// WorkoutRecord is a single workout in a training plan, immutable once
// parsed. DayIndex is the zero-based day offset from the plan's first day.
type WorkoutRecord struct {
	DayIndex     int      `json:"day_index"`
	Weekday      int      `json:"weekday"` // 0=Mon..6=Sun, WeekdayUnknown if unlabeled
	Title        string   `json:"title"`
	WarmUp       *Segment `json:"warm_up,omitempty"`
	Training     *Segment `json:"training,omitempty"`
	CoolDown     *Segment `json:"cool_down,omitempty"`
	TrainingLoad string   `json:"training_load,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

// Plan is an ordered training plan. Insertion order is chronological order
// within the plan.
type Plan struct {
	Workouts []WorkoutRecord `json:"workouts"`
}

// Len returns the number of workouts.
func (p *Plan) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Workouts)
}

// Weeks returns the number of whole-or-partial 7-day weeks the plan spans.
func (p *Plan) Weeks() int {
	if p.Len() == 0 {
		return 0
	}
	last := p.Workouts[len(p.Workouts)-1].DayIndex
	return last/7 + 1
}

// Validate checks the plan invariants: at least one workout, non-negative
// day indices, and DayIndex non-decreasing in sequence order.
func (p *Plan) Validate() error {
	if p.Len() == 0 {
		return fmt.Errorf("plan has no workouts")
	}
	prev := -1
	for i, w := range p.Workouts {
		if w.DayIndex < 0 {
			return fmt.Errorf("workout %d (%q): negative day index %d", i, w.Title, w.DayIndex)
		}
		if w.DayIndex < prev {
			return fmt.Errorf("workout %d (%q): day index %d before previous %d", i, w.Title, w.DayIndex, prev)
		}
		prev = w.DayIndex
	}
	return nil
}
