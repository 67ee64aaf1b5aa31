package models

import "time"

// DateLayout is the wire format for calendar dates throughout the API.
const DateLayout = "2006-01-02"

// ScheduledEvent is a workout resolved to an absolute calendar date. It is
// derived 1:1 from a WorkoutRecord plus an aligned anchor date and exists
// only between scheduling and rendering (or preview).
type ScheduledEvent struct {
	Date        time.Time `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DayIndex    int       `json:"day_index"`
}

// DateString returns the event date in YYYY-MM-DD form.
func (e ScheduledEvent) DateString() string {
	return e.Date.Format(DateLayout)
}

// WeekdayName returns the English weekday name of the event date.
func (e ScheduledEvent) WeekdayName() string {
	return e.Date.Weekday().String()
}
