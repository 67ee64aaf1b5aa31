// Package ics serializes scheduled events into an iCalendar (RFC 5545)
// document of all-day VEVENTs.
package ics

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/coroscal/internal/models"
)

// ErrNoEvents is returned when rendering an empty event sequence.
var ErrNoEvents = errors.New("no events to render")

const (
	dateFormat     = "20060102"
	dateTimeFormat = "20060102T150405Z"

	// uidDomain suffixes every generated UID.
	uidDomain = "coroscal"
)

// Renderer serializes event sequences. The zero value renders with the
// default calendar name and prodid and stamps entries with the wall clock;
// set Now to a fixed clock for reproducible output.
type Renderer struct {
	CalendarName string
	ProdID       string
	Now          func() time.Time
}

// Render produces the full VCALENDAR document for the given events. The
// same events always yield the same UIDs; under a fixed clock the whole
// document is byte-identical across runs.
func (r Renderer) Render(events []models.ScheduledEvent) (string, error) {
	if len(events) == 0 {
		return "", ErrNoEvents
	}

	name := r.CalendarName
	if name == "" {
		name = "COROS Training Plan"
	}
	prodID := r.ProdID
	if prodID == "" {
		prodID = "-//coroscal//coroscal//EN"
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	stamp := now().UTC().Format(dateTimeFormat)

	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString(fmt.Sprintf("PRODID:%s\r\n", escapeText(prodID)))
	b.WriteString("CALSCALE:GREGORIAN\r\n")
	b.WriteString("METHOD:PUBLISH\r\n")
	b.WriteString(fmt.Sprintf("X-WR-CALNAME:%s\r\n", escapeText(name)))

	for i, e := range events {
		writeEvent(&b, e, i, stamp)
	}

	b.WriteString("END:VCALENDAR\r\n")
	return b.String(), nil
}

func writeEvent(b *strings.Builder, e models.ScheduledEvent, seq int, stamp string) {
	b.WriteString("BEGIN:VEVENT\r\n")
	b.WriteString(fmt.Sprintf("UID:%s\r\n", eventUID(e, seq)))
	b.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", stamp))
	// All-day encoding: date-only start, exclusive end one day later.
	b.WriteString(fmt.Sprintf("DTSTART;VALUE=DATE:%s\r\n", e.Date.Format(dateFormat)))
	b.WriteString(fmt.Sprintf("DTEND;VALUE=DATE:%s\r\n", e.Date.AddDate(0, 0, 1).Format(dateFormat)))
	b.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeText(e.Title)))
	if e.Description != "" {
		b.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeText(e.Description)))
	}
	b.WriteString("END:VEVENT\r\n")
}

// eventUID derives a stable UID from the event's position, date, and title,
// so re-rendering the same schedule never produces new identities.
func eventUID(e models.ScheduledEvent, seq int) string {
	key := fmt.Sprintf("%s/%d/%s/%s", uidDomain, seq, e.Date.Format(dateFormat), e.Title)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String() + "@" + uidDomain
}

// escapeText escapes the characters that are structurally significant in
// iCalendar text values.
func escapeText(text string) string {
	text = strings.ReplaceAll(text, "\\", "\\\\")
	text = strings.ReplaceAll(text, ";", "\\;")
	text = strings.ReplaceAll(text, ",", "\\,")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\n", "\\n")
	return text
}
