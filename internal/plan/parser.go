// Package plan parses raw training-plan text scraped from the COROS plan
// page into an ordered workout sequence.
package plan

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/meltforce/coroscal/internal/models"
)

// ErrNoWorkouts is returned when the input contains no recognizable
// workout entries.
var ErrNoWorkouts = errors.New("no recognizable workout entries in input")

var (
	// weekMarkerRe matches: "Week 3" / "Week(s) 3-4"
	weekMarkerRe = regexp.MustCompile(`^Week(?:\(s\))?\s+(\d+)`)

	// durationRe matches: 00:40:00
	durationRe = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)

	// distanceRe matches: 6.44 km
	distanceRe = regexp.MustCompile(`^\d+(?:\.\d+)?\s*km$`)

	// trainingLoadRe matches: 45 TL
	trainingLoadRe = regexp.MustCompile(`^(\d+)\s*TL$`)
)

// Summary lines emitted by the plan page between weeks. They describe the
// week totals, not a workout, and are skipped.
var summaryLabels = map[string]bool{
	"Activity Time:": true,
	"Distance:":      true,
	"Training Load:": true,
}

// Placeholder detail values that carry no information.
var emptyDetails = map[string]bool{
	"/":        true,
	"0.00 km":  true,
	"00:00:00": true,
	"0 TL":     true,
}

// Parse reads scraped plan text and returns the ordered plan. Workouts in
// the text carry no explicit day-of-week labels, so records are assigned
// consecutive day slots within their week and Weekday is left unknown.
func Parse(r io.Reader) (*models.Plan, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	p := &models.Plan{}
	week := 1
	slot := 0 // next day slot within the current week

	for i := 0; i < len(lines); {
		line := lines[i]

		if m := weekMarkerRe.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				week = n
				slot = 0
			}
			i++
			continue
		}

		if summaryLabels[line] || strings.Contains(line, "/") {
			i++
			continue
		}

		// A workout title is a line followed by a duration or distance line.
		if !isWorkoutTitle(lines, i) {
			i++
			continue
		}

		rec := models.WorkoutRecord{
			Title:    line,
			Weekday:  models.WeekdayUnknown,
			DayIndex: (week-1)*7 + slot,
		}
		var noteLines []string
		i++

		for i < len(lines) {
			detail := lines[i]
			if weekMarkerRe.MatchString(detail) || summaryLabels[detail] {
				break
			}
			// Next workout starts here.
			if isWorkoutTitle(lines, i) {
				break
			}

			switch {
			case durationRe.MatchString(detail):
				rec.Training = ensure(rec.Training)
				rec.Training.Duration = detail
			case distanceRe.MatchString(detail):
				rec.Training = ensure(rec.Training)
				rec.Training.Distance = detail
			case trainingLoadRe.MatchString(detail):
				rec.TrainingLoad = trainingLoadRe.FindStringSubmatch(detail)[1]
			case !emptyDetails[detail]:
				noteLines = append(noteLines, detail)
			}
			i++
		}

		rec.Notes = strings.Join(noteLines, "\n")
		p.Workouts = append(p.Workouts, rec)
		if slot < 6 {
			slot++
		}
	}

	if p.Len() == 0 {
		return nil, ErrNoWorkouts
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("parsed plan invalid: %w", err)
	}
	return p, nil
}

// isWorkoutTitle reports whether lines[i] starts a workout entry: a
// non-marker line whose next line is a duration or distance value, or a
// race-day entry which has no metric lines.
func isWorkoutTitle(lines []string, i int) bool {
	line := lines[i]
	if weekMarkerRe.MatchString(line) || summaryLabels[line] {
		return false
	}
	if strings.Contains(line, "Target race day") {
		return true
	}
	if durationRe.MatchString(line) || distanceRe.MatchString(line) || trainingLoadRe.MatchString(line) {
		return false
	}
	if i+1 >= len(lines) {
		return false
	}
	next := lines[i+1]
	return durationRe.MatchString(next) || distanceRe.MatchString(next)
}

func ensure(s *models.Segment) *models.Segment {
	if s == nil {
		return &models.Segment{}
	}
	return s
}
