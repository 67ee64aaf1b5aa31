package coros

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/meltforce/coroscal/internal/models"
	"github.com/meltforce/coroscal/internal/plan"
)

// FlexID is a plan-internal identifier that the API emits as either a JSON
// string or a number, depending on export version.
type FlexID string

func (id *FlexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("idInPlan is neither string nor number: %s", data)
	}
	*id = FlexID(n.String())
	return nil
}

// Target types used by the API for exercise goals.
const (
	targetTime     = 2 // value in seconds
	targetDistance = 5 // value in centimeters
)

// planDetailResponse is the top-level API response.
type planDetailResponse struct {
	Data *PlanDetail `json:"data"`
}

// PlanDetail holds the plan's day entities and their referenced programs.
type PlanDetail struct {
	Entities []Entity  `json:"entities"`
	Programs []Program `json:"programs"`
}

// Entity is one plan day. DayNo is 1-based from the plan start. Newer
// exports describe the workout via ExerciseBarChart; older ones via Sport.
type Entity struct {
	DayNo            int        `json:"dayNo"`
	IDInPlan         FlexID     `json:"idInPlan"`
	ExerciseBarChart []Exercise `json:"exerciseBarChart"`
	Sport            *Sport     `json:"sport"`
}

// Program carries the dictionary keys for a workout's name and overview.
type Program struct {
	IDInPlan FlexID `json:"idInPlan"`
	Name     string `json:"name"`
	Overview string `json:"overview"`
}

// Exercise is a single structured workout component.
type Exercise struct {
	Name        string  `json:"name"`
	TargetType  int     `json:"targetType"`
	TargetValue float64 `json:"targetValue"`
}

// Sport is the legacy workout shape with plan-level totals.
type Sport struct {
	Name         string     `json:"name"`
	Overview     string     `json:"overview"`
	Duration     float64    `json:"duration"` // seconds
	Distance     float64    `json:"distance"` // centimeters
	TrainingLoad float64    `json:"trainingLoad"`
	Exercises    []Exercise `json:"exercises"`
}

// BuildPlan converts a decoded PlanDetail into the ordered plan model.
// Day entities without any workout data (rest days) are skipped. Dictionary
// keys are translated when the dictionary knows them.
func BuildPlan(detail *PlanDetail, dict Dictionary) (*models.Plan, error) {
	programs := make(map[FlexID]Program, len(detail.Programs))
	for _, prog := range detail.Programs {
		if prog.IDInPlan != "" {
			programs[prog.IDInPlan] = prog
		}
	}

	entities := append([]Entity(nil), detail.Entities...)
	sort.SliceStable(entities, func(i, j int) bool { return entities[i].DayNo < entities[j].DayNo })

	p := &models.Plan{}
	for _, e := range entities {
		if len(e.ExerciseBarChart) == 0 && e.Sport == nil {
			continue
		}

		dayNo := e.DayNo
		if dayNo < 1 {
			dayNo = 1
		}
		rec := models.WorkoutRecord{
			DayIndex: dayNo - 1,
			Weekday:  (dayNo - 1) % 7, // plan weeks start on Monday
		}

		prog := programs[e.IDInPlan]
		title := dict.Translate(prog.Name)
		rec.Notes = dict.Translate(prog.Overview)

		if len(e.ExerciseBarChart) > 0 {
			buildFromBarChart(&rec, e.ExerciseBarChart, dict)
		} else {
			if title == "" {
				title = dict.Translate(e.Sport.Name)
			}
			if rec.Notes == "" {
				rec.Notes = dict.Translate(e.Sport.Overview)
			}
			buildFromSport(&rec, e.Sport, dict)
		}

		if title == "" {
			title = fallbackTitle(&rec)
		}
		rec.Title = title
		p.Workouts = append(p.Workouts, rec)
	}

	if p.Len() == 0 {
		return nil, plan.ErrNoWorkouts
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("decoded plan invalid: %w", err)
	}
	return p, nil
}

// buildFromBarChart fills segments from the newer exerciseBarChart shape:
// warm-up and cool-down components map to their own segments, everything
// else aggregates into the training segment.
func buildFromBarChart(rec *models.WorkoutRecord, chart []Exercise, dict Dictionary) {
	var trainSecs, trainCm float64
	for _, ex := range chart {
		name := dict.Translate(ex.Name)
		seg := formatTarget(ex.TargetType, ex.TargetValue)
		if seg == nil {
			continue
		}
		switch name {
		case "Warm Up":
			rec.WarmUp = seg
		case "Cool Down":
			rec.CoolDown = seg
		default:
			switch ex.TargetType {
			case targetTime:
				trainSecs += ex.TargetValue
			case targetDistance:
				trainCm += ex.TargetValue
			}
		}
	}
	rec.Training = formatTotals(trainSecs, trainCm)
}

// buildFromSport fills the training segment from legacy plan-level totals.
func buildFromSport(rec *models.WorkoutRecord, sport *Sport, dict Dictionary) {
	rec.Training = formatTotals(sport.Duration, sport.Distance)
	if sport.TrainingLoad > 0 {
		rec.TrainingLoad = fmt.Sprintf("%.0f", sport.TrainingLoad)
	}
	// Component breakdown goes into the notes, one line per exercise.
	var lines []string
	for _, ex := range sport.Exercises {
		name := dict.Translate(ex.Name)
		seg := formatTarget(ex.TargetType, ex.TargetValue)
		if name == "" || seg == nil {
			continue
		}
		if seg.Duration != "" {
			lines = append(lines, name+": "+seg.Duration)
		} else {
			lines = append(lines, name+": "+seg.Distance)
		}
	}
	if len(lines) > 0 {
		if rec.Notes != "" {
			rec.Notes += "\n\n"
		}
		rec.Notes += strings.Join(lines, "\n")
	}
}

// formatTarget renders an exercise target as a segment, nil when the
// target carries no usable value.
func formatTarget(targetType int, value float64) *models.Segment {
	switch targetType {
	case targetTime:
		if value <= 0 {
			return nil
		}
		if value >= 60 {
			return &models.Segment{Duration: fmt.Sprintf("%dmin", int(value)/60)}
		}
		return &models.Segment{Duration: fmt.Sprintf("%ds", int(value))}
	case targetDistance:
		if value <= 0 {
			return nil
		}
		return &models.Segment{Distance: fmt.Sprintf("%.2fkm", value/100000)}
	default:
		return nil
	}
}

// formatTotals renders aggregated duration/distance totals as a training
// segment, nil when both are zero.
func formatTotals(secs, cm float64) *models.Segment {
	seg := &models.Segment{}
	if secs > 0 {
		seg.Duration = fmt.Sprintf("%dmin", int(secs)/60)
	}
	if cm > 0 {
		seg.Distance = fmt.Sprintf("%.2fkm", cm/100000)
	}
	if seg.Empty() {
		return nil
	}
	return seg
}

// fallbackTitle builds a title from the workout's structured parts when the
// program carries no name.
func fallbackTitle(rec *models.WorkoutRecord) string {
	var parts []string
	for _, s := range []struct {
		label string
		seg   *models.Segment
	}{
		{"Warm Up", rec.WarmUp},
		{"Training", rec.Training},
		{"Cool Down", rec.CoolDown},
	} {
		if s.seg.Empty() {
			continue
		}
		if s.seg.Duration != "" {
			parts = append(parts, s.label+" "+s.seg.Duration)
		} else {
			parts = append(parts, s.label+" "+s.seg.Distance)
		}
	}
	if len(parts) == 0 {
		return "Workout"
	}
	return strings.Join(parts, " + ")
}
