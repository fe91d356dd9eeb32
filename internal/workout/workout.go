// Package workout defines logged workouts and the exercise catalog.
package workout

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rnwolfe/grind/internal/day"
)

// Set is one set of an exercise. Weight is in kilograms.
type Set struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

// Volume is reps × weight.
func (s Set) Volume() float64 { return float64(s.Reps) * s.Weight }

// Exercise is a named exercise with its sets in performed order.
type Exercise struct {
	Name string `json:"name"`
	Sets []Set  `json:"sets"`
}

// Volume sums the volume of every set.
func (e Exercise) Volume() float64 {
	var v float64
	for _, s := range e.Sets {
		v += s.Volume()
	}
	return v
}

// Record is one completed workout. Only its owner may rename or delete it;
// everything else is immutable after creation.
type Record struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	Name            string     `json:"name"`
	Date            time.Time  `json:"date"`
	Exercises       []Exercise `json:"exercises"`
	DurationSeconds int        `json:"durationSeconds"`
	Source          string     `json:"source,omitempty"`
}

// Sources a record can come from. Empty means SourceManual.
const (
	SourceManual  = "manual"
	SourceSession = "session"
	SourceFIT     = "fit"
)

// NewID returns a fresh record identifier.
func NewID() string {
	return uuid.New().String()
}

// Validate checks the record for values the tracker cannot interpret.
func (r Record) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return fmt.Errorf("%w: workout has no owner", day.ErrInvalidInput)
	}
	if r.Date.IsZero() {
		return fmt.Errorf("%w: workout has no date", day.ErrInvalidInput)
	}
	if r.DurationSeconds < 0 {
		return fmt.Errorf("%w: negative duration %d", day.ErrInvalidInput, r.DurationSeconds)
	}
	for i, e := range r.Exercises {
		if strings.TrimSpace(e.Name) == "" {
			return fmt.Errorf("%w: exercise #%d has no name", day.ErrInvalidInput, i+1)
		}
		for j, s := range e.Sets {
			if s.Reps < 0 {
				return fmt.Errorf("%w: %s set %d has negative reps", day.ErrInvalidInput, e.Name, j+1)
			}
			if !validWeight(s.Weight) {
				return fmt.Errorf("%w: %s set %d has invalid weight %v", day.ErrInvalidInput, e.Name, j+1, s.Weight)
			}
		}
	}
	return nil
}

// Volume sums the volume of every exercise.
func (r Record) Volume() float64 {
	var v float64
	for _, e := range r.Exercises {
		v += e.Volume()
	}
	return v
}

// SetCount returns the number of sets across all exercises.
func (r Record) SetCount() int {
	n := 0
	for _, e := range r.Exercises {
		n += len(e.Sets)
	}
	return n
}

// Reps returns the total number of reps across all sets.
func (r Record) Reps() int {
	n := 0
	for _, e := range r.Exercises {
		for _, s := range e.Sets {
			n += s.Reps
		}
	}
	return n
}

// Day returns the calendar day the workout belongs to in loc.
func (r Record) Day(loc *time.Location) day.Key {
	return day.FromInstant(r.Date, loc)
}

// Duration returns DurationSeconds as a time.Duration.
func (r Record) Duration() time.Duration {
	return time.Duration(r.DurationSeconds) * time.Second
}

// Title returns Name, or a date-based fallback for unnamed workouts.
func (r Record) Title() string {
	if r.Name != "" {
		return r.Name
	}
	return "Workout " + r.Date.Format("Jan 2")
}

// Days returns the distinct calendar days of records in loc, ascending.
func Days(records []Record, loc *time.Location) []day.Key {
	keys := make([]day.Key, 0, len(records))
	for _, r := range records {
		keys = append(keys, r.Day(loc))
	}
	return day.Dedupe(keys)
}
