package achievement

import (
	"strings"
	"time"

	"github.com/rnwolfe/grind/internal/day"
	"github.com/rnwolfe/grind/internal/streak"
	"github.com/rnwolfe/grind/internal/workout"
)

// Summary is the aggregate view of a workout history that predicates read.
// Every field only grows as workouts are added, so predicates built from
// threshold checks on it never revoke an unlock.
type Summary struct {
	Count              int
	TotalVolume        float64
	MaxWorkoutVolume   float64
	TotalSets          int
	TotalReps          int
	TotalDuration      time.Duration
	LongestWorkout     time.Duration
	HeaviestSet        float64
	DistinctDays       int
	LongestStreak      int
	ExerciseNames      map[string]bool // lower-cased
	MuscleGroups       map[string]bool
	MaxGroupsInWorkout int
	MuscleWorkouts     map[string]int // group -> workouts touching it
	EarliestHour       int            // -1 when no workouts
	LatestHour         int            // -1 when no workouts
	FullWeekends       int            // weekends with a workout on both days

	workoutNames []map[string]bool
}

// Summarize aggregates records; days and hours are taken in loc.
func Summarize(records []workout.Record, loc *time.Location) Summary {
	if loc == nil {
		loc = time.UTC
	}
	s := Summary{
		ExerciseNames:  map[string]bool{},
		MuscleGroups:   map[string]bool{},
		MuscleWorkouts: map[string]int{},
		EarliestHour:   -1,
		LatestHour:     -1,
	}

	days := make([]day.Key, 0, len(records))
	for _, r := range records {
		s.Count++
		vol := r.Volume()
		s.TotalVolume += vol
		if vol > s.MaxWorkoutVolume {
			s.MaxWorkoutVolume = vol
		}
		s.TotalSets += r.SetCount()
		s.TotalReps += r.Reps()
		s.TotalDuration += r.Duration()
		if r.Duration() > s.LongestWorkout {
			s.LongestWorkout = r.Duration()
		}

		hour := r.Date.In(loc).Hour()
		if s.EarliestHour < 0 || hour < s.EarliestHour {
			s.EarliestHour = hour
		}
		if hour > s.LatestHour {
			s.LatestHour = hour
		}

		names := map[string]bool{}
		groups := map[string]bool{}
		for _, e := range r.Exercises {
			name := strings.ToLower(strings.TrimSpace(e.Name))
			names[name] = true
			s.ExerciseNames[name] = true
			for _, g := range workout.MuscleGroups(e.Name) {
				groups[g] = true
				s.MuscleGroups[g] = true
			}
			for _, set := range e.Sets {
				if set.Weight > s.HeaviestSet {
					s.HeaviestSet = set.Weight
				}
			}
		}
		for g := range groups {
			s.MuscleWorkouts[g]++
		}
		if len(groups) > s.MaxGroupsInWorkout {
			s.MaxGroupsInWorkout = len(groups)
		}
		s.workoutNames = append(s.workoutNames, names)
		days = append(days, r.Day(loc))
	}

	unique := day.Dedupe(days)
	s.DistinctDays = len(unique)
	if len(unique) > 0 {
		// Longest is independent of the anchor and of today.
		s.LongestStreak = streak.Compute(unique, unique[len(unique)-1], streak.AnchorLatest).Longest
	}
	s.FullWeekends = countFullWeekends(unique)
	return s
}

// WorkoutsMatching counts workouts with at least one exercise whose name
// contains substr, case-insensitively.
func (s Summary) WorkoutsMatching(substr string) int {
	substr = strings.ToLower(substr)
	n := 0
	for _, names := range s.workoutNames {
		for name := range names {
			if strings.Contains(name, substr) {
				n++
				break
			}
		}
	}
	return n
}

func countFullWeekends(asc []day.Key) int {
	have := make(map[day.Key]bool, len(asc))
	for _, k := range asc {
		have[k] = true
	}
	n := 0
	for _, k := range asc {
		if k.Weekday() == time.Saturday && have[k.AddDays(1)] {
			n++
		}
	}
	return n
}
