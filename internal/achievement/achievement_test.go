package achievement

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rnwolfe/grind/internal/workout"
)

var base = time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC) // a Monday

// makeWorkouts returns n daily workouts starting at base.
func makeWorkouts(n int, exercises ...workout.Exercise) []workout.Record {
	if len(exercises) == 0 {
		exercises = []workout.Exercise{{Name: "Push Up", Sets: []workout.Set{{Reps: 10}}}}
	}
	out := make([]workout.Record, n)
	for i := range out {
		out[i] = workout.Record{
			ID:              fmt.Sprintf("w%d", i),
			UserID:          "u1",
			Date:            base.AddDate(0, 0, i),
			Exercises:       exercises,
			DurationSeconds: 1800,
		}
	}
	return out
}

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	if c.Len() < 20 {
		t.Errorf("default catalog has %d rules, want ~20", c.Len())
	}
	for _, id := range []string{"first_workout", "total_workouts_20", "streak_7", "volume_1000"} {
		if _, ok := c.Get(id); !ok {
			t.Errorf("missing rule %q", id)
		}
	}
	rules := c.Rules()
	if rules[0].ID != "first_workout" {
		t.Errorf("Rules() should keep registration order, first = %q", rules[0].ID)
	}
}

func TestRegister_RejectsDuplicatesAndNilPredicate(t *testing.T) {
	c := NewCatalog()
	r := Rule{ID: "x", Predicate: func(Summary) bool { return true }}
	if err := c.Register(r); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := c.Register(r); err == nil {
		t.Error("duplicate id accepted")
	}
	if err := c.Register(Rule{ID: "y"}); err == nil {
		t.Error("nil predicate accepted")
	}
	if err := c.Register(Rule{Predicate: r.Predicate}); err == nil {
		t.Error("empty id accepted")
	}
}

func TestRegister_CustomRuleWithoutDispatcher(t *testing.T) {
	c := Default()
	err := c.Register(Rule{
		ID:        "century_reps",
		Predicate: func(s Summary) bool { return s.TotalReps >= 100 },
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	got := Evaluate(makeWorkouts(10), c, time.UTC)
	if !got["century_reps"] {
		t.Error("10 workouts × 10 reps should unlock century_reps")
	}
}

func TestEvaluate_FirstWorkout(t *testing.T) {
	c := Default()
	if Evaluate(nil, c, time.UTC)["first_workout"] {
		t.Error("first_workout unlocked with no workouts")
	}
	for id, ok := range Evaluate(nil, c, time.UTC) {
		if ok {
			t.Errorf("%s unlocked with empty history", id)
		}
	}
	if !Evaluate(makeWorkouts(1), c, time.UTC)["first_workout"] {
		t.Error("first_workout locked after one workout")
	}
}

func TestEvaluate_TotalWorkouts20(t *testing.T) {
	got := Evaluate(makeWorkouts(25), Default(), time.UTC)
	if !got["total_workouts_20"] {
		t.Error("25 workouts should unlock total_workouts_20")
	}
	if got["total_workouts_50"] {
		t.Error("25 workouts should not unlock total_workouts_50")
	}
}

func TestEvaluate_Streaks(t *testing.T) {
	got := Evaluate(makeWorkouts(7), Default(), time.UTC)
	if !got["streak_3"] || !got["streak_7"] {
		t.Errorf("7 consecutive days: streak_3=%v streak_7=%v", got["streak_3"], got["streak_7"])
	}
	if got["streak_30"] {
		t.Error("streak_30 unlocked after 7 days")
	}
}

func TestEvaluate_StrengthAndExercise(t *testing.T) {
	heavy := []workout.Exercise{
		{Name: "Squat", Sets: []workout.Set{{Reps: 5, Weight: 100}, {Reps: 5, Weight: 100}}},
		{Name: "Bench Press", Sets: []workout.Set{{Reps: 5, Weight: 80}}},
		{Name: "Deadlift", Sets: []workout.Set{{Reps: 3, Weight: 140}}},
		{Name: "Overhead Press", Sets: []workout.Set{{Reps: 5, Weight: 40}}},
	}
	got := Evaluate(makeWorkouts(1, heavy...), Default(), time.UTC)
	for _, id := range []string{"volume_1000", "heavy_lifter_100", "bench_press", "squat", "deadlift", "full_body"} {
		if !got[id] {
			t.Errorf("%s should be unlocked", id)
		}
	}
	if got["leg_day"] {
		t.Error("leg_day needs 5 leg workouts")
	}
	got = Evaluate(makeWorkouts(5, heavy...), Default(), time.UTC)
	if !got["leg_day"] {
		t.Error("leg_day should unlock after 5 leg workouts")
	}
}

func TestEvaluate_TimeOfDayUsesLocation(t *testing.T) {
	ws := makeWorkouts(1)
	ws[0].Date = time.Date(2024, 1, 1, 4, 30, 0, 0, time.UTC)
	if !Evaluate(ws, Default(), time.UTC)["early_bird"] {
		t.Error("04:30 UTC should be early_bird in UTC")
	}
	ny := time.FixedZone("EST", -5*3600)
	got := Evaluate(ws, Default(), ny)
	if got["early_bird"] {
		t.Error("23:30 local should not be early_bird")
	}
	if !got["night_owl"] {
		t.Error("23:30 local should be night_owl")
	}
}

func TestEvaluate_WeekendWarrior(t *testing.T) {
	ws := makeWorkouts(2)
	ws[0].Date = time.Date(2024, 1, 6, 10, 0, 0, 0, time.UTC) // Saturday
	ws[1].Date = time.Date(2024, 1, 7, 10, 0, 0, 0, time.UTC) // Sunday
	if !Evaluate(ws, Default(), time.UTC)["weekend_warrior"] {
		t.Error("Sat+Sun should unlock weekend_warrior")
	}
	ws[1].Date = time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)
	if Evaluate(ws, Default(), time.UTC)["weekend_warrior"] {
		t.Error("Sat+Mon should not unlock weekend_warrior")
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	ws := makeWorkouts(12)
	c := Default()
	a := Evaluate(ws, c, time.UTC)
	b := Evaluate(ws, c, time.UTC)
	if !reflect.DeepEqual(a, b) {
		t.Error("Evaluate is not idempotent")
	}
}

func TestEvaluate_MonotonicInHistory(t *testing.T) {
	c := Default()
	exercises := []workout.Exercise{
		{Name: "Squat", Sets: []workout.Set{{Reps: 5, Weight: 90}}},
		{Name: "Running", Sets: []workout.Set{{Reps: 1}}},
	}
	all := makeWorkouts(40, exercises...)
	// Punch holes so streak values move around.
	for i := range all {
		if i%9 == 8 {
			all[i].Date = all[i].Date.AddDate(0, 0, 100)
		}
	}
	prev := map[string]bool{}
	for n := 0; n <= len(all); n++ {
		cur := Evaluate(all[:n], c, time.UTC)
		for id, was := range prev {
			if was && !cur[id] {
				t.Fatalf("%s revoked after adding workout %d", id, n)
			}
		}
		prev = cur
	}
}

func TestMerge_NeverRevokes(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(24 * time.Hour)

	snap, newly := Merge(nil, map[string]bool{"first_workout": true, "streak_3": false}, t0)
	if !reflect.DeepEqual(newly, []string{"first_workout"}) {
		t.Errorf("newly = %v", newly)
	}

	snap, newly = Merge(snap, map[string]bool{"first_workout": false, "streak_3": true}, t1)
	if !snap.Unlocked("first_workout") {
		t.Error("first_workout revoked")
	}
	if !snap["first_workout"].Equal(t0) {
		t.Error("unlock time should be preserved")
	}
	if !reflect.DeepEqual(newly, []string{"streak_3"}) {
		t.Errorf("newly = %v", newly)
	}
	if ids := snap.IDs(); strings.Join(ids, ",") != "first_workout,streak_3" {
		t.Errorf("IDs = %v", ids)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(nil, nil)
	if s.Count != 0 || s.EarliestHour != -1 || s.LongestStreak != 0 {
		t.Errorf("empty summary = %+v", s)
	}

	ws := makeWorkouts(3, workout.Exercise{Name: "Bench Press", Sets: []workout.Set{{Reps: 10, Weight: 50}}})
	ws[2].Date = ws[2].Date.AddDate(0, 0, 3)
	s = Summarize(ws, time.UTC)
	if s.Count != 3 || s.DistinctDays != 3 {
		t.Errorf("count=%d days=%d", s.Count, s.DistinctDays)
	}
	if s.LongestStreak != 2 {
		t.Errorf("longest streak = %d, want 2", s.LongestStreak)
	}
	if s.TotalVolume != 1500 || s.MaxWorkoutVolume != 500 {
		t.Errorf("volume total=%v max=%v", s.TotalVolume, s.MaxWorkoutVolume)
	}
	if s.WorkoutsMatching("BENCH") != 3 {
		t.Errorf("WorkoutsMatching = %d", s.WorkoutsMatching("BENCH"))
	}
}
