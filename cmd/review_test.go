package cmd

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rnwolfe/grind/internal/achievement"
	"github.com/rnwolfe/grind/internal/day"
	"github.com/rnwolfe/grind/internal/goal"
	"github.com/rnwolfe/grind/internal/habit"
	"github.com/rnwolfe/grind/internal/streak"
	"github.com/rnwolfe/grind/internal/tracker"
	"github.com/rnwolfe/grind/internal/workout"
)

func reviewFixture() reviewInput {
	week := day.Window{Start: "2024-04-29", End: "2024-05-05"}
	at := func(d int, h int) time.Time { return time.Date(2024, 4, 29+d, h, 0, 0, 0, time.UTC) }
	ws := []workout.Record{
		{ID: "a", Name: "Push", Date: at(0, 18), DurationSeconds: 3600, Exercises: []workout.Exercise{
			{Name: "Bench Press", Sets: []workout.Set{{Reps: 5, Weight: 80}, {Reps: 5, Weight: 80}, {Reps: 5, Weight: 80}}},
			{Name: "Dip", Sets: []workout.Set{{Reps: 10}}},
		}},
		{ID: "b", Name: "Pull | Arms", Date: at(2, 7), DurationSeconds: 2700, Exercises: []workout.Exercise{
			{Name: "Row", Sets: []workout.Set{{Reps: 10, Weight: 50}, {Reps: 10, Weight: 50}}},
			{Name: "Bench Press", Sets: []workout.Set{{Reps: 8, Weight: 60}}},
		}},
	}
	cat := achievement.Default()
	return reviewInput{
		Week:     week,
		Current:  tracker.WeekBucket{Window: week, Workouts: 2, Volume: 2680},
		Previous: tracker.WeekBucket{Workouts: 3},
		Workouts: ws,
		Habits: []tracker.HabitStatus{
			{Habit: habit.Record{Name: "Stretch"}, Week: goal.Progress{Target: 3, Completed: 3}},
			{Habit: habit.Record{Name: "Read"}, Week: goal.Progress{Target: 5, Completed: 1}},
		},
		Streak: tracker.Overview{WorkoutStreak: streak.Info{Current: 1, Longest: 4}},
		Unlocked: achievement.Snapshot{
			"first_workout": at(0, 18),
			"volume_1000":   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		Catalog:  cat,
		Location: time.UTC,
	}
}

func TestBuildReview(t *testing.T) {
	in := reviewFixture()
	md := buildReview(in)
	for _, want := range []string{
		"# Week of Apr 29 to May 5, 2024",
		"**2 workouts**, 2,680 kg total volume, 1h45m0s training",
		"1 workout fewer compared with the week before",
		"Current streak 1 day, best 4 days",
		"| Mon | Push | 4 | 1,200 kg |",
		`| Wed | Pull \| Arms | 3 | 1,480 kg |`,
		"Most trained: Bench Press, Row, Dip",
		"| Stretch | 3 | 3 | yes |",
		"| Read | 1 | 5 | no |",
		"## Achievements unlocked",
		"**First Rep**",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("review missing %q:\n%s", want, md)
		}
	}
	if old, ok := in.Catalog.Get("volume_1000"); !ok || strings.Contains(md, "**"+old.Name+"**") {
		t.Error("unlocks outside the week should be left out")
	}
}

func TestBuildReview_EmptyWeek(t *testing.T) {
	in := reviewFixture()
	in.Workouts, in.Habits, in.Unlocked = nil, nil, achievement.Snapshot{}
	md := buildReview(in)
	if !strings.Contains(md, "No workouts this week.") {
		t.Errorf("review = %s", md)
	}
	if strings.Contains(md, "## Habits") || strings.Contains(md, "## Achievements") {
		t.Errorf("empty sections should be omitted:\n%s", md)
	}
}

func TestCompare(t *testing.T) {
	if got := compare(3, 1, "workout"); got != "2 workouts more" {
		t.Errorf("more = %q", got)
	}
	if got := compare(1, 2, "workout"); got != "1 workout fewer" {
		t.Errorf("fewer = %q", got)
	}
	if got := compare(2, 2, "workout"); got != "Same number of workouts" {
		t.Errorf("same = %q", got)
	}
}

func TestTopExercises(t *testing.T) {
	got := topExercises(reviewFixture().Workouts, 2)
	if want := []string{"Bench Press", "Row"}; !reflect.DeepEqual(got, want) {
		t.Errorf("top = %v, want %v", got, want)
	}
}

func TestRunReview_Raw(t *testing.T) {
	configTestEnv(t)
	resetCommandFlags(t)

	captureStdout(t, func() {
		if err := runWorkoutLog(nil, []string{"Squat 3x5x100"}); err != nil {
			t.Fatal(err)
		}
	})
	reviewRaw = true
	out := captureStdout(t, func() {
		if err := runReview(nil, nil); err != nil {
			t.Errorf("runReview: %v", err)
		}
	})
	if !strings.HasPrefix(out, "# Week of") || !strings.Contains(out, "**1 workout**") {
		t.Errorf("review = %q", out)
	}

	reviewWeeksAgo = 1
	out = captureStdout(t, func() {
		if err := runReview(nil, nil); err != nil {
			t.Errorf("runReview last week: %v", err)
		}
	})
	if !strings.Contains(out, "No workouts this week.") {
		t.Errorf("last week review = %q", out)
	}

	reviewWeeksAgo = -1
	if err := runReview(nil, nil); err == nil {
		t.Error("expected error for negative --weeks-ago")
	}
}
