package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rnwolfe/grind/internal/day"
	"github.com/rnwolfe/grind/internal/tracker"
	"github.com/rnwolfe/grind/internal/workout"
)

func TestWorkoutTime(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 3, 14, 18, 45, 0, 0, loc)

	got, err := workoutTime("", loc, now)
	if err != nil || !got.Equal(now) {
		t.Errorf("empty date = %v, %v", got, err)
	}
	got, err = workoutTime("2024-03-14", loc, now)
	if err != nil || !got.Equal(now) {
		t.Errorf("today = %v, %v", got, err)
	}
	got, err = workoutTime("2024-03-10", loc, now)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2024, 3, 10, 12, 0, 0, 0, loc); !got.Equal(want) {
		t.Errorf("past day = %v, want %v", got, want)
	}
	if _, err := workoutTime("2024-03-15", loc, now); !errors.Is(err, day.ErrInvalidInput) {
		t.Errorf("future day err = %v", err)
	}
	if _, err := workoutTime("14/03/2024", loc, now); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestWorkoutTime_PinsToLocalNoon(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	now := time.Date(2024, 3, 14, 1, 0, 0, 0, loc)
	got, err := workoutTime("2024-03-13", loc, now)
	if err != nil {
		t.Fatal(err)
	}
	if day.FromInstant(got, loc) != "2024-03-13" || got.In(loc).Hour() != 12 {
		t.Errorf("got %v", got.In(loc))
	}
}

func TestShortIDAndTruncate(t *testing.T) {
	if shortID("0123456789") != "01234567" || shortID("abc") != "abc" {
		t.Error("shortID")
	}
	if truncateName("Bench", 10) != "Bench" {
		t.Error("short name changed")
	}
	if got := truncateName("Romanian Deadlift", 8); got != "Romania…" {
		t.Errorf("truncateName = %q", got)
	}
}

func TestFormatSet(t *testing.T) {
	if got := formatSet(workout.Set{Reps: 8}); got != "8 reps" {
		t.Errorf("bodyweight = %q", got)
	}
	if got := formatSet(workout.Set{Reps: 5, Weight: 102.5}); got != "5 × 102.5 kg" {
		t.Errorf("weighted = %q", got)
	}
}

func TestWorkoutLogListRenameDelete(t *testing.T) {
	configTestEnv(t)
	resetCommandFlags(t)

	workoutName = "Legs"
	workoutDuration = 45 * time.Minute
	out := captureStdout(t, func() {
		if err := runWorkoutLog(nil, []string{"Squat 3x5@100", "Lunge 2x10"}); err != nil {
			t.Errorf("runWorkoutLog: %v", err)
		}
	})
	if !strings.Contains(out, "Legs") || !strings.Contains(out, "5 sets") || !strings.Contains(out, "1,500 kg") {
		t.Errorf("log output = %q", out)
	}
	if !strings.Contains(out, "First Rep") {
		t.Errorf("expected first achievement in %q", out)
	}

	a := testApp(t)
	ws, err := a.svc.Workouts(context.Background(), a.userID())
	if err != nil || len(ws) != 1 {
		t.Fatalf("Workouts = %v, %v", ws, err)
	}
	w := ws[0]
	if w.DurationSeconds != 2700 || w.Source != workout.SourceManual {
		t.Errorf("stored = %+v", w)
	}

	out = captureStdout(t, func() {
		if err := runWorkoutList(nil, nil); err != nil {
			t.Errorf("runWorkoutList: %v", err)
		}
	})
	if !strings.Contains(out, shortID(w.ID)) || !strings.Contains(out, "Legs") {
		t.Errorf("list output = %q", out)
	}

	captureStdout(t, func() {
		if err := runWorkoutRename(nil, []string{shortID(w.ID), "Leg", "Day"}); err != nil {
			t.Errorf("runWorkoutRename: %v", err)
		}
	})
	got, err := a.svc.FindWorkout(context.Background(), a.userID(), w.ID)
	if err != nil || got.Name != "Leg Day" {
		t.Errorf("after rename = %+v, %v", got, err)
	}

	out = captureStdout(t, func() {
		if err := runWorkoutShow(nil, []string{shortID(w.ID)}); err != nil {
			t.Errorf("runWorkoutShow: %v", err)
		}
	})
	if !strings.Contains(out, "Squat") || !strings.Contains(out, "5 × 100 kg") {
		t.Errorf("show output = %q", out)
	}

	captureStdout(t, func() {
		if err := runWorkoutDelete(nil, []string{w.ID}); err != nil {
			t.Errorf("runWorkoutDelete: %v", err)
		}
	})
	if _, err := a.svc.FindWorkout(context.Background(), a.userID(), w.ID); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("after delete err = %v", err)
	}
}

func TestWorkoutLog_RejectsBadExercise(t *testing.T) {
	configTestEnv(t)
	resetCommandFlags(t)

	err := runWorkoutLog(nil, []string{"Squat 3xabc"})
	if err == nil {
		t.Fatal("expected parse error")
	}
	a := testApp(t)
	if ws, _ := a.svc.Workouts(context.Background(), a.userID()); len(ws) != 0 {
		t.Errorf("nothing should be saved, got %d", len(ws))
	}
}

func TestWorkoutList_Empty(t *testing.T) {
	configTestEnv(t)
	resetCommandFlags(t)

	out := captureStdout(t, func() {
		if err := runWorkoutList(nil, nil); err != nil {
			t.Errorf("runWorkoutList: %v", err)
		}
	})
	if !strings.Contains(out, "No workouts yet") {
		t.Errorf("output = %q", out)
	}
}
