package fitfile

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/muktihari/fit/decoder"
	"github.com/muktihari/fit/profile/typedef"

	"github.com/rnwolfe/grind/internal/day"
	"github.com/rnwolfe/grind/internal/workout"
)

func sample() workout.Record {
	return workout.Record{
		ID:     "w1",
		UserID: "u1",
		Name:   "Push",
		Date:   time.Date(2024, 2, 3, 17, 15, 0, 0, time.UTC),
		Exercises: []workout.Exercise{
			{Name: "Bench Press", Sets: []workout.Set{{Reps: 10, Weight: 60}, {Reps: 8, Weight: 62.5}}},
			{Name: "Bench Press Close Grip", Sets: []workout.Set{{Reps: 12, Weight: 40}}},
			{Name: "Push Up", Sets: []workout.Set{{Reps: 20}}},
		},
		DurationSeconds: 3300,
	}
}

func TestEncode_Messages(t *testing.T) {
	data, err := Encode(sample())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	fit, err := decoder.New(bytes.NewReader(data)).Decode()
	if err != nil {
		t.Fatalf("decoding generated file: %v", err)
	}

	var sets, titles, sessions, laps, activities int
	for _, msg := range fit.Messages {
		switch msg.Num {
		case typedef.MesgNumSet:
			sets++
		case typedef.MesgNumExerciseTitle:
			titles++
		case typedef.MesgNumSession:
			sessions++
		case typedef.MesgNumLap:
			laps++
		case typedef.MesgNumActivity:
			activities++
		}
	}
	if sets != 4 || titles != 3 || sessions != 1 || laps != 1 || activities != 1 {
		t.Errorf("sets=%d titles=%d sessions=%d laps=%d activities=%d", sets, titles, sessions, laps, activities)
	}
}

func TestRoundTrip(t *testing.T) {
	in := sample()
	data, err := Encode(in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Decode(bytes.NewReader(data), "u9")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if out.UserID != "u9" || out.Source != workout.SourceFIT {
		t.Errorf("owner/source = %q/%q", out.UserID, out.Source)
	}
	if !out.Date.Equal(in.Date) {
		t.Errorf("date = %v, want %v", out.Date, in.Date)
	}
	if out.DurationSeconds != in.DurationSeconds {
		t.Errorf("duration = %d", out.DurationSeconds)
	}
	if len(out.Exercises) != 3 {
		t.Fatalf("exercises = %+v", out.Exercises)
	}
	for i := range in.Exercises {
		if out.Exercises[i].Name != in.Exercises[i].Name {
			t.Errorf("exercise %d name = %q", i, out.Exercises[i].Name)
		}
		if len(out.Exercises[i].Sets) != len(in.Exercises[i].Sets) {
			t.Errorf("exercise %d sets = %+v", i, out.Exercises[i].Sets)
		}
	}
	if out.Volume() != in.Volume() {
		t.Errorf("volume = %v, want %v", out.Volume(), in.Volume())
	}
}

func TestEncode_NoDate(t *testing.T) {
	w := sample()
	w.Date = time.Time{}
	if _, err := Encode(w); !errors.Is(err, day.ErrInvalidInput) {
		t.Errorf("err = %v", err)
	}
}

func TestDecode_Garbage(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte("not a fit file")), "u1"); err == nil {
		t.Error("expected error")
	}
}

func TestCategory(t *testing.T) {
	tests := map[string]typedef.ExerciseCategory{
		"Incline Bench Press": typedef.ExerciseCategoryBenchPress,
		"Romanian Deadlift":   typedef.ExerciseCategoryDeadlift,
		"Front Squat":         typedef.ExerciseCategorySquat,
		"Barbell Row":         typedef.ExerciseCategoryRow,
		"Hammer Curl":         typedef.ExerciseCategoryCurl,
		"Juggling":            typedef.ExerciseCategoryUnknown,
	}
	for name, want := range tests {
		if got := Category(name); got != want {
			t.Errorf("Category(%q) = %v, want %v", name, got, want)
		}
	}
	if CategoryName(typedef.ExerciseCategorySquat) != "Squat" {
		t.Error("CategoryName(squat)")
	}
	if CategoryName(typedef.ExerciseCategoryUnknown) != "Exercise" {
		t.Error("CategoryName(unknown)")
	}
}
