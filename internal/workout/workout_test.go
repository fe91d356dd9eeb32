package workout

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/rnwolfe/grind/internal/day"
)

func sampleRecord() Record {
	return Record{
		ID:     "w1",
		UserID: "u1",
		Date:   time.Date(2024, 1, 3, 18, 0, 0, 0, time.UTC),
		Exercises: []Exercise{
			{Name: "Bench Press", Sets: []Set{{Reps: 10, Weight: 60}, {Reps: 8, Weight: 70}}},
			{Name: "Pull Up", Sets: []Set{{Reps: 12}}},
		},
		DurationSeconds: 3600,
	}
}

func TestRecordAggregates(t *testing.T) {
	r := sampleRecord()
	if got := r.Volume(); got != 10*60+8*70 {
		t.Errorf("Volume = %v, want %v", got, 10*60+8*70)
	}
	if got := r.SetCount(); got != 3 {
		t.Errorf("SetCount = %d, want 3", got)
	}
	if got := r.Reps(); got != 30 {
		t.Errorf("Reps = %d, want 30", got)
	}
	if got := r.Duration(); got != time.Hour {
		t.Errorf("Duration = %v", got)
	}
}

func TestRecordValidate(t *testing.T) {
	if err := sampleRecord().Validate(); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Record)
	}{
		{"no owner", func(r *Record) { r.UserID = "" }},
		{"no date", func(r *Record) { r.Date = time.Time{} }},
		{"negative duration", func(r *Record) { r.DurationSeconds = -1 }},
		{"blank exercise", func(r *Record) { r.Exercises[0].Name = "  " }},
		{"negative reps", func(r *Record) { r.Exercises[0].Sets[0].Reps = -1 }},
		{"negative weight", func(r *Record) { r.Exercises[0].Sets[1].Weight = -5 }},
		{"NaN weight", func(r *Record) { r.Exercises[0].Sets[1].Weight = math.NaN() }},
		{"infinite weight", func(r *Record) { r.Exercises[1].Sets[0].Weight = math.Inf(1) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := sampleRecord()
			tc.mutate(&r)
			if err := r.Validate(); !errors.Is(err, day.ErrInvalidInput) {
				t.Errorf("Validate err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestRecordDayUsesLocation(t *testing.T) {
	r := sampleRecord()
	r.Date = time.Date(2024, 1, 3, 23, 30, 0, 0, time.UTC)
	if got := r.Day(time.UTC); got != "2024-01-03" {
		t.Errorf("Day(UTC) = %s", got)
	}
	if got := r.Day(time.FixedZone("CET", 3600)); got != "2024-01-04" {
		t.Errorf("Day(CET) = %s", got)
	}
}

func TestDays(t *testing.T) {
	a, b := sampleRecord(), sampleRecord()
	b.Date = b.Date.Add(2 * time.Hour) // same day
	c := sampleRecord()
	c.Date = c.Date.AddDate(0, 0, -1)
	got := Days([]Record{a, b, c}, time.UTC)
	want := []day.Key{"2024-01-02", "2024-01-03"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Days = %v, want %v", got, want)
	}
}

func TestMuscleGroups(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"bench press", []string{MuscleArms, MuscleChest}},
		{"Deadlift", []string{MuscleBack, MuscleLegs}},
		{"Bulgarian split squat", []string{MuscleLegs}},
		{"Zumba", []string{}},
	}
	for _, tc := range tests {
		got := MuscleGroups(tc.name)
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("MuscleGroups(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestParseExercise(t *testing.T) {
	tests := []struct {
		line   string
		name   string
		sets   int
		reps   int
		weight float64
	}{
		{"Bench Press 3x10x60", "Bench Press", 3, 10, 60},
		{"bench press 3x10x60kg", "Bench Press", 3, 10, 60},
		{"Pull Up 4x8", "Pull Up", 4, 8, 0},
		{"Squat 5x5@102,5", "Squat", 5, 5, 102.5},
		{"Deadlift 5/3 140", "Deadlift", 5, 3, 140},
		{"Farmer Carry 2x1x40", "Farmer Carry", 2, 1, 40},
	}
	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			ex, err := ParseExercise(tc.line)
			if err != nil {
				t.Fatalf("ParseExercise: %v", err)
			}
			if ex.Name != tc.name {
				t.Errorf("name = %q, want %q", ex.Name, tc.name)
			}
			if len(ex.Sets) != tc.sets {
				t.Fatalf("sets = %d, want %d", len(ex.Sets), tc.sets)
			}
			if ex.Sets[0].Reps != tc.reps || ex.Sets[0].Weight != tc.weight {
				t.Errorf("set = %+v, want %dx%v", ex.Sets[0], tc.reps, tc.weight)
			}
		})
	}

	for _, bad := range []string{
		"", "Bench Press", "Squat 0x5x100", "3x10",
		"Bench 99999999999999999999999x10",
		"Bench 101x10",
		"Bench 3x99999999999999999999999",
		"Bench 3x1001x60",
	} {
		if _, err := ParseExercise(bad); !errors.Is(err, day.ErrInvalidInput) {
			t.Errorf("ParseExercise(%q) err = %v, want ErrInvalidInput", bad, err)
		}
	}
}

func TestParseSet(t *testing.T) {
	tests := []struct {
		in   string
		want Set
	}{
		{"10x60", Set{Reps: 10, Weight: 60}},
		{"8@72.5", Set{Reps: 8, Weight: 72.5}},
		{"12", Set{Reps: 12}},
		{"5×100kg", Set{Reps: 5, Weight: 100}},
	}
	for _, tc := range tests {
		got, err := ParseSet(tc.in)
		if err != nil {
			t.Errorf("ParseSet(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseSet(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{
		"", "x60", "ten", "5x-3",
		"1xInf", "10xNaN", "3x+Inf", "1x1e400", "1001x20",
	} {
		if _, err := ParseSet(bad); !errors.Is(err, day.ErrInvalidInput) {
			t.Errorf("ParseSet(%q) err = %v, want ErrInvalidInput", bad, err)
		}
	}
}
