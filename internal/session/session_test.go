package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rnwolfe/grind/internal/day"
	"github.com/rnwolfe/grind/internal/store"
	"github.com/rnwolfe/grind/internal/workout"
)

var t0 = time.Date(2024, 5, 1, 6, 45, 0, 0, time.UTC)

type mapStore map[string]string

func (m mapStore) Get(_ context.Context, k string) (string, bool, error) {
	v, ok := m[k]
	return v, ok, nil
}

func (m mapStore) Set(_ context.Context, k, v string) error { m[k] = v; return nil }

func (m mapStore) Delete(_ context.Context, k string) error { delete(m, k); return nil }

func TestSession_Lifecycle(t *testing.T) {
	s, err := Start("u1", "Morning", t0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Finish(t0); !errors.Is(err, day.ErrInvalidInput) {
		t.Errorf("finish empty session: %v", err)
	}

	n, err := s.AddExercise("bench press")
	if err != nil || n != 1 {
		t.Fatalf("AddExercise = %d, %v", n, err)
	}
	if s.Exercises[0].Name != "Bench Press" {
		t.Errorf("name not canonicalised: %q", s.Exercises[0].Name)
	}
	if err := s.AddSet("", workout.Set{Reps: 10, Weight: 60}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddExercise("Pull Up"); err != nil {
		t.Fatal(err)
	}
	if err := s.AddSet("1", workout.Set{Reps: 8, Weight: 65}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddSet("pull up", workout.Set{Reps: 6}); err != nil {
		t.Fatal(err)
	}

	r, err := s.Finish(t0.Add(50 * time.Minute))
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if r.DurationSeconds != 3000 || r.Source != workout.SourceSession {
		t.Errorf("record = %+v", r)
	}
	if len(r.Exercises[0].Sets) != 2 || len(r.Exercises[1].Sets) != 1 {
		t.Errorf("sets = %+v", r.Exercises)
	}
	if !r.Date.Equal(t0) || r.ID != s.ID {
		t.Error("record should keep session id and start time")
	}
}

func TestSession_Errors(t *testing.T) {
	if _, err := Start(" ", "x", t0); !errors.Is(err, day.ErrInvalidInput) {
		t.Errorf("Start without user: %v", err)
	}
	s, _ := Start("u1", "", t0)
	if err := s.AddSet("", workout.Set{Reps: 1}); !errors.Is(err, day.ErrInvalidInput) {
		t.Errorf("set before exercise: %v", err)
	}
	if _, err := s.AddExercise("  "); !errors.Is(err, day.ErrInvalidInput) {
		t.Errorf("blank exercise: %v", err)
	}
	s.AddExercise("Row")
	for _, ref := range []string{"0", "2", "curl"} {
		if err := s.AddSet(ref, workout.Set{Reps: 1}); !errors.Is(err, day.ErrInvalidInput) {
			t.Errorf("ref %q: %v", ref, err)
		}
	}
	if err := s.AddSet("", workout.Set{Reps: -1}); !errors.Is(err, day.ErrInvalidInput) {
		t.Errorf("negative reps: %v", err)
	}
	if s.Elapsed(t0.Add(-time.Hour)) != 0 {
		t.Error("Elapsed before start should be zero")
	}
}

func TestSaver(t *testing.T) {
	ctx := context.Background()
	sv := NewSaver(mapStore{})

	if _, err := sv.Load(ctx, "u1"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Load empty: %v", err)
	}
	s, _ := Start("u1", "Evening", t0)
	s.AddExercise("Squat")
	s.AddSet("", workout.Set{Reps: 5, Weight: 100})
	if err := sv.Save(ctx, s); err != nil {
		t.Fatal(err)
	}

	got, err := sv.Load(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != s.ID || !got.StartedAt.Equal(t0) || got.Exercises[0].Sets[0].Weight != 100 {
		t.Errorf("loaded = %+v", got)
	}
	if _, err := sv.Load(ctx, "u2"); !errors.Is(err, ErrNoSession) {
		t.Error("sessions must be per user")
	}
	if err := sv.Clear(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if _, err := sv.Load(ctx, "u1"); !errors.Is(err, ErrNoSession) {
		t.Error("Clear did not remove the checkpoint")
	}
}

func TestSaver_SQLite(t *testing.T) {
	db, err := store.OpenPath(filepath.Join(t.TempDir(), "s.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	ctx := context.Background()
	sv := NewSaver(store.NewKV(db.Conn()))
	s, _ := Start("u1", "", t0)
	s.AddExercise("Deadlift")
	if err := sv.Save(ctx, s); err != nil {
		t.Fatal(err)
	}
	got, err := sv.Load(ctx, "u1")
	if err != nil || got.Exercises[0].Name != "Deadlift" {
		t.Fatalf("Load = %+v, %v", got, err)
	}
}
