package hook

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestEventJSON(t *testing.T) {
	e := NewEvent(WorkoutLogged, "u1", map[string]any{"id": "w1"})
	if e.Time.IsZero() || e.Time.Location() != time.UTC {
		t.Errorf("time = %v", e.Time)
	}
	b, err := e.JSON()
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"event":"workout.logged"`, `"user_id":"u1"`, `"time":"`, `"data":{`} {
		if !strings.Contains(string(b), key) {
			t.Errorf("json %s missing %s", b, key)
		}
	}
	got, err := ParseEvent(b)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != WorkoutLogged || got.UserID != "u1" {
		t.Errorf("parsed = %+v", got)
	}
	if _, err := ParseEvent([]byte("nope")); err == nil {
		t.Error("expected parse error")
	}
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern, event string
		want           bool
	}{
		{"workout.logged", "workout.logged", true},
		{"workout.logged", "workout.deleted", false},
		{"workout.*", "workout.deleted", true},
		{"workout.*", "habit.toggled", false},
		{"*", "achievement.unlocked", true},
		{"*.toggled", "habit.toggled", true},
		{"[", "habit.toggled", false},
	}
	for _, tt := range tests {
		if got := matchPattern(tt.pattern, tt.event); got != tt.want {
			t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.pattern, tt.event, got, tt.want)
		}
	}
}

func TestKnownPattern(t *testing.T) {
	for p, want := range map[string]bool{
		"workout.logged": true,
		"achievement.*":  true,
		"*":              true,
		"workout":        false,
		"todo.*":         false,
		"[":              false,
	} {
		if got := knownPattern(p); got != want {
			t.Errorf("knownPattern(%q) = %v, want %v", p, got, want)
		}
	}
}

func TestRegistry_ResolveSorted(t *testing.T) {
	reg := &Registry{}
	noop := func(context.Context, Event) error { return nil }
	reg.Register(Hook{Pattern: "workout.*", Name: "b", Handler: noop})
	reg.Register(Hook{Pattern: "workout.logged", Name: "a", Handler: noop})
	reg.Register(Hook{Pattern: "habit.toggled", Name: "c", Handler: noop})

	got := reg.Resolve(WorkoutLogged)
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "b" {
		t.Errorf("Resolve = %+v", got)
	}
	if reg.Count() != 3 || len(reg.All()) != 3 {
		t.Errorf("Count = %d", reg.Count())
	}
	if len(reg.Resolve(BackupExported)) != 0 {
		t.Error("unexpected match")
	}
}

func TestRegistry_EmitRunsAllAndSwallowsErrors(t *testing.T) {
	reg := &Registry{}
	var ran atomic.Int32
	var seen atomic.Value
	reg.Register(Hook{Pattern: "*", Name: "count", Handler: func(_ context.Context, e Event) error {
		ran.Add(1)
		seen.Store(e.UserID)
		return nil
	}})
	reg.Register(Hook{Pattern: "achievement.*", Name: "fail", Handler: func(context.Context, Event) error {
		ran.Add(1)
		return errors.New("boom")
	}})

	reg.Emit(context.Background(), NewEvent(AchievementUnlocked, "u9", nil))
	if ran.Load() != 2 {
		t.Errorf("ran %d hooks, want 2", ran.Load())
	}
	if seen.Load() != "u9" {
		t.Errorf("user = %v", seen.Load())
	}
}

func TestRegistry_EmitAppliesTimeout(t *testing.T) {
	reg := &Registry{}
	var deadline atomic.Bool
	reg.Register(Hook{Pattern: "*", Name: "slow", Timeout: 10 * time.Millisecond,
		Handler: func(ctx context.Context, _ Event) error {
			<-ctx.Done()
			deadline.Store(errors.Is(ctx.Err(), context.DeadlineExceeded))
			return ctx.Err()
		}})
	reg.Emit(context.Background(), NewEvent(HabitToggled, "u", nil))
	if !deadline.Load() {
		t.Error("handler context should hit its deadline")
	}
}

func TestRegistry_EmitLogsFailuresAtDebug(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	reg := &Registry{}
	reg.Register(Hook{Pattern: "*", Name: "fail", Handler: func(context.Context, Event) error {
		return errors.New("boom")
	}})

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))
	reg.Emit(context.Background(), NewEvent(WorkoutLogged, "u", nil))
	if buf.Len() != 0 {
		t.Errorf("hook failure logged above debug: %q", buf.String())
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	reg.Emit(context.Background(), NewEvent(WorkoutLogged, "u", nil))
	if !strings.Contains(buf.String(), "hook failed") || !strings.Contains(buf.String(), "boom") {
		t.Errorf("debug log = %q", buf.String())
	}
}
