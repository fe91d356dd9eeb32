package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rnwolfe/grind/internal/backup"
	"github.com/rnwolfe/grind/internal/workout"
)

func TestExportImportBackup(t *testing.T) {
	configTestEnv(t)
	resetCommandFlags(t)
	t.Setenv(passphraseEnv, "correct horse battery staple")
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "grind.age")

	captureStdout(t, func() {
		if err := runWorkoutLog(nil, []string{"Squat 3x5x100"}); err != nil {
			t.Fatal(err)
		}
		habitTarget = 2
		if err := runHabitAdd(nil, []string{"Stretch"}); err != nil {
			t.Fatal(err)
		}
	})
	out := captureStdout(t, func() {
		if err := runExport(nil, []string{path}); err != nil {
			t.Fatalf("runExport: %v", err)
		}
	})
	if !strings.Contains(out, "Backup written") {
		t.Errorf("export output = %q", out)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "Squat") {
		t.Error("backup should not contain plaintext")
	}

	// Restore into a fresh install with a different user.
	configTestEnv(t)
	out = captureStdout(t, func() {
		if err := runImport(nil, []string{path}); err != nil {
			t.Fatalf("runImport: %v", err)
		}
	})
	if !strings.Contains(out, "Restored 1 workout and 1 habit") {
		t.Errorf("import output = %q", out)
	}

	a := testApp(t)
	ws, err := a.svc.Workouts(ctx, a.userID())
	if err != nil || len(ws) != 1 || ws[0].UserID != a.userID() {
		t.Fatalf("restored workouts = %+v, %v", ws, err)
	}
	if _, err := a.svc.FindHabit(ctx, a.userID(), "Stretch"); err != nil {
		t.Errorf("restored habit: %v", err)
	}
	list, err := a.svc.Achievements(ctx, a.userID())
	if err != nil || !list[0].Unlocked {
		t.Errorf("achievements = %v, %v", list, err)
	}
}

func TestImportBackup_WrongPassphrase(t *testing.T) {
	configTestEnv(t)
	resetCommandFlags(t)
	path := filepath.Join(t.TempDir(), "grind.age")

	t.Setenv(passphraseEnv, "right")
	captureStdout(t, func() {
		if err := runExport(nil, []string{path}); err != nil {
			t.Fatal(err)
		}
	})
	t.Setenv(passphraseEnv, "wrong")
	if err := runImport(nil, []string{path}); !errors.Is(err, backup.ErrWrongPassphrase) {
		t.Errorf("err = %v, want ErrWrongPassphrase", err)
	}
}

func TestExportImportFIT(t *testing.T) {
	configTestEnv(t)
	resetCommandFlags(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "legs.fit")

	workoutName = "Legs"
	captureStdout(t, func() {
		if err := runWorkoutLog(nil, []string{"Squat 3x5x100", "Leg Press 2x10x150"}); err != nil {
			t.Fatal(err)
		}
	})
	a := testApp(t)
	ws, _ := a.svc.Workouts(ctx, a.userID())

	exportFit = shortID(ws[0].ID)
	captureStdout(t, func() {
		if err := runExport(nil, []string{path}); err != nil {
			t.Fatalf("runExport --fit: %v", err)
		}
	})
	exportFit = ""

	captureStdout(t, func() {
		if err := runImport(nil, []string{path}); err != nil {
			t.Fatalf("runImport fit: %v", err)
		}
	})
	ws, err := a.svc.Workouts(ctx, a.userID())
	if err != nil || len(ws) != 2 {
		t.Fatalf("workouts = %d, %v", len(ws), err)
	}
	var imported workout.Record
	for _, w := range ws {
		if w.Source == workout.SourceFIT {
			imported = w
		}
	}
	if imported.ID == "" || imported.SetCount() != 5 || imported.Volume() != ws[0].Volume() {
		t.Errorf("imported = %+v", imported)
	}
}

func TestReadPassphrase_RequiresTerminal(t *testing.T) {
	t.Setenv(passphraseEnv, "")
	if _, err := readPassphrase(false); err == nil || !strings.Contains(err.Error(), passphraseEnv) {
		t.Errorf("err = %v", err)
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Leg Day":        "leg-day",
		"  Push / Pull ": "push-pull",
		"Ünïcode!!":      "n-code",
		"***":            "workout",
	}
	for in, want := range tests {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
