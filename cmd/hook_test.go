package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rnwolfe/grind/internal/hook"
)

func TestHookCreateListTest(t *testing.T) {
	configTestEnv(t)

	out := captureStdout(t, func() {
		if err := runHookList(nil, nil); err != nil {
			t.Errorf("runHookList: %v", err)
		}
	})
	if !strings.Contains(out, "No hooks found") || !strings.Contains(out, hook.WorkoutLogged) {
		t.Errorf("empty list output = %q", out)
	}

	out = captureStdout(t, func() {
		if err := runHookCreate(nil, []string{"workout.logged"}); err != nil {
			t.Fatalf("runHookCreate: %v", err)
		}
	})
	path := filepath.Join(hook.Dir(), "workout.logged.sh")
	if !strings.Contains(out, path) {
		t.Errorf("create output = %q", out)
	}
	if info, err := os.Stat(path); err != nil || info.Mode()&0o111 == 0 {
		t.Fatalf("script not created executable: %v", err)
	}

	out = captureStdout(t, func() {
		if err := runHookList(nil, nil); err != nil {
			t.Errorf("runHookList: %v", err)
		}
	})
	if !strings.Contains(out, "workout.logged") || !strings.Contains(out, "1 hook") {
		t.Errorf("list output = %q", out)
	}

	out = captureStdout(t, func() {
		if err := runHookTest(nil, []string{path}); err != nil {
			t.Errorf("runHookTest: %v", err)
		}
	})
	if !strings.Contains(out, "sample workout.logged event") {
		t.Errorf("test output = %q", out)
	}
}

func TestHookCreate_UnknownEvent(t *testing.T) {
	configTestEnv(t)
	if err := runHookCreate(nil, []string{"todo.add"}); err == nil {
		t.Error("expected error for a pattern that matches no event")
	}
}
