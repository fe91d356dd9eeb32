package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"
)

// configTestEnv points every XDG dir at a temp dir.
func configTestEnv(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir+"/config")
	t.Setenv("XDG_DATA_HOME", tmpDir+"/data")
	t.Setenv("XDG_CACHE_HOME", tmpDir+"/cache")
	t.Setenv("XDG_STATE_HOME", tmpDir+"/state")
	t.Setenv("GRIND_DEBUG", "")
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		done <- buf.Bytes()
	}()

	defer func() {
		os.Stdout = old
		r.Close()
	}()
	fn()
	w.Close()
	return string(<-done)
}

// testApp opens the app against the current test environment.
func testApp(t *testing.T) *app {
	t.Helper()
	a, err := openApp(context.Background())
	if err != nil {
		t.Fatalf("openApp: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

// resetCommandFlags restores package-level flag vars to their defaults.
func resetCommandFlags(t *testing.T) {
	t.Helper()
	reset := func() {
		workoutName, workoutDate, workoutDuration, workoutLimit = "", "", 0, 0
		habitTarget, habitDate, habitWeeks = 0, "", 8
		sessionForce, sessionExercise = false, ""
		progressPlain, progressWeeks = false, 8
		reviewRaw, reviewWeeksAgo = false, 0
		exportFit, importFit = "", false
		statusJSON, statusPrompt = false, false
		versionShort, versionJSON = false, false
		achievementsUnlockedOnly = false
	}
	reset()
	t.Cleanup(reset)
}
