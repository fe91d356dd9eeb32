package cmd

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rnwolfe/grind/internal/backup"
	"github.com/rnwolfe/grind/internal/session"
	"github.com/rnwolfe/grind/internal/tracker"
)

func TestFriendlyError(t *testing.T) {
	tests := []struct {
		err  error
		hint string
	}{
		{fmt.Errorf("loading: %w", session.ErrNoSession), "grind session start"},
		{backup.ErrWrongPassphrase, "GRIND_BACKUP_PASSPHRASE"},
		{fmt.Errorf("workout x: %w", tracker.ErrNotOwner), "owner"},
		{fmt.Errorf("workout x: %w", tracker.ErrExists), "workout list"},
	}
	for _, tt := range tests {
		got := friendlyError(tt.err)
		if !strings.HasPrefix(got, tt.err.Error()) || !strings.Contains(got, tt.hint) {
			t.Errorf("friendlyError(%v) = %q, want hint %q", tt.err, got, tt.hint)
		}
	}
	if got := friendlyError(errors.New("boom")); got != "boom" {
		t.Errorf("plain error = %q", got)
	}
}

func TestRootCommandTree(t *testing.T) {
	want := []string{
		"workout", "session", "habit", "streak", "achievements", "progress", "review",
		"export", "import", "hook", "status", "doctor", "config", "version",
	}
	have := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("root is missing %q", name)
		}
	}
}

func TestRootFlags(t *testing.T) {
	for _, name := range []string{"verbose", "no-color"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag --%s", name)
		}
	}
	if f := rootCmd.PersistentFlags().ShorthandLookup("v"); f == nil || f.Name != "verbose" {
		t.Error("-v should be --verbose")
	}
}
