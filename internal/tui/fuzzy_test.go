package tui

import "testing"

func TestMatch(t *testing.T) {
	tests := []struct {
		query, target string
		want          bool
	}{
		{"", "Bench Press", true},
		{"bp", "Bench Press", true},
		{"BENCH", "bench press", true},
		{"sqt", "Back Squat", true},
		{"pb", "Bench Press", false},
		{"deadlifts", "Deadlift", false},
		{"ü", "Übung", true},
	}
	for _, tt := range tests {
		if got, _ := Match(tt.query, tt.target); got != tt.want {
			t.Errorf("Match(%q, %q) = %v, want %v", tt.query, tt.target, got, tt.want)
		}
	}
}

func TestMatch_Scoring(t *testing.T) {
	_, prefix := Match("squat", "Squat")
	_, inner := Match("squat", "Back Squat")
	_, scattered := Match("squat", "Seated Quad Extension at")
	if prefix <= inner {
		t.Errorf("prefix match (%d) should beat word match (%d)", prefix, inner)
	}
	if inner <= scattered {
		t.Errorf("contiguous match (%d) should beat scattered match (%d)", inner, scattered)
	}
}
