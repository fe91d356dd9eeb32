package day

import (
	"errors"
	"testing"
	"time"
)

func TestFromInstant_UsesReferenceZone(t *testing.T) {
	// 23:30 UTC on Jan 1 is already Jan 2 in Tokyo.
	instant := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*60*60)

	if got := FromInstant(instant, nil); got != "2024-01-01" {
		t.Errorf("FromInstant(UTC) = %s, want 2024-01-01", got)
	}
	if got := FromInstant(instant, tokyo); got != "2024-01-02" {
		t.Errorf("FromInstant(JST) = %s, want 2024-01-02", got)
	}
}

func TestParse(t *testing.T) {
	k, err := Parse("2024-02-29")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if k != "2024-02-29" {
		t.Errorf("Parse = %s", k)
	}

	for _, bad := range []string{"", "2024-13-01", "2023-02-29", "01/02/2024", "2024-1-1"} {
		if _, err := Parse(bad); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Parse(%q) err = %v, want ErrInvalidInput", bad, err)
		}
	}
}

func TestDelta(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2024-01-01", "2024-01-03", 2},
		{"2024-01-03", "2024-01-01", -2},
		{"2024-01-01", "2024-01-01", 0},
		{"2023-12-31", "2024-01-01", 1},
		{"2024-02-28", "2024-03-01", 2},
		// DST transition in most zones; keys are zone-free so still whole days.
		{"2024-03-09", "2024-03-11", 2},
	}
	for _, tc := range tests {
		if got := Delta(MustParse(tc.a), MustParse(tc.b)); got != tc.want {
			t.Errorf("Delta(%s, %s) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		weekStart time.Weekday
		want      string
	}{
		{"monday", "2026-02-23", time.Monday, "2026-02-23"},
		{"tuesday", "2026-02-24", time.Monday, "2026-02-23"},
		{"sunday", "2026-03-01", time.Monday, "2026-02-23"},
		{"saturday", "2026-02-28", time.Monday, "2026-02-23"},
		{"sunday-start", "2026-02-25", time.Sunday, "2026-02-22"},
		{"sunday-start on sunday", "2026-03-01", time.Sunday, "2026-03-01"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := StartOfWeek(MustParse(tc.input), tc.weekStart)
			if string(got) != tc.want {
				t.Errorf("StartOfWeek(%s) = %s, want %s", tc.input, got, tc.want)
			}
			if got.Weekday() != tc.weekStart {
				t.Errorf("result %s is a %s, want %s", got, got.Weekday(), tc.weekStart)
			}
		})
	}
}

func TestWeekOf(t *testing.T) {
	w := WeekOf(MustParse("2024-01-03"), time.Monday)
	if w.Start != "2024-01-01" || w.End != "2024-01-07" {
		t.Fatalf("WeekOf = %+v", w)
	}
	if !w.Contains("2024-01-01") || !w.Contains("2024-01-07") {
		t.Error("window bounds should be inclusive")
	}
	if w.Contains("2023-12-31") || w.Contains("2024-01-08") {
		t.Error("window should exclude neighbouring weeks")
	}
	if n := len(w.Days()); n != 7 {
		t.Errorf("len(Days) = %d, want 7", n)
	}
}

func TestDedupe(t *testing.T) {
	in := []Key{"2024-01-03", "2024-01-01", "2024-01-03", "2024-01-02"}
	got := Dedupe(in)
	want := []Key{"2024-01-01", "2024-01-02", "2024-01-03"}
	if len(got) != len(want) {
		t.Fatalf("Dedupe = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Dedupe[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if in[0] != "2024-01-03" {
		t.Error("Dedupe must not reorder its input")
	}
}

func TestParseWeekday(t *testing.T) {
	for in, want := range map[string]time.Weekday{
		"monday": time.Monday, "Mon": time.Monday, "SUNDAY": time.Sunday, "sat": time.Saturday,
	} {
		got, err := ParseWeekday(in)
		if err != nil || got != want {
			t.Errorf("ParseWeekday(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseWeekday("funday"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
