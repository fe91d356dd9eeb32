// Package goal measures habit completions against a weekly frequency target.
package goal

import (
	"fmt"
	"time"

	"github.com/rnwolfe/grind/internal/day"
)

// Bounds for a weekly frequency target.
const (
	MinTarget = 1
	MaxTarget = 7
)

// Progress is the state of one period window.
type Progress struct {
	Window    day.Window
	Target    int
	Completed int
	Remaining int
}

// Met reports whether the target was reached in the window.
func (p Progress) Met() bool { return p.Completed >= p.Target }

// Percent returns completion as 0..100, capped at 100.
func (p Progress) Percent() float64 {
	if p.Target <= 0 {
		return 0
	}
	pct := float64(p.Completed) / float64(p.Target) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// ValidateTarget rejects frequencies outside 1..7.
func ValidateTarget(target int) error {
	if target < MinTarget || target > MaxTarget {
		return fmt.Errorf("%w: weekly target must be between %d and %d, got %d",
			day.ErrInvalidInput, MinTarget, MaxTarget, target)
	}
	return nil
}

// Track counts the completed days inside window. Duplicate days count once.
func Track(completed []day.Key, target int, window day.Window) (Progress, error) {
	if err := ValidateTarget(target); err != nil {
		return Progress{}, err
	}
	p := Progress{Window: window, Target: target}
	for _, k := range day.Dedupe(completed) {
		if window.Contains(k) {
			p.Completed++
		}
	}
	p.Remaining = max(0, target-p.Completed)
	return p, nil
}

// Weekly tracks the week containing today.
func Weekly(completed []day.Key, target int, today day.Key, weekStart time.Weekday) (Progress, error) {
	return Track(completed, target, day.WeekOf(today, weekStart))
}

// History returns progress for the last n weeks, oldest first, ending with
// the week containing today.
func History(completed []day.Key, target int, today day.Key, weekStart time.Weekday, n int) ([]Progress, error) {
	if err := ValidateTarget(target); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}
	out := make([]Progress, 0, n)
	current := day.StartOfWeek(today, weekStart)
	for i := n - 1; i >= 0; i-- {
		start := current.AddDays(-7 * i)
		p, err := Track(completed, target, day.Window{Start: start, End: start.AddDays(6)})
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// WeeksMet counts consecutive met weeks ending with the most recent complete
// week. The in-progress week extends the run when it is already met but never
// breaks it.
func WeeksMet(history []Progress) int {
	if len(history) == 0 {
		return 0
	}
	run := 0
	last := len(history) - 1
	if history[last].Met() {
		run++
	}
	for i := last - 1; i >= 0; i-- {
		if !history[i].Met() {
			break
		}
		run++
	}
	return run
}
