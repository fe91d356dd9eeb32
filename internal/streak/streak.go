// Package streak computes consecutive-day activity streaks.
package streak

import (
	"fmt"

	"github.com/rnwolfe/grind/internal/day"
)

// Anchor selects which day the current streak must end on.
type Anchor string

const (
	// AnchorToday requires activity on today for the streak to be live.
	AnchorToday Anchor = "today"
	// AnchorYesterday lets a run ending yesterday count while today is still open.
	AnchorYesterday Anchor = "yesterday"
	// AnchorLatest counts the run ending at the most recent recorded day,
	// however old it is.
	AnchorLatest Anchor = "latest"
)

// ParseAnchor validates an anchor name from config or flags.
func ParseAnchor(s string) (Anchor, error) {
	switch a := Anchor(s); a {
	case AnchorToday, AnchorYesterday, AnchorLatest:
		return a, nil
	case "":
		return AnchorToday, nil
	}
	return "", fmt.Errorf("%w: unknown streak anchor %q (today, yesterday, latest)", day.ErrInvalidInput, s)
}

// Info holds current and longest streak values.
type Info struct {
	Current int
	Longest int
}

// Compute returns the current and longest streaks over days.
//
// days may be in any order and contain duplicates. Days after today are
// ignored for the current streak but still count toward the longest run.
// A single missing day ends a run.
func Compute(days []day.Key, today day.Key, anchor Anchor) Info {
	asc := day.Dedupe(days)
	if len(asc) == 0 {
		return Info{}
	}

	info := Info{Longest: longestRun(asc)}
	info.Current = currentRun(asc, today, anchor)
	if info.Current > info.Longest {
		info.Longest = info.Current
	}
	return info
}

// Current is shorthand for Compute(...).Current.
func Current(days []day.Key, today day.Key, anchor Anchor) int {
	return Compute(days, today, anchor).Current
}

func longestRun(asc []day.Key) int {
	longest, run := 1, 1
	for i := 1; i < len(asc); i++ {
		if day.Delta(asc[i-1], asc[i]) == 1 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

// currentRun walks backward from the anchor day.
func currentRun(asc []day.Key, today day.Key, anchor Anchor) int {
	// Drop anything in the future relative to today.
	end := len(asc)
	for end > 0 && asc[end-1].After(today) {
		end--
	}
	if end == 0 {
		return 0
	}
	latest := asc[end-1]

	switch anchor {
	case AnchorLatest:
	case AnchorYesterday:
		if latest != today && latest != today.AddDays(-1) {
			return 0
		}
	default:
		if latest != today {
			return 0
		}
	}

	current := 1
	for i := end - 1; i > 0; i-- {
		if day.Delta(asc[i-1], asc[i]) != 1 {
			break
		}
		current++
	}
	return current
}
