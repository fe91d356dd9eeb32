// Package day provides calendar-day keys used for streak and period bucketing.
//
// A Key carries no time-of-day and no zone. Instants are converted to a Key
// through FromInstant, which always truncates in a single caller-supplied
// reference location so that "today" means the same thing everywhere.
package day

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Layout is the canonical string form of a Key.
const Layout = "2006-01-02"

// ErrInvalidInput reports malformed dates, out-of-range targets and other
// inputs the tracking core refuses to interpret.
var ErrInvalidInput = errors.New("invalid input")

// Key is a calendar date in YYYY-MM-DD form.
type Key string

// FromInstant truncates t to the calendar day it falls on in loc.
// A nil loc means UTC.
func FromInstant(t time.Time, loc *time.Location) Key {
	if loc == nil {
		loc = time.UTC
	}
	return Key(t.In(loc).Format(Layout))
}

// Parse validates s and returns it as a Key.
func Parse(s string) (Key, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return "", fmt.Errorf("%w: malformed date %q (want YYYY-MM-DD)", ErrInvalidInput, s)
	}
	return Key(t.Format(Layout)), nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Key {
	k, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return k
}

// String implements fmt.Stringer.
func (k Key) String() string { return string(k) }

// Valid reports whether k is a well-formed date.
func (k Key) Valid() bool {
	_, err := time.Parse(Layout, string(k))
	return err == nil
}

// Time returns midnight UTC of k. The zero time is returned for invalid keys.
func (k Key) Time() time.Time {
	t, _ := time.Parse(Layout, string(k))
	return t
}

// AddDays returns the key n days after k (n may be negative).
func (k Key) AddDays(n int) Key {
	return Key(k.Time().AddDate(0, 0, n).Format(Layout))
}

// Before reports whether k is strictly earlier than o.
func (k Key) Before(o Key) bool { return k < o }

// After reports whether k is strictly later than o.
func (k Key) After(o Key) bool { return k > o }

// Weekday returns the day of the week of k.
func (k Key) Weekday() time.Weekday { return k.Time().Weekday() }

// Delta returns the signed number of whole days from a to b.
// Delta("2024-01-01", "2024-01-03") == 2.
func Delta(a, b Key) int {
	// Both sides are UTC midnights, so the difference is an exact multiple of 24h.
	return int(b.Time().Sub(a.Time()).Hours() / 24)
}

// StartOfWeek returns the first day of the week containing k, for weeks
// beginning on weekStart.
func StartOfWeek(k Key, weekStart time.Weekday) Key {
	back := (int(k.Weekday()) - int(weekStart) + 7) % 7
	return k.AddDays(-back)
}

// Window is an inclusive range of days.
type Window struct {
	Start Key
	End   Key
}

// WeekOf returns the 7-day window containing k.
func WeekOf(k Key, weekStart time.Weekday) Window {
	start := StartOfWeek(k, weekStart)
	return Window{Start: start, End: start.AddDays(6)}
}

// Contains reports whether k lies inside w, bounds included.
func (w Window) Contains(k Key) bool {
	return k >= w.Start && k <= w.End
}

// Days returns every key in w in ascending order.
func (w Window) Days() []Key {
	n := Delta(w.Start, w.End)
	if n < 0 {
		return nil
	}
	out := make([]Key, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, w.Start.AddDays(i))
	}
	return out
}

// Dedupe returns the distinct keys sorted ascending. The input is not modified.
func Dedupe(keys []Key) []Key {
	seen := make(map[Key]struct{}, len(keys))
	out := make([]Key, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseAll parses every string, failing on the first malformed entry.
func ParseAll(ss []string) ([]Key, error) {
	out := make([]Key, 0, len(ss))
	for _, s := range ss {
		k, err := Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

// ParseWeekday accepts full or three-letter English weekday names.
func ParseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := d.String()
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:3]) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown weekday %q", ErrInvalidInput, s)
}
