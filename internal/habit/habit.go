// Package habit models recurring habits with a weekly frequency target.
package habit

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rnwolfe/grind/internal/day"
	"github.com/rnwolfe/grind/internal/goal"
	"github.com/rnwolfe/grind/internal/streak"
)

// Record is a habit and its completion history.
//
// CurrentStreak is a cache over CompletedDays; every mutation goes through
// Toggle or Refresh so it always equals a fresh recomputation.
type Record struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Name          string    `json:"name"`
	TargetPerWeek int       `json:"targetFrequencyPerWeek"`
	CompletedDays []day.Key `json:"completedDays"`
	CurrentStreak int       `json:"currentStreak"`
	CreatedAt     time.Time `json:"createdAt"`
}

// New returns a validated habit with no completions.
func New(userID, name string, target int, now time.Time) (Record, error) {
	r := Record{
		ID:            uuid.New().String(),
		UserID:        userID,
		Name:          strings.TrimSpace(name),
		TargetPerWeek: target,
		CreatedAt:     now.UTC(),
	}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

// Validate checks the target range, the owner and the day set.
func (r Record) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: habit name is empty", day.ErrInvalidInput)
	}
	if strings.TrimSpace(r.UserID) == "" {
		return fmt.Errorf("%w: habit has no owner", day.ErrInvalidInput)
	}
	if err := goal.ValidateTarget(r.TargetPerWeek); err != nil {
		return err
	}
	seen := make(map[day.Key]bool, len(r.CompletedDays))
	for _, k := range r.CompletedDays {
		if !k.Valid() {
			return fmt.Errorf("%w: malformed completed day %q", day.ErrInvalidInput, k)
		}
		if seen[k] {
			return fmt.Errorf("%w: duplicate completed day %s", day.ErrInvalidInput, k)
		}
		seen[k] = true
	}
	return nil
}

// Done reports whether k is marked complete.
func (r Record) Done(k day.Key) bool {
	for _, d := range r.CompletedDays {
		if d == k {
			return true
		}
	}
	return false
}

// Toggle flips the completion of k and returns the updated record with its
// streak recomputed against today. The receiver is not modified.
func (r Record) Toggle(k day.Key, today day.Key, anchor streak.Anchor) (Record, error) {
	if !k.Valid() {
		return Record{}, fmt.Errorf("%w: malformed day %q", day.ErrInvalidInput, k)
	}
	next := r
	next.CompletedDays = make([]day.Key, 0, len(r.CompletedDays)+1)
	removed := false
	for _, d := range r.CompletedDays {
		if d == k {
			removed = true
			continue
		}
		next.CompletedDays = append(next.CompletedDays, d)
	}
	if !removed {
		next.CompletedDays = append(next.CompletedDays, k)
	}
	next.CompletedDays = day.Dedupe(next.CompletedDays)
	return next.Refresh(today, anchor), nil
}

// Refresh recomputes CurrentStreak from CompletedDays.
func (r Record) Refresh(today day.Key, anchor streak.Anchor) Record {
	r.CurrentStreak = streak.Current(r.CompletedDays, today, anchor)
	return r
}

// Streak returns current and longest streaks for the habit.
func (r Record) Streak(today day.Key, anchor streak.Anchor) streak.Info {
	return streak.Compute(r.CompletedDays, today, anchor)
}

// Week returns progress for the week containing today.
func (r Record) Week(today day.Key, weekStart time.Weekday) (goal.Progress, error) {
	return goal.Weekly(r.CompletedDays, r.TargetPerWeek, today, weekStart)
}
