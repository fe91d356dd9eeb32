// Package tracker wires the pure streak, goal and achievement packages to a
// record store. Every screen that shows a derived value goes through Service,
// so the computations live in one place.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rnwolfe/grind/internal/achievement"
	"github.com/rnwolfe/grind/internal/day"
	"github.com/rnwolfe/grind/internal/goal"
	"github.com/rnwolfe/grind/internal/habit"
	"github.com/rnwolfe/grind/internal/streak"
	"github.com/rnwolfe/grind/internal/workout"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotOwner is returned when a user mutates another user's record.
	ErrNotOwner = errors.New("not the owner")
	// ErrExists is returned when logging a workout under an ID already in use.
	ErrExists = errors.New("already exists")
)

// Repository is the record store the tracker reads from and writes back to.
// Fetches return records ordered by date (workouts) or creation (habits).
type Repository interface {
	FetchWorkouts(ctx context.Context, userID string) ([]workout.Record, error)
	GetWorkout(ctx context.Context, id string) (workout.Record, error)
	SaveWorkout(ctx context.Context, w workout.Record) error
	RenameWorkout(ctx context.Context, id, name string) error
	DeleteWorkout(ctx context.Context, id string) error

	FetchHabits(ctx context.Context, userID string) ([]habit.Record, error)
	SaveHabit(ctx context.Context, h habit.Record) error
	DeleteHabit(ctx context.Context, id string) error

	LoadAchievements(ctx context.Context, userID string) (achievement.Snapshot, error)
	SaveAchievements(ctx context.Context, userID string, snap achievement.Snapshot) error
}

// Settings carry the policies every derived value depends on.
type Settings struct {
	Location  *time.Location
	WeekStart time.Weekday
	Anchor    streak.Anchor
}

// DefaultSettings is UTC, Monday-start weeks and today-anchored streaks.
func DefaultSettings() Settings {
	return Settings{Location: time.UTC, WeekStart: time.Monday, Anchor: streak.AnchorToday}
}

// Service computes derived tracking values over a Repository.
type Service struct {
	repo     Repository
	catalog  *achievement.Catalog
	settings Settings
	now      func() time.Time
}

// NewService creates a Service. A nil catalog means achievement.Default().
func NewService(repo Repository, catalog *achievement.Catalog, settings Settings) *Service {
	if catalog == nil {
		catalog = achievement.Default()
	}
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.Anchor == "" {
		settings.Anchor = streak.AnchorToday
	}
	return &Service{repo: repo, catalog: catalog, settings: settings, now: time.Now}
}

// Catalog returns the achievement catalog in use.
func (s *Service) Catalog() *achievement.Catalog { return s.catalog }

// Settings returns the active policies.
func (s *Service) Settings() Settings { return s.settings }

// Today returns the current calendar day in the reference location.
func (s *Service) Today() day.Key {
	return day.FromInstant(s.now(), s.settings.Location)
}

// HabitStatus is a habit with its derived values for the active week.
type HabitStatus struct {
	Habit   habit.Record
	Streak  streak.Info
	Week    goal.Progress
	DoneNow bool
}

// Overview is everything the dashboard shows.
type Overview struct {
	Today         day.Key
	WorkoutStreak streak.Info
	WorkoutsWeek  int
	WorkoutsTotal int
	VolumeWeek    float64
	Habits        []HabitStatus
	Unlocked      achievement.Snapshot
	Recent        []workout.Record
}

// Overview loads the user's records and derives the dashboard values.
func (s *Service) Overview(ctx context.Context, userID string) (*Overview, error) {
	today := s.Today()
	workouts, err := s.repo.FetchWorkouts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching workouts: %w", err)
	}
	habits, err := s.repo.FetchHabits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching habits: %w", err)
	}
	snap, err := s.repo.LoadAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading achievements: %w", err)
	}

	ov := &Overview{
		Today:         today,
		WorkoutStreak: streak.Compute(workout.Days(workouts, s.settings.Location), today, s.settings.Anchor),
		WorkoutsTotal: len(workouts),
		Unlocked:      snap,
	}

	week := day.WeekOf(today, s.settings.WeekStart)
	for _, w := range workouts {
		if week.Contains(w.Day(s.settings.Location)) {
			ov.WorkoutsWeek++
			ov.VolumeWeek += w.Volume()
		}
	}

	ov.Recent = recent(workouts, 5)

	for _, h := range habits {
		st, err := s.habitStatus(h, today)
		if err != nil {
			return nil, fmt.Errorf("habit %q: %w", h.Name, err)
		}
		ov.Habits = append(ov.Habits, st)
	}
	return ov, nil
}

func (s *Service) habitStatus(h habit.Record, today day.Key) (HabitStatus, error) {
	wk, err := h.Week(today, s.settings.WeekStart)
	if err != nil {
		return HabitStatus{}, err
	}
	return HabitStatus{
		Habit:   h.Refresh(today, s.settings.Anchor),
		Streak:  h.Streak(today, s.settings.Anchor),
		Week:    wk,
		DoneNow: h.Done(today),
	}, nil
}

// recent returns the n most recent workouts, newest first.
func recent(ws []workout.Record, n int) []workout.Record {
	out := append([]workout.Record(nil), ws...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// LogResult reports the effects of logging a workout.
type LogResult struct {
	Workout  workout.Record
	Streak   streak.Info
	Newly    []achievement.Rule
	Unlocked achievement.Snapshot
}

// LogWorkout validates and persists w, then re-evaluates achievements and
// upserts the unlock snapshot. Missing IDs are generated; a supplied ID must
// not name an existing record.
func (s *Service) LogWorkout(ctx context.Context, w workout.Record) (*LogResult, error) {
	supplied := w.ID != ""
	if !supplied {
		w.ID = workout.NewID()
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if supplied {
		if err := s.checkUnused(ctx, w); err != nil {
			return nil, err
		}
	}
	if err := s.repo.SaveWorkout(ctx, w); err != nil {
		return nil, fmt.Errorf("saving workout: %w", err)
	}

	all, err := s.repo.FetchWorkouts(ctx, w.UserID)
	if err != nil {
		return nil, fmt.Errorf("fetching workouts: %w", err)
	}
	snap, newly, err := s.syncAchievements(ctx, w.UserID, all)
	if err != nil {
		return nil, err
	}

	res := &LogResult{
		Workout:  w,
		Streak:   streak.Compute(workout.Days(all, s.settings.Location), s.Today(), s.settings.Anchor),
		Unlocked: snap,
	}
	for _, id := range newly {
		if r, ok := s.catalog.Get(id); ok {
			res.Newly = append(res.Newly, r)
		}
	}
	return res, nil
}

// checkUnused fails when w.ID is taken: ErrNotOwner for another user's
// record, ErrExists for one of the caller's own.
func (s *Service) checkUnused(ctx context.Context, w workout.Record) error {
	prev, err := s.repo.GetWorkout(ctx, w.ID)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("looking up workout %s: %w", w.ID, err)
	case prev.UserID != w.UserID:
		return fmt.Errorf("workout %s: %w", w.ID, ErrNotOwner)
	}
	return fmt.Errorf("workout %s: %w", w.ID, ErrExists)
}

// syncAchievements evaluates the catalog and persists the merged snapshot
// when anything new unlocked.
func (s *Service) syncAchievements(ctx context.Context, userID string, all []workout.Record) (achievement.Snapshot, []string, error) {
	prev, err := s.repo.LoadAchievements(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading achievements: %w", err)
	}
	evaluated := achievement.Evaluate(all, s.catalog, s.settings.Location)
	next, newly := achievement.Merge(prev, evaluated, s.now())
	if len(newly) > 0 {
		if err := s.repo.SaveAchievements(ctx, userID, next); err != nil {
			return nil, nil, fmt.Errorf("saving achievements: %w", err)
		}
	}
	return next, newly, nil
}

// AchievementStatus is one catalog rule with its unlock state.
type AchievementStatus struct {
	Rule       achievement.Rule
	Unlocked   bool
	UnlockedAt time.Time
}

// Achievements re-evaluates the catalog, persists any new unlocks, and
// returns every rule with its state in catalog order.
func (s *Service) Achievements(ctx context.Context, userID string) ([]AchievementStatus, error) {
	all, err := s.repo.FetchWorkouts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching workouts: %w", err)
	}
	snap, _, err := s.syncAchievements(ctx, userID, all)
	if err != nil {
		return nil, err
	}
	rules := s.catalog.Rules()
	out := make([]AchievementStatus, 0, len(rules))
	for _, r := range rules {
		at, ok := snap[r.ID]
		out = append(out, AchievementStatus{Rule: r, Unlocked: ok, UnlockedAt: at})
	}
	return out, nil
}

// WorkoutStreak returns the user's workout streak.
func (s *Service) WorkoutStreak(ctx context.Context, userID string) (streak.Info, error) {
	all, err := s.repo.FetchWorkouts(ctx, userID)
	if err != nil {
		return streak.Info{}, fmt.Errorf("fetching workouts: %w", err)
	}
	return streak.Compute(workout.Days(all, s.settings.Location), s.Today(), s.settings.Anchor), nil
}

// WeekBucket is one week of workout activity.
type WeekBucket struct {
	Window   day.Window
	Workouts int
	Volume   float64
	Duration time.Duration
}

// WeeklyActivity buckets the user's workouts into the last n weeks, oldest first.
func (s *Service) WeeklyActivity(ctx context.Context, userID string, n int) ([]WeekBucket, error) {
	all, err := s.repo.FetchWorkouts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching workouts: %w", err)
	}
	return bucketWeeks(all, s.Today(), s.settings, n), nil
}

func bucketWeeks(ws []workout.Record, today day.Key, st Settings, n int) []WeekBucket {
	if n <= 0 {
		return nil
	}
	current := day.StartOfWeek(today, st.WeekStart)
	out := make([]WeekBucket, n)
	for i := range out {
		start := current.AddDays(-7 * (n - 1 - i))
		out[i].Window = day.Window{Start: start, End: start.AddDays(6)}
	}
	first := out[0].Window.Start
	for _, w := range ws {
		k := w.Day(st.Location)
		if k.Before(first) || k.After(out[n-1].Window.End) {
			continue
		}
		i := day.Delta(first, k) / 7
		out[i].Workouts++
		out[i].Volume += w.Volume()
		out[i].Duration += w.Duration()
	}
	return out
}

// Workouts returns the user's workouts, oldest first.
func (s *Service) Workouts(ctx context.Context, userID string) ([]workout.Record, error) {
	all, err := s.repo.FetchWorkouts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching workouts: %w", err)
	}
	return all, nil
}

// FindWorkout resolves one of the user's workouts by ID or a unique ID
// prefix of at least four characters.
func (s *Service) FindWorkout(ctx context.Context, userID, ref string) (workout.Record, error) {
	ref = strings.TrimSpace(ref)
	all, err := s.Workouts(ctx, userID)
	if err != nil {
		return workout.Record{}, err
	}
	var matches []workout.Record
	for _, w := range all {
		if w.ID == ref {
			return w, nil
		}
		if len(ref) >= 4 && strings.HasPrefix(w.ID, ref) {
			matches = append(matches, w)
		}
	}
	switch len(matches) {
	case 0:
		return workout.Record{}, fmt.Errorf("workout %q: %w", ref, ErrNotFound)
	case 1:
		return matches[0], nil
	}
	return workout.Record{}, fmt.Errorf("%w: workout reference %q is ambiguous", day.ErrInvalidInput, ref)
}

// RenameWorkout renames a workout owned by userID.
func (s *Service) RenameWorkout(ctx context.Context, userID, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: workout name is empty", day.ErrInvalidInput)
	}
	if err := s.checkOwner(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.RenameWorkout(ctx, id, name)
}

// DeleteWorkout removes a workout owned by userID. Already-unlocked
// achievements stay unlocked.
func (s *Service) DeleteWorkout(ctx context.Context, userID, id string) error {
	if err := s.checkOwner(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.DeleteWorkout(ctx, id)
}

func (s *Service) checkOwner(ctx context.Context, userID, id string) error {
	w, err := s.repo.GetWorkout(ctx, id)
	if err != nil {
		return err
	}
	if w.UserID != userID {
		return fmt.Errorf("workout %s: %w", id, ErrNotOwner)
	}
	return nil
}

// AddHabit creates and persists a habit.
func (s *Service) AddHabit(ctx context.Context, userID, name string, target int) (habit.Record, error) {
	h, err := habit.New(userID, name, target, s.now())
	if err != nil {
		return habit.Record{}, err
	}
	if err := s.repo.SaveHabit(ctx, h); err != nil {
		return habit.Record{}, fmt.Errorf("saving habit: %w", err)
	}
	return h, nil
}

// FindHabit resolves a habit by ID, ID prefix, or case-insensitive name.
func (s *Service) FindHabit(ctx context.Context, userID, ref string) (habit.Record, error) {
	ref = strings.TrimSpace(ref)
	habits, err := s.repo.FetchHabits(ctx, userID)
	if err != nil {
		return habit.Record{}, fmt.Errorf("fetching habits: %w", err)
	}
	var matches []habit.Record
	for _, h := range habits {
		if h.ID == ref || strings.EqualFold(h.Name, ref) {
			return h, nil
		}
		if len(ref) >= 4 && strings.HasPrefix(h.ID, ref) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return habit.Record{}, fmt.Errorf("habit %q: %w", ref, ErrNotFound)
	case 1:
		return matches[0], nil
	}
	return habit.Record{}, fmt.Errorf("%w: habit reference %q is ambiguous", day.ErrInvalidInput, ref)
}

// ToggleHabit flips completion of k (today when empty) and persists the
// recomputed record.
func (s *Service) ToggleHabit(ctx context.Context, userID, ref string, k day.Key) (HabitStatus, error) {
	h, err := s.FindHabit(ctx, userID, ref)
	if err != nil {
		return HabitStatus{}, err
	}
	today := s.Today()
	if k == "" {
		k = today
	}
	next, err := h.Toggle(k, today, s.settings.Anchor)
	if err != nil {
		return HabitStatus{}, err
	}
	if err := s.repo.SaveHabit(ctx, next); err != nil {
		return HabitStatus{}, fmt.Errorf("saving habit: %w", err)
	}
	return s.habitStatus(next, today)
}

// DeleteHabit removes a habit owned by userID.
func (s *Service) DeleteHabit(ctx context.Context, userID, ref string) (habit.Record, error) {
	h, err := s.FindHabit(ctx, userID, ref)
	if err != nil {
		return habit.Record{}, err
	}
	if err := s.repo.DeleteHabit(ctx, h.ID); err != nil {
		return habit.Record{}, fmt.Errorf("deleting habit: %w", err)
	}
	return h, nil
}

// HabitHistory returns the last n weeks of progress for a habit.
func (s *Service) HabitHistory(ctx context.Context, userID, ref string, n int) (habit.Record, []goal.Progress, error) {
	h, err := s.FindHabit(ctx, userID, ref)
	if err != nil {
		return habit.Record{}, nil, err
	}
	hist, err := goal.History(h.CompletedDays, h.TargetPerWeek, s.Today(), s.settings.WeekStart, n)
	if err != nil {
		return habit.Record{}, nil, err
	}
	return h, hist, nil
}
