package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rnwolfe/grind/internal/achievement"
	"github.com/rnwolfe/grind/internal/day"
	"github.com/rnwolfe/grind/internal/habit"
	"github.com/rnwolfe/grind/internal/tracker"
	"github.com/rnwolfe/grind/internal/workout"
)

// Repo implements tracker.Repository on SQLite.
type Repo struct {
	db *sql.DB
}

var _ tracker.Repository = (*Repo)(nil)

// NewRepo creates a repository over db.
func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func toNanos(t time.Time) int64 { return t.UTC().UnixNano() }

func fromNanos(n int64) time.Time { return time.Unix(0, n).UTC() }

func (r *Repo) FetchWorkouts(ctx context.Context, userID string) ([]workout.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, started_at, duration_seconds, source
		 FROM workouts WHERE user_id = ? ORDER BY started_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []workout.Record
	index := map[string]int{}
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		index[w.ID] = len(out)
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}

	if err := r.loadExercises(ctx, out, index,
		`SELECT e.workout_id, e.position, e.name FROM workout_exercises e
		 JOIN workouts w ON w.id = e.workout_id
		 WHERE w.user_id = ? ORDER BY e.workout_id, e.position`,
		`SELECT s.workout_id, s.exercise_pos, s.reps, s.weight FROM workout_sets s
		 JOIN workouts w ON w.id = s.workout_id
		 WHERE w.user_id = ? ORDER BY s.workout_id, s.exercise_pos, s.position`,
		userID); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetWorkout(ctx context.Context, id string) (workout.Record, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, started_at, duration_seconds, source
		 FROM workouts WHERE id = ?`, id)
	w, err := scanWorkout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return workout.Record{}, fmt.Errorf("workout %s: %w", id, tracker.ErrNotFound)
	}
	if err != nil {
		return workout.Record{}, err
	}

	out := []workout.Record{w}
	if err := r.loadExercises(ctx, out, map[string]int{id: 0},
		`SELECT workout_id, position, name FROM workout_exercises
		 WHERE workout_id = ? ORDER BY position`,
		`SELECT workout_id, exercise_pos, reps, weight FROM workout_sets
		 WHERE workout_id = ? ORDER BY exercise_pos, position`,
		id); err != nil {
		return workout.Record{}, err
	}
	return out[0], nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWorkout(s scanner) (workout.Record, error) {
	var w workout.Record
	var started int64
	if err := s.Scan(&w.ID, &w.UserID, &w.Name, &started, &w.DurationSeconds, &w.Source); err != nil {
		return workout.Record{}, err
	}
	w.Date = fromNanos(started)
	if w.Source == workout.SourceManual {
		w.Source = ""
	}
	return w, nil
}

// loadExercises fills the exercises and sets of the workouts in out. Both
// queries take arg as their only parameter.
func (r *Repo) loadExercises(ctx context.Context, out []workout.Record, index map[string]int, exQuery, setQuery string, arg string) error {
	rows, err := r.db.QueryContext(ctx, exQuery, arg)
	if err != nil {
		return err
	}
	for rows.Next() {
		var wid, name string
		var pos int
		if err := rows.Scan(&wid, &pos, &name); err != nil {
			rows.Close()
			return err
		}
		i, ok := index[wid]
		if !ok {
			continue
		}
		out[i].Exercises = append(out[i].Exercises, workout.Exercise{Name: name})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.db.QueryContext(ctx, setQuery, arg)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var wid string
		var pos int
		var s workout.Set
		if err := rows.Scan(&wid, &pos, &s.Reps, &s.Weight); err != nil {
			return err
		}
		i, ok := index[wid]
		if !ok || pos >= len(out[i].Exercises) {
			continue
		}
		out[i].Exercises[pos].Sets = append(out[i].Exercises[pos].Sets, s)
	}
	return rows.Err()
}

// SaveWorkout inserts or replaces w with its exercises and sets. A record
// owned by another user is left untouched and ErrNotOwner returned.
func (r *Repo) SaveWorkout(ctx context.Context, w workout.Record) error {
	source := w.Source
	if source == "" {
		source = workout.SourceManual
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO workouts (id, user_id, name, started_at, duration_seconds, source)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   started_at = excluded.started_at, duration_seconds = excluded.duration_seconds,
		   source = excluded.source
		 WHERE workouts.user_id = excluded.user_id`,
		w.ID, w.UserID, w.Name, toNanos(w.Date), w.DurationSeconds, source)
	if err != nil {
		return fmt.Errorf("upserting workout: %w", err)
	}
	if err := mustOwn(res, "workout", w.ID); err != nil {
		return err
	}
	if err := deleteWorkoutChildren(ctx, tx, w.ID); err != nil {
		return err
	}
	for ei, e := range w.Exercises {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO workout_exercises (workout_id, position, name) VALUES (?, ?, ?)`,
			w.ID, ei, e.Name); err != nil {
			return fmt.Errorf("inserting exercise: %w", err)
		}
		for si, s := range e.Sets {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO workout_sets (workout_id, exercise_pos, position, reps, weight) VALUES (?, ?, ?, ?, ?)`,
				w.ID, ei, si, s.Reps, s.Weight); err != nil {
				return fmt.Errorf("inserting set: %w", err)
			}
		}
	}
	return tx.Commit()
}

func deleteWorkoutChildren(ctx context.Context, tx *sql.Tx, id string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM workout_sets WHERE workout_id = ?`, id); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM workout_exercises WHERE workout_id = ?`, id)
	return err
}

func (r *Repo) RenameWorkout(ctx context.Context, id, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE workouts SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return err
	}
	return mustAffect(res, "workout", id)
}

func (r *Repo) DeleteWorkout(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM workouts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := mustAffect(res, "workout", id); err != nil {
		return err
	}
	if err := deleteWorkoutChildren(ctx, tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

func mustAffect(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, tracker.ErrNotFound)
	}
	return nil
}

// mustOwn reports ErrNotOwner when an upsert's ownership guard skipped the row.
func mustOwn(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, tracker.ErrNotOwner)
	}
	return nil
}

func (r *Repo) FetchHabits(ctx context.Context, userID string) ([]habit.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, target_per_week, current_streak, created_at
		 FROM habits WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}

	var out []habit.Record
	index := map[string]int{}
	for rows.Next() {
		var h habit.Record
		var created int64
		if err := rows.Scan(&h.ID, &h.UserID, &h.Name, &h.TargetPerWeek, &h.CurrentStreak, &created); err != nil {
			rows.Close()
			return nil, err
		}
		h.CreatedAt = fromNanos(created)
		index[h.ID] = len(out)
		out = append(out, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}

	rows, err = r.db.QueryContext(ctx,
		`SELECT d.habit_id, d.day FROM habit_days d
		 JOIN habits h ON h.id = d.habit_id
		 WHERE h.user_id = ? ORDER BY d.habit_id, d.day`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var hid, k string
		if err := rows.Scan(&hid, &k); err != nil {
			return nil, err
		}
		if i, ok := index[hid]; ok {
			out[i].CompletedDays = append(out[i].CompletedDays, day.Key(k))
		}
	}
	return out, rows.Err()
}

// SaveHabit inserts or replaces h and its completed days.
func (r *Repo) SaveHabit(ctx context.Context, h habit.Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO habits (id, user_id, name, target_per_week, current_streak, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   target_per_week = excluded.target_per_week,
		   current_streak = excluded.current_streak
		 WHERE habits.user_id = excluded.user_id`,
		h.ID, h.UserID, h.Name, h.TargetPerWeek, h.CurrentStreak, toNanos(h.CreatedAt))
	if err != nil {
		return fmt.Errorf("upserting habit: %w", err)
	}
	if err := mustOwn(res, "habit", h.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM habit_days WHERE habit_id = ?`, h.ID); err != nil {
		return err
	}
	for _, k := range h.CompletedDays {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO habit_days (habit_id, day) VALUES (?, ?)`, h.ID, string(k)); err != nil {
			return fmt.Errorf("inserting habit day: %w", err)
		}
	}
	return tx.Commit()
}

func (r *Repo) DeleteHabit(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := mustAffect(res, "habit", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM habit_days WHERE habit_id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repo) LoadAchievements(ctx context.Context, userID string) (achievement.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT achievement_id, unlocked_at FROM achievement_unlocks WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snap := achievement.Snapshot{}
	for rows.Next() {
		var id string
		var at int64
		if err := rows.Scan(&id, &at); err != nil {
			return nil, err
		}
		snap[id] = fromNanos(at)
	}
	return snap, rows.Err()
}

// SaveAchievements upserts every entry of snap, keeping the earliest unlock
// time. Entries are never removed, so a stale snapshot cannot revoke a
// stored unlock.
func (r *Repo) SaveAchievements(ctx context.Context, userID string, snap achievement.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for id, at := range snap {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO achievement_unlocks (user_id, achievement_id, unlocked_at)
			 VALUES (?, ?, ?)
			 ON CONFLICT(user_id, achievement_id) DO UPDATE SET
			   unlocked_at = MIN(unlocked_at, excluded.unlocked_at)`,
			userID, id, toNanos(at)); err != nil {
			return fmt.Errorf("saving unlock %s: %w", id, err)
		}
	}
	return tx.Commit()
}
