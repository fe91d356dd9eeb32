package cloud

import (
	"time"

	"github.com/rnwolfe/grind/internal/achievement"
	"github.com/rnwolfe/grind/internal/day"
	"github.com/rnwolfe/grind/internal/habit"
	"github.com/rnwolfe/grind/internal/workout"
)

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// getInt accepts the int64 Firestore returns as well as float64 and int.
func getInt(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func getFloat(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

func getTime(m map[string]interface{}, key string) time.Time {
	if v, ok := m[key]; ok {
		if t, ok := v.(time.Time); ok {
			return t.UTC()
		}
	}
	return time.Time{}
}

func getSlice(m map[string]interface{}, key string) []interface{} {
	if v, ok := m[key]; ok {
		if s, ok := v.([]interface{}); ok {
			return s
		}
	}
	return nil
}

// --- Workouts ---

func WorkoutToFirestore(w workout.Record) map[string]interface{} {
	exercises := make([]interface{}, 0, len(w.Exercises))
	for _, e := range w.Exercises {
		sets := make([]interface{}, 0, len(e.Sets))
		for _, s := range e.Sets {
			sets = append(sets, map[string]interface{}{
				"reps":   int64(s.Reps),
				"weight": s.Weight,
			})
		}
		exercises = append(exercises, map[string]interface{}{
			"name": e.Name,
			"sets": sets,
		})
	}
	source := w.Source
	if source == "" {
		source = workout.SourceManual
	}
	return map[string]interface{}{
		"id":               w.ID,
		"user_id":          w.UserID,
		"name":             w.Name,
		"date":             w.Date.UTC(),
		"duration_seconds": int64(w.DurationSeconds),
		"source":           source,
		"exercises":        exercises,
	}
}

func FirestoreToWorkout(m map[string]interface{}) workout.Record {
	w := workout.Record{
		ID:              getString(m, "id"),
		UserID:          getString(m, "user_id"),
		Name:            getString(m, "name"),
		Date:            getTime(m, "date"),
		DurationSeconds: getInt(m, "duration_seconds"),
		Source:          getString(m, "source"),
	}
	if w.Source == workout.SourceManual {
		w.Source = ""
	}
	for _, raw := range getSlice(m, "exercises") {
		em, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		e := workout.Exercise{Name: getString(em, "name")}
		for _, rs := range getSlice(em, "sets") {
			sm, ok := rs.(map[string]interface{})
			if !ok {
				continue
			}
			e.Sets = append(e.Sets, workout.Set{Reps: getInt(sm, "reps"), Weight: getFloat(sm, "weight")})
		}
		w.Exercises = append(w.Exercises, e)
	}
	return w
}

// --- Habits ---

func HabitToFirestore(h habit.Record) map[string]interface{} {
	days := make([]interface{}, 0, len(h.CompletedDays))
	for _, k := range h.CompletedDays {
		days = append(days, string(k))
	}
	return map[string]interface{}{
		"id":                        h.ID,
		"user_id":                   h.UserID,
		"name":                      h.Name,
		"target_frequency_per_week": int64(h.TargetPerWeek),
		"completed_days":            days,
		"current_streak":            int64(h.CurrentStreak),
		"created_at":                h.CreatedAt.UTC(),
	}
}

func FirestoreToHabit(m map[string]interface{}) habit.Record {
	h := habit.Record{
		ID:            getString(m, "id"),
		UserID:        getString(m, "user_id"),
		Name:          getString(m, "name"),
		TargetPerWeek: getInt(m, "target_frequency_per_week"),
		CurrentStreak: getInt(m, "current_streak"),
		CreatedAt:     getTime(m, "created_at"),
	}
	for _, raw := range getSlice(m, "completed_days") {
		if s, ok := raw.(string); ok {
			h.CompletedDays = append(h.CompletedDays, day.Key(s))
		}
	}
	return h
}

// --- Achievements ---

func SnapshotToFirestore(s achievement.Snapshot) map[string]interface{} {
	unlocked := make(map[string]interface{}, len(s))
	for id, at := range s {
		unlocked[id] = at.UTC()
	}
	return map[string]interface{}{"unlocked": unlocked}
}

func FirestoreToSnapshot(m map[string]interface{}) achievement.Snapshot {
	out := achievement.Snapshot{}
	unlocked, _ := m["unlocked"].(map[string]interface{})
	for id, v := range unlocked {
		if t, ok := v.(time.Time); ok {
			out[id] = t.UTC()
		}
	}
	return out
}

// mergeEarliest folds next into prev keeping every entry and the earliest
// time per id.
func mergeEarliest(prev, next achievement.Snapshot) achievement.Snapshot {
	out := make(achievement.Snapshot, len(prev)+len(next))
	for id, at := range prev {
		out[id] = at
	}
	for id, at := range next {
		if cur, ok := out[id]; !ok || at.Before(cur) {
			out[id] = at
		}
	}
	return out
}
