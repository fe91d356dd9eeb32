package tracker

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rnwolfe/grind/internal/achievement"
	"github.com/rnwolfe/grind/internal/habit"
	"github.com/rnwolfe/grind/internal/workout"
)

// Memory is an in-process Repository. It backs tests and dry runs.
type Memory struct {
	mu       sync.Mutex
	workouts map[string]workout.Record
	habits   map[string]habit.Record
	unlocks  map[string]achievement.Snapshot
}

// NewMemory returns an empty Memory repository.
func NewMemory() *Memory {
	return &Memory{
		workouts: map[string]workout.Record{},
		habits:   map[string]habit.Record{},
		unlocks:  map[string]achievement.Snapshot{},
	}
}

func (m *Memory) FetchWorkouts(_ context.Context, userID string) ([]workout.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []workout.Record
	for _, w := range m.workouts {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) GetWorkout(_ context.Context, id string) (workout.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.workouts[id]
	if !ok {
		return workout.Record{}, fmt.Errorf("workout %s: %w", id, ErrNotFound)
	}
	return w, nil
}

func (m *Memory) SaveWorkout(_ context.Context, w workout.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.workouts[w.ID]; ok && prev.UserID != w.UserID {
		return fmt.Errorf("workout %s: %w", w.ID, ErrNotOwner)
	}
	m.workouts[w.ID] = w
	return nil
}

func (m *Memory) RenameWorkout(_ context.Context, id, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.workouts[id]
	if !ok {
		return fmt.Errorf("workout %s: %w", id, ErrNotFound)
	}
	w.Name = name
	m.workouts[id] = w
	return nil
}

func (m *Memory) DeleteWorkout(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workouts[id]; !ok {
		return fmt.Errorf("workout %s: %w", id, ErrNotFound)
	}
	delete(m.workouts, id)
	return nil
}

func (m *Memory) FetchHabits(_ context.Context, userID string) ([]habit.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []habit.Record
	for _, h := range m.habits {
		if h.UserID == userID {
			h.CompletedDays = append(h.CompletedDays[:0:0], h.CompletedDays...)
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) SaveHabit(_ context.Context, h habit.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.habits[h.ID]; ok && prev.UserID != h.UserID {
		return fmt.Errorf("habit %s: %w", h.ID, ErrNotOwner)
	}
	h.CompletedDays = append(h.CompletedDays[:0:0], h.CompletedDays...)
	m.habits[h.ID] = h
	return nil
}

func (m *Memory) DeleteHabit(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.habits[id]; !ok {
		return fmt.Errorf("habit %s: %w", id, ErrNotFound)
	}
	delete(m.habits, id)
	return nil
}

func (m *Memory) LoadAchievements(_ context.Context, userID string) (achievement.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := achievement.Snapshot{}
	for id, at := range m.unlocks[userID] {
		out[id] = at
	}
	return out, nil
}

func (m *Memory) SaveAchievements(_ context.Context, userID string, snap achievement.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make(achievement.Snapshot, len(snap))
	for id, at := range snap {
		cp[id] = at
	}
	m.unlocks[userID] = cp
	return nil
}
