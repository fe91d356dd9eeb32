// Package session holds the workout being recorded right now.
//
// A Session is an ordinary value owned by the caller. Nothing is written
// until the caller checkpoints it through a Saver.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rnwolfe/grind/internal/day"
	"github.com/rnwolfe/grind/internal/workout"
)

// ErrNoSession is returned when no session is in progress.
var ErrNoSession = errors.New("no workout in progress")

// Session is an in-progress workout.
type Session struct {
	ID        string             `json:"id"`
	UserID    string             `json:"userId"`
	Name      string             `json:"name"`
	StartedAt time.Time          `json:"startedAt"`
	Exercises []workout.Exercise `json:"exercises"`
}

// Start begins a session for userID at now.
func Start(userID, name string, now time.Time) (*Session, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: session has no owner", day.ErrInvalidInput)
	}
	return &Session{
		ID:        workout.NewID(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		StartedAt: now.UTC(),
	}, nil
}

// AddExercise appends an exercise and returns its 1-based number.
// The name is canonicalised against the exercise catalog.
func (s *Session) AddExercise(name string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: exercise name is empty", day.ErrInvalidInput)
	}
	s.Exercises = append(s.Exercises, workout.Exercise{Name: workout.CanonicalName(name)})
	return len(s.Exercises), nil
}

// Resolve finds an exercise by 1-based number or case-insensitive name.
// An empty ref means the most recently added exercise.
func (s *Session) Resolve(ref string) (int, error) {
	if len(s.Exercises) == 0 {
		return 0, fmt.Errorf("%w: add an exercise first", day.ErrInvalidInput)
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return len(s.Exercises) - 1, nil
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(s.Exercises) {
			return 0, fmt.Errorf("%w: no exercise #%d", day.ErrInvalidInput, n)
		}
		return n - 1, nil
	}
	for i := len(s.Exercises) - 1; i >= 0; i-- {
		if strings.EqualFold(s.Exercises[i].Name, ref) ||
			strings.EqualFold(s.Exercises[i].Name, workout.CanonicalName(ref)) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: no exercise named %q", day.ErrInvalidInput, ref)
}

// AddSet appends a set to the exercise ref points at.
func (s *Session) AddSet(ref string, set workout.Set) error {
	if set.Reps < 0 || set.Weight < 0 {
		return fmt.Errorf("%w: reps and weight must not be negative", day.ErrInvalidInput)
	}
	i, err := s.Resolve(ref)
	if err != nil {
		return err
	}
	s.Exercises[i].Sets = append(s.Exercises[i].Sets, set)
	return nil
}

// Elapsed returns the time since the session started.
func (s *Session) Elapsed(now time.Time) time.Duration {
	d := now.Sub(s.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}

// Finish converts the session into a workout record ending at now.
func (s *Session) Finish(now time.Time) (workout.Record, error) {
	if len(s.Exercises) == 0 {
		return workout.Record{}, fmt.Errorf("%w: session has no exercises", day.ErrInvalidInput)
	}
	r := workout.Record{
		ID:              s.ID,
		UserID:          s.UserID,
		Name:            s.Name,
		Date:            s.StartedAt,
		Exercises:       s.Exercises,
		DurationSeconds: int(s.Elapsed(now) / time.Second),
		Source:          workout.SourceSession,
	}
	if err := r.Validate(); err != nil {
		return workout.Record{}, err
	}
	return r, nil
}

// Store is the key-value surface a Saver persists to.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Saver checkpoints sessions to a Store, one per user.
type Saver struct {
	kv Store
}

// NewSaver creates a Saver over kv.
func NewSaver(kv Store) *Saver {
	return &Saver{kv: kv}
}

func key(userID string) string { return "session:" + userID }

// Save checkpoints s.
func (sv *Saver) Save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return sv.kv.Set(ctx, key(s.UserID), string(data))
}

// Load returns the user's checkpointed session or ErrNoSession.
func (sv *Saver) Load(ctx context.Context, userID string) (*Session, error) {
	raw, ok, err := sv.kv.Get(ctx, key(userID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoSession
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return &s, nil
}

// Clear drops the user's checkpoint.
func (sv *Saver) Clear(ctx context.Context, userID string) error {
	return sv.kv.Delete(ctx, key(userID))
}
