// Package hook runs user scripts when grind records something.
//
// Scripts live in the hooks directory and are named after the events they
// want, e.g. workout.logged.sh or achievement.*.py. Each receives the event
// as JSON on stdin. Hook failures are logged and never fail the command.
package hook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Event names.
const (
	WorkoutLogged       = "workout.logged"
	WorkoutDeleted      = "workout.deleted"
	AchievementUnlocked = "achievement.unlocked"
	HabitToggled        = "habit.toggled"
	SessionFinished     = "session.finished"
	BackupExported      = "backup.exported"
)

// Events lists every event grind emits.
var Events = []string{
	WorkoutLogged, WorkoutDeleted, AchievementUnlocked,
	HabitToggled, SessionFinished, BackupExported,
}

// Event is the payload handed to hooks.
type Event struct {
	Name   string    `json:"event"`
	UserID string    `json:"user_id"`
	Time   time.Time `json:"time"`
	Data   any       `json:"data,omitempty"`
}

// NewEvent stamps an event with the current time.
func NewEvent(name, userID string, data any) Event {
	return Event{Name: name, UserID: userID, Time: time.Now().UTC(), Data: data}
}

// JSON serializes the event for hook executables.
func (e Event) JSON() ([]byte, error) {
	return json.Marshal(e)
}

// ParseEvent decodes an event. Data is left as generic JSON.
func ParseEvent(b []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(b, &e); err != nil {
		return Event{}, fmt.Errorf("parsing hook event: %w", err)
	}
	return e, nil
}

// Handler reacts to an event.
type Handler func(ctx context.Context, e Event) error

// Hook is one registration.
type Hook struct {
	// Pattern matches event names; "workout.*" and "*" are allowed.
	Pattern string
	Name    string
	// Source is "user" for scripts, "builtin" for in-process handlers.
	Source  string
	Handler Handler
	// Timeout bounds the handler; zero means DefaultTimeout.
	Timeout time.Duration
}

// DefaultTimeout bounds a single hook run.
const DefaultTimeout = 10 * time.Second
