package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rnwolfe/grind/internal/day"
	"github.com/rnwolfe/grind/internal/goal"
	"github.com/rnwolfe/grind/internal/streak"
)

// KeyType represents the data type of a config key.
type KeyType string

const (
	KeyTypeString KeyType = "string"
	KeyTypeInt    KeyType = "int"
	KeyTypeEnum   KeyType = "enum"
)

// KeyEntry describes a known, settable config key.
type KeyEntry struct {
	// Type is the value's data type.
	Type KeyType
	// Desc is a human-readable description shown in `grind config show`.
	Desc string
	// DefaultStr is the string representation of the default value.
	DefaultStr string

	get   func(*Config) string
	set   func(cfg *Config, value string) error
	unset func(cfg *Config)
}

// Get returns the current value of the key as a string.
func (e *KeyEntry) Get(cfg *Config) string { return e.get(cfg) }

// Set validates and sets the value, returning a descriptive error on mismatch.
func (e *KeyEntry) Set(cfg *Config, value string) error { return e.set(cfg, value) }

// Unset resets the key to its schema default.
func (e *KeyEntry) Unset(cfg *Config) { e.unset(cfg) }

// SchemaKeys is the registry of all settable config keys.
// Keys use dot-notation matching the TOML section structure.
var SchemaKeys = map[string]*KeyEntry{
	"user.id": {
		Type:       KeyTypeString,
		Desc:       "Owner id stamped on every record",
		DefaultStr: "",
		get:        func(cfg *Config) string { return cfg.User.ID },
		set: func(cfg *Config, v string) error {
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("%w: user.id cannot be empty", day.ErrInvalidInput)
			}
			cfg.User.ID = strings.TrimSpace(v)
			return nil
		},
		unset: func(cfg *Config) { cfg.User.ID = "" },
	},
	"user.name": {
		Type:       KeyTypeString,
		Desc:       "Display name",
		DefaultStr: "",
		get:        func(cfg *Config) string { return cfg.User.Name },
		set:        func(cfg *Config, v string) error { cfg.User.Name = v; return nil },
		unset:      func(cfg *Config) { cfg.User.Name = "" },
	},
	"tracking.timezone": {
		Type:       KeyTypeString,
		Desc:       "IANA timezone used to turn timestamps into days",
		DefaultStr: "UTC",
		get:        func(cfg *Config) string { return cfg.Tracking.Timezone },
		set: func(cfg *Config, v string) error {
			if _, err := time.LoadLocation(v); err != nil {
				return fmt.Errorf("%w: timezone %q: %v", day.ErrInvalidInput, v, err)
			}
			cfg.Tracking.Timezone = v
			return nil
		},
		unset: func(cfg *Config) { cfg.Tracking.Timezone = "UTC" },
	},
	"tracking.week_start": {
		Type:       KeyTypeEnum,
		Desc:       "First day of the goal week (monday, sunday, ...)",
		DefaultStr: "monday",
		get:        func(cfg *Config) string { return cfg.Tracking.WeekStart },
		set: func(cfg *Config, v string) error {
			wd, err := day.ParseWeekday(v)
			if err != nil {
				return err
			}
			cfg.Tracking.WeekStart = strings.ToLower(wd.String())
			return nil
		},
		unset: func(cfg *Config) { cfg.Tracking.WeekStart = "monday" },
	},
	"tracking.streak_anchor": {
		Type:       KeyTypeEnum,
		Desc:       "Day a live streak must reach (today, yesterday, latest)",
		DefaultStr: string(streak.AnchorToday),
		get:        func(cfg *Config) string { return cfg.Tracking.StreakAnchor },
		set: func(cfg *Config, v string) error {
			a, err := streak.ParseAnchor(strings.ToLower(strings.TrimSpace(v)))
			if err != nil {
				return err
			}
			cfg.Tracking.StreakAnchor = string(a)
			return nil
		},
		unset: func(cfg *Config) { cfg.Tracking.StreakAnchor = string(streak.AnchorToday) },
	},
	"tracking.default_habit_target": {
		Type:       KeyTypeInt,
		Desc:       "Weekly target for new habits (1-7)",
		DefaultStr: "3",
		get:        func(cfg *Config) string { return strconv.Itoa(cfg.Tracking.DefaultHabitTarget) },
		set: func(cfg *Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%w: %q is not a number", day.ErrInvalidInput, v)
			}
			if err := goal.ValidateTarget(n); err != nil {
				return err
			}
			cfg.Tracking.DefaultHabitTarget = n
			return nil
		},
		unset: func(cfg *Config) { cfg.Tracking.DefaultHabitTarget = 3 },
	},
	"store.backend": {
		Type:       KeyTypeEnum,
		Desc:       "Record store (sqlite, firestore)",
		DefaultStr: BackendSQLite,
		get:        func(cfg *Config) string { return cfg.Store.Backend },
		set: func(cfg *Config, v string) error {
			switch v {
			case BackendSQLite, BackendFirestore:
				cfg.Store.Backend = v
				return nil
			}
			return fmt.Errorf("%w: unknown backend %q (sqlite, firestore)", day.ErrInvalidInput, v)
		},
		unset: func(cfg *Config) { cfg.Store.Backend = BackendSQLite },
	},
	"store.firestore_project": {
		Type:       KeyTypeString,
		Desc:       "Google Cloud project for the firestore backend",
		DefaultStr: "",
		get:        func(cfg *Config) string { return cfg.Store.FirestoreProject },
		set:        func(cfg *Config, v string) error { cfg.Store.FirestoreProject = v; return nil },
		unset:      func(cfg *Config) { cfg.Store.FirestoreProject = "" },
	},
}

// ValidKeyNames returns the sorted list of all known config key names.
func ValidKeyNames() []string {
	names := make([]string, 0, len(SchemaKeys))
	for k := range SchemaKeys {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// LookupKey returns the KeyEntry for a known config key.
func LookupKey(key string) (*KeyEntry, bool) {
	entry, ok := SchemaKeys[key]
	return entry, ok
}
