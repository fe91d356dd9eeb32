package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/rnwolfe/grind/internal/day"
	"github.com/rnwolfe/grind/internal/streak"
	"github.com/rnwolfe/grind/internal/tracker"
)

// Config holds the top-level grind configuration.
type Config struct {
	User     UserConfig     `toml:"user"`
	Tracking TrackingConfig `toml:"tracking"`
	Store    StoreConfig    `toml:"store"`
}

type UserConfig struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// TrackingConfig holds the policies shared by every streak and goal value.
type TrackingConfig struct {
	Timezone           string `toml:"timezone"`   // IANA name, e.g. Europe/London
	WeekStart          string `toml:"week_start"` // weekday name
	StreakAnchor       string `toml:"streak_anchor"`
	DefaultHabitTarget int    `toml:"default_habit_target"`
}

// StoreConfig selects where records live.
type StoreConfig struct {
	Backend          string `toml:"backend"` // sqlite or firestore
	FirestoreProject string `toml:"firestore_project"`
}

const (
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"
)

// Paths returns standard XDG-compliant paths.
type Paths struct {
	ConfigDir  string
	DataDir    string
	CacheDir   string
	StateDir   string
	ConfigFile string
	DBFile     string
}

// GetPaths returns the resolved paths, respecting XDG env vars.
func GetPaths() Paths {
	home, _ := os.UserHomeDir()

	configDir := envOr("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	dataDir := envOr("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	cacheDir := envOr("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
	stateDir := envOr("XDG_STATE_HOME", filepath.Join(home, ".local", "state"))

	grindConfig := filepath.Join(configDir, "grind")
	grindData := filepath.Join(dataDir, "grind")

	return Paths{
		ConfigDir:  grindConfig,
		DataDir:    grindData,
		CacheDir:   filepath.Join(cacheDir, "grind"),
		StateDir:   filepath.Join(stateDir, "grind"),
		ConfigFile: filepath.Join(grindConfig, "config.toml"),
		DBFile:     filepath.Join(grindData, "grind.db"),
	}
}

// EnsureDirs creates all required directories.
func (p Paths) EnsureDirs() error {
	dirs := []string{p.ConfigDir, p.DataDir, p.CacheDir, p.StateDir}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Load reads config from disk, returning defaults if not found.
// Keys missing from the file keep their defaults.
func Load() (*Config, error) {
	paths := GetPaths()
	cfg := defaultConfig()

	data, err := os.ReadFile(paths.ConfigFile)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", paths.ConfigFile, err)
	}
	return cfg, nil
}

// Save writes config to disk.
func Save(cfg *Config) error {
	paths := GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		return err
	}

	f, err := os.Create(paths.ConfigFile)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Initialized returns true if grind has been set up.
func Initialized() bool {
	paths := GetPaths()
	_, err := os.Stat(paths.ConfigFile)
	return err == nil
}

// EnsureUser assigns a user ID on first run and saves it.
// It reports whether the config changed.
func EnsureUser(cfg *Config) (bool, error) {
	if cfg.User.ID != "" {
		return false, nil
	}
	cfg.User.ID = uuid.New().String()
	if err := Save(cfg); err != nil {
		return false, fmt.Errorf("saving user id: %w", err)
	}
	return true, nil
}

// Location resolves the reference timezone.
func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Tracking.Timezone)
	if tz == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", day.ErrInvalidInput, tz, err)
	}
	return loc, nil
}

// WeekStart resolves the first day of the tracking week.
func (c *Config) WeekStart() (time.Weekday, error) {
	if strings.TrimSpace(c.Tracking.WeekStart) == "" {
		return time.Monday, nil
	}
	return day.ParseWeekday(c.Tracking.WeekStart)
}

// Anchor resolves the streak anchor policy.
func (c *Config) Anchor() (streak.Anchor, error) {
	return streak.ParseAnchor(c.Tracking.StreakAnchor)
}

// Settings bundles the tracking policies for tracker.NewService.
func (c *Config) Settings() (tracker.Settings, error) {
	loc, err := c.Location()
	if err != nil {
		return tracker.Settings{}, err
	}
	ws, err := c.WeekStart()
	if err != nil {
		return tracker.Settings{}, err
	}
	anchor, err := c.Anchor()
	if err != nil {
		return tracker.Settings{}, err
	}
	return tracker.Settings{Location: loc, WeekStart: ws, Anchor: anchor}, nil
}

func defaultConfig() *Config {
	return &Config{
		User: UserConfig{
			Name: envOr("USER", ""),
		},
		Tracking: TrackingConfig{
			Timezone:           "UTC",
			WeekStart:          "monday",
			StreakAnchor:       string(streak.AnchorToday),
			DefaultHabitTarget: 3,
		},
		Store: StoreConfig{
			Backend: BackendSQLite,
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
