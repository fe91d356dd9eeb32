package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/rnwolfe/grind/internal/config"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the grind database under the XDG data dir.
func Open() (*DB, error) {
	paths := config.GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("creating data dirs: %w", err)
	}
	return OpenPath(paths.DBFile)
}

// OpenPath opens (or creates) a database at path.
func OpenPath(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=-16000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			conn.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the raw sql.DB for direct queries.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// migrate runs all schema migrations. Child rows are removed explicitly by
// the repository since foreign_keys is a per-connection pragma.
func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		// Workouts. Instants are stored as UTC unix nanoseconds.
		`CREATE TABLE IF NOT EXISTS workouts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			started_at INTEGER NOT NULL,
			duration_seconds INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_workouts_user ON workouts(user_id, started_at)`,
		`CREATE TABLE IF NOT EXISTS workout_exercises (
			workout_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			PRIMARY KEY (workout_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS workout_sets (
			workout_id TEXT NOT NULL,
			exercise_pos INTEGER NOT NULL,
			position INTEGER NOT NULL,
			reps INTEGER NOT NULL DEFAULT 0,
			weight REAL NOT NULL DEFAULT 0,
			PRIMARY KEY (workout_id, exercise_pos, position)
		)`,
		// Habits
		`CREATE TABLE IF NOT EXISTS habits (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			target_per_week INTEGER NOT NULL,
			current_streak INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_habits_user ON habits(user_id)`,
		`CREATE TABLE IF NOT EXISTS habit_days (
			habit_id TEXT NOT NULL,
			day TEXT NOT NULL,
			PRIMARY KEY (habit_id, day)
		)`,
		// Achievement unlock snapshot
		`CREATE TABLE IF NOT EXISTS achievement_unlocks (
			user_id TEXT NOT NULL,
			achievement_id TEXT NOT NULL,
			unlocked_at INTEGER NOT NULL,
			PRIMARY KEY (user_id, achievement_id)
		)`,
		// Key-value store for misc state
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	// ALTER TABLE cannot use IF NOT EXISTS. SQLite reports
	// "duplicate column name" when the column is already there.
	alterMigrations := []string{
		`ALTER TABLE workouts ADD COLUMN source TEXT NOT NULL DEFAULT 'manual'`,
	}
	for _, m := range alterMigrations {
		if _, err := db.conn.Exec(m); err != nil {
			if !strings.Contains(err.Error(), "duplicate column name") {
				return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
			}
		}
	}

	return nil
}
