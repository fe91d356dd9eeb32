// Package backup writes and restores passphrase-encrypted snapshots of a
// user's records.
//
// A backup is a JSON bundle encrypted with age scrypt and ASCII armored so
// it survives copy and paste. Files are written atomically: data goes to a
// temp file, is fsync'd, then renamed into place.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/rnwolfe/grind/internal/achievement"
	"github.com/rnwolfe/grind/internal/habit"
	"github.com/rnwolfe/grind/internal/tracker"
	"github.com/rnwolfe/grind/internal/workout"
)

// ErrWrongPassphrase is returned when decryption fails due to a bad passphrase.
var ErrWrongPassphrase = errors.New("wrong passphrase")

// ErrCorrupted is returned when a backup cannot be decrypted or parsed.
var ErrCorrupted = errors.New("backup is corrupted or unreadable")

// FormatVersion is the bundle layout version written by this package.
const FormatVersion = 1

// workFactor is the scrypt log2 work factor. Zero keeps the age default.
var workFactor = 0

// Bundle is the plaintext content of a backup.
type Bundle struct {
	Version      int                  `json:"version"`
	ExportedAt   time.Time            `json:"exportedAt"`
	UserID       string               `json:"userId"`
	Workouts     []workout.Record     `json:"workouts"`
	Habits       []habit.Record       `json:"habits"`
	Achievements achievement.Snapshot `json:"achievements"`
}

// Collect reads everything userID owns from repo.
func Collect(ctx context.Context, repo tracker.Repository, userID string, now time.Time) (*Bundle, error) {
	ws, err := repo.FetchWorkouts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching workouts: %w", err)
	}
	hs, err := repo.FetchHabits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching habits: %w", err)
	}
	snap, err := repo.LoadAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading achievements: %w", err)
	}
	return &Bundle{
		Version:      FormatVersion,
		ExportedAt:   now.UTC(),
		UserID:       userID,
		Workouts:     ws,
		Habits:       hs,
		Achievements: snap,
	}, nil
}

func checkBundle(ctx context.Context, repo tracker.Repository, b *Bundle, userID string) error {
	for _, w := range b.Workouts {
		w.UserID = userID
		if err := w.Validate(); err != nil {
			return fmt.Errorf("workout %s: %w", w.ID, err)
		}
		prev, err := repo.GetWorkout(ctx, w.ID)
		switch {
		case errors.Is(err, tracker.ErrNotFound):
		case err != nil:
			return fmt.Errorf("looking up workout %s: %w", w.ID, err)
		case prev.UserID != userID:
			return fmt.Errorf("workout %s: %w", w.ID, tracker.ErrNotOwner)
		}
	}
	for _, h := range b.Habits {
		h.UserID = userID
		if err := h.Validate(); err != nil {
			return fmt.Errorf("habit %s: %w", h.ID, err)
		}
	}
	return nil
}

// RestoreStats counts what Restore wrote.
type RestoreStats struct {
	Workouts int
	Habits   int
	Unlocks  int
}

// Restore writes b into repo under userID. The whole bundle is checked
// before the first write. Records with the same ID are replaced when userID
// owns them; another user's ID fails with tracker.ErrNotOwner. Unlocks are
// merged so nothing already unlocked is lost and the earliest unlock time
// wins.
func Restore(ctx context.Context, repo tracker.Repository, b *Bundle, userID string) (RestoreStats, error) {
	var st RestoreStats
	if err := checkBundle(ctx, repo, b, userID); err != nil {
		return st, err
	}
	for _, w := range b.Workouts {
		w.UserID = userID
		if err := repo.SaveWorkout(ctx, w); err != nil {
			return st, fmt.Errorf("saving workout %s: %w", w.ID, err)
		}
		st.Workouts++
	}
	for _, h := range b.Habits {
		h.UserID = userID
		if err := repo.SaveHabit(ctx, h); err != nil {
			return st, fmt.Errorf("saving habit %s: %w", h.ID, err)
		}
		st.Habits++
	}

	if len(b.Achievements) == 0 {
		return st, nil
	}
	prev, err := repo.LoadAchievements(ctx, userID)
	if err != nil {
		return st, fmt.Errorf("loading achievements: %w", err)
	}
	next := make(achievement.Snapshot, len(prev)+len(b.Achievements))
	for id, at := range prev {
		next[id] = at
	}
	for id, at := range b.Achievements {
		cur, ok := next[id]
		if !ok {
			st.Unlocks++
		}
		if !ok || at.Before(cur) {
			next[id] = at
		}
	}
	if err := repo.SaveAchievements(ctx, userID, next); err != nil {
		return st, fmt.Errorf("saving achievements: %w", err)
	}
	return st, nil
}

// Encrypt serializes and encrypts b with an age scrypt passphrase.
func Encrypt(b *Bundle, passphrase string) ([]byte, error) {
	jsonBytes, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("serializing backup: %w", err)
	}

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating age recipient: %w", err)
	}
	if workFactor > 0 {
		recipient.SetWorkFactor(workFactor)
	}

	var buf bytes.Buffer
	armorWriter := armor.NewWriter(&buf)

	w, err := age.Encrypt(armorWriter, recipient)
	if err != nil {
		return nil, fmt.Errorf("initializing age encryption: %w", err)
	}
	if _, err := w.Write(jsonBytes); err != nil {
		return nil, fmt.Errorf("encrypting backup: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}
	if err := armorWriter.Close(); err != nil {
		return nil, fmt.Errorf("finalizing armor: %w", err)
	}

	return buf.Bytes(), nil
}

// Decrypt reverses Encrypt.
func Decrypt(raw []byte, passphrase string) (*Bundle, error) {
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating age identity: %w", err)
	}

	r, err := age.Decrypt(armor.NewReader(bytes.NewReader(raw)), identity)
	if err != nil {
		// age has no typed error for a bad passphrase; match its wording.
		msg := err.Error()
		if strings.Contains(msg, "no identity matched") || strings.Contains(msg, "incorrect") {
			return nil, fmt.Errorf("%w: %v", ErrWrongPassphrase, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading decrypted data: %v", ErrCorrupted, err)
	}

	var b Bundle
	if err := json.Unmarshal(plaintext, &b); err != nil {
		return nil, fmt.Errorf("%w: parsing backup JSON: %v", ErrCorrupted, err)
	}
	if b.Version > FormatVersion {
		return nil, fmt.Errorf("%w: backup version %d is newer than supported %d", ErrCorrupted, b.Version, FormatVersion)
	}
	return &b, nil
}

// WriteFile encrypts b and writes it to path atomically with mode 0600.
func WriteFile(path string, b *Bundle, passphrase string) error {
	raw, err := Encrypt(b, passphrase)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating backup directory: %w", err)
	}
	return atomicWrite(path, raw)
}

// ReadFile reads and decrypts the backup at path.
func ReadFile(path, passphrase string) (*Bundle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decrypt(raw, passphrase)
}

// atomicWrite writes data to path: temp file, fsync, rename.
func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".backup-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpName)
		}
	}()

	if err := os.Chmod(tmpName, 0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("setting temp file permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing backup: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("fsyncing backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("committing backup file: %w", err)
	}

	success = true
	return nil
}
