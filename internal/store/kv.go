package store

import (
	"context"
	"database/sql"
	"errors"
)

// KV is a string key-value view over the kv table.
type KV struct {
	db *sql.DB
}

// NewKV creates a KV over db.
func NewKV(db *sql.DB) *KV {
	return &KV{db: db}
}

// Get returns the value for key. ok is false when the key is absent.
func (k *KV) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	err = k.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores value under key.
func (k *KV) Set(ctx context.Context, key, value string) error {
	_, err := k.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`, key, value)
	return err
}

// Delete removes key. Missing keys are not an error.
func (k *KV) Delete(ctx context.Context, key string) error {
	_, err := k.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return err
}
