package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/grand/internal/shared"
)

// StateRepository stores per-device key/value documents in device_state.
//
// It satisfies session.Backend. Deleting a key soft-deletes the row; setting it again revives it.
type StateRepository struct {
	db *sql.DB
}

// NewStateRepository creates a new [StateRepository] with the given database connection
func NewStateRepository(db *sql.DB) *StateRepository {
	return &StateRepository{db: db}
}

// Get returns the live value for key. ok is false when the key was never set or was deleted.
func (r *StateRepository) Get(ctx context.Context, deviceID, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM device_state WHERE device_id = ? AND key = ? AND deleted_at IS NULL`,
		deviceID, key,
	).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query state %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts key for deviceID.
func (r *StateRepository) Set(ctx context.Context, deviceID, key, value string) error {
	now := time.Now()
	query := `
		INSERT INTO device_state (device_id, key, value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(device_id, key) DO UPDATE
		SET value = excluded.value, updated_at = excluded.updated_at, deleted_at = NULL
	`
	if _, err := r.db.ExecContext(ctx, query, deviceID, key, value, now, now); err != nil {
		return fmt.Errorf("failed to write state %s: %w", key, err)
	}
	return nil
}

// Delete soft-deletes the given keys. Missing keys are ignored.
func (r *StateRepository) Delete(ctx context.Context, deviceID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, key := range keys {
		_, err := tx.ExecContext(ctx,
			`UPDATE device_state SET deleted_at = ? WHERE device_id = ? AND key = ? AND deleted_at IS NULL`,
			now, deviceID, key,
		)
		if err != nil {
			return fmt.Errorf("failed to delete state %s: %w", key, err)
		}
	}

	return tx.Commit()
}

// Keys lists the live keys of deviceID in name order.
func (r *StateRepository) Keys(ctx context.Context, deviceID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key FROM device_state WHERE device_id = ? AND deleted_at IS NULL ORDER BY key ASC`,
		deviceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query state keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan state key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return keys, nil
}

// UpdatedAt reports when key was last written. It returns [shared.ErrStateNotFound] for missing keys.
func (r *StateRepository) UpdatedAt(ctx context.Context, deviceID, key string) (time.Time, error) {
	var at time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT updated_at FROM device_state WHERE device_id = ? AND key = ? AND deleted_at IS NULL`,
		deviceID, key,
	).Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("%w: %s", shared.ErrStateNotFound, key)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query state %s: %w", key, err)
	}
	return at, nil
}

// Purge hard-deletes rows soft-deleted before cutoff and returns how many were removed.
func (r *StateRepository) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM device_state WHERE deleted_at IS NOT NULL AND deleted_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge state: %w", err)
	}
	return result.RowsAffected()
}
