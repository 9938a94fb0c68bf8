package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/grand/internal/models"
	"github.com/desertthunder/grand/internal/shared"
)

// DeviceRepository implements [models.Repository] for [models.Device] persistence.
type DeviceRepository struct {
	db *sql.DB
}

// NewDeviceRepository creates a new [DeviceRepository] with the given database connection
func NewDeviceRepository(db *sql.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

var _ models.Repository[*models.Device] = (*DeviceRepository)(nil)

const deviceColumns = `id, sequence, label, remember, created_at, updated_at, last_seen_at, deleted_at`

// Create inserts a new device, assigning an ID when the device has none.
func (r *DeviceRepository) Create(device *models.Device) error {
	if device.ID() == "" {
		device.SetID(shared.GenerateID())
	}

	if err := device.Validate(); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}

	sequence, err := NextSequence(r.db, "devices")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	device.SetSequence(sequence)

	query := `
		INSERT INTO devices (id, sequence, label, remember, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, device.ID(), sequence, device.Label(), device.Remember(), device.CreatedAt(), device.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert device: %w", err)
	}

	return nil
}

// Get retrieves a device by ID, excluding soft-deleted devices
func (r *DeviceRepository) Get(id string) (*models.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE id = ? AND deleted_at IS NULL`

	device, err := scanDevice(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrDeviceNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query device: %w", err)
	}
	return device, nil
}

// Ensure returns the device with id, creating it with label when it does not exist yet.
func (r *DeviceRepository) Ensure(id, label string) (*models.Device, error) {
	device, err := r.Get(id)
	if err == nil {
		return device, nil
	}
	if !errors.Is(err, shared.ErrDeviceNotFound) {
		return nil, err
	}

	device = models.NewDevice(id, label)
	if err := r.Create(device); err != nil {
		return nil, err
	}
	return device, nil
}

// Update modifies label and remember flag of an existing device
func (r *DeviceRepository) Update(device *models.Device) error {
	if err := device.Validate(); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}

	now := time.Now()
	device.SetUpdatedAt(now)

	query := `
		UPDATE devices
		SET label = ?, remember = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, device.Label(), device.Remember(), now, device.ID())
	if err != nil {
		return fmt.Errorf("failed to update device: %w", err)
	}
	return requireRow(result, device.ID())
}

// Touch records that the device was just seen.
func (r *DeviceRepository) Touch(id string) error {
	result, err := r.db.Exec(`UPDATE devices SET last_seen_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to touch device: %w", err)
	}
	return requireRow(result, id)
}

// Delete soft-deletes a device by ID
func (r *DeviceRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE devices SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}
	return requireRow(result, id)
}

// List retrieves devices ordered by sequence, excluding soft-deleted devices.
//
// Supported criteria: "label" (string), "remember" (bool), "seen_since" (time.Time).
func (r *DeviceRepository) List(criteria models.Criteria) ([]*models.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE deleted_at IS NULL`
	args := []any{}

	if label, ok := criteria["label"].(string); ok && label != "" {
		query += " AND label = ?"
		args = append(args, label)
	}
	if remember, ok := criteria["remember"].(bool); ok {
		query += " AND remember = ?"
		args = append(args, remember)
	}
	if since, ok := criteria["seen_since"].(time.Time); ok {
		query += " AND last_seen_at >= ?"
		args = append(args, since)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}
	defer rows.Close()

	var devices []*models.Device
	for rows.Next() {
		device, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, device)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return devices, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDevice(s scanner) (*models.Device, error) {
	var (
		id         string
		sequence   int
		label      string
		remember   bool
		createdAt  time.Time
		updatedAt  time.Time
		lastSeenAt sql.NullTime
		deletedAt  sql.NullTime
	)

	if err := s.Scan(&id, &sequence, &label, &remember, &createdAt, &updatedAt, &lastSeenAt, &deletedAt); err != nil {
		return nil, err
	}

	device := models.NewDevice(id, label)
	device.SetSequence(sequence)
	device.SetRemember(remember)
	device.SetCreatedAt(createdAt)
	device.SetUpdatedAt(updatedAt)
	if lastSeenAt.Valid {
		device.SetLastSeenAt(&lastSeenAt.Time)
	}
	if deletedAt.Valid {
		device.SetDeletedAt(&deletedAt.Time)
	}
	return device, nil
}

func requireRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrDeviceNotFound, id)
	}
	return nil
}
