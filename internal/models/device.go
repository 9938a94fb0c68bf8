package models

import (
	"errors"
	"time"
)

// Device is a browser or CLI install. Every piece of client state belongs to exactly one device.
type Device struct {
	id         string
	sequence   int
	label      string
	remember   bool
	createdAt  time.Time
	updatedAt  time.Time
	lastSeenAt *time.Time
	deletedAt  *time.Time
}

// NewDevice creates an unsaved device. An empty id lets the repository assign one.
func NewDevice(id, label string) *Device {
	now := time.Now()
	return &Device{id: id, label: label, createdAt: now, updatedAt: now}
}

func (d *Device) ID() string { return d.id }
func (d *Device) Sequence() int { return d.sequence }
func (d *Device) Label() string { return d.label }
func (d *Device) Remember() bool { return d.remember }
func (d *Device) CreatedAt() time.Time { return d.createdAt }
func (d *Device) UpdatedAt() time.Time { return d.updatedAt }
func (d *Device) LastSeenAt() *time.Time { return d.lastSeenAt }
func (d *Device) DeletedAt() *time.Time { return d.deletedAt }
func (d *Device) SetID(id string) { d.id = id }
func (d *Device) SetSequence(s int) { d.sequence = s }
func (d *Device) SetLabel(l string) { d.label = l }
func (d *Device) SetRemember(r bool) { d.remember = r }
func (d *Device) SetCreatedAt(t time.Time) { d.createdAt = t }
func (d *Device) SetUpdatedAt(t time.Time) { d.updatedAt = t }
func (d *Device) SetLastSeenAt(t *time.Time) { d.lastSeenAt = t }
func (d *Device) SetDeletedAt(t *time.Time) { d.deletedAt = t }

// Validate requires an id and a label.
func (d *Device) Validate() error {
	if d.id == "" {
		return errors.New("device id is required")
	}
	if d.label == "" {
		return errors.New("device label is required")
	}
	return nil
}
