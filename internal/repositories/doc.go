// Package repositories implements SQLite persistence for devices and their client state.
//
// Key Implementations:
//   - [DeviceRepository] : browsers and CLI installs, implements models.Repository[*models.Device]
//   - [StateRepository] : per-device key/value documents backing the session store
//
// Both soft delete via deleted_at timestamps and exclude deleted records from queries by default.
// Sequence numbers provide stable, human-readable ordering (device #3) independent of UUIDs and
// creation timestamps; [NextSequence] atomically increments per-table counters in dedicated sequence tables.
package repositories
