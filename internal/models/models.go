package models

import "time"

// Model is a database-backed entity. Client state documents are not models; they live in the
// session store as JSON.
type Model interface {
	ID() string
	Sequence() int // per-table counter, stable across soft deletes
	CreatedAt() time.Time
	UpdatedAt() time.Time
	Validate() error
}

// Criteria filters List queries by column. Soft-deleted rows are always excluded.
type Criteria = map[string]any

// Repository is the CRUD surface shared by the SQLite repositories.
type Repository[T Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	Update(model T) error
	Delete(id string) error
	List(criteria Criteria) ([]T, error)
}

var _ Model = (*Device)(nil)
