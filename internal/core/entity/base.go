// Package entity holds the fields shared by every persisted shop entity.
package entity

import (
	"time"

	"kiosko/internal/core/id"
)

// Base contains identity, audit timestamps and the optimistic locking version.
//
// Entities embedding Base are immutable values: transitions return a copy with
// UpdatedAt moved forward. Version is owned by the repository, which writes
// version+1 guarded by the version that was read.
type Base struct {
	ID        id.ID     `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	Version   int       `db:"version" json:"version"`
}

// NewBase creates a Base for a new entity at version 1.
func NewBase(entityID id.ID, now time.Time) Base {
	return Base{
		ID:        entityID,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
}

// Touched returns a copy with UpdatedAt set to now.
func (b Base) Touched(now time.Time) Base {
	b.UpdatedAt = now
	return b
}

// NextVersion returns a copy carrying the version written by a successful update.
func (b Base) NextVersion() Base {
	b.Version++
	return b
}
