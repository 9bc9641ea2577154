// Package id provides UUIDv7 generation for all shop entities.
// UUIDv7 is time-ordered, allowing natural sorting by creation time.
package id

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// ID is a type alias for UUID, used across all entities.
type ID = uuid.UUID

// Generator produces identifiers for new entities.
// Services take a Generator so tests can use predictable ids.
type Generator interface {
	New() ID
}

// New generates a new UUIDv7 (time-ordered UUID).
func New() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to V4 if V7 fails (should never happen)
		return uuid.New()
	}
	return id
}

// V7 is the production Generator.
type V7 struct{}

// New implements Generator.
func (V7) New() ID { return New() }

// SequenceGenerator yields 00000000-0000-7000-8000-<counter> ids in order.
// Use only in tests.
type SequenceGenerator struct {
	n atomic.Uint64
}

// New implements Generator.
func (g *SequenceGenerator) New() ID {
	n := g.n.Add(1)
	return uuid.MustParse(fmt.Sprintf("00000000-0000-7000-8000-%012x", n))
}

// Parse converts string to ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse converts string to ID, panics on error.
// Use only for constants and tests.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns zero-value UUID.
func Nil() ID {
	return uuid.Nil
}

// IsNil checks if ID is zero-value.
func IsNil(id ID) bool {
	return id == uuid.Nil
}

// Ptr returns a pointer to a copy of id, nil for the zero value.
func Ptr(id ID) *ID {
	if IsNil(id) {
		return nil
	}
	return &id
}
