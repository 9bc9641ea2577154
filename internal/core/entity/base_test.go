package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"kiosko/internal/core/id"
)

func TestBaseIsCopiedOnTransition(t *testing.T) {
	created := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
	b := NewBase(id.New(), created)

	later := created.Add(time.Hour)
	touched := b.Touched(later)
	bumped := touched.NextVersion()

	assert.Equal(t, created, b.UpdatedAt)
	assert.Equal(t, later, touched.UpdatedAt)
	assert.Equal(t, 1, touched.Version)
	assert.Equal(t, 2, bumped.Version)
	assert.Equal(t, b.ID, bumped.ID)
}
