package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDistinctCount(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	assert.Equal(t, 0, distinctCount(nil))
	assert.Equal(t, 2, distinctCount([]uuid.UUID{a, b}))

	// Duplicate requested IDs must not be counted twice, or a valid
	// lookup would be mistaken for a missing skill.
	assert.Equal(t, 2, distinctCount([]uuid.UUID{a, b, a, a}))
}
