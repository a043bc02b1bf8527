package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysUntil(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("due later today counts as today", func(t *testing.T) {
		due := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
		assert.Equal(t, 1, daysUntil(now, due))
	})

	t.Run("due exactly now", func(t *testing.T) {
		assert.Equal(t, 0, daysUntil(now, now))
	})

	t.Run("due in a week", func(t *testing.T) {
		due := time.Date(2026, 3, 17, 9, 0, 0, 0, time.UTC)
		assert.Equal(t, 7, daysUntil(now, due))
	})

	t.Run("overdue is negative", func(t *testing.T) {
		due := time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC)
		assert.Equal(t, -2, daysUntil(now, due))
	})

	t.Run("overdue partial day rounds toward zero", func(t *testing.T) {
		due := time.Date(2026, 3, 9, 20, 0, 0, 0, time.UTC)
		assert.Equal(t, 0, daysUntil(now, due))
	})
}
