package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExpenseFilter_NormalizedWidensDateBoundsToWholeDays(t *testing.T) {
	start := time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)
	end := time.Date(2024, 3, 12, 9, 15, 0, 0, time.UTC)

	normalized := ExpenseFilter{StartDate: &start, EndDate: &end}.Normalized()

	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), *normalized.StartDate)
	assert.Equal(t, time.Date(2024, 3, 12, 23, 59, 59, 999000000, time.UTC), *normalized.EndDate)
}

func TestExpenseFilter_NormalizedLeavesNilBoundsAlone(t *testing.T) {
	normalized := ExpenseFilter{Category: "Food"}.Normalized()

	assert.Nil(t, normalized.StartDate)
	assert.Nil(t, normalized.EndDate)
	assert.Equal(t, "Food", normalized.Category)
}

func TestExpenseFilter_IsZero(t *testing.T) {
	assert.True(t, ExpenseFilter{}.IsZero())

	now := time.Now()
	assert.False(t, ExpenseFilter{Category: "Food"}.IsZero())
	assert.False(t, ExpenseFilter{StartDate: &now}.IsZero())
	assert.False(t, ExpenseFilter{Currency: CurrencyEUR}.IsZero())
}
