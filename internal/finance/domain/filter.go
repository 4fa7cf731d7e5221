package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseFilter composes with the base ownership and ordering predicate of
// every expense query. Zero-valued amount bounds are not applied.
type ExpenseFilter struct {
	Category  string
	MinAmount decimal.Decimal
	MaxAmount decimal.Decimal
	StartDate *time.Time
	EndDate   *time.Time
	Currency  Currency
}

// Normalized widens date bounds to whole days: the start becomes
// 00:00:00.000 of its day and the end 23:59:59.999, both inclusive.
func (f ExpenseFilter) Normalized() ExpenseFilter {
	if f.StartDate != nil {
		start := dayStart(*f.StartDate)
		f.StartDate = &start
	}
	if f.EndDate != nil {
		end := dayEnd(*f.EndDate)
		f.EndDate = &end
	}
	return f
}

func (f ExpenseFilter) IsZero() bool {
	return f.Category == "" && f.MinAmount.IsZero() && f.MaxAmount.IsZero() &&
		f.StartDate == nil && f.EndDate == nil && f.Currency == ""
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999000000, t.Location())
}
