package application

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendwise/SpendWise/internal/finance/domain"
	financeErrors "github.com/spendwise/SpendWise/internal/finance/errors"
)

// The reducers below are pure: dashboard widgets recompute them on every
// snapshot. All arithmetic stays in decimal space; rounding to two places
// happens once per presented figure, never per addend.

// convertAmount expresses an amount in the target currency using
// "units of expense currency per one unit of target".
func convertAmount(amount decimal.Decimal, currency, target domain.Currency, rates map[string]float64) (decimal.Decimal, error) {
	if currency == target {
		return amount, nil
	}
	rate, ok := rates[string(currency)]
	if !ok || rate == 0 {
		return decimal.Zero, financeErrors.NewMissingRateError(string(currency))
	}
	return amount.Div(decimal.NewFromFloat(rate)), nil
}

// MonthlyTotal sums the given expenses in the target currency. An empty
// set yields zero; a missing rate for a needed currency is an error rather
// than a division against an absent entry.
func MonthlyTotal(expenses []domain.Expense, rates map[string]float64, target domain.Currency) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, expense := range expenses {
		converted, err := convertAmount(expense.Amount, expense.Currency, target, rates)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(converted)
	}
	return total.Round(2), nil
}

type DayBucket struct {
	Day   time.Time       `json:"day"`
	Total decimal.Decimal `json:"total"`
}

// LastSevenDayBuckets buckets expenses into seven ordered slots for
// today-6 through today. Matching is by exact calendar day, not weekday,
// since the trailing window can span month boundaries. Expenses outside
// the window are excluded.
func LastSevenDayBuckets(expenses []domain.Expense, rates map[string]float64, target domain.Currency, today time.Time) ([]DayBucket, error) {
	buckets := make([]DayBucket, 7)
	for i := range buckets {
		buckets[i] = DayBucket{
			Day:   calendarDay(today.AddDate(0, 0, i-6)),
			Total: decimal.Zero,
		}
	}

	for _, expense := range expenses {
		day := calendarDay(expense.Date.In(today.Location()))
		for i := range buckets {
			if buckets[i].Day.Equal(day) {
				converted, err := convertAmount(expense.Amount, expense.Currency, target, rates)
				if err != nil {
					return nil, err
				}
				buckets[i].Total = buckets[i].Total.Add(converted)
				break
			}
		}
	}

	for i := range buckets {
		buckets[i].Total = buckets[i].Total.Round(2)
	}
	return buckets, nil
}

type CategoryBucket struct {
	Category domain.Category `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// CategoryBuckets sums expenses per configured category, in stored order,
// matching names case-insensitively. Expenses whose category matches no
// configured name land in the last bucket instead of being dropped.
func CategoryBuckets(expenses []domain.Expense, categories domain.CategorySet, rates map[string]float64, target domain.Currency) ([]CategoryBucket, error) {
	buckets := make([]CategoryBucket, 0, len(categories))
	for _, category := range categories {
		buckets = append(buckets, CategoryBucket{Category: category, Total: decimal.Zero})
	}

	for _, expense := range expenses {
		slot := len(buckets) - 1
		for i, bucket := range buckets {
			if strings.EqualFold(bucket.Category.Name, expense.Category) {
				slot = i
				break
			}
		}
		if slot < 0 {
			// No categories configured at all; nothing to attribute to.
			continue
		}
		converted, err := convertAmount(expense.Amount, expense.Currency, target, rates)
		if err != nil {
			return nil, err
		}
		buckets[slot].Total = buckets[slot].Total.Add(converted)
	}

	for i := range buckets {
		buckets[i].Total = buckets[i].Total.Round(2)
	}
	return buckets, nil
}

// ChartBuckets drops zero-amount buckets from chart payloads. The full
// bucket list stays available to callers that need it.
func ChartBuckets(buckets []CategoryBucket) []CategoryBucket {
	out := make([]CategoryBucket, 0, len(buckets))
	for _, bucket := range buckets {
		if !bucket.Total.IsZero() {
			out = append(out, bucket)
		}
	}
	return out
}

func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
