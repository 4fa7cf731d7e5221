package application

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/spendwise/SpendWise/internal/finance/domain"
	financeErrors "github.com/spendwise/SpendWise/internal/finance/errors"
)

func expenseOn(day time.Time, amount string, category string, currency domain.Currency) domain.Expense {
	return domain.Expense{
		ID:       "exp-" + amount,
		UserID:   "user-1",
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Currency: currency,
		Date:     day,
	}
}

func TestMonthlyTotal_SameCurrencyIsExact(t *testing.T) {
	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	expenses := []domain.Expense{
		expenseOn(day, "0.1", "Food", domain.CurrencyEUR),
		expenseOn(day, "0.2", "Food", domain.CurrencyEUR),
	}

	total, err := MonthlyTotal(expenses, nil, domain.CurrencyEUR)

	assert.NoError(t, err)
	assert.Equal(t, "0.3", total.String())
}

func TestMonthlyTotal_EmptySetIsZero(t *testing.T) {
	total, err := MonthlyTotal(nil, nil, domain.CurrencyEUR)

	assert.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestMonthlyTotal_ConvertsThroughRates(t *testing.T) {
	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	expenses := []domain.Expense{
		expenseOn(day, "117.2", "Food", domain.CurrencyRSD),
		expenseOn(day, "10", "Food", domain.CurrencyEUR),
	}
	rates := map[string]float64{"RSD": 117.2, "EUR": 1}

	total, err := MonthlyTotal(expenses, rates, domain.CurrencyEUR)

	assert.NoError(t, err)
	assert.Equal(t, "11", total.String())
}

func TestMonthlyTotal_MissingRateIsAnError(t *testing.T) {
	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	expenses := []domain.Expense{
		expenseOn(day, "100", "Food", domain.CurrencyUSD),
	}
	rates := map[string]float64{"RSD": 117.2}

	_, err := MonthlyTotal(expenses, rates, domain.CurrencyEUR)

	assert.Error(t, err)
	assert.True(t, financeErrors.IsMissingRateError(err))
}

func TestMonthlyTotal_RoundsOncePerFigure(t *testing.T) {
	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	// Each addend rounds down alone; only the final sum may round.
	expenses := []domain.Expense{
		expenseOn(day, "0.004", "Food", domain.CurrencyEUR),
		expenseOn(day, "0.004", "Food", domain.CurrencyEUR),
	}

	total, err := MonthlyTotal(expenses, nil, domain.CurrencyEUR)

	assert.NoError(t, err)
	assert.Equal(t, "0.01", total.String())
}

func TestLastSevenDayBuckets_PlacesByCalendarDay(t *testing.T) {
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	expenses := []domain.Expense{
		expenseOn(today.Add(9*time.Hour), "10", "Food", domain.CurrencyEUR),
		expenseOn(today.AddDate(0, 0, -3).Add(20*time.Hour), "5", "Food", domain.CurrencyEUR),
		expenseOn(today.AddDate(0, 0, -9), "100", "Food", domain.CurrencyEUR),
	}

	buckets, err := LastSevenDayBuckets(expenses, nil, domain.CurrencyEUR, today)

	assert.NoError(t, err)
	assert.Len(t, buckets, 7)
	assert.Equal(t, today.AddDate(0, 0, -6), buckets[0].Day)
	assert.Equal(t, today, buckets[6].Day)
	assert.Equal(t, "5", buckets[3].Total.String())
	assert.Equal(t, "10", buckets[6].Total.String())

	// The expense from nine days ago is outside the window entirely.
	sum := decimal.Zero
	for _, bucket := range buckets {
		sum = sum.Add(bucket.Total)
	}
	assert.Equal(t, "15", sum.String())
}

func TestLastSevenDayBuckets_EmptySetYieldsSevenZeroBuckets(t *testing.T) {
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	buckets, err := LastSevenDayBuckets(nil, nil, domain.CurrencyEUR, today)

	assert.NoError(t, err)
	assert.Len(t, buckets, 7)
	for _, bucket := range buckets {
		assert.True(t, bucket.Total.IsZero())
	}
}

func TestLastSevenDayBuckets_SpansMonthBoundary(t *testing.T) {
	today := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	expenses := []domain.Expense{
		expenseOn(time.Date(2024, 2, 27, 15, 0, 0, 0, time.UTC), "8", "Food", domain.CurrencyEUR),
	}

	buckets, err := LastSevenDayBuckets(expenses, nil, domain.CurrencyEUR, today)

	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC), buckets[2].Day)
	assert.Equal(t, "8", buckets[2].Total.String())
}

func TestCategoryBuckets_AttributesKnownAndFallsBackForUnknown(t *testing.T) {
	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	categories := domain.CategorySet{
		{ID: "c1", Name: "Food"},
		{ID: "c2", Name: "Other"},
	}
	expenses := []domain.Expense{
		expenseOn(day, "50", "Food", domain.CurrencyEUR),
		expenseOn(day, "20", "Transport", domain.CurrencyEUR),
	}

	buckets, err := CategoryBuckets(expenses, categories, nil, domain.CurrencyEUR)

	assert.NoError(t, err)
	assert.Len(t, buckets, 2)
	assert.Equal(t, "Food", buckets[0].Category.Name)
	assert.Equal(t, "50", buckets[0].Total.String())
	assert.Equal(t, "Other", buckets[1].Category.Name)
	assert.Equal(t, "20", buckets[1].Total.String())

	total, err := MonthlyTotal(expenses, nil, domain.CurrencyEUR)
	assert.NoError(t, err)
	assert.Equal(t, "70", total.String())
}

func TestCategoryBuckets_MatchesCaseInsensitively(t *testing.T) {
	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	categories := domain.CategorySet{
		{ID: "c1", Name: "Food"},
		{ID: "c2", Name: "Other"},
	}
	expenses := []domain.Expense{
		expenseOn(day, "12", "food", domain.CurrencyEUR),
	}

	buckets, err := CategoryBuckets(expenses, categories, nil, domain.CurrencyEUR)

	assert.NoError(t, err)
	assert.Equal(t, "12", buckets[0].Total.String())
	assert.True(t, buckets[1].Total.IsZero())
}

func TestCategoryBuckets_NoCategoriesConfigured(t *testing.T) {
	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	expenses := []domain.Expense{
		expenseOn(day, "12", "Food", domain.CurrencyEUR),
	}

	buckets, err := CategoryBuckets(expenses, nil, nil, domain.CurrencyEUR)

	assert.NoError(t, err)
	assert.Empty(t, buckets)
}

func TestChartBuckets_DropsZeroBuckets(t *testing.T) {
	buckets := []CategoryBucket{
		{Category: domain.Category{ID: "c1", Name: "Food"}, Total: decimal.RequireFromString("50")},
		{Category: domain.Category{ID: "c2", Name: "Travel"}, Total: decimal.Zero},
		{Category: domain.Category{ID: "c3", Name: "Other"}, Total: decimal.RequireFromString("20")},
	}

	chart := ChartBuckets(buckets)

	assert.Len(t, chart, 2)
	assert.Equal(t, "Food", chart[0].Category.Name)
	assert.Equal(t, "Other", chart[1].Category.Name)
}
