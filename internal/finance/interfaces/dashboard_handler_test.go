package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/spendwise/SpendWise/internal/exchange"
	"github.com/spendwise/SpendWise/internal/finance/application"
	"github.com/spendwise/SpendWise/internal/finance/domain"
)

type mockDashboardService struct {
	snapshot application.Snapshot
}

func (m *mockDashboardService) Snapshot(userID string) application.Snapshot {
	return m.snapshot
}

type mockRateProvider struct {
	table exchange.RateTable
	err   error
}

func (m *mockRateProvider) GetOrFetch(ctx context.Context, base string) (exchange.RateTable, error) {
	if m.err != nil {
		return exchange.RateTable{}, m.err
	}
	return m.table, nil
}

func dashboardExpense(day time.Time, amount, category string) domain.Expense {
	return domain.Expense{
		ID:       "exp-" + amount,
		UserID:   "user-1",
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Currency: domain.CurrencyEUR,
		Date:     day,
	}
}

func TestGetDashboard_AllWidgetsRender(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	monthExpenses := []domain.Expense{
		dashboardExpense(time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC), "50", "Food"),
		dashboardExpense(time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC), "20", "Transport"),
	}
	service := &mockDashboardService{snapshot: application.Snapshot{
		All:           application.Result[[]domain.Expense]{Data: monthExpenses},
		CurrentMonth:  application.Result[[]domain.Expense]{Data: monthExpenses},
		LastSevenDays: application.Result[[]domain.Expense]{Data: monthExpenses[:1]},
		GeneratedAt:   now,
	}}
	rates := &mockRateProvider{table: exchange.RateTable{Base: "EUR", Rates: map[string]float64{"EUR": 1}}}

	handler := NewDashboardHandler(service, &MockCategoryService{preferences: testPreferences()}, rates, respondJSON, respondError).
		WithClock(func() time.Time { return now })

	req := authedRequest(http.MethodGet, "/dashboard", "")
	w := httptest.NewRecorder()
	handler.GetDashboard(w, req)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)

	var response struct {
		Data struct {
			Currency      string                       `json:"currency"`
			MonthlyTotal  decimal.Decimal              `json:"monthly_total"`
			ByCategory    []application.CategoryBucket `json:"by_category"`
			CategoryChart []application.CategoryBucket `json:"category_chart"`
			LastSevenDays []application.DayBucket      `json:"last_seven_days"`
		} `json:"data"`
		WidgetErrors map[string]string `json:"widget_errors"`
	}
	err := json.NewDecoder(res.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Empty(t, response.WidgetErrors)
	assert.Equal(t, "EUR", response.Data.Currency)
	assert.True(t, response.Data.MonthlyTotal.Equal(decimal.RequireFromString("70")))

	// The Transport expense matches no configured category and lands in the
	// fallback bucket.
	assert.Len(t, response.Data.ByCategory, 2)
	assert.True(t, response.Data.ByCategory[0].Total.Equal(decimal.RequireFromString("50")))
	assert.True(t, response.Data.ByCategory[1].Total.Equal(decimal.RequireFromString("20")))
	assert.Len(t, response.Data.CategoryChart, 2)
	assert.Len(t, response.Data.LastSevenDays, 7)
}

func TestGetDashboard_FailedWindowReportsWidgetError(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	service := &mockDashboardService{snapshot: application.Snapshot{
		All:           application.Result[[]domain.Expense]{Data: []domain.Expense{}},
		CurrentMonth:  application.Result[[]domain.Expense]{Err: errors.New("query timed out")},
		LastSevenDays: application.Result[[]domain.Expense]{Data: []domain.Expense{}},
		GeneratedAt:   now,
	}}
	rates := &mockRateProvider{table: exchange.RateTable{Base: "EUR", Rates: map[string]float64{"EUR": 1}}}

	handler := NewDashboardHandler(service, &MockCategoryService{preferences: testPreferences()}, rates, respondJSON, respondError).
		WithClock(func() time.Time { return now })

	req := authedRequest(http.MethodGet, "/dashboard", "")
	w := httptest.NewRecorder()
	handler.GetDashboard(w, req)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)

	var response struct {
		Data         map[string]interface{} `json:"data"`
		WidgetErrors map[string]string      `json:"widget_errors"`
	}
	err := json.NewDecoder(res.Body).Decode(&response)
	assert.NoError(t, err)

	assert.Contains(t, response.WidgetErrors, "monthly_total")
	assert.Contains(t, response.WidgetErrors, "by_category")
	assert.Contains(t, response.Data, "all_expenses")
	assert.Contains(t, response.Data, "last_seven_days")
	assert.NotContains(t, response.Data, "monthly_total")
}

func TestGetDashboard_RateFetchFailureDegradesGracefully(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	expenses := []domain.Expense{
		dashboardExpense(time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC), "50", "Food"),
	}
	service := &mockDashboardService{snapshot: application.Snapshot{
		All:           application.Result[[]domain.Expense]{Data: expenses},
		CurrentMonth:  application.Result[[]domain.Expense]{Data: expenses},
		LastSevenDays: application.Result[[]domain.Expense]{Data: expenses},
		GeneratedAt:   now,
	}}
	rates := &mockRateProvider{err: errors.New("provider unavailable")}

	handler := NewDashboardHandler(service, &MockCategoryService{preferences: testPreferences()}, rates, respondJSON, respondError).
		WithClock(func() time.Time { return now })

	req := authedRequest(http.MethodGet, "/dashboard", "")
	w := httptest.NewRecorder()
	handler.GetDashboard(w, req)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)

	var response struct {
		Data         map[string]interface{} `json:"data"`
		WidgetErrors map[string]string      `json:"widget_errors"`
	}
	err := json.NewDecoder(res.Body).Decode(&response)
	assert.NoError(t, err)

	// Expenses here are already in the target currency, so totals still
	// render without a rate table.
	assert.Contains(t, response.WidgetErrors, "rates")
	assert.Contains(t, response.Data, "monthly_total")
}

func TestGetDashboard_PreferencesFailure(t *testing.T) {
	service := &mockDashboardService{}
	rates := &mockRateProvider{}

	handler := NewDashboardHandler(service, &MockCategoryService{shouldFail: true}, rates, respondJSON, respondError)

	req := authedRequest(http.MethodGet, "/dashboard", "")
	w := httptest.NewRecorder()
	handler.GetDashboard(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Result().StatusCode)
}
