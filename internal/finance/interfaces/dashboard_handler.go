package interfaces

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/spendwise/SpendWise/internal/exchange"
	"github.com/spendwise/SpendWise/internal/finance/application"
)

type DashboardServiceInterface interface {
	Snapshot(userID string) application.Snapshot
}

type RateProvider interface {
	GetOrFetch(ctx context.Context, base string) (exchange.RateTable, error)
}

// DashboardHandler assembles the widget payload: expense lists, the
// monthly total, the trailing seven-day series and the per-category
// breakdown, all in the user's preferred currency. Widgets fail
// independently; a failed widget reports its error while the rest render.
type DashboardHandler struct {
	service         DashboardServiceInterface
	categoryService CategoryServiceInterface
	rates           RateProvider
	respondJSON     func(w http.ResponseWriter, status int, payload interface{})
	respondError    func(w http.ResponseWriter, status int, message string, errors ...[]string)
	now             func() time.Time
}

func NewDashboardHandler(
	service DashboardServiceInterface,
	categoryService CategoryServiceInterface,
	rates RateProvider,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *DashboardHandler {
	if service == nil || categoryService == nil || rates == nil {
		log.Fatal("Dashboard dependencies must not be nil")
		return nil
	}
	if respondJSON == nil {
		log.Fatal("RespondJSON function must not be nil")
		return nil
	}
	if respondError == nil {
		log.Fatal("RespondError function must not be nil")
		return nil
	}
	return &DashboardHandler{
		service:         service,
		categoryService: categoryService,
		rates:           rates,
		respondJSON:     respondJSON,
		respondError:    respondError,
		now:             time.Now,
	}
}

// WithClock replaces the handler's time source. Test hook.
func (h *DashboardHandler) WithClock(now func() time.Time) *DashboardHandler {
	h.now = now
	return h
}

func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	preferences, err := h.categoryService.GetUserPreferences(userID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve preferences")
		return
	}
	target := preferences.Currency

	var rates map[string]float64
	widgetErrors := map[string]string{}
	table, err := h.rates.GetOrFetch(r.Context(), string(target))
	if err != nil {
		log.Printf("Could not fetch exchange rates for %s: %v", target, err)
		widgetErrors["rates"] = "Exchange rates are currently unavailable"
	} else {
		rates = table.Rates
	}

	snapshot := h.service.Snapshot(userID)

	data := map[string]interface{}{
		"currency":     target,
		"categories":   preferences.Categories,
		"generated_at": snapshot.GeneratedAt,
	}

	if snapshot.All.Err != nil {
		widgetErrors["all_expenses"] = "Failed to load expenses"
	} else {
		data["all_expenses"] = snapshot.All.Data
	}

	if snapshot.CurrentMonth.Err != nil {
		widgetErrors["monthly_total"] = "Failed to load this month's expenses"
		widgetErrors["by_category"] = "Failed to load this month's expenses"
	} else {
		total, err := application.MonthlyTotal(snapshot.CurrentMonth.Data, rates, target)
		if err != nil {
			widgetErrors["monthly_total"] = "Failed to convert this month's expenses"
		} else {
			data["monthly_total"] = total
		}

		buckets, err := application.CategoryBuckets(snapshot.CurrentMonth.Data, preferences.Categories, rates, target)
		if err != nil {
			widgetErrors["by_category"] = "Failed to convert this month's expenses"
		} else {
			data["by_category"] = buckets
			data["category_chart"] = application.ChartBuckets(buckets)
		}
	}

	if snapshot.LastSevenDays.Err != nil {
		widgetErrors["last_seven_days"] = "Failed to load the last week's expenses"
	} else {
		today := h.now()
		buckets, err := application.LastSevenDayBuckets(snapshot.LastSevenDays.Data, rates, target, today)
		if err != nil {
			widgetErrors["last_seven_days"] = "Failed to convert the last week's expenses"
		} else {
			data["last_seven_days"] = buckets
		}
	}

	payload := map[string]interface{}{
		"status":  "success",
		"message": "Dashboard retrieved successfully.",
		"data":    data,
	}
	if len(widgetErrors) > 0 {
		payload["widget_errors"] = widgetErrors
	}

	h.respondJSON(w, http.StatusOK, payload)
}
