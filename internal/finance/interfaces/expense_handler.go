package interfaces

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendwise/SpendWise/internal/finance/application"
	"github.com/spendwise/SpendWise/internal/finance/domain"
	financeErrors "github.com/spendwise/SpendWise/internal/finance/errors"
)

type ExpenseServiceInterface interface {
	CreateExpense(userID string, input application.ExpenseInput) (*domain.Expense, error)
	GetUserExpenses(userID string, filter domain.ExpenseFilter) ([]domain.Expense, error)
	UpdateExpense(userID, expenseID string, input application.ExpenseInput) (*domain.Expense, error)
	DeleteExpense(userID, expenseID string) error
}

type expenseRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Currency    string          `json:"currency"`
	Date        time.Time       `json:"date"`
}

func (req expenseRequest) toInput() (application.ExpenseInput, error) {
	currency, err := domain.ParseCurrency(req.Currency)
	if err != nil {
		return application.ExpenseInput{}, err
	}
	return application.ExpenseInput{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Currency:    currency,
		Date:        req.Date,
	}, nil
}

type ExpenseHandler struct {
	service      ExpenseServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewExpenseHandler(
	service ExpenseServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *ExpenseHandler {
	if service == nil {
		log.Fatal("Service must not be nil")
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
	return &ExpenseHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid currency code")
		return
	}

	expense, err := h.service.CreateExpense(userID, input)
	if err != nil {
		if financeErrors.IsValidationError(err) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, financeErrors.ErrUnknownCategory) {
			h.respondError(w, http.StatusBadRequest, "Unknown category")
			return
		}
		fmt.Println("Error during expense creation:", err.Error())
		h.respondError(w, http.StatusInternalServerError, "Failed to create expense")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Expense successfully created.",
		"data":    expense,
	})
}

func (h *ExpenseHandler) GetUserExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	filter, err := filterFromQuery(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	expenses, err := h.service.GetUserExpenses(userID, filter)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve expenses")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Expenses retrieved successfully.",
		"data":    expenses,
	})
}

func (h *ExpenseHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	expenseID := r.PathValue("id")
	if expenseID == "" {
		h.respondError(w, http.StatusBadRequest, "Missing expense id")
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid currency code")
		return
	}

	expense, err := h.service.UpdateExpense(userID, expenseID, input)
	if err != nil {
		if errors.Is(err, application.ErrExpenseNotFound) {
			h.respondError(w, http.StatusNotFound, "Expense not found")
			return
		}
		if financeErrors.IsValidationError(err) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, financeErrors.ErrUnknownCategory) {
			h.respondError(w, http.StatusBadRequest, "Unknown category")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Failed to update expense")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Expense successfully updated.",
		"data":    expense,
	})
}

func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	expenseID := r.PathValue("id")
	if expenseID == "" {
		h.respondError(w, http.StatusBadRequest, "Missing expense id")
		return
	}

	if err := h.service.DeleteExpense(userID, expenseID); err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to delete expense")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Expense successfully deleted.",
	})
}

// filterFromQuery builds an expense filter from list query parameters.
// Dates use YYYY-MM-DD, amounts are decimal strings.
func filterFromQuery(r *http.Request) (domain.ExpenseFilter, error) {
	var filter domain.ExpenseFilter

	filter.Category = r.URL.Query().Get("category")

	if raw := r.URL.Query().Get("currency"); raw != "" {
		currency, err := domain.ParseCurrency(raw)
		if err != nil {
			return domain.ExpenseFilter{}, errors.New("Invalid currency code")
		}
		filter.Currency = currency
	}

	if raw := r.URL.Query().Get("min_amount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return domain.ExpenseFilter{}, errors.New("Invalid min_amount value")
		}
		filter.MinAmount = amount
	}
	if raw := r.URL.Query().Get("max_amount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return domain.ExpenseFilter{}, errors.New("Invalid max_amount value")
		}
		filter.MaxAmount = amount
	}

	if raw := r.URL.Query().Get("start_date"); raw != "" {
		startDate, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return domain.ExpenseFilter{}, errors.New("Invalid start date format")
		}
		filter.StartDate = &startDate
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		endDate, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return domain.ExpenseFilter{}, errors.New("Invalid end date format")
		}
		filter.EndDate = &endDate
	}

	return filter, nil
}
