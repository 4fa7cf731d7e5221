package interfaces

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/spendwise/SpendWise/internal/finance/domain"
)

type CategoryServiceInterface interface {
	GetUserPreferences(userID string) (*domain.UserPreferences, error)
	AddCategory(userID, name string) (*domain.Category, error)
	RemoveCategory(userID, categoryID string) error
	UpdateCurrency(userID string, currency domain.Currency) error
}

type CategoryHandler struct {
	service      CategoryServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewCategoryHandler(
	service CategoryServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *CategoryHandler {
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
	return &CategoryHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *CategoryHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	preferences, err := h.service.GetUserPreferences(userID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve preferences")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Preferences retrieved successfully.",
		"data":    preferences,
	})
}

func (h *CategoryHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	category, err := h.service.AddCategory(userID, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrBlankCategoryName) {
			h.respondError(w, http.StatusBadRequest, "Category name must not be blank")
			return
		}
		if errors.Is(err, domain.ErrDuplicateCategoryName) {
			h.respondError(w, http.StatusConflict, "Category already exists")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Failed to add category")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Category successfully added.",
		"data":    category,
	})
}

func (h *CategoryHandler) RemoveCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	categoryID := r.PathValue("id")
	if categoryID == "" {
		h.respondError(w, http.StatusBadRequest, "Missing category id")
		return
	}

	if err := h.service.RemoveCategory(userID, categoryID); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			h.respondError(w, http.StatusNotFound, "Category not found")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Failed to remove category")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Category successfully removed.",
	})
}

func (h *CategoryHandler) UpdateCurrency(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Currency string `json:"currency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	currency, err := domain.ParseCurrency(req.Currency)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid currency code")
		return
	}

	if err := h.service.UpdateCurrency(userID, currency); err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to update currency")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Currency successfully updated.",
		"data":    map[string]string{"currency": string(currency)},
	})
}
