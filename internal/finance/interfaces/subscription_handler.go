package interfaces

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/spendwise/SpendWise/internal/finance/application"
	"github.com/spendwise/SpendWise/internal/finance/domain"
	financeErrors "github.com/spendwise/SpendWise/internal/finance/errors"
)

type SubscriptionServiceInterface interface {
	CreateSubscription(userID string, input application.ExpenseInput) (*domain.Subscription, error)
	GetUserSubscriptions(userID string) ([]domain.Subscription, error)
	UpdateSubscription(userID, subscriptionID string, input application.ExpenseInput) (*domain.Subscription, error)
	DeleteSubscription(userID, subscriptionID string) error
}

type SubscriptionHandler struct {
	service      SubscriptionServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewSubscriptionHandler(
	service SubscriptionServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *SubscriptionHandler {
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
	return &SubscriptionHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *SubscriptionHandler) CreateSubscription(w http.ResponseWriter, r *http.Request) {
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

	subscription, err := h.service.CreateSubscription(userID, input)
	if err != nil {
		if financeErrors.IsValidationError(err) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, financeErrors.ErrUnknownCategory) {
			h.respondError(w, http.StatusBadRequest, "Unknown category")
			return
		}
		fmt.Println("Error during subscription creation:", err.Error())
		h.respondError(w, http.StatusInternalServerError, "Failed to create subscription")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Subscription successfully created.",
		"data":    subscription,
	})
}

func (h *SubscriptionHandler) GetUserSubscriptions(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	subscriptions, err := h.service.GetUserSubscriptions(userID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve subscriptions")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Subscriptions retrieved successfully.",
		"data":    subscriptions,
	})
}

func (h *SubscriptionHandler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	subscriptionID := r.PathValue("id")
	if subscriptionID == "" {
		h.respondError(w, http.StatusBadRequest, "Missing subscription id")
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

	subscription, err := h.service.UpdateSubscription(userID, subscriptionID, input)
	if err != nil {
		if errors.Is(err, application.ErrSubscriptionNotFound) {
			h.respondError(w, http.StatusNotFound, "Subscription not found")
			return
		}
		if financeErrors.IsValidationError(err) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Failed to update subscription")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Subscription successfully updated.",
		"data":    subscription,
	})
}

func (h *SubscriptionHandler) DeleteSubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	subscriptionID := r.PathValue("id")
	if subscriptionID == "" {
		h.respondError(w, http.StatusBadRequest, "Missing subscription id")
		return
	}

	if err := h.service.DeleteSubscription(userID, subscriptionID); err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to delete subscription")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Subscription successfully deleted.",
	})
}
