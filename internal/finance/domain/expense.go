package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	financeErrors "github.com/spendwise/SpendWise/internal/finance/errors"
)

type ExpenseRepository interface {
	Save(expense Expense) error
	FindByID(expenseID string) (*Expense, error)
	FindByUser(userID string, filter ExpenseFilter) ([]Expense, error)
	FindByUserInRange(userID string, start, end time.Time) ([]Expense, error)
	Update(expense Expense) error
	Delete(expenseID, userID string) error
	DeleteAllByUser(userID string) error
}

type Expense struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	// DescriptionLower is derived from Description at write time and
	// backs case-insensitive search.
	DescriptionLower string    `json:"-"`
	Category         string    `json:"category"`
	Currency         Currency  `json:"currency"`
	Date             time.Time `json:"date"`
	CreatedAt        time.Time `json:"created_at"`
}

func (e *Expense) Normalize() {
	e.Description = strings.TrimSpace(e.Description)
	e.DescriptionLower = strings.ToLower(e.Description)
}

func (e *Expense) Validate() error {
	if !e.Amount.IsPositive() {
		return financeErrors.NewValidationError("Amount must be greater than zero")
	}
	if e.Description == "" {
		return financeErrors.NewValidationError("Description must not be empty")
	}
	if len(e.Description) > 200 {
		return financeErrors.NewValidationError("Description must be of length less than 200")
	}
	if e.Category == "" {
		return financeErrors.NewValidationError("Category must not be empty")
	}
	if e.Date.IsZero() {
		return financeErrors.NewValidationError("Date must be set")
	}
	return nil
}
