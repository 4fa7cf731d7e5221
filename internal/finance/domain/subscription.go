package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	financeErrors "github.com/spendwise/SpendWise/internal/finance/errors"
)

type SubscriptionRepository interface {
	Save(subscription Subscription) error
	FindByID(subscriptionID string) (*Subscription, error)
	FindByUser(userID string) ([]Subscription, error)
	FindDueBetween(start, end time.Time) ([]Subscription, error)
	// Promote advances the subscription's charge date and inserts the
	// promoted expense in one transaction, guarded by a compare-and-set on
	// the last promoted day. Returns false when the occurrence was already
	// promoted, so repeated or concurrent triggers are no-ops.
	Promote(subscriptionID string, occurrenceDay, nextChargeDate time.Time, expense Expense) (bool, error)
	Update(subscription Subscription) error
	Delete(subscriptionID, userID string) error
	DeleteAllByUser(userID string) error
}

// Subscription is a recurring monthly charge. Date holds the single
// pending occurrence; LastPromoted marks the most recent day an occurrence
// was turned into an expense.
type Subscription struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Currency     Currency        `json:"currency"`
	Date         time.Time       `json:"date"`
	LastPromoted *time.Time      `json:"-"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (s *Subscription) Normalize() {
	s.Description = strings.TrimSpace(s.Description)
}

func (s *Subscription) Validate() error {
	if !s.Amount.IsPositive() {
		return financeErrors.NewValidationError("Amount must be greater than zero")
	}
	if s.Description == "" {
		return financeErrors.NewValidationError("Description must not be empty")
	}
	if len(s.Description) > 200 {
		return financeErrors.NewValidationError("Description must be of length less than 200")
	}
	if s.Date.IsZero() {
		return financeErrors.NewValidationError("Next charge date must be set")
	}
	return nil
}

// PromotedExpense builds the expense a due occurrence turns into, dated
// now and carrying the subscription's amount, description, category and
// currency.
func (s *Subscription) PromotedExpense(id string, now time.Time) Expense {
	expense := Expense{
		ID:          id,
		UserID:      s.UserID,
		Amount:      s.Amount,
		Description: s.Description,
		Category:    s.Category,
		Currency:    s.Currency,
		Date:        now,
		CreatedAt:   now,
	}
	expense.Normalize()
	return expense
}
