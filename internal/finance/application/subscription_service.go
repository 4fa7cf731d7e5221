package application

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	emailService "github.com/spendwise/SpendWise/internal/email"
	"github.com/spendwise/SpendWise/internal/finance/domain"
	financeErrors "github.com/spendwise/SpendWise/internal/finance/errors"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

// RecipientResolver looks up the notification address for a user. The cmd
// wiring adapts the user service to it.
type RecipientResolver interface {
	RecipientForUser(userID string) (email string, name string, err error)
}

type SubscriptionService struct {
	repo            domain.SubscriptionRepository
	categoryService CategoryServiceInterface
	recipients      RecipientResolver
	emailService    emailService.EmailSender
	now             func() time.Time
}

func NewSubscriptionService(repo domain.SubscriptionRepository, categoryService CategoryServiceInterface, recipients RecipientResolver, emailSender emailService.EmailSender) *SubscriptionService {
	return &SubscriptionService{
		repo:            repo,
		categoryService: categoryService,
		recipients:      recipients,
		emailService:    emailSender,
		now:             time.Now,
	}
}

// WithClock replaces the service's time source. Test hook.
func (s *SubscriptionService) WithClock(now func() time.Time) *SubscriptionService {
	s.now = now
	return s
}

func (s *SubscriptionService) CreateSubscription(userID string, input ExpenseInput) (*domain.Subscription, error) {
	categories, err := s.categoryService.GetUserCategories(userID)
	if err != nil {
		return nil, err
	}
	if !categories.ContainsName(input.Category) {
		return nil, financeErrors.ErrUnknownCategory
	}

	subscription := domain.Subscription{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      input.Amount,
		Description: input.Description,
		Category:    input.Category,
		Currency:    input.Currency,
		Date:        input.Date,
		CreatedAt:   s.now().UTC(),
	}
	subscription.Normalize()
	if err := subscription.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Save(subscription); err != nil {
		return nil, err
	}
	return &subscription, nil
}

func (s *SubscriptionService) GetUserSubscriptions(userID string) ([]domain.Subscription, error) {
	subscriptions, err := s.repo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	if subscriptions == nil {
		return []domain.Subscription{}, nil
	}
	return subscriptions, nil
}

func (s *SubscriptionService) UpdateSubscription(userID, subscriptionID string, input ExpenseInput) (*domain.Subscription, error) {
	existing, err := s.repo.FindByID(subscriptionID)
	if err != nil {
		return nil, err
	}
	if existing == nil || existing.UserID != userID {
		return nil, ErrSubscriptionNotFound
	}

	categories, err := s.categoryService.GetUserCategories(userID)
	if err != nil {
		return nil, err
	}
	if !categories.ContainsName(input.Category) {
		return nil, financeErrors.ErrUnknownCategory
	}

	existing.Amount = input.Amount
	existing.Description = input.Description
	existing.Category = input.Category
	existing.Currency = input.Currency
	existing.Date = input.Date
	existing.Normalize()
	if err := existing.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(*existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *SubscriptionService) DeleteSubscription(userID, subscriptionID string) error {
	return s.repo.Delete(subscriptionID, userID)
}

// PromoteDue turns every subscription due today into an expense and
// advances its charge date by exactly one calendar month. The repository
// performs both writes in a single transaction keyed by (subscription,
// occurrence day), so a double fire promotes at most once. One failed
// subscription never stops the rest of the cycle.
func (s *SubscriptionService) PromoteDue() error {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	due, err := s.repo.FindDueBetween(dayStart, dayEnd)
	if err != nil {
		return err
	}

	for _, subscription := range due {
		expense := subscription.PromotedExpense(uuid.NewString(), now.UTC())
		nextChargeDate := subscription.Date.AddDate(0, 1, 0)

		promoted, err := s.repo.Promote(subscription.ID, dayStart, nextChargeDate, expense)
		if err != nil {
			log.Printf("Error promoting subscription %s: %v", subscription.ID, err)
			continue
		}
		if !promoted {
			// Another trigger already handled this occurrence.
			continue
		}

		s.notifyPromotion(subscription)
	}

	return nil
}

func (s *SubscriptionService) notifyPromotion(subscription domain.Subscription) {
	if s.recipients == nil || s.emailService == nil {
		return
	}
	email, name, err := s.recipients.RecipientForUser(subscription.UserID)
	if err != nil {
		log.Printf("Could not resolve recipient for user %s: %v", subscription.UserID, err)
		return
	}
	s.emailService.QueueEmail(email, emailService.SubscriptionPromotedData{
		UserName:    name,
		Description: subscription.Description,
		Amount:      subscription.Amount.StringFixed(2),
		Currency:    string(subscription.Currency),
	})
}
