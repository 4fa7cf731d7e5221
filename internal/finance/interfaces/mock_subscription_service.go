package interfaces

import (
	"errors"

	"github.com/spendwise/SpendWise/internal/finance/application"
	"github.com/spendwise/SpendWise/internal/finance/domain"
)

type MockSubscriptionService struct {
	subscriptions []domain.Subscription
	err           error
	shouldFail    bool
}

func (m *MockSubscriptionService) CreateSubscription(userID string, input application.ExpenseInput) (*domain.Subscription, error) {
	if m.shouldFail {
		return nil, errors.New("service error")
	}
	if m.err != nil {
		return nil, m.err
	}
	subscription := domain.Subscription{
		ID:          "sub-created",
		UserID:      userID,
		Amount:      input.Amount,
		Description: input.Description,
		Category:    input.Category,
		Currency:    input.Currency,
		Date:        input.Date,
	}
	return &subscription, nil
}

func (m *MockSubscriptionService) GetUserSubscriptions(userID string) ([]domain.Subscription, error) {
	if m.shouldFail {
		return nil, errors.New("service error")
	}
	return m.subscriptions, nil
}

func (m *MockSubscriptionService) UpdateSubscription(userID, subscriptionID string, input application.ExpenseInput) (*domain.Subscription, error) {
	if m.shouldFail {
		return nil, errors.New("service error")
	}
	if m.err != nil {
		return nil, m.err
	}
	subscription := domain.Subscription{
		ID:          subscriptionID,
		UserID:      userID,
		Amount:      input.Amount,
		Description: input.Description,
		Category:    input.Category,
		Currency:    input.Currency,
		Date:        input.Date,
	}
	return &subscription, nil
}

func (m *MockSubscriptionService) DeleteSubscription(userID, subscriptionID string) error {
	if m.shouldFail {
		return errors.New("service error")
	}
	return nil
}
