package infrastructure

import (
	"time"

	"github.com/spendwise/SpendWise/internal/finance/domain"
)

// MockSubscriptionRepository mimics the transactional promotion contract
// in memory: the compare-and-set on LastPromoted and the expense insert
// happen together or not at all.
type MockSubscriptionRepository struct {
	Subscriptions    []domain.Subscription
	PromotedExpenses []domain.Expense
	Err              error
	PromoteErr       error
}

func (m *MockSubscriptionRepository) Save(subscription domain.Subscription) error {
	if m.Err != nil {
		return m.Err
	}
	m.Subscriptions = append(m.Subscriptions, subscription)
	return nil
}

func (m *MockSubscriptionRepository) FindByID(subscriptionID string) (*domain.Subscription, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, subscription := range m.Subscriptions {
		if subscription.ID == subscriptionID {
			found := subscription
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MockSubscriptionRepository) FindByUser(userID string) ([]domain.Subscription, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var filtered []domain.Subscription
	for _, subscription := range m.Subscriptions {
		if subscription.UserID == userID {
			filtered = append(filtered, subscription)
		}
	}
	return filtered, nil
}

func (m *MockSubscriptionRepository) FindDueBetween(start, end time.Time) ([]domain.Subscription, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var due []domain.Subscription
	for _, subscription := range m.Subscriptions {
		if !subscription.Date.Before(start) && subscription.Date.Before(end) {
			due = append(due, subscription)
		}
	}
	return due, nil
}

func (m *MockSubscriptionRepository) Promote(subscriptionID string, occurrenceDay, nextChargeDate time.Time, expense domain.Expense) (bool, error) {
	if m.PromoteErr != nil {
		return false, m.PromoteErr
	}
	for i := range m.Subscriptions {
		if m.Subscriptions[i].ID != subscriptionID {
			continue
		}
		last := m.Subscriptions[i].LastPromoted
		if last != nil && !last.Before(occurrenceDay) {
			return false, nil
		}
		m.Subscriptions[i].Date = nextChargeDate
		day := occurrenceDay
		m.Subscriptions[i].LastPromoted = &day
		m.PromotedExpenses = append(m.PromotedExpenses, expense)
		return true, nil
	}
	return false, nil
}

func (m *MockSubscriptionRepository) Update(subscription domain.Subscription) error {
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Subscriptions {
		if m.Subscriptions[i].ID == subscription.ID {
			m.Subscriptions[i] = subscription
			return nil
		}
	}
	return nil
}

func (m *MockSubscriptionRepository) Delete(subscriptionID, userID string) error {
	for i := range m.Subscriptions {
		if m.Subscriptions[i].ID == subscriptionID && m.Subscriptions[i].UserID == userID {
			m.Subscriptions = append(m.Subscriptions[:i], m.Subscriptions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MockSubscriptionRepository) DeleteAllByUser(userID string) error {
	var kept []domain.Subscription
	for _, subscription := range m.Subscriptions {
		if subscription.UserID != userID {
			kept = append(kept, subscription)
		}
	}
	m.Subscriptions = kept
	return nil
}
