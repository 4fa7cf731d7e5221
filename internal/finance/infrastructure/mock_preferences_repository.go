package infrastructure

import (
	"github.com/spendwise/SpendWise/internal/finance/domain"
)

type MockPreferencesRepository struct {
	Preferences map[string]*domain.UserPreferences
	Err         error
}

func (m *MockPreferencesRepository) GetPreferences(userID string) (*domain.UserPreferences, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	preferences, ok := m.Preferences[userID]
	if !ok {
		return nil, ErrPreferencesNotFound
	}
	return preferences, nil
}

func (m *MockPreferencesRepository) UpdateCurrency(userID string, currency domain.Currency) error {
	if m.Err != nil {
		return m.Err
	}
	preferences, ok := m.Preferences[userID]
	if !ok {
		return ErrPreferencesNotFound
	}
	preferences.Currency = currency
	return nil
}

func (m *MockPreferencesRepository) UpdateCategories(userID string, categories domain.CategorySet) error {
	if m.Err != nil {
		return m.Err
	}
	preferences, ok := m.Preferences[userID]
	if !ok {
		return ErrPreferencesNotFound
	}
	preferences.Categories = categories
	return nil
}
