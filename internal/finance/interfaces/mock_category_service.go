package interfaces

import (
	"errors"

	"github.com/spendwise/SpendWise/internal/finance/domain"
)

type MockCategoryService struct {
	preferences *domain.UserPreferences
	addErr      error
	removeErr   error
	shouldFail  bool
}

func (m *MockCategoryService) GetUserPreferences(userID string) (*domain.UserPreferences, error) {
	if m.shouldFail {
		return nil, errors.New("service error")
	}
	return m.preferences, nil
}

func (m *MockCategoryService) AddCategory(userID, name string) (*domain.Category, error) {
	if m.shouldFail {
		return nil, errors.New("service error")
	}
	if m.addErr != nil {
		return nil, m.addErr
	}
	return &domain.Category{ID: "cat-created", Name: name}, nil
}

func (m *MockCategoryService) RemoveCategory(userID, categoryID string) error {
	if m.shouldFail {
		return errors.New("service error")
	}
	return m.removeErr
}

func (m *MockCategoryService) UpdateCurrency(userID string, currency domain.Currency) error {
	if m.shouldFail {
		return errors.New("service error")
	}
	return nil
}
