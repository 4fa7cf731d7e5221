package application

import (
	"github.com/spendwise/SpendWise/internal/finance/domain"
)

// CategoryService manages the category array stored on the user's
// preferences document.
type CategoryService struct {
	repo domain.PreferencesRepository
}

func NewCategoryService(repo domain.PreferencesRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) GetUserCategories(userID string) (domain.CategorySet, error) {
	preferences, err := s.repo.GetPreferences(userID)
	if err != nil {
		return nil, err
	}
	return preferences.Categories, nil
}

func (s *CategoryService) GetUserPreferences(userID string) (*domain.UserPreferences, error) {
	return s.repo.GetPreferences(userID)
}

func (s *CategoryService) AddCategory(userID, name string) (*domain.Category, error) {
	preferences, err := s.repo.GetPreferences(userID)
	if err != nil {
		return nil, err
	}

	updated, newCategory, err := preferences.Categories.Add(name)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateCategories(userID, updated); err != nil {
		return nil, err
	}
	return &newCategory, nil
}

func (s *CategoryService) RemoveCategory(userID, categoryID string) error {
	preferences, err := s.repo.GetPreferences(userID)
	if err != nil {
		return err
	}

	updated, err := preferences.Categories.Remove(categoryID)
	if err != nil {
		return err
	}

	return s.repo.UpdateCategories(userID, updated)
}

func (s *CategoryService) UpdateCurrency(userID string, currency domain.Currency) error {
	return s.repo.UpdateCurrency(userID, currency)
}
