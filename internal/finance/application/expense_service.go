package application

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spendwise/SpendWise/internal/finance/domain"
	financeErrors "github.com/spendwise/SpendWise/internal/finance/errors"
)

var ErrExpenseNotFound = errors.New("expense not found")

type CategoryServiceInterface interface {
	GetUserCategories(userID string) (domain.CategorySet, error)
}

type ExpenseService struct {
	repo            domain.ExpenseRepository
	categoryService CategoryServiceInterface
}

func NewExpenseService(repo domain.ExpenseRepository, categoryService CategoryServiceInterface) *ExpenseService {
	return &ExpenseService{repo: repo, categoryService: categoryService}
}

type ExpenseInput struct {
	Amount      decimal.Decimal
	Description string
	Category    string
	Currency    domain.Currency
	Date        time.Time
}

func (s *ExpenseService) CreateExpense(userID string, input ExpenseInput) (*domain.Expense, error) {
	categories, err := s.categoryService.GetUserCategories(userID)
	if err != nil {
		return nil, err
	}
	if !categories.ContainsName(input.Category) {
		return nil, financeErrors.ErrUnknownCategory
	}

	expense := domain.Expense{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      input.Amount,
		Description: input.Description,
		Category:    input.Category,
		Currency:    input.Currency,
		Date:        input.Date,
		CreatedAt:   time.Now().UTC(),
	}
	expense.Normalize()
	if err := expense.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Save(expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

func (s *ExpenseService) GetUserExpenses(userID string, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	expenses, err := s.repo.FindByUser(userID, filter.Normalized())
	if err != nil {
		return nil, err
	}
	if expenses == nil {
		return []domain.Expense{}, nil
	}
	return expenses, nil
}

func (s *ExpenseService) UpdateExpense(userID, expenseID string, input ExpenseInput) (*domain.Expense, error) {
	existing, err := s.repo.FindByID(expenseID)
	if err != nil {
		return nil, err
	}
	if existing == nil || existing.UserID != userID {
		return nil, ErrExpenseNotFound
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

func (s *ExpenseService) DeleteExpense(userID, expenseID string) error {
	return s.repo.Delete(expenseID, userID)
}
