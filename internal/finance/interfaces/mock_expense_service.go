package interfaces

import (
	"errors"

	"github.com/spendwise/SpendWise/internal/finance/application"
	"github.com/spendwise/SpendWise/internal/finance/domain"
)

type MockExpenseService struct {
	expenses   []domain.Expense
	created    *domain.Expense
	lastFilter domain.ExpenseFilter
	err        error
	shouldFail bool
}

func (m *MockExpenseService) CreateExpense(userID string, input application.ExpenseInput) (*domain.Expense, error) {
	if m.shouldFail {
		return nil, errors.New("service error")
	}
	if m.err != nil {
		return nil, m.err
	}
	expense := domain.Expense{
		ID:          "exp-created",
		UserID:      userID,
		Amount:      input.Amount,
		Description: input.Description,
		Category:    input.Category,
		Currency:    input.Currency,
		Date:        input.Date,
	}
	m.created = &expense
	return &expense, nil
}

func (m *MockExpenseService) GetUserExpenses(userID string, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	if m.shouldFail {
		return nil, errors.New("service error")
	}
	m.lastFilter = filter
	return m.expenses, nil
}

func (m *MockExpenseService) UpdateExpense(userID, expenseID string, input application.ExpenseInput) (*domain.Expense, error) {
	if m.shouldFail {
		return nil, errors.New("service error")
	}
	if m.err != nil {
		return nil, m.err
	}
	expense := domain.Expense{
		ID:          expenseID,
		UserID:      userID,
		Amount:      input.Amount,
		Description: input.Description,
		Category:    input.Category,
		Currency:    input.Currency,
		Date:        input.Date,
	}
	return &expense, nil
}

func (m *MockExpenseService) DeleteExpense(userID, expenseID string) error {
	if m.shouldFail {
		return errors.New("service error")
	}
	return nil
}
