package infrastructure

import (
	"sort"
	"time"

	"github.com/spendwise/SpendWise/internal/finance/domain"
)

// MockExpenseRepository backs service tests with an in-memory expense set.
type MockExpenseRepository struct {
	Expenses []domain.Expense
	Err      error
	// RangeErr fails only the windowed queries, leaving FindByUser intact.
	RangeErr error
}

func (m *MockExpenseRepository) Save(expense domain.Expense) error {
	if m.Err != nil {
		return m.Err
	}
	m.Expenses = append(m.Expenses, expense)
	return nil
}

func (m *MockExpenseRepository) FindByID(expenseID string) (*domain.Expense, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, expense := range m.Expenses {
		if expense.ID == expenseID {
			found := expense
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MockExpenseRepository) FindByUser(userID string, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var filtered []domain.Expense
	for _, expense := range m.Expenses {
		if expense.UserID != userID {
			continue
		}
		if filter.StartDate != nil && expense.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && expense.Date.After(*filter.EndDate) {
			continue
		}
		if !filter.MinAmount.IsZero() && expense.Amount.LessThan(filter.MinAmount) {
			continue
		}
		if !filter.MaxAmount.IsZero() && expense.Amount.GreaterThan(filter.MaxAmount) {
			continue
		}
		filtered = append(filtered, expense)
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Date.After(filtered[j].Date)
	})
	return filtered, nil
}

func (m *MockExpenseRepository) FindByUserInRange(userID string, start, end time.Time) ([]domain.Expense, error) {
	if m.RangeErr != nil {
		return nil, m.RangeErr
	}
	if m.Err != nil {
		return nil, m.Err
	}
	var filtered []domain.Expense
	for _, expense := range m.Expenses {
		if expense.UserID != userID {
			continue
		}
		if expense.Date.Before(start) || !expense.Date.Before(end) {
			continue
		}
		filtered = append(filtered, expense)
	}
	return filtered, nil
}

func (m *MockExpenseRepository) Update(expense domain.Expense) error {
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Expenses {
		if m.Expenses[i].ID == expense.ID {
			m.Expenses[i] = expense
			return nil
		}
	}
	return nil
}

func (m *MockExpenseRepository) Delete(expenseID, userID string) error {
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Expenses {
		if m.Expenses[i].ID == expenseID && m.Expenses[i].UserID == userID {
			m.Expenses = append(m.Expenses[:i], m.Expenses[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MockExpenseRepository) DeleteAllByUser(userID string) error {
	var kept []domain.Expense
	for _, expense := range m.Expenses {
		if expense.UserID != userID {
			kept = append(kept, expense)
		}
	}
	m.Expenses = kept
	return nil
}
