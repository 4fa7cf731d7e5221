package infrastructure

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/spendwise/SpendWise/internal/finance/domain"
)

type ExpenseRepository struct {
	db *sql.DB
}

func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Save(expense domain.Expense) error {
	_, err := r.db.Exec(
		`INSERT INTO expenses
        (id, user_id, amount, description, description_lower, category, currency, date, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		expense.ID, expense.UserID, expense.Amount, expense.Description, expense.DescriptionLower,
		expense.Category, expense.Currency, expense.Date, expense.CreatedAt,
	)
	return err
}

func (r *ExpenseRepository) FindByID(expenseID string) (*domain.Expense, error) {
	row := r.db.QueryRow(
		`SELECT id, user_id, amount, description, description_lower, category, currency, date, created_at
        FROM expenses WHERE id = $1`, expenseID)

	var expense domain.Expense
	err := row.Scan(&expense.ID, &expense.UserID, &expense.Amount, &expense.Description,
		&expense.DescriptionLower, &expense.Category, &expense.Currency, &expense.Date, &expense.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not find expense: %v", err)
	}
	return &expense, nil
}

// FindByUser composes the optional filter predicates with the base
// ownership and newest-first ordering predicate. Amount bounds apply only
// when non-zero; the caller has already normalized date bounds to day
// boundaries.
func (r *ExpenseRepository) FindByUser(userID string, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	query := `SELECT id, user_id, amount, description, description_lower, category, currency, date, created_at
        FROM expenses WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND lower(category) = lower($%d)", len(args))
	}
	if !filter.MinAmount.IsZero() {
		args = append(args, filter.MinAmount)
		query += fmt.Sprintf(" AND amount >= $%d", len(args))
	}
	if !filter.MaxAmount.IsZero() {
		args = append(args, filter.MaxAmount)
		query += fmt.Sprintf(" AND amount <= $%d", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	if filter.Currency != "" {
		args = append(args, filter.Currency)
		query += fmt.Sprintf(" AND currency = $%d", len(args))
	}
	query += " ORDER BY date DESC"

	return r.queryExpenses(query, args...)
}

func (r *ExpenseRepository) FindByUserInRange(userID string, start, end time.Time) ([]domain.Expense, error) {
	return r.queryExpenses(
		`SELECT id, user_id, amount, description, description_lower, category, currency, date, created_at
        FROM expenses WHERE user_id = $1 AND date >= $2 AND date < $3
        ORDER BY date DESC`,
		userID, start, end,
	)
}

func (r *ExpenseRepository) queryExpenses(query string, args ...interface{}) ([]domain.Expense, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		var expense domain.Expense
		if err := rows.Scan(&expense.ID, &expense.UserID, &expense.Amount, &expense.Description,
			&expense.DescriptionLower, &expense.Category, &expense.Currency, &expense.Date, &expense.CreatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

func (r *ExpenseRepository) Update(expense domain.Expense) error {
	_, err := r.db.Exec(
		`UPDATE expenses
        SET amount = $1, description = $2, description_lower = $3, category = $4, currency = $5, date = $6
        WHERE id = $7 AND user_id = $8`,
		expense.Amount, expense.Description, expense.DescriptionLower, expense.Category,
		expense.Currency, expense.Date, expense.ID, expense.UserID,
	)
	return err
}

func (r *ExpenseRepository) Delete(expenseID, userID string) error {
	_, err := r.db.Exec(`DELETE FROM expenses WHERE id = $1 AND user_id = $2`, expenseID, userID)
	return err
}

func (r *ExpenseRepository) DeleteAllByUser(userID string) error {
	_, err := r.db.Exec(`DELETE FROM expenses WHERE user_id = $1`, userID)
	return err
}
