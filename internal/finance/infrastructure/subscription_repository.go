package infrastructure

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spendwise/SpendWise/internal/finance/domain"
)

type SubscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Save(subscription domain.Subscription) error {
	_, err := r.db.Exec(
		`INSERT INTO subscriptions
        (id, user_id, amount, description, category, currency, date, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		subscription.ID, subscription.UserID, subscription.Amount, subscription.Description,
		subscription.Category, subscription.Currency, subscription.Date, subscription.CreatedAt,
	)
	return err
}

func (r *SubscriptionRepository) FindByID(subscriptionID string) (*domain.Subscription, error) {
	row := r.db.QueryRow(
		`SELECT id, user_id, amount, description, category, currency, date, last_promoted, created_at
        FROM subscriptions WHERE id = $1`, subscriptionID)

	var subscription domain.Subscription
	err := row.Scan(&subscription.ID, &subscription.UserID, &subscription.Amount, &subscription.Description,
		&subscription.Category, &subscription.Currency, &subscription.Date, &subscription.LastPromoted, &subscription.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not find subscription: %v", err)
	}
	return &subscription, nil
}

func (r *SubscriptionRepository) FindByUser(userID string) ([]domain.Subscription, error) {
	return r.querySubscriptions(
		`SELECT id, user_id, amount, description, category, currency, date, last_promoted, created_at
        FROM subscriptions WHERE user_id = $1 ORDER BY date DESC`, userID)
}

func (r *SubscriptionRepository) FindDueBetween(start, end time.Time) ([]domain.Subscription, error) {
	return r.querySubscriptions(
		`SELECT id, user_id, amount, description, category, currency, date, last_promoted, created_at
        FROM subscriptions WHERE date >= $1 AND date < $2 ORDER BY date DESC`, start, end)
}

func (r *SubscriptionRepository) querySubscriptions(query string, args ...interface{}) ([]domain.Subscription, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subscriptions []domain.Subscription
	for rows.Next() {
		var subscription domain.Subscription
		if err := rows.Scan(&subscription.ID, &subscription.UserID, &subscription.Amount, &subscription.Description,
			&subscription.Category, &subscription.Currency, &subscription.Date, &subscription.LastPromoted, &subscription.CreatedAt); err != nil {
			return nil, err
		}
		subscriptions = append(subscriptions, subscription)
	}
	return subscriptions, rows.Err()
}

// Promote advances the charge date and inserts the promoted expense in a
// single transaction. The compare-and-set on last_promoted makes the
// whole operation idempotent per occurrence day: a second trigger for the
// same day matches zero rows and the expense insert never runs.
func (r *SubscriptionRepository) Promote(subscriptionID string, occurrenceDay, nextChargeDate time.Time, expense domain.Expense) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, err
	}

	result, err := tx.Exec(
		`UPDATE subscriptions
        SET date = $2, last_promoted = $3
        WHERE id = $1 AND (last_promoted IS NULL OR last_promoted < $3)`,
		subscriptionID, nextChargeDate, occurrenceDay,
	)
	if err != nil {
		safeRollback(tx)
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		safeRollback(tx)
		return false, err
	}
	if affected == 0 {
		safeRollback(tx)
		return false, nil
	}

	_, err = tx.Exec(
		`INSERT INTO expenses
        (id, user_id, amount, description, description_lower, category, currency, date, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		expense.ID, expense.UserID, expense.Amount, expense.Description, expense.DescriptionLower,
		expense.Category, expense.Currency, expense.Date, expense.CreatedAt,
	)
	if err != nil {
		safeRollback(tx)
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (r *SubscriptionRepository) Update(subscription domain.Subscription) error {
	_, err := r.db.Exec(
		`UPDATE subscriptions
        SET amount = $1, description = $2, category = $3, currency = $4, date = $5
        WHERE id = $6 AND user_id = $7`,
		subscription.Amount, subscription.Description, subscription.Category, subscription.Currency,
		subscription.Date, subscription.ID, subscription.UserID,
	)
	return err
}

func (r *SubscriptionRepository) Delete(subscriptionID, userID string) error {
	_, err := r.db.Exec(`DELETE FROM subscriptions WHERE id = $1 AND user_id = $2`, subscriptionID, userID)
	return err
}

func (r *SubscriptionRepository) DeleteAllByUser(userID string) error {
	_, err := r.db.Exec(`DELETE FROM subscriptions WHERE user_id = $1`, userID)
	return err
}

func safeRollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil {
		log.Printf("Error during transaction rollback: %v", err)
	}
}
