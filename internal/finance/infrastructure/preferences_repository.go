package infrastructure

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spendwise/SpendWise/internal/finance/domain"
)

var ErrPreferencesNotFound = errors.New("user preferences not found")

// PreferencesRepository reads and writes the currency and category array
// stored on the users row, mirroring the single preferences document the
// views share.
type PreferencesRepository struct {
	db *sql.DB
}

func NewPreferencesRepository(db *sql.DB) *PreferencesRepository {
	return &PreferencesRepository{db: db}
}

func (r *PreferencesRepository) GetPreferences(userID string) (*domain.UserPreferences, error) {
	var currency string
	var categoriesJSON []byte
	err := r.db.QueryRow(
		`SELECT currency, categories FROM users WHERE id = $1`, userID,
	).Scan(&currency, &categoriesJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPreferencesNotFound
		}
		return nil, fmt.Errorf("could not load preferences: %v", err)
	}

	var categories domain.CategorySet
	if err := json.Unmarshal(categoriesJSON, &categories); err != nil {
		return nil, fmt.Errorf("could not decode categories: %v", err)
	}

	return &domain.UserPreferences{
		Currency:   domain.Currency(currency),
		Categories: categories,
	}, nil
}

func (r *PreferencesRepository) UpdateCurrency(userID string, currency domain.Currency) error {
	_, err := r.db.Exec(`UPDATE users SET currency = $1, updated_at = NOW() WHERE id = $2`, currency, userID)
	return err
}

func (r *PreferencesRepository) UpdateCategories(userID string, categories domain.CategorySet) error {
	categoriesJSON, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("could not encode categories: %v", err)
	}
	_, err = r.db.Exec(`UPDATE users SET categories = $1, updated_at = NOW() WHERE id = $2`, categoriesJSON, userID)
	return err
}
