package domain

// UserPreferences is the per-user settings document: the dashboard
// currency and the ordered category set. Several views read it
// independently.
type UserPreferences struct {
	Currency   Currency    `json:"currency"`
	Categories CategorySet `json:"categories"`
}

type PreferencesRepository interface {
	GetPreferences(userID string) (*UserPreferences, error)
	UpdateCurrency(userID string, currency Currency) error
	UpdateCategories(userID string, categories CategorySet) error
}
