package application

import (
	"time"

	"github.com/spendwise/SpendWise/internal/finance/domain"
)

// DashboardService feeds the dashboard widgets: three independently
// windowed expense streams for the signed-in user, loaded concurrently.
type DashboardService struct {
	repo domain.ExpenseRepository
	now  func() time.Time
}

func NewDashboardService(repo domain.ExpenseRepository) *DashboardService {
	return &DashboardService{repo: repo, now: time.Now}
}

// WithClock replaces the service's time source. Test hook.
func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

// Snapshot holds the three windows. Every window carries its own error:
// one failed query leaves the sibling widgets intact. The snapshot is
// complete only once all three queries have returned.
type Snapshot struct {
	All           Result[[]domain.Expense]
	CurrentMonth  Result[[]domain.Expense]
	LastSevenDays Result[[]domain.Expense]
	GeneratedAt   time.Time
}

func (s *DashboardService) Snapshot(userID string) Snapshot {
	now := s.now()
	monthStart, monthEnd := monthBounds(now.UTC())
	weekStart, weekEnd := trailingWeekBounds(now)

	results := Join(
		func() ([]domain.Expense, error) {
			return s.repo.FindByUser(userID, domain.ExpenseFilter{})
		},
		func() ([]domain.Expense, error) {
			return s.repo.FindByUserInRange(userID, monthStart, monthEnd)
		},
		func() ([]domain.Expense, error) {
			return s.repo.FindByUserInRange(userID, weekStart, weekEnd)
		},
	)

	return Snapshot{
		All:           results[0],
		CurrentMonth:  results[1],
		LastSevenDays: results[2],
		GeneratedAt:   now,
	}
}

// monthBounds returns the current UTC calendar month as a half-open
// [first of month, first of next month) range.
func monthBounds(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// trailingWeekBounds returns the half-open range covering today-6 through
// the end of today in the caller's location.
func trailingWeekBounds(now time.Time) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return today.AddDate(0, 0, -6), today.AddDate(0, 0, 1)
}
