package services

import (
	"context"
	"fmt"
	"time"

	"cafe/internal/models"
	"cafe/internal/repositories"
)

// StatsService computes the admin dashboard figures.
type StatsService struct {
	users  repositories.UserRepository
	orders repositories.OrderRepository
	now    func() time.Time
}

// NewStatsService creates a new StatsService. now defaults to time.Now.
func NewStatsService(users repositories.UserRepository, orders repositories.OrderRepository, now func() time.Time) *StatsService {
	if now == nil {
		now = time.Now
	}
	return &StatsService{users: users, orders: orders, now: now}
}

// DayWindow returns the start of t's calendar day and the start of the next
// one, in t's location. The end is exclusive.
func DayWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// MonthWindow returns the start of t's calendar month and the start of the
// next one, in t's location. The end is exclusive.
func MonthWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

// GetStats counts customers and sums confirmed orders for today and this month.
func (s *StatsService) GetStats(ctx context.Context) (*models.Stats, error) {
	customers, err := s.users.CountByRole(ctx, models.RoleCustomer)
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	now := s.now()
	dayFrom, dayTo := DayWindow(now)
	today, err := s.orders.Summarize(ctx, models.StatusConfirmed, dayFrom, dayTo)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize today's orders: %w", err)
	}
	monthFrom, monthTo := MonthWindow(now)
	month, err := s.orders.Summarize(ctx, models.StatusConfirmed, monthFrom, monthTo)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize this month's orders: %w", err)
	}

	return &models.Stats{
		TotalCustomers: customers,
		OrdersToday:    today.Count,
		RevenueToday:   today.Revenue,
		RevenueMonth:   month.Revenue,
	}, nil
}
