package repositories

import (
	"context"
	"time"

	"cafe/internal/models"
)

// OrderSummary aggregates orders of one status inside a time window.
type OrderSummary struct {
	Count   int64
	Revenue float64
}

// OrderRepository defines the interface for order data access.
// Reads join products into each line item and list newest orders first.
type OrderRepository interface {
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByUsername(ctx context.Context, username string) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	// UpdateStatus moves an order from one status to another. It fails with
	// ErrConflict when the order is no longer in status from.
	UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) error
	Delete(ctx context.Context, id string) error
	// Summarize counts and sums totals of orders with the given status whose
	// creation time lies in [from, to).
	Summarize(ctx context.Context, status models.OrderStatus, from, to time.Time) (OrderSummary, error)
}
