package repositories

import (
	"context"

	"cafe/internal/models"
)

// CartRepository defines the interface for cart data access.
// Every read joins the current product; a dangling reference yields a nil Product.
type CartRepository interface {
	GetByUsername(ctx context.Context, username string) ([]models.CartItem, error)
	Get(ctx context.Context, username, productID string) (*models.CartItem, error)
	// AddQuantity atomically inserts the (username, productID) line or
	// increments its quantity when it already exists.
	AddQuantity(ctx context.Context, username, productID string, quantity int) (*models.CartItem, error)
	SetQuantity(ctx context.Context, username, productID string, quantity int) (*models.CartItem, error)
	Remove(ctx context.Context, username, productID string) (*models.CartItem, error)
	Clear(ctx context.Context, username string) (int64, error)
}
