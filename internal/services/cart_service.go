package services

import (
	"context"
	"strings"

	"cafe/internal/models"
	"cafe/internal/repositories"

	"github.com/shopspring/decimal"
)

// CartSummary is a cart with its subtotal over lines whose product still exists.
type CartSummary struct {
	Items []models.CartItem `json:"items"`
	Total float64           `json:"total"`
}

// CartService handles shopping cart operations.
type CartService struct {
	carts    repositories.CartRepository
	products repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
	}
}

// GetCart lists username's cart lines with products joined.
func (s *CartService) GetCart(ctx context.Context, username string) ([]models.CartItem, error) {
	return s.carts.GetByUsername(ctx, username)
}

// Summary returns the cart and its total.
func (s *CartService) Summary(ctx context.Context, username string) (*CartSummary, error) {
	items, err := s.carts.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return &CartSummary{Items: items, Total: CartTotal(items)}, nil
}

// CartTotal sums price*quantity over lines whose product still exists.
func CartTotal(items []models.CartItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		line := decimal.NewFromFloat(item.Product.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total.InexactFloat64()
}

// AddToCart adds quantity of productID to username's cart, merging with an
// existing line.
func (s *CartService) AddToCart(ctx context.Context, username, productID string, quantity int) (*models.CartItem, error) {
	username = strings.TrimSpace(username)
	if username == "" || productID == "" {
		return nil, validationError("username and product are required")
	}
	if quantity < 1 {
		return nil, validationError("quantity must be at least 1")
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.carts.AddQuantity(ctx, username, productID, quantity)
}

// SetQuantity overwrites the quantity of an existing line.
func (s *CartService) SetQuantity(ctx context.Context, username, productID string, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, validationError("quantity must be at least 1, remove the item instead")
	}
	return s.carts.SetQuantity(ctx, username, productID, quantity)
}

// RemoveItem deletes one line.
func (s *CartService) RemoveItem(ctx context.Context, username, productID string) (*models.CartItem, error) {
	return s.carts.Remove(ctx, username, productID)
}

// ClearCart deletes every line and reports how many were removed.
func (s *CartService) ClearCart(ctx context.Context, username string) (int64, error) {
	return s.carts.Clear(ctx, username)
}
