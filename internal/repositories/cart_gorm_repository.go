package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cafe/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCartRepository is a GORM implementation of CartRepository.
// The (username, product_id) unique index backs AddQuantity's upsert.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

// GetByUsername returns the user's cart with products joined in.
func (r *GORMCartRepository) GetByUsername(ctx context.Context, username string) ([]models.CartItem, error) {
	items := []models.CartItem{}
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("username = ?", username).
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get cart for %s: %w", username, err)
	}
	return items, nil
}

// Get returns a single cart line.
func (r *GORMCartRepository) Get(ctx context.Context, username, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("username = ? AND product_id = ?", username, productID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item %s/%s: %w", username, productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	return &item, nil
}

// AddQuantity inserts the line or increments it in one statement.
func (r *GORMCartRepository) AddQuantity(ctx context.Context, username, productID string, quantity int) (*models.CartItem, error) {
	now := time.Now()
	item := models.CartItem{
		ID:        uuid.New().String(),
		Username:  username,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "username"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("cart_items.quantity + ?", quantity),
				"updated_at": now,
			}),
		}).
		Create(&item).Error
	if err != nil {
		return nil, fmt.Errorf("failed to add product %s to cart: %w", productID, err)
	}
	return r.Get(ctx, username, productID)
}

// SetQuantity overwrites the quantity of an existing line.
func (r *GORMCartRepository) SetQuantity(ctx context.Context, username, productID string, quantity int) (*models.CartItem, error) {
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("username = ? AND product_id = ?", username, productID).
		Updates(map[string]interface{}{"quantity": quantity, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("cart item %s/%s: %w", username, productID, ErrNotFound)
	}
	return r.Get(ctx, username, productID)
}

// Remove deletes one line and returns what was removed.
func (r *GORMCartRepository) Remove(ctx context.Context, username, productID string) (*models.CartItem, error) {
	item, err := r.Get(ctx, username, productID)
	if err != nil {
		return nil, err
	}
	res := r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", item.ID)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("cart item %s/%s: %w", username, productID, ErrNotFound)
	}
	return item, nil
}

// Clear deletes every line of the user's cart.
func (r *GORMCartRepository) Clear(ctx context.Context, username string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.CartItem{}, "username = ?", username)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clear cart for %s: %w", username, res.Error)
	}
	return res.RowsAffected, nil
}
