package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cafe/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
// Line items live in their own table keyed by order_id.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

func (r *GORMOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items.Product").
		Order("created_at desc")
}

// GetAll returns every order, newest first.
func (r *GORMOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	if err := r.withItems(ctx).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByUsername returns the orders placed by one user, newest first.
func (r *GORMOrderRepository) GetByUsername(ctx context.Context, username string) ([]models.Order, error) {
	orders := []models.Order{}
	if err := r.withItems(ctx).Where("username = ?", username).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for %s: %w", username, err)
	}
	return orders, nil
}

// GetByID returns an order by its ID.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.withItems(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// Create persists the order together with its line items.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.UpdatedAt = order.CreatedAt
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(order).Error; err != nil {
			return err
		}
		if len(order.Items) == 0 {
			return nil
		}
		return tx.Omit("Product").Create(&order.Items).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// UpdateStatus moves an order from one status to another in a single
// conditional update.
func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("failed to update status of order %s: %w", id, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var count int64
	if err := db.Model(&models.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check order %s: %w", id, err)
	}
	if count == 0 {
		return fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	return fmt.Errorf("order %s is no longer %s: %w", id, from, ErrConflict)
}

// Delete removes an order and its line items.
func (r *GORMOrderRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Order{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete order: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
		}
		if err := tx.Delete(&models.OrderItem{}, "order_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete items of order %s: %w", id, err)
		}
		return nil
	})
}

// Summarize counts and sums orders of one status created within [from, to).
func (r *GORMOrderRepository) Summarize(ctx context.Context, status models.OrderStatus, from, to time.Time) (OrderSummary, error) {
	var row struct {
		Count   int64
		Revenue float64
	}
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total), 0) AS revenue").
		Where("status = ? AND created_at >= ? AND created_at < ?", status, from, to).
		Scan(&row).Error
	if err != nil {
		return OrderSummary{}, fmt.Errorf("failed to summarize %s orders: %w", status, err)
	}
	return OrderSummary{Count: row.Count, Revenue: row.Revenue}, nil
}
