package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"cafe/internal/models"
	"cafe/internal/repositories"

	"github.com/shopspring/decimal"
)

// OrderEventsQueue is the queue order events are published to.
const OrderEventsQueue = "order_events"

// Event types published on OrderEventsQueue.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// EventPublisher publishes JSON messages to a broker queue.
type EventPublisher interface {
	PublishJSON(queue, messageType string, v interface{}) error
}

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

// OrderRequest is a new order as submitted by a client.
type OrderRequest struct {
	Username string           `json:"username"`
	Items    []OrderItemInput `json:"items"`
	Total    float64          `json:"total"`
	Phone    string           `json:"phone"`
	Address  string           `json:"address"`
	Status   string           `json:"status"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	cartRepo    repositories.CartRepository
	userRepo    repositories.UserRepository
	publisher   EventPublisher
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	cartRepo repositories.CartRepository,
	userRepo repositories.UserRepository,
	publisher EventPublisher,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		userRepo:    userRepo,
		publisher:   publisher,
	}
}

// GetAllOrders retrieves all orders, newest first.
func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.GetAll(ctx)
}

// GetOrdersByUsername retrieves one user's orders, newest first.
func (s *OrderService) GetOrdersByUsername(ctx context.Context, username string) ([]models.Order, error) {
	return s.orderRepo.GetByUsername(ctx, username)
}

// CreateOrder validates req, prices it from the current catalog and stores it
// as pending. The client supplied total and status are not trusted.
func (s *OrderService) CreateOrder(ctx context.Context, req OrderRequest) (*models.Order, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Address = strings.TrimSpace(req.Address)
	switch {
	case req.Username == "":
		return nil, validationError("username is required")
	case len(req.Items) == 0:
		return nil, validationError("order must contain at least one item")
	case req.Phone == "":
		return nil, validationError("phone is required")
	case req.Address == "":
		return nil, validationError("address is required")
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, validationError("quantity for product %s must be at least 1", item.ProductID)
		}
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, validationError("product %s does not exist", item.ProductID)
			}
			return nil, err
		}
		total = total.Add(decimal.NewFromFloat(product.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
		items = append(items, models.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order := &models.Order{
		Username: req.Username,
		Items:    items,
		Total:    total.InexactFloat64(),
		Phone:    req.Phone,
		Address:  req.Address,
		Status:   models.StatusPending,
	}
	if req.Total != 0 && math.Abs(req.Total-order.Total) > 1e-6 {
		log.Printf("Order for %s: client total %v differs from computed %v", req.Username, req.Total, order.Total)
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if stored, err := s.orderRepo.GetByID(ctx, order.ID); err == nil {
		order = stored
	} else {
		log.Printf("Failed to reload order %s: %v", order.ID, err)
	}

	s.publish(EventOrderCreated, map[string]interface{}{
		"orderId":  order.ID,
		"username": order.Username,
		"status":   order.Status,
		"total":    order.Total,
	})
	return order, nil
}

// Checkout turns username's cart into an order delivered to address and then
// empties the cart. Lines whose product no longer exists are left out of the
// order, matching the cart summary, and go away with the cart. The two steps
// are not atomic: if clearing fails the order stands and the failure is logged.
func (s *OrderService) Checkout(ctx context.Context, username, address string) (*models.Order, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(user.Phone) == "" {
		return nil, validationError("a phone number is required before checkout")
	}
	if len(user.Addresses) == 0 {
		return nil, validationError("at least one address is required before checkout")
	}
	address = strings.TrimSpace(address)
	if !user.HasAddress(address) {
		return nil, validationError("address %q is not one of the saved addresses", address)
	}

	cart, err := s.cartRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		return nil, validationError("cart is empty")
	}

	req := OrderRequest{
		Username: username,
		Phone:    user.Phone,
		Address:  address,
		Total:    CartTotal(cart),
	}
	for _, item := range cart {
		if item.Product == nil {
			log.Printf("Checkout of %s skips cart line for removed product %s", username, item.ProductID)
			continue
		}
		req.Items = append(req.Items, OrderItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	if len(req.Items) == 0 {
		return nil, validationError("none of the products in the cart are available any more")
	}
	order, err := s.CreateOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	if _, err := s.cartRepo.Clear(ctx, username); err != nil {
		log.Printf("Order %s created but clearing cart of %s failed: %v", order.ID, username, err)
	}
	return order, nil
}

// UpdateOrderStatus moves an order to a new status if the transition is allowed.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id, status string) (*models.Order, error) {
	next, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s to %s", ErrIllegalTransition, order.Status, next)
	}
	if order.Status == next {
		return order, nil
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, order.Status, next); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, fmt.Errorf("%w: order %s changed status concurrently", ErrIllegalTransition, id)
		}
		return nil, fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	previous := order.Status
	order.Status = next

	s.publish(EventOrderStatusChanged, map[string]interface{}{
		"orderId":  order.ID,
		"username": order.Username,
		"from":     previous,
		"status":   next,
	})
	return order, nil
}

// DeleteOrder removes an order.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	return s.orderRepo.Delete(ctx, id)
}

func (s *OrderService) publish(eventType string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishJSON(OrderEventsQueue, eventType, payload); err != nil {
		log.Printf("Warning: failed to publish %s for order %v: %v", eventType, payload["orderId"], err)
	}
}
