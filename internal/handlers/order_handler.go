package handlers

import (
	"cafe/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, g Guards) {
	router.Post("/Orders", g.Auth, h.HandleCreateOrder)
	router.Post("/Orders/checkout/:username", g.Auth, g.SelfOrAdmin("username"), h.HandleCheckout)
	router.Get("/Orders", g.Auth, g.Admin, h.HandleGetOrders)
	router.Get("/Orders/:username", g.Auth, g.SelfOrAdmin("username"), h.HandleGetUserOrders)
	router.Put("/Orders/:id/status", g.Auth, g.Admin, h.HandleUpdateOrderStatus)
	router.Delete("/Orders/:id", g.Auth, g.Admin, h.HandleDeleteOrder)
}

// HandleGetOrders retrieves all orders, newest first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders(c.UserContext())
	if err != nil {
		return respondError(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetUserOrders retrieves one user's orders, newest first.
func (h *OrderHandler) HandleGetUserOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetOrdersByUsername(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleCreateOrder creates a new order. It always starts as pending.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req services.OrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	if req.Username != "" && !canActFor(c, req.Username) {
		return forbidden(c)
	}
	order, err := h.service.CreateOrder(c.UserContext(), req)
	if err != nil {
		return respondError(c, "Could not create order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

// CheckoutRequest picks the delivery address.
type CheckoutRequest struct {
	Address string `json:"address"`
}

// HandleCheckout turns the user's cart into an order and clears the cart.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	order, err := h.service.Checkout(c.UserContext(), c.Params("username"), req.Address)
	if err != nil {
		return respondError(c, "Checkout failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

// StatusRequest carries the target order status.
type StatusRequest struct {
	Status string `json:"status"`
}

// HandleUpdateOrderStatus moves an order to a new status.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	order, err := h.service.UpdateOrderStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return respondError(c, "Could not update order status", err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

// HandleDeleteOrder deletes an order.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	if err := h.service.DeleteOrder(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, "Could not delete order", err)
	}
	return c.JSON(fiber.Map{"success": true})
}
