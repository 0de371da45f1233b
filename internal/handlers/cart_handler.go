package handlers

import (
	"cafe/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for shopping carts.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the cart routes. Every route is limited to the
// cart's owner and admins.
func (h *CartHandler) RegisterRoutes(router fiber.Router, g Guards) {
	owner := g.SelfOrAdmin("username")
	router.Get("/Carts/:username", g.Auth, owner, h.HandleGetCart)
	router.Get("/Carts/:username/summary", g.Auth, owner, h.HandleGetSummary)
	router.Post("/Carts", g.Auth, h.HandleAddItem)
	router.Put("/Carts/:username/:productId", g.Auth, owner, h.HandleSetQuantity)
	router.Delete("/Carts/:username/:productId", g.Auth, owner, h.HandleRemoveItem)
	router.Delete("/Carts/:username", g.Auth, owner, h.HandleClearCart)
}

// HandleGetCart lists the cart with products joined.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	items, err := h.service.GetCart(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, "Could not retrieve cart", err)
	}
	return c.JSON(items)
}

// HandleGetSummary returns the cart and its total.
func (h *CartHandler) HandleGetSummary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, "Could not retrieve cart", err)
	}
	return c.JSON(summary)
}

// AddItemRequest represents the request body for adding to a cart.
type AddItemRequest struct {
	Username  string `json:"username" validate:"required"`
	ProductID string `json:"product" validate:"required"`
	Quantity  int    `json:"quantity"`
}

// HandleAddItem adds a product to a cart, merging with an existing line.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	if !canActFor(c, req.Username) {
		return forbidden(c)
	}
	item, err := h.service.AddToCart(c.UserContext(), req.Username, req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, "Could not add item", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"item":    item,
	})
}

// QuantityRequest carries a new line quantity.
type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

// HandleSetQuantity overwrites a line's quantity.
func (h *CartHandler) HandleSetQuantity(c *fiber.Ctx) error {
	var req QuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	item, err := h.service.SetQuantity(c.UserContext(), c.Params("username"), c.Params("productId"), req.Quantity)
	if err != nil {
		return respondError(c, "Could not update item", err)
	}
	return c.JSON(fiber.Map{"item": item})
}

// HandleRemoveItem deletes one line.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	item, err := h.service.RemoveItem(c.UserContext(), c.Params("username"), c.Params("productId"))
	if err != nil {
		return respondError(c, "Could not remove item", err)
	}
	return c.JSON(fiber.Map{
		"message": "Item removed from cart",
		"item":    item,
	})
}

// HandleClearCart deletes every line of the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	deleted, err := h.service.ClearCart(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, "Could not clear cart", err)
	}
	return c.JSON(fiber.Map{
		"message":      "Cart cleared",
		"deletedCount": deleted,
	})
}
