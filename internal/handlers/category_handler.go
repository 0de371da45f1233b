package handlers

import (
	"cafe/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service *services.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// RegisterRoutes registers the category routes.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router, g Guards) {
	router.Get("/Categories", h.HandleGetCategories)
	router.Post("/Categories", g.Auth, g.Admin, h.HandleCreateCategory)
	router.Put("/Categories/:id", g.Auth, g.Admin, h.HandleUpdateCategory)
	router.Delete("/Categories/:id", g.Auth, g.Admin, h.HandleDeleteCategory)
}

// CategoryRequest carries a category name.
type CategoryRequest struct {
	Name string `json:"name"`
}

// HandleGetCategories lists categories by name.
func (h *CategoryHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetAllCategories(c.UserContext())
	if err != nil {
		return respondError(c, "Could not retrieve categories", err)
	}
	return c.JSON(categories)
}

// HandleCreateCategory adds a category.
func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	category, err := h.service.CreateCategory(c.UserContext(), req.Name)
	if err != nil {
		return respondError(c, "Could not create category", err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleUpdateCategory renames a category.
func (h *CategoryHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	category, err := h.service.RenameCategory(c.UserContext(), c.Params("id"), req.Name)
	if err != nil {
		return respondError(c, "Could not update category", err)
	}
	return c.JSON(category)
}

// HandleDeleteCategory removes a category without touching products.
func (h *CategoryHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	if err := h.service.DeleteCategory(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, "Could not delete category", err)
	}
	return c.JSON(fiber.Map{"success": true})
}
