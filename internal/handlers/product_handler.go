package handlers

import (
	"mime/multipart"

	"cafe/internal/models"
	"cafe/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// FileSaver stores a multipart upload and returns its public URL.
type FileSaver interface {
	SaveMultipart(fh *multipart.FileHeader) (string, error)
}

// ProductHandler handles HTTP requests for the menu.
type ProductHandler struct {
	service  *services.ProductService
	files    FileSaver
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler. files may be nil, which
// disables POST /upload.
func NewProductHandler(service *services.ProductService, files FileSaver) *ProductHandler {
	return &ProductHandler{
		service:  service,
		files:    files,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the product routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, g Guards) {
	router.Get("/Drinks", h.HandleGetProducts)
	router.Get("/Drinks/:id", h.HandleGetProductByID)
	router.Post("/Drinks", g.Auth, g.Admin, h.HandleCreateProduct)
	router.Put("/Drinks/:id", g.Auth, g.Admin, h.HandleUpdateProduct)
	router.Delete("/Drinks/:id", g.Auth, g.Admin, h.HandleDeleteProduct)
	router.Post("/products/upload-image", g.Auth, g.Admin, h.HandleUploadImage)
	router.Post("/upload", g.Auth, g.Admin, h.HandleUploadFile)
}

// HandleGetProducts lists the whole menu.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return respondError(c, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleGetProductByID returns one product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// HandleCreateProduct stores a new product as given.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	if err := h.service.CreateProduct(c.UserContext(), &product); err != nil {
		return respondError(c, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"product": product,
	})
}

// HandleUpdateProduct replaces a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	updated, err := h.service.UpdateProduct(c.UserContext(), c.Params("id"), &product)
	if err != nil {
		return respondError(c, "Could not update product", err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"product": updated,
	})
}

// HandleDeleteProduct deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, "Could not delete product", err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// ImageRequest carries a base64 encoded image.
type ImageRequest struct {
	ImageBase64 string `json:"imageBase64" validate:"required"`
}

// HandleUploadImage uploads a product image to the image store.
func (h *ProductHandler) HandleUploadImage(c *fiber.Ctx) error {
	var req ImageRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	asset, err := h.service.UploadImage(c.UserContext(), req.ImageBase64)
	if err != nil {
		return respondError(c, "Image upload failed", err)
	}
	return c.JSON(fiber.Map{
		"imageUrl": asset.URL,
		"publicId": asset.PublicID,
	})
}

// HandleUploadFile stores a multipart "image" field on local disk.
func (h *ProductHandler) HandleUploadFile(c *fiber.Ctx) error {
	if h.files == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{
			"message": "Local uploads are disabled",
		})
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "No file uploaded", err)
	}
	url, err := h.files.SaveMultipart(fh)
	if err != nil {
		return respondError(c, "Could not store file", err)
	}
	return c.JSON(fiber.Map{"url": url})
}
