package handlers

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"

	"cafe/internal/middleware"
	"cafe/internal/repositories"
	"cafe/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Guards are the auth middlewares handlers attach per route.
type Guards struct {
	Auth        fiber.Handler
	Admin       fiber.Handler
	SelfOrAdmin func(param string) fiber.Handler
}

// NewGuards builds the guards from a token validator.
func NewGuards(validator middleware.TokenValidator) Guards {
	return Guards{
		Auth:        middleware.AuthRequired(validator),
		Admin:       middleware.AdminOnly(),
		SelfOrAdmin: middleware.SelfOrAdmin,
	}
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// statusFor maps service and repository errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrIllegalTransition),
		errors.Is(err, repositories.ErrConflict):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrAccountLocked):
		return fiber.StatusForbidden
	case errors.Is(err, repositories.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError logs err and writes the {"message","error"} body with the mapped status.
func respondError(c *fiber.Ctx, message string, err error) error {
	status := statusFor(err)
	log.Printf("%s %s: %s: %v", c.Method(), c.Path(), message, err)
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

func badRequest(c *fiber.Ctx, message string, err error) error {
	body := fiber.Map{"message": message}
	if err != nil {
		body["error"] = err.Error()
	}
	return c.Status(fiber.StatusBadRequest).JSON(body)
}

// parseAndValidate parses the JSON body into req and runs its validate tags.
// On failure it writes the 400 response and returns ok=false.
func parseAndValidate(c *fiber.Ctx, validate *validator.Validate, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		log.Printf("Error parsing request body: %v", err)
		return false, badRequest(c, "Invalid request body", err)
	}
	if err := validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return false, badRequest(c, "Validation failed", err)
		}
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}
	return true, nil
}

// canActFor reports whether the caller is username or an admin.
func canActFor(c *fiber.Ctx, username string) bool {
	return middleware.IsAdmin(c) || middleware.CurrentUsername(c) == username
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"message": "You may only act on your own account",
	})
}
