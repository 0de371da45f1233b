package handlers

import (
	"cafe/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles account management requests.
type UserHandler struct {
	service  *services.UserService
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the user routes.
func (h *UserHandler) RegisterRoutes(router fiber.Router, g Guards) {
	router.Get("/users", g.Auth, g.Admin, h.HandleGetUsers)
	router.Get("/users/:username", g.Auth, g.SelfOrAdmin("username"), h.HandleGetUser)
	router.Put("/users/:username", g.Auth, g.SelfOrAdmin("username"), h.HandleUpdateUser)
	router.Delete("/users/:id", g.Auth, g.Admin, h.HandleDeleteUser)
	router.Put("/users/:id/lock", g.Auth, g.Admin, h.HandleLockUser)
	router.Post("/users/:username/upload-avatar", g.Auth, g.SelfOrAdmin("username"), h.HandleUploadAvatar)
	router.Post("/users/:username/change-password", g.Auth, g.SelfOrAdmin("username"), h.HandleChangePassword)
}

// HandleGetUsers lists every account.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.service.GetAllUsers(c.UserContext())
	if err != nil {
		return respondError(c, "Could not retrieve users", err)
	}
	return c.JSON(users)
}

// HandleGetUser returns one account by username.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	user, err := h.service.GetUserByUsername(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, "Could not retrieve user", err)
	}
	return c.JSON(user)
}

// HandleUpdateUser applies a partial profile update.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var update services.UserUpdate
	if err := c.BodyParser(&update); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	user, err := h.service.UpdateProfile(c.UserContext(), c.Params("username"), update)
	if err != nil {
		return respondError(c, "Could not update user", err)
	}
	return c.JSON(user)
}

// HandleDeleteUser deletes an account by id.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	if err := h.service.DeleteUser(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, "Could not delete user", err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// LockRequest toggles the locked flag. Locked defaults to true.
type LockRequest struct {
	Locked *bool `json:"locked"`
}

// HandleLockUser locks or unlocks an account.
func (h *UserHandler) HandleLockUser(c *fiber.Ctx) error {
	var req LockRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body", err)
		}
	}
	locked := true
	if req.Locked != nil {
		locked = *req.Locked
	}
	user, err := h.service.SetLocked(c.UserContext(), c.Params("id"), locked)
	if err != nil {
		return respondError(c, "Could not update lock state", err)
	}
	return c.JSON(fiber.Map{"success": true, "user": user})
}

// AvatarRequest carries a base64 image. The replaced asset is the one stored
// on the profile, so an oldPublicId sent by older clients is ignored.
type AvatarRequest struct {
	ImageBase64 string `json:"imageBase64" validate:"required"`
}

// HandleUploadAvatar uploads a new avatar image.
func (h *UserHandler) HandleUploadAvatar(c *fiber.Ctx) error {
	var req AvatarRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	asset, err := h.service.UploadAvatar(c.UserContext(), c.Params("username"), req.ImageBase64)
	if err != nil {
		return respondError(c, "Avatar upload failed", err)
	}
	return c.JSON(fiber.Map{
		"avatar":         asset.URL,
		"avatarPublicId": asset.PublicID,
	})
}

// ChangePasswordRequest represents the request body for a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

// HandleChangePassword replaces the caller's password.
func (h *UserHandler) HandleChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	if err := h.service.ChangePassword(c.UserContext(), c.Params("username"), req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, "Could not change password", err)
	}
	return c.JSON(fiber.Map{"success": true})
}
