package middleware_test

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"cafe/internal/middleware"
	"cafe/internal/models"
	"cafe/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*fiber.App, *services.AuthService) {
	t.Helper()
	auth := services.NewAuthService(nil, "secret", time.Hour)
	app := fiber.New()
	protected := app.Group("/", middleware.AuthRequired(auth))
	protected.Get("/me", func(c *fiber.Ctx) error {
		return c.SendString(middleware.CurrentUsername(c))
	})
	protected.Get("/admin", middleware.AdminOnly(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	protected.Get("/users/:username", middleware.SelfOrAdmin("username"), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app, auth
}

func token(t *testing.T, auth *services.AuthService, username string, role models.Role) string {
	t.Helper()
	tok, err := auth.IssueToken(&models.User{ID: "id-" + username, Username: username, Role: role})
	require.NoError(t, err)
	return "Bearer " + tok
}

func get(t *testing.T, app *fiber.App, path, authHeader string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestAuthRequired(t *testing.T) {
	app, auth := newTestApp(t)

	code, _ := get(t, app, "/me", "")
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, _ = get(t, app, "/me", "Token abc")
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, _ = get(t, app, "/me", "Bearer not-a-jwt")
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, body := get(t, app, "/me", token(t, auth, "alice", models.RoleCustomer))
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "alice", body)
}

func TestAdminOnly(t *testing.T) {
	app, auth := newTestApp(t)

	code, _ := get(t, app, "/admin", token(t, auth, "alice", models.RoleCustomer))
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = get(t, app, "/admin", token(t, auth, "boss", models.RoleAdmin))
	assert.Equal(t, fiber.StatusOK, code)
}

func TestSelfOrAdmin(t *testing.T) {
	app, auth := newTestApp(t)
	alice := token(t, auth, "alice", models.RoleCustomer)

	code, _ := get(t, app, "/users/alice", alice)
	assert.Equal(t, fiber.StatusOK, code)

	code, _ = get(t, app, "/users/bob", alice)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = get(t, app, "/users/bob", token(t, auth, "boss", models.RoleAdmin))
	assert.Equal(t, fiber.StatusOK, code)
}

type stubLimiter struct {
	allow bool
	keys  []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (bool, time.Duration) {
	s.keys = append(s.keys, key)
	return s.allow, 1500 * time.Millisecond
}

func TestLoginRateLimit(t *testing.T) {
	limiter := &stubLimiter{}
	app := fiber.New()
	app.Post("/login", middleware.LoginRateLimit(limiter), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/login", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "2", resp.Header.Get("Retry-After"))
	require.Len(t, limiter.keys, 1)
	assert.Contains(t, limiter.keys[0], "login:")

	limiter.allow = true
	resp, err = app.Test(httptest.NewRequest("POST", "/login", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	open := fiber.New()
	open.Post("/login", middleware.LoginRateLimit(nil), func(c *fiber.Ctx) error { return c.SendString("ok") })
	resp, err = open.Test(httptest.NewRequest("POST", "/login", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
