// Package app assembles repositories, services and handlers into a Fiber app.
package app

import (
	"context"
	"time"

	"cafe/internal/cleanup"
	"cafe/internal/handlers"
	"cafe/internal/middleware"
	"cafe/internal/repositories"
	"cafe/internal/services"
	"cafe/pkg/imagestore"
	"cafe/pkg/ratelimit"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Options tune the HTTP layer.
type Options struct {
	JWTSecret      string
	JWTTTL         time.Duration
	CORSOrigins    string
	RequestTimeout time.Duration
	// UploadDir is served at /uploads when set.
	UploadDir string
	// DisableRequestLog turns off the access log, for tests.
	DisableRequestLog bool
	// Now overrides the clock used for stats.
	Now func() time.Time
}

// Deps are the backends the app runs on. Publisher, Limiter and Files may be nil.
type Deps struct {
	Store     *repositories.Store
	Images    imagestore.Uploader
	Files     handlers.FileSaver
	Cleanup   cleanup.Queue
	Publisher services.EventPublisher
	Limiter   ratelimit.Limiter
}

// Services exposes the service layer built by New, for seeding and tests.
type Services struct {
	Auth       *services.AuthService
	Users      *services.UserService
	Products   *services.ProductService
	Categories *services.CategoryService
	Carts      *services.CartService
	Orders     *services.OrderService
	Stats      *services.StatsService
}

// New builds the Fiber app with every route registered.
func New(opts Options, deps Deps) (*fiber.App, *Services) {
	store := deps.Store
	svc := &Services{
		Auth:       services.NewAuthService(store.Users, opts.JWTSecret, opts.JWTTTL),
		Users:      services.NewUserService(store.Users, deps.Images, deps.Cleanup),
		Products:   services.NewProductService(store.Products, deps.Images, deps.Cleanup),
		Categories: services.NewCategoryService(store.Categories),
		Carts:      services.NewCartService(store.Carts, store.Products),
		Orders:     services.NewOrderService(store.Orders, store.Products, store.Carts, store.Users, deps.Publisher),
		Stats:      services.NewStatsService(store.Users, store.Orders, opts.Now),
	}

	app := fiber.New(fiber.Config{
		AppName:   "cafe",
		BodyLimit: 10 * 1024 * 1024,
	})

	app.Use(recover.New())
	if !opts.DisableRequestLog {
		app.Use(logger.New())
	}
	origins := opts.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{AllowOrigins: origins}))
	if opts.RequestTimeout > 0 {
		app.Use(requestTimeout(opts.RequestTimeout))
	}
	if opts.UploadDir != "" {
		app.Static("/uploads", opts.UploadDir)
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		database := "connected"
		if err := store.Ping(c.UserContext()); err != nil {
			database = "unreachable"
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": database,
		})
	})

	guards := handlers.NewGuards(svc.Auth)
	limiter := middleware.LoginRateLimit(deps.Limiter)

	handlers.NewAuthHandler(svc.Auth).RegisterRoutes(app, limiter)
	handlers.NewUserHandler(svc.Users).RegisterRoutes(app, guards)
	handlers.NewProductHandler(svc.Products, deps.Files).RegisterRoutes(app, guards)
	handlers.NewCategoryHandler(svc.Categories).RegisterRoutes(app, guards)
	handlers.NewCartHandler(svc.Carts).RegisterRoutes(app, guards)
	handlers.NewOrderHandler(svc.Orders).RegisterRoutes(app, guards)
	handlers.NewStatsHandler(svc.Stats).RegisterRoutes(app, guards)

	return app, svc
}

// requestTimeout bounds the context handed to services.
func requestTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}
