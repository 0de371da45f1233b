package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/streadway/amqp"

	"cafe/internal/app"
	"cafe/internal/cleanup"
	"cafe/internal/config"
	"cafe/internal/repositories"
	"cafe/internal/services"
	"cafe/pkg/imagestore"
	"cafe/pkg/rabbitmq"
	"cafe/pkg/ratelimit"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.DBDriver, err)
	}
	defer store.Close(context.Background())

	// --- Image storage ---
	local, err := imagestore.NewLocalStore(cfg.UploadDir, "/uploads")
	if err != nil {
		log.Fatalf("Failed to prepare upload dir: %v", err)
	}
	var images imagestore.Store = local
	if cfg.CloudinaryURL != "" {
		cld, err := imagestore.NewCloudinaryStore(cfg.CloudinaryURL)
		if err != nil {
			log.Fatalf("Failed to configure Cloudinary: %v", err)
		}
		images = cld
	}

	deps := app.Deps{
		Store:  store,
		Images: images,
		Files:  local,
	}

	// --- RabbitMQ (optional) ---
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{
			URL:    cfg.RabbitMQURL,
			Queues: []string{services.OrderEventsQueue, cleanup.QueueName},
		})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		deps.Publisher = mqClient
	}

	// --- Cleanup queue ---
	var queue cleanup.Queue
	if mqClient != nil {
		amqpQueue := cleanup.NewAMQPQueue(mqClient, cfg.CleanupBuffer)
		if err := amqpQueue.StartConsumer(mqClient, images); err != nil {
			log.Fatalf("Failed to start cleanup consumer: %v", err)
		}
		queue = amqpQueue
	} else {
		queue = cleanup.NewWorkerQueue(images, cfg.CleanupWorkers, cfg.CleanupBuffer)
	}
	deps.Cleanup = queue
	go func() {
		for err := range queue.Errors() {
			log.Printf("Asset cleanup failed: %v", err)
		}
	}()

	// --- Login rate limit (optional) ---
	if cfg.RedisURL != "" {
		limiter, err := ratelimit.NewRedisLimiter(cfg.RedisURL, cfg.LoginRateLimit, time.Minute)
		if err != nil {
			log.Fatalf("Failed to configure rate limiter: %v", err)
		}
		defer limiter.Close()
		if err := limiter.Ping(ctx); err != nil {
			log.Printf("Redis unreachable, login rate limit fails open: %v", err)
		}
		deps.Limiter = limiter
	}

	fiberApp, svc := app.New(app.Options{
		JWTSecret:      cfg.JWTSecret,
		JWTTTL:         cfg.JWTTTL,
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		UploadDir:      cfg.UploadDir,
	}, deps)

	if err := svc.Users.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Printf("Error seeding admin %s: %v", cfg.AdminUsername, err)
	}

	// --- Order event consumer ---
	if mqClient != nil {
		err := mqClient.Consume(services.OrderEventsQueue, false, func(msg amqp.Delivery) error {
			log.Printf("Received %s event: %s", msg.Type, string(msg.Body))
			return nil
		})
		if err != nil {
			log.Printf("Failed to start order event consumer: %v", err)
		}
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s (db=%s)", cfg.AppPort, cfg.DBDriver)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := fiberApp.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := fiberApp.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	queue.Close()
	log.Println("Server gracefully stopped")
}

// openStore connects the backend selected by DB_DRIVER.
func openStore(ctx context.Context, cfg config.Config) (*repositories.Store, error) {
	switch cfg.DBDriver {
	case "mongo", "mongodb":
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		client, db, err := repositories.ConnectMongo(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return repositories.NewMongoStore(client, db), nil
	case "postgres", "sqlite":
		db, err := repositories.OpenGORM(cfg.DBDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return repositories.NewGORMStore(db), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}
