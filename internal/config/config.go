package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting of the service. Values come from the
// environment, optionally seeded from a .env file.
type Config struct {
	AppPort        string
	DBDriver       string
	DatabaseDSN    string
	MongoURI       string
	MongoDatabase  string
	JWTSecret      string
	JWTTTL         time.Duration
	RabbitMQURL    string
	RedisURL       string
	LoginRateLimit int
	CloudinaryURL  string
	UploadDir      string
	CORSOrigins    string
	RequestTimeout time.Duration
	CleanupWorkers int
	CleanupBuffer  int
	AdminUsername  string
	AdminPassword  string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":5000")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "cafe.db")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "cafe")
	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("LOGIN_RATE_LIMIT", 10)
	v.SetDefault("CLOUDINARY_URL", "")
	v.SetDefault("UPLOAD_DIR", "public/uploads")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("REQUEST_TIMEOUT", "10s")
	v.SetDefault("CLEANUP_WORKERS", 2)
	v.SetDefault("CLEANUP_BUFFER", 64)
	v.SetDefault("ADMIN_USERNAME", "")
	v.SetDefault("ADMIN_PASSWORD", "")
}

// Load reads the optional .env file and then the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) Config {
	cfg := Config{
		AppPort:        v.GetString("APP_PORT"),
		DBDriver:       strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		MongoURI:       v.GetString("MONGO_URI"),
		MongoDatabase:  v.GetString("MONGO_DATABASE"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTTTL:         v.GetDuration("JWT_TTL"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		RedisURL:       v.GetString("REDIS_URL"),
		LoginRateLimit: v.GetInt("LOGIN_RATE_LIMIT"),
		CloudinaryURL:  v.GetString("CLOUDINARY_URL"),
		UploadDir:      v.GetString("UPLOAD_DIR"),
		CORSOrigins:    v.GetString("CORS_ORIGINS"),
		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
		CleanupWorkers: v.GetInt("CLEANUP_WORKERS"),
		CleanupBuffer:  v.GetInt("CLEANUP_BUFFER"),
		AdminUsername:  v.GetString("ADMIN_USERNAME"),
		AdminPassword:  v.GetString("ADMIN_PASSWORD"),
	}
	if cfg.JWTTTL <= 0 {
		cfg.JWTTTL = 24 * time.Hour
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if cfg.CleanupWorkers < 1 {
		cfg.CleanupWorkers = 1
	}
	if cfg.CleanupBuffer < 0 {
		cfg.CleanupBuffer = 0
	}
	return cfg
}
