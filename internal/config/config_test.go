package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {

	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, ":5000", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "cafe", cfg.MongoDatabase)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10, cfg.LoginRateLimit)
	assert.Equal(t, 2, cfg.CleanupWorkers)
	assert.Equal(t, 64, cfg.CleanupBuffer)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.Empty(t, cfg.CloudinaryURL)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", ":9090")
	t.Setenv("DB_DRIVER", "Mongo")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("CLEANUP_WORKERS", "0")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.AppPort)
	assert.Equal(t, "mongo", cfg.DBDriver)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 1, cfg.CleanupWorkers)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}
