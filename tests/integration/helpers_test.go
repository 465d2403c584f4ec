//go:build integration

package integration

import (
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apetrei/foodscore/backend/internal/infrastructure/clients/postgres"
	"github.com/apetrei/foodscore/backend/internal/infrastructure/clients/redis"
	"github.com/apetrei/foodscore/backend/pkg/config"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func newTestPostgresClient(t *testing.T) *postgres.Client {
	t.Helper()

	client, err := postgres.NewClient(&config.DatabaseConfig{
		Host:     getEnv("TEST_DB_HOST", "localhost"),
		Port:     getEnvAsInt("TEST_DB_PORT", 5432),
		User:     getEnv("TEST_DB_USER", "postgres"),
		Password: getEnv("TEST_DB_PASSWORD", "postgres"),
		Database: getEnv("TEST_DB_NAME", "foodscore_test"),
		SSLMode:  getEnv("TEST_DB_SSLMODE", "disable"),
	})
	require.NoError(t, err, "failed to create postgres client")
	return client
}

// maybeTestRedisClient returns nil instead of failing when no Redis is
// reachable, so cache tests can skip themselves.
func maybeTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	client, err := redis.NewClient(&config.RedisConfig{
		Host:     getEnv("TEST_REDIS_HOST", "localhost"),
		Port:     getEnvAsInt("TEST_REDIS_PORT", 6379),
		Password: getEnv("TEST_REDIS_PASSWORD", ""),
		DB:       getEnvAsInt("TEST_REDIS_DB", 0),
	})
	if err != nil {
		t.Logf("redis unavailable: %v", err)
		return nil
	}
	return client
}
