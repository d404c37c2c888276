package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	LogLevel    string

	JWTSecret string
	JWTIssuer string

	ClientOrigin string
	Timezone     *time.Location

	TxMaxAttempts int
	TxTimeout     time.Duration

	Redis RedisConfig

	RateLimitPerMinute int
	LinkSweepInterval  time.Duration
}

// RedisConfig is optional. With an empty Addr rate limiting stays in
// process memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	tzName := getEnv("APP_TIMEZONE", "Europe/Kyiv")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", tzName, err)
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		JWTSecret: getEnvOrPanic("JWT_SECRET"),
		JWTIssuer: getEnv("JWT_ISSUER", ""),

		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:3000"),
		Timezone:     loc,

		TxMaxAttempts: getEnvInt("TX_MAX_ATTEMPTS", 5),
		TxTimeout:     getEnvDuration("TX_TIMEOUT", 5*time.Second),

		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 300),
		LinkSweepInterval:  getEnvDuration("LINK_SWEEP_INTERVAL", time.Hour),
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return d
}

func getEnvOrPanic(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		panic("required environment variable not set: " + key)
	}
	return value
}
