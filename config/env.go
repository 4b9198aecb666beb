package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Port      string
	RateLimit string
	Redis     RedisConfig
	Backend   BackendConfig
	Auth      AuthConfig
	Billing   BillingConfig
	Drafts    DraftsConfig
}

type BackendConfig struct {
	BaseURL string
}

type AuthConfig struct {
	SessionSecret string
	SessionTTL    time.Duration
}

type BillingConfig struct {
	TaxRate decimal.Decimal
}

type DraftsConfig struct {
	TTL time.Duration
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	sessionTTLHours, _ := strconv.Atoi(getEnv("SESSION_TTL_HOURS", "24"))
	draftTTLHours, _ := strconv.Atoi(getEnv("DRAFT_TTL_HOURS", "72"))

	taxRate, err := decimal.NewFromString(getEnv("TAX_RATE", "0.10"))
	if err != nil {
		log.Printf("Invalid TAX_RATE %q, falling back to 0.10", os.Getenv("TAX_RATE"))
		taxRate = decimal.New(1, -1)
	}

	return Config{
		Port:      getEnv("PORT", "8080"),
		RateLimit: getEnv("RATE_LIMIT", "100-M"),
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Backend: BackendConfig{
			BaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:5000"),
		},
		Auth: AuthConfig{
			SessionSecret: getEnv("SESSION_SECRET", "restman-dev-secret"),
			SessionTTL:    time.Duration(sessionTTLHours) * time.Hour,
		},
		Billing: BillingConfig{
			TaxRate: taxRate,
		},
		Drafts: DraftsConfig{
			TTL: time.Duration(draftTTLHours) * time.Hour,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
