package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	JWTSecret          string
	Port               string
	DatabasePath       string
	LogLevel           string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	// MaxReceiptTextBytes bounds the raw OCR text accepted per submission.
	MaxReceiptTextBytes int64

	// BarcodeTailLines is the trailing-line window scanned for the long
	// receipt barcode. Empirical default of 5 from sample data; layouts
	// with longer footers can raise it.
	BarcodeTailLines int

	// ChainMappingMemoTTL bounds how stale the per-process merchant
	// normalization memo may get relative to the reference table.
	ChainMappingMemoTTL time.Duration

	ReceiptCacheTTL     time.Duration
	ReceiptCacheCleanup time.Duration
}

var Cfg *AppConfig

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, relying on OS environment variables and defaults:", err)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	jwtSecret := getEnv("JWT_SECRET", "local-dev-only-secret-of-at-least-32-bytes!!")
	if jwtSecret == "local-dev-only-secret-of-at-least-32-bytes!!" {
		log.Println("WARNING: Using default insecure JWT_SECRET. Set JWT_SECRET for production.")
	}

	Cfg = &AppConfig{
		JWTSecret:          jwtSecret,
		Port:               getEnv("PORT", "8080"),
		DatabasePath:       getEnv("DATABASE_PATH", "./receipto.db"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		AccessTokenExpiry:  getEnvAsDuration("ACCESS_TOKEN_EXPIRY", 60*time.Minute),
		RefreshTokenExpiry: getEnvAsDuration("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour),

		MaxReceiptTextBytes: getEnvAsInt64("MAX_RECEIPT_TEXT_BYTES", 64*1024),
		BarcodeTailLines:    getEnvAsInt("RECEIPT_BARCODE_TAIL_LINES", 5),

		ChainMappingMemoTTL: getEnvAsDuration("CHAIN_MAPPING_MEMO_TTL", 5*time.Minute),
		ReceiptCacheTTL:     getEnvAsDuration("RECEIPT_CACHE_TTL", 15*time.Minute),
		ReceiptCacheCleanup: getEnvAsDuration("RECEIPT_CACHE_CLEANUP", 30*time.Minute),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, BarcodeTailLines=%d",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.BarcodeTailLines)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}
