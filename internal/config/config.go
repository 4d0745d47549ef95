package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Audit log backends.
const (
	AuditLogBackendFile     = "file"
	AuditLogBackendDatabase = "database"
)

// Config holds application configuration
type Config struct {
	// Server
	Env        string
	Port       string
	CORSOrigin string

	// Deletion audit log
	AuditLogBackend string
	DeletedLogPath  string

	// Sessions
	SessionSecret     string
	SessionTTL        time.Duration
	SessionCookieName string
	CookieSecure      bool

	// Passwords
	BcryptCost int

	// Admin gateway; empty leaves the admin routes open
	AdminAPIKey string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:        getEnv("ENV", "development"),
		Port:       getEnv("PORT", "4000"),
		CORSOrigin: getEnv("CORS_ORIGIN", "*"),

		AuditLogBackend: strings.ToLower(getEnv("AUDIT_LOG_BACKEND", AuditLogBackendFile)),
		DeletedLogPath:  getEnv("DELETED_LOG_PATH", "logs/deleted-tickets.json"),

		SessionSecret:     getEnv("SESSION_SECRET", "fallback-session-secret-for-dev-only"),
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "xchange_session"),
		CookieSecure:      getEnvBool("COOKIE_SECURE", false),

		AdminAPIKey: os.Getenv("ADMIN_API_KEY"),
	}

	ttlStr := getEnv("SESSION_TTL", "24h")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil || ttl <= 0 {
		log.Printf("Warning: invalid SESSION_TTL value '%s', falling back to 24h\n", ttlStr)
		ttl = 24 * time.Hour
	}
	config.SessionTTL = ttl

	costStr := getEnv("BCRYPT_COST", strconv.Itoa(bcrypt.DefaultCost))
	cost, err := strconv.Atoi(costStr)
	if err != nil || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		log.Printf("Warning: invalid BCRYPT_COST value '%s', falling back to %d\n", costStr, bcrypt.DefaultCost)
		cost = bcrypt.DefaultCost
	}
	config.BcryptCost = cost

	switch config.AuditLogBackend {
	case AuditLogBackendFile, AuditLogBackendDatabase:
	default:
		log.Printf("Warning: unknown AUDIT_LOG_BACKEND '%s', falling back to %s\n", config.AuditLogBackend, AuditLogBackendFile)
		config.AuditLogBackend = AuditLogBackendFile
	}

	return config, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
