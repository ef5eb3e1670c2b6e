package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the application configuration.
type Config struct {
	ServerPort   int
	DatabasePath string
	BaseURL      string // Public base URL used in confirmation links
	CORSOrigins  []string

	// Token signing
	JWTSecret            string
	JWTAlgorithm         string
	JWTExpirationSeconds int

	// Mail transport
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	// Avatar object storage
	S3Region        string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	S3Bucket        string
	S3PublicBaseURL string

	// Optional response cache
	CacheServers    []string
	CacheTTLSeconds int
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	expiration, err := strconv.Atoi(getEnv("JWT_EXPIRATION_SECONDS", "3600"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_SECONDS: %w", err)
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	cacheTTL, err := strconv.Atoi(getEnv("CACHE_TTL_SECONDS", "300"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL_SECONDS: %w", err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	return &Config{
		ServerPort:           port,
		DatabasePath:         getEnv("DATABASE_PATH", "./contacts.db"),
		BaseURL:              getEnv("BASE_URL", fmt.Sprintf("http://localhost:%d", port)),
		CORSOrigins:          splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		JWTSecret:            secret,
		JWTAlgorithm:         getEnv("JWT_ALGORITHM", "HS256"),
		JWTExpirationSeconds: expiration,
		SMTPHost:             getEnv("SMTP_HOST", "localhost"),
		SMTPPort:             smtpPort,
		SMTPUsername:         os.Getenv("SMTP_USERNAME"),
		SMTPPassword:         os.Getenv("SMTP_PASSWORD"),
		MailFrom:             getEnv("MAIL_FROM", "noreply@contacts.local"),
		S3Region:             getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:           os.Getenv("S3_ENDPOINT"),
		S3AccessKey:          os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:          os.Getenv("S3_SECRET_KEY"),
		S3Bucket:             getEnv("S3_BUCKET", "avatars"),
		S3PublicBaseURL:      os.Getenv("S3_PUBLIC_BASE_URL"),
		CacheServers:         splitList(os.Getenv("CACHE_SERVERS")),
		CacheTTLSeconds:      cacheTTL,
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
