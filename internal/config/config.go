package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Security
	JWTSecret   string
	JWTTTLHours int
	AdminEmail  string

	// Application
	AppEnv         string
	AppPort        string
	LogLevel       string
	AllowedOrigins []string
	UploadMaxSize  int64

	// Rate Limiting
	RateLimitPerUser int
	RateLimitPerIP   int

	// Social
	NotificationListLimit int
	FeedLimit             int
	ReportWindowDays      int

	// Images
	RedisURL              string
	CloudinaryURL         string
	CloudinaryTokenKey    string
	SignedURLTTLSeconds   int
	SignedURLCacheSeconds int

	// Telegram front-end, disabled when empty
	BotToken string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "sweatcheck"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "sweatcheck"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:   getEnv("JWT_SECRET_KEY", ""),
		JWTTTLHours: getEnvInt("JWT_TTL_HOURS", 24),
		AdminEmail:  strings.ToLower(strings.TrimSpace(getEnv("ADMIN_EMAIL", ""))),

		AppEnv:         getEnv("APP_ENV", "development"),
		AppPort:        getEnv("APP_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		UploadMaxSize:  getEnvInt64("UPLOAD_MAX_SIZE", 5242880),

		RateLimitPerUser: getEnvInt("RATE_LIMIT_PER_USER", 60),
		RateLimitPerIP:   getEnvInt("RATE_LIMIT_PER_IP", 300),

		NotificationListLimit: getEnvInt("NOTIFICATION_LIST_LIMIT", 30),
		FeedLimit:             getEnvInt("FEED_LIMIT", 200),
		ReportWindowDays:      getEnvInt("REPORT_WINDOW_DAYS", 30),

		RedisURL:              getEnv("REDIS_URL", ""),
		CloudinaryURL:         getEnv("CLOUDINARY_URL", ""),
		CloudinaryTokenKey:    getEnv("CLOUDINARY_AUTH_TOKEN_KEY", ""),
		SignedURLTTLSeconds:   getEnvInt("SIGNED_URL_TTL_SECONDS", 3600),
		SignedURLCacheSeconds: getEnvInt("SIGNED_URL_CACHE_SECONDS", 600),

		BotToken: getEnv("BOT_TOKEN", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET_KEY must be at least 32 characters")
	}
	if c.NotificationListLimit <= 0 {
		return fmt.Errorf("NOTIFICATION_LIST_LIMIT must be positive")
	}
	if c.FeedLimit <= 0 {
		return fmt.Errorf("FEED_LIMIT must be positive")
	}
	if c.ReportWindowDays <= 0 {
		return fmt.Errorf("REPORT_WINDOW_DAYS must be positive")
	}
	// A cached link must never outlive the link itself.
	if c.SignedURLCacheSeconds >= c.SignedURLTTLSeconds {
		return fmt.Errorf("SIGNED_URL_CACHE_SECONDS must be lower than SIGNED_URL_TTL_SECONDS")
	}
	return nil
}

func (c *Config) ValidateProductionSecurity() error {
	if c.AppEnv != "production" {
		return nil
	}

	if c.DBSSLMode != "require" {
		return fmt.Errorf("DB_SSLMODE must be 'require' in production")
	}
	if c.JWTSecret == "your_jwt_secret_minimum_32_chars_here_change_this" {
		return fmt.Errorf("JWT_SECRET_KEY must be changed from default in production")
	}
	for _, origin := range c.AllowedOrigins {
		if origin == "*" {
			return fmt.Errorf("ALLOWED_ORIGINS must not contain '*' in production")
		}
	}

	return nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) GetJWTTTL() time.Duration {
	return time.Duration(c.JWTTTLHours) * time.Hour
}

func (c *Config) GetSignedURLTTL() time.Duration {
	return time.Duration(c.SignedURLTTLSeconds) * time.Second
}

func (c *Config) GetSignedURLCacheTTL() time.Duration {
	return time.Duration(c.SignedURLCacheSeconds) * time.Second
}

func (c *Config) GetReportWindow() time.Duration {
	return time.Duration(c.ReportWindowDays) * 24 * time.Hour
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
