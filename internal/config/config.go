package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Environment string // ENV: production, development, etc.
	Port        string

	MongoURI    string
	PostgresURI string // Optional: when set, activity logs go to Postgres
	RedisURI    string // Optional: enables rate limiting, caching and cross-instance order events

	JWTSecret      string // No default: an empty secret is reported as unconfigured
	TokenTTL       time.Duration
	VerifyTokenTTL time.Duration
	ResetTokenTTL  time.Duration
	BcryptCost     int

	GoogleClientID     string
	GoogleClientSecret string

	PublicBaseURL  string
	FrontendURL    string
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL
	AdminEmail     string
	AllowedHost    string // Production host check; empty disables it

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string

	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	MealsCacheTTL time.Duration
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))
	frontendURL := getEnv("FRONTEND_URL", "http://localhost:3000")

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{frontendURL}
	}

	return &Config{
		Environment: env,
		Port:        getEnv("PORT", "8080"),

		MongoURI:    getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/mealmate")),
		PostgresURI: getEnv("POSTGRES_URI", ""),
		RedisURI:    getEnv("REDIS_URI", ""),

		JWTSecret:      getEnv("JWT_SECRET", ""),
		TokenTTL:       getDuration("TOKEN_TTL", 7*24*time.Hour),
		VerifyTokenTTL: getDuration("VERIFY_TOKEN_TTL", 24*time.Hour),
		ResetTokenTTL:  getDuration("RESET_TOKEN_TTL", time.Hour),
		BcryptCost:     getInt("BCRYPT_COST", 10),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),

		PublicBaseURL:  strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		FrontendURL:    strings.TrimRight(frontendURL, "/"),
		AllowedOrigins: allowedOrigins,
		AdminEmail:     strings.ToLower(strings.TrimSpace(getEnv("ADMIN_EMAIL", ""))),
		AllowedHost:    getEnv("ALLOWED_HOST", ""),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		EmailFrom:    getEnv("EMAIL_FROM", "no-reply@mealmate.local"),

		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),

		MealsCacheTTL: getDuration("MEALS_CACHE_TTL", 5*time.Minute),
	}
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

// GoogleEnabled reports whether federated sign-in has client credentials.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}

func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
