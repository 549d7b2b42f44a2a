package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"ENV", "JWT_SECRET", "ALLOWED_ORIGINS", "FRONTEND_URL", "TOKEN_TTL", "BCRYPT_COST", "MONGODB_URI", "MONGO_URI"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	require.Equal(t, "development", cfg.Environment)
	require.False(t, cfg.IsProduction())
	require.Empty(t, cfg.JWTSecret)
	require.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	require.Equal(t, 10, cfg.BcryptCost)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	require.Equal(t, "mongodb://localhost:27017/mealmate", cfg.MongoURI)
	require.False(t, cfg.GoogleEnabled())
	require.False(t, cfg.SMTPEnabled())
	require.False(t, cfg.CloudinaryEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", " Production ")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("ADMIN_EMAIL", "  Boss@Example.com ")
	t.Setenv("PUBLIC_BASE_URL", "https://api.example/")
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")

	cfg := Load()

	require.True(t, cfg.IsProduction())
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	require.Equal(t, 2*time.Hour, cfg.TokenTTL)
	require.Equal(t, 12, cfg.BcryptCost)
	require.Equal(t, "boss@example.com", cfg.AdminEmail)
	require.Equal(t, "https://api.example", cfg.PublicBaseURL)
	require.True(t, cfg.GoogleEnabled())
}

func TestLoadIgnoresUnparsableValues(t *testing.T) {
	t.Setenv("TOKEN_TTL", "forever")
	t.Setenv("BCRYPT_COST", "ten")

	cfg := Load()

	require.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	require.Equal(t, 10, cfg.BcryptCost)
}
