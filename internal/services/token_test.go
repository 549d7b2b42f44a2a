package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/mealmate-backend/internal/config"
	"github.com/AnshRaj112/mealmate-backend/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:      "test-secret",
		TokenTTL:       7 * 24 * time.Hour,
		VerifyTokenTTL: 24 * time.Hour,
		ResetTokenTTL:  time.Hour,
		BcryptCost:     4,
		PublicBaseURL:  "http://api.test",
		FrontendURL:    "http://app.test",
	}
}

func testUser() *models.User {
	return &models.User{ID: primitive.NewObjectID(), Email: "a@example.com", Name: "Ann"}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService(testConfig())
	user := testUser()

	token, err := svc.Issue(user, PurposeSession)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, user.ID.Hex(), claims.UserID)
	require.Equal(t, user.Email, claims.Email)
	require.Equal(t, PurposeSession, claims.Purpose)
	require.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenExpiry(t *testing.T) {
	issuedAt := time.Now()
	clock := issuedAt
	svc := NewTokenService(testConfig()).WithClock(func() time.Time { return clock })

	token, err := svc.Issue(testUser(), PurposeSession)
	require.NoError(t, err)

	clock = issuedAt.Add(7*24*time.Hour - time.Minute)
	_, err = svc.Verify(token)
	require.NoError(t, err)

	clock = issuedAt.Add(7*24*time.Hour + time.Minute)
	_, err = svc.Verify(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenService(testConfig()).Issue(testUser(), PurposeSession)
	require.NoError(t, err)

	other := testConfig()
	other.JWTSecret = "different"
	_, err = NewTokenService(other).Verify(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenMalformed(t *testing.T) {
	_, err := NewTokenService(testConfig()).Verify("not.a.token")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenSecretNotConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecret = ""
	svc := NewTokenService(cfg)

	_, err := svc.Issue(testUser(), PurposeSession)
	require.ErrorIs(t, err, ErrSecretNotConfigured)

	_, err = svc.Verify("anything")
	require.ErrorIs(t, err, ErrSecretNotConfigured)
}

func TestTokenPurpose(t *testing.T) {
	svc := NewTokenService(testConfig())
	token, err := svc.Issue(testUser(), PurposeVerifyEmail)
	require.NoError(t, err)

	_, err = svc.VerifyFor(token, PurposeSession)
	require.ErrorIs(t, err, ErrWrongTokenPurpose)

	claims, err := svc.VerifyFor(token, PurposeVerifyEmail)
	require.NoError(t, err)
	require.Equal(t, PurposeVerifyEmail, claims.Purpose)
}
