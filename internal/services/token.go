package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AnshRaj112/mealmate-backend/internal/config"
	"github.com/AnshRaj112/mealmate-backend/internal/models"
)

// TokenPurpose scopes a token to one flow so a verification link cannot be
// replayed as a session.
type TokenPurpose string

const (
	PurposeSession       TokenPurpose = "session"
	PurposeVerifyEmail   TokenPurpose = "verify_email"
	PurposeResetPassword TokenPurpose = "reset_password"
)

type Claims struct {
	UserID  string       `json:"userId"`
	Email   string       `json:"email"`
	Name    string       `json:"name,omitempty"`
	Purpose TokenPurpose `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 tokens. It is stateless and safe for
// concurrent use.
type TokenService struct {
	secret []byte
	ttls   map[TokenPurpose]time.Duration
	now    func() time.Time
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		secret: []byte(cfg.JWTSecret),
		ttls: map[TokenPurpose]time.Duration{
			PurposeSession:       cfg.TokenTTL,
			PurposeVerifyEmail:   cfg.VerifyTokenTTL,
			PurposeResetPassword: cfg.ResetTokenTTL,
		},
		now: time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

func (s *TokenService) Issue(user *models.User, purpose TokenPurpose) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrSecretNotConfigured
	}
	ttl, ok := s.ttls[purpose]
	if !ok {
		return "", fmt.Errorf("unknown token purpose %q", purpose)
	}

	now := s.now()
	claims := Claims{
		UserID:  user.ID.Hex(),
		Email:   user.Email,
		Name:    user.Name,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature and expiry. It does not check the purpose; see
// VerifyFor.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	if len(s.secret) == 0 {
		return nil, ErrSecretNotConfigured
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// VerifyFor is Verify plus a purpose check.
func (s *TokenService) VerifyFor(tokenString string, purpose TokenPurpose) (*Claims, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purpose {
		return nil, ErrWrongTokenPurpose
	}
	return claims, nil
}
