package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/AnshRaj112/mealmate-backend/internal/services"
)

type contextKey string

const claimsKey contextKey = "claims"

// TokenVerifier is satisfied by *services.TokenService.
type TokenVerifier interface {
	VerifyFor(token string, purpose services.TokenPurpose) (*services.Claims, error)
}

// ClaimsFromContext returns the identity attached by Auth or OptionalAuth.
func ClaimsFromContext(ctx context.Context) (*services.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*services.Claims)
	return claims, ok && claims != nil
}

// WithClaims attaches claims to ctx.
func WithClaims(ctx context.Context, claims *services.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

var (
	errNoToken        = errors.New("no token")
	errMalformedToken = errors.New("malformed authorization header")
)

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", errNoToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" || strings.ContainsAny(token, " \t") {
		return "", errMalformedToken
	}
	return token, nil
}

// Auth rejects requests without a valid session token.
func Auth(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r)
			if err != nil {
				if errors.Is(err, errNoToken) {
					writeError(w, http.StatusUnauthorized, "No token provided")
				} else {
					writeError(w, http.StatusUnauthorized, "Malformed authorization header")
				}
				return
			}

			claims, err := tokens.VerifyFor(token, services.PurposeSession)
			if err != nil {
				status, message := authFailure(err)
				writeError(w, status, message)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuth attaches claims when a valid session token is present and
// otherwise lets the request through untouched.
func OptionalAuth(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, err := BearerToken(r); err == nil {
				if claims, err := tokens.VerifyFor(token, services.PurposeSession); err == nil {
					r = r.WithContext(WithClaims(r.Context(), claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func authFailure(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrSecretNotConfigured):
		return http.StatusInternalServerError, "Authentication is not configured"
	case errors.Is(err, services.ErrTokenExpired):
		return http.StatusUnauthorized, "Token expired"
	default:
		return http.StatusUnauthorized, "Invalid token"
	}
}
