package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/AnshRaj112/mealmate-backend/internal/middleware"
	"github.com/AnshRaj112/mealmate-backend/internal/repository"
	"github.com/AnshRaj112/mealmate-backend/internal/services"
	"github.com/AnshRaj112/mealmate-backend/pkg/clientip"
	"github.com/AnshRaj112/mealmate-backend/pkg/utils"
)

const maxBodyBytes = 1 << 20

type envelope map[string]interface{}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, message string, fields envelope) {
	body := envelope{"success": true, "message": message}
	for k, v := range fields {
		body[k] = v
	}
	writeJSON(w, status, body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{"success": false, "message": message})
}

// decodeJSON reads a JSON body into dst. An empty body is a validation error.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &utils.ValidationError{Field: "body", Message: "Request body is required"}
		}
		return &utils.ValidationError{Field: "body", Message: "Invalid request body"}
	}
	return nil
}

func requestMeta(r *http.Request) services.RequestMeta {
	return services.RequestMeta{
		IP:        clientip.RealClientIP(r),
		UserAgent: clientip.UserAgent(r),
	}
}

// caller returns the authenticated identity. Routes using it sit behind
// middleware.Auth, so a missing identity is a wiring bug.
func caller(r *http.Request) *services.Claims {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		panic("handlers: caller used on a route without middleware.Auth")
	}
	return claims
}

// fail maps an error to its status. Anything unrecognized is logged and
// reported as a generic 500.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *utils.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, services.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrFederatedAccount):
		writeError(w, http.StatusBadRequest, "This account uses Google sign-in. Please continue with Google.")
	case errors.Is(err, services.ErrInvalidPassword):
		writeError(w, http.StatusUnauthorized, "Invalid password")
	case errors.Is(err, services.ErrEmailNotVerified):
		writeError(w, http.StatusForbidden, "Please verify your email before signing in")
	case errors.Is(err, services.ErrEmailTaken):
		writeError(w, http.StatusConflict, "An account with this email already exists")
	case errors.Is(err, services.ErrAlreadyVerified):
		writeError(w, http.StatusBadRequest, "Email is already verified")
	case errors.Is(err, services.ErrNoPasswordSet):
		writeError(w, http.StatusBadRequest, "This account has no password. Sign in with Google instead.")
	case errors.Is(err, services.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, "Token expired")
	case errors.Is(err, services.ErrTokenInvalid), errors.Is(err, services.ErrWrongTokenPurpose):
		writeError(w, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, repository.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "Invalid id")
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, repository.ErrDuplicate):
		writeError(w, http.StatusConflict, "Already exists")
	case errors.Is(err, services.ErrAccountMisconfigured):
		h.Logger.Error("account misconfigured", zap.String("path", r.URL.Path))
		writeError(w, http.StatusInternalServerError, "Account error. Please contact support.")
	case errors.Is(err, services.ErrSecretNotConfigured):
		h.Logger.Error("JWT_SECRET is not set")
		writeError(w, http.StatusInternalServerError, "Authentication is not configured")
	default:
		h.Logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// failNotFound is fail with a resource-specific 404 message.
func (h *Handler) failNotFound(w http.ResponseWriter, r *http.Request, err error, message string) {
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
		writeError(w, http.StatusNotFound, message)
		return
	}
	h.fail(w, r, err)
}

// NotFound is the catch-all for unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Route not found")
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
