// Package handlers implements the JSON HTTP endpoints. Every response uses the
// {"success": bool, "message": string, ...} envelope.
package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/AnshRaj112/mealmate-backend/internal/config"
	"github.com/AnshRaj112/mealmate-backend/internal/middleware"
	"github.com/AnshRaj112/mealmate-backend/internal/repository"
	"github.com/AnshRaj112/mealmate-backend/internal/services"
)

const (
	requestTimeout = 5 * time.Second
	adminTimeout   = 10 * time.Second
)

// Deps are the collaborators shared by every handler.
type Deps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Store    *repository.Store
	Tokens   *services.TokenService
	Auth     *services.AuthService
	Users    *services.UserService
	Meals    *services.MealService
	Activity *services.ActivityRecorder
	Google   *services.GoogleProvider // nil when Google sign-in is not configured
	Uploader services.ImageUploader   // nil when uploads are not configured
	Orders   *services.OrderHub
	Limiter  *middleware.RedisRateLimiter // nil when /auth/* is not rate limited
}

type Handler struct {
	Deps
}

func New(deps Deps) *Handler {
	return &Handler{Deps: deps}
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, requestTimeout)
}
