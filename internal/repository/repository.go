// Package repository holds the storage boundary for every collection. Each
// interface has a MongoDB implementation; the activity log also has a
// Postgres one.
package repository

import (
	"context"
	"errors"

	"github.com/AnshRaj112/mealmate-backend/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
	ErrInvalidID = errors.New("invalid id")
	// ErrUnchanged means the document exists but was already in the target state.
	ErrUnchanged = errors.New("already in requested state")
)

type UserRepository interface {
	// FindByEmail matches the whole address case-insensitively.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	// Create assigns ID and timestamps. A taken email yields ErrDuplicate.
	Create(ctx context.Context, user *models.User) error
	// MarkVerified flips is_verified from false to true in one conditional
	// write. An account that is already verified yields ErrUnchanged.
	MarkVerified(ctx context.Context, id string) error
	SetPassword(ctx context.Context, id, passwordHash string) error
	LinkGoogle(ctx context.Context, id, googleID string) error
	UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}

type MealRepository interface {
	List(ctx context.Context, filter models.MealFilter) ([]models.Meal, error)
	FindByID(ctx context.Context, id string) (*models.Meal, error)
	Create(ctx context.Context, meal *models.Meal) error
	Count(ctx context.Context) (int64, error)
}

type OrderRepository interface {
	// List returns every order when userID is empty.
	List(ctx context.Context, userID string) ([]models.Order, error)
	FindByID(ctx context.Context, id string) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	Count(ctx context.Context) (int64, error)
}

type PurchaseRepository interface {
	List(ctx context.Context, userID string) ([]models.Purchase, error)
	FindByID(ctx context.Context, id string) (*models.Purchase, error)
	Create(ctx context.Context, purchase *models.Purchase) error
	Count(ctx context.Context) (int64, error)
}

type FavoriteRepository interface {
	List(ctx context.Context, userID string) ([]models.Favorite, error)
	Exists(ctx context.Context, userID, mealID string) (bool, error)
	// Create yields ErrDuplicate when the pair already exists.
	Create(ctx context.Context, favorite *models.Favorite) error
	// Delete is a no-op for a missing pair.
	Delete(ctx context.Context, userID, mealID string) error
}

type MealPlanRepository interface {
	List(ctx context.Context, userID string) ([]models.MealPlan, error)
	FindByID(ctx context.Context, id string) (*models.MealPlan, error)
	Create(ctx context.Context, plan *models.MealPlan) error
	Count(ctx context.Context) (int64, error)
}

type ActivityLogRepository interface {
	Append(ctx context.Context, entry *models.ActivityLog) error
	// List returns entries newest first plus the total count.
	List(ctx context.Context, limit, skip int64) ([]models.ActivityLog, int64, error)
}

// Store bundles the repositories handed to services and handlers.
type Store struct {
	Users        UserRepository
	Meals        MealRepository
	Orders       OrderRepository
	Purchases    PurchaseRepository
	Favorites    FavoriteRepository
	MealPlans    MealPlanRepository
	ActivityLogs ActivityLogRepository
}
