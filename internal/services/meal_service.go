package services

import (
	"context"
	"strings"

	"github.com/AnshRaj112/mealmate-backend/internal/config"
	"github.com/AnshRaj112/mealmate-backend/internal/models"
	"github.com/AnshRaj112/mealmate-backend/internal/repository"
	"github.com/AnshRaj112/mealmate-backend/pkg/utils"
)

var mealsListKey = CacheKey("meals", "all")

// MealService fronts the meal repository with a cache for the unfiltered
// catalogue, which is by far the most requested list.
type MealService struct {
	cfg   *config.Config
	meals repository.MealRepository
	cache *CacheService
}

func NewMealService(cfg *config.Config, meals repository.MealRepository, cache *CacheService) *MealService {
	return &MealService{cfg: cfg, meals: meals, cache: cache}
}

func (s *MealService) List(ctx context.Context, filter models.MealFilter) ([]models.Meal, error) {
	if !filter.IsZero() {
		return s.meals.List(ctx, filter)
	}

	var cached []models.Meal
	if s.cache.Get(ctx, mealsListKey, &cached) {
		return cached, nil
	}

	meals, err := s.meals.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, mealsListKey, meals, s.cfg.MealsCacheTTL)
	return meals, nil
}

func (s *MealService) Get(ctx context.Context, id string) (*models.Meal, error) {
	return s.meals.FindByID(ctx, id)
}

func (s *MealService) Create(ctx context.Context, meal *models.Meal) error {
	meal.Name = strings.TrimSpace(meal.Name)
	if meal.Name == "" {
		return &utils.ValidationError{Field: "name", Message: "name is required"}
	}
	if meal.Price < 0 {
		return &utils.ValidationError{Field: "price", Message: "price cannot be negative"}
	}

	if err := s.meals.Create(ctx, meal); err != nil {
		return err
	}
	s.cache.Delete(ctx, mealsListKey)
	return nil
}
