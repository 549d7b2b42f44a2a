package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/mealmate-backend/internal/middleware"
	"github.com/AnshRaj112/mealmate-backend/internal/models"
)

type CreateMealPlanRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Meals       []string `json:"meals"`
	Duration    *int     `json:"duration"`
	Price       *float64 `json:"price"`
}

// ListMealPlans handles GET /meal-plans (public).
func (h *Handler) ListMealPlans(w http.ResponseWriter, r *http.Request) {
	h.listMealPlans(w, r, "")
}

// ListMyMealPlans handles GET /meal-plans/user/my-plans
func (h *Handler) ListMyMealPlans(w http.ResponseWriter, r *http.Request) {
	h.listMealPlans(w, r, caller(r).UserID)
}

func (h *Handler) listMealPlans(w http.ResponseWriter, r *http.Request, userID string) {
	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	plans, err := h.Store.MealPlans.List(ctx, userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Meal plans retrieved", envelope{
		"mealPlans": plans,
		"count":     len(plans),
	})
}

// GetMealPlan handles GET /meal-plans/{id}. isOwner is true for the plan's
// creator and for the configured admin address.
func (h *Handler) GetMealPlan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	plan, err := h.Store.MealPlans.FindByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.failNotFound(w, r, err, "Meal plan not found")
		return
	}

	isOwner := false
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		isAdmin := h.Config.AdminEmail != "" && strings.EqualFold(claims.Email, h.Config.AdminEmail)
		isOwner = claims.UserID == plan.UserID || isAdmin
	}

	writeSuccess(w, http.StatusOK, "Meal plan retrieved", envelope{
		"mealPlan": plan,
		"isOwner":  isOwner,
	})
}

// CreateMealPlan handles POST /meal-plans
func (h *Handler) CreateMealPlan(w http.ResponseWriter, r *http.Request) {
	var req CreateMealPlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" || len(req.Meals) == 0 || req.Duration == nil || req.Price == nil {
		writeError(w, http.StatusBadRequest, "name, meals, duration and price are required")
		return
	}
	if *req.Duration <= 0 || *req.Price < 0 {
		writeError(w, http.StatusBadRequest, "duration must be positive and price non-negative")
		return
	}

	plan := &models.MealPlan{
		UserID:      caller(r).UserID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Meals:       req.Meals,
		Duration:    *req.Duration,
		Price:       *req.Price,
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	if err := h.Store.MealPlans.Create(ctx, plan); err != nil {
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Meal plan created", envelope{"mealPlan": plan})
}
