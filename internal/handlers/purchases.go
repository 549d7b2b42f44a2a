package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/mealmate-backend/internal/models"
)

type CreatePurchaseRequest struct {
	MealPlanID    string   `json:"mealPlanId"`
	Amount        *float64 `json:"amount"`
	PaymentMethod string   `json:"paymentMethod"`
}

// ListPurchases handles GET /purchases (caller's own).
func (h *Handler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	purchases, err := h.Store.Purchases.List(ctx, caller(r).UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Purchases retrieved", envelope{
		"purchases": purchases,
		"count":     len(purchases),
	})
}

// GetPurchase handles GET /purchases/{id}
func (h *Handler) GetPurchase(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	purchase, err := h.Store.Purchases.FindByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.failNotFound(w, r, err, "Purchase not found")
		return
	}
	if purchase.UserID != caller(r).UserID {
		writeError(w, http.StatusForbidden, "You do not have access to this purchase")
		return
	}

	writeSuccess(w, http.StatusOK, "Purchase retrieved", envelope{"purchase": purchase})
}

// CreatePurchase handles POST /purchases
func (h *Handler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req CreatePurchaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	req.MealPlanID = strings.TrimSpace(req.MealPlanID)
	if req.MealPlanID == "" || req.Amount == nil {
		writeError(w, http.StatusBadRequest, "mealPlanId and amount are required")
		return
	}
	if *req.Amount < 0 {
		writeError(w, http.StatusBadRequest, "amount cannot be negative")
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	if _, err := h.Store.MealPlans.FindByID(ctx, req.MealPlanID); err != nil {
		h.failNotFound(w, r, err, "Meal plan not found")
		return
	}

	purchase := &models.Purchase{
		UserID:        caller(r).UserID,
		MealPlanID:    req.MealPlanID,
		Amount:        *req.Amount,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Status:        "completed",
	}
	if err := h.Store.Purchases.Create(ctx, purchase); err != nil {
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Purchase recorded", envelope{"purchase": purchase})
}
