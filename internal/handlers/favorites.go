package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/mealmate-backend/internal/models"
	"github.com/AnshRaj112/mealmate-backend/internal/repository"
)

type AddFavoriteRequest struct {
	MealID string `json:"mealId"`
}

// ListFavorites handles GET /favorites
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	favorites, err := h.Store.Favorites.List(ctx, caller(r).UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Favorites retrieved", envelope{
		"favorites": favorites,
		"count":     len(favorites),
	})
}

// AddFavorite handles POST /favorites. A pair that already exists is a 400,
// whether caught by the pre-check or by the unique index.
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var req AddFavoriteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	mealID := strings.TrimSpace(req.MealID)
	if mealID == "" {
		writeError(w, http.StatusBadRequest, "mealId is required")
		return
	}

	userID := caller(r).UserID
	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	exists, err := h.Store.Favorites.Exists(ctx, userID, mealID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if exists {
		writeError(w, http.StatusBadRequest, "Meal is already in favorites")
		return
	}

	favorite := &models.Favorite{UserID: userID, MealID: mealID}
	if err := h.Store.Favorites.Create(ctx, favorite); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "Meal is already in favorites")
			return
		}
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Added to favorites", envelope{"favorite": favorite})
}

// RemoveFavorite handles DELETE /favorites/{mealId}. Removing a pair that
// does not exist still succeeds.
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	if err := h.Store.Favorites.Delete(ctx, caller(r).UserID, chi.URLParam(r, "mealId")); err != nil {
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Removed from favorites", nil)
}
