package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/mealmate-backend/internal/middleware"
	"github.com/AnshRaj112/mealmate-backend/internal/models"
	"github.com/AnshRaj112/mealmate-backend/internal/services"
	"github.com/AnshRaj112/mealmate-backend/pkg/utils"
)

type CreateMealRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Category    string   `json:"category"`
	ImageURL    string   `json:"imageUrl"`
	Calories    int      `json:"calories"`
	Ingredients []string `json:"ingredients"`
}

func parsePrice(r *http.Request, name string) (*float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, &utils.ValidationError{Field: name, Message: name + " must be a non-negative number"}
	}
	return &v, nil
}

// ListMeals handles GET /meals. mine=true needs a valid token.
func (h *Handler) ListMeals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.MealFilter{
		Category: strings.TrimSpace(q.Get("category")),
		Search:   strings.TrimSpace(q.Get("search")),
	}

	var err error
	if filter.MinPrice, err = parsePrice(r, "minPrice"); err != nil {
		h.fail(w, r, err)
		return
	}
	if filter.MaxPrice, err = parsePrice(r, "maxPrice"); err != nil {
		h.fail(w, r, err)
		return
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		writeError(w, http.StatusBadRequest, "minPrice cannot exceed maxPrice")
		return
	}

	if q.Get("mine") == "true" {
		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Sign in to see your meals")
			return
		}
		filter.CreatedBy = claims.UserID
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	meals, err := h.Meals.List(ctx, filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Meals retrieved", envelope{
		"meals": meals,
		"count": len(meals),
	})
}

// GetMeal handles GET /meals/{id}
func (h *Handler) GetMeal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	meal, err := h.Meals.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.failNotFound(w, r, err, "Meal not found")
		return
	}

	writeSuccess(w, http.StatusOK, "Meal retrieved", envelope{"meal": meal})
}

// CreateMeal handles POST /meals
func (h *Handler) CreateMeal(w http.ResponseWriter, r *http.Request) {
	var req CreateMealRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" || req.Price == nil {
		writeError(w, http.StatusBadRequest, "name and price are required")
		return
	}

	meal := &models.Meal{
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		Price:       *req.Price,
		Category:    strings.TrimSpace(req.Category),
		ImageURL:    strings.TrimSpace(req.ImageURL),
		Calories:    req.Calories,
		Ingredients: req.Ingredients,
		CreatedBy:   caller(r).UserID,
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	if err := h.Meals.Create(ctx, meal); err != nil {
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Meal created", envelope{"meal": meal})
}

const maxImageBytes = 5 << 20

// UploadMealImage handles POST /meals/upload-image (multipart field "image").
func (h *Handler) UploadMealImage(w http.ResponseWriter, r *http.Request) {
	if h.Uploader == nil {
		writeError(w, http.StatusServiceUnavailable, "Image uploads are not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+1<<10)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload (max 5MB)")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No image provided")
		return
	}
	file.Close()

	if ct := header.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		writeError(w, http.StatusBadRequest, "File must be an image")
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	url, err := h.Uploader.UploadFileFromHeader(ctx, header, services.MealImagesFolder)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Image uploaded", envelope{"url": url})
}
