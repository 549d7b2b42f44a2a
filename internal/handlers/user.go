package handlers

import (
	"net/http"

	"github.com/AnshRaj112/mealmate-backend/internal/models"
)

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// GetProfile handles GET /user/profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	user, err := h.Users.GetProfile(ctx, caller(r).UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Profile retrieved", envelope{"user": user.Public()})
}

// UpdateProfile handles PUT /user/update-profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.ProfileUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	user, err := h.Users.UpdateProfile(ctx, caller(r).UserID, req, requestMeta(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Profile updated", envelope{"user": user.Public()})
}

// ChangePassword handles POST /user/change-password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	if err := h.Users.ChangePassword(ctx, caller(r).UserID, req.CurrentPassword, req.NewPassword, requestMeta(r)); err != nil {
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Password changed", nil)
}
