package handlers

import (
	"net/http"
)

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenRequest struct {
	Token string `json:"token"`
}

type EmailRequest struct {
	Email string `json:"email"`
}

type ResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// SignIn handles POST /auth/signin
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	result, err := h.Auth.SignIn(ctx, req.Email, req.Password, requestMeta(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Signed in successfully", envelope{
		"token": result.Token,
		"user":  result.User,
	})
}

// SignUp handles POST /auth/signup
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	userID, err := h.Auth.SignUp(ctx, req.Email, req.Password, req.Name, requestMeta(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Account created. Check your email to verify your address.", envelope{
		"userId": userID,
	})
}

// VerifyEmail handles POST /auth/verify-email
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	result, err := h.Auth.VerifyEmail(ctx, req.Token, requestMeta(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Email verified successfully", envelope{
		"token": result.Token,
		"user":  result.User,
	})
}

// ResendVerification handles POST /auth/resend-verification
func (h *Handler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	if err := h.Auth.ResendVerification(ctx, req.Email, requestMeta(r)); err != nil {
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Verification email sent", nil)
}

// RequestPasswordReset handles POST /auth/reset-password
func (h *Handler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	if err := h.Auth.RequestPasswordReset(ctx, req.Email, requestMeta(r)); err != nil {
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Password reset email sent", nil)
}

// ConfirmPasswordReset handles POST /auth/reset-password/confirm
func (h *Handler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req ResetConfirmRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	if err := h.Auth.ConfirmPasswordReset(ctx, req.Token, req.NewPassword, requestMeta(r)); err != nil {
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Password has been reset. You can now sign in.", nil)
}
