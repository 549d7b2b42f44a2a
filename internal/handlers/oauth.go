package handlers

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const oauthStateCookie = "oauth_state"

// GoogleLogin handles GET /auth/google
func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.Google == nil {
		writeError(w, http.StatusNotFound, "Google sign-in is not enabled")
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   h.Config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.Google.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallback handles GET /auth/google/callback. The outcome is sent to the
// frontend as a query parameter on its callback page.
func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.Google == nil {
		writeError(w, http.StatusNotFound, "Google sign-in is not enabled")
		return
	}

	// The state is single use.
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Value: "", Path: "/auth/google", MaxAge: -1})

	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		h.redirectToFrontend(w, r, url.Values{"error": {"invalid_state"}})
		return
	}
	if e := r.URL.Query().Get("error"); e != "" {
		h.redirectToFrontend(w, r, url.Values{"error": {e}})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), adminTimeout)
	defer cancel()

	profile, err := h.Google.Exchange(ctx, r.URL.Query().Get("code"))
	if err != nil {
		h.Logger.Warn("google exchange failed", zap.Error(err))
		h.redirectToFrontend(w, r, url.Values{"error": {"exchange_failed"}})
		return
	}

	result, err := h.Auth.FederatedSignIn(ctx, *profile, requestMeta(r))
	if err != nil {
		h.Logger.Warn("google sign-in rejected", zap.Error(err))
		h.redirectToFrontend(w, r, url.Values{"error": {"signin_failed"}})
		return
	}

	h.redirectToFrontend(w, r, url.Values{"token": {result.Token}})
}

func (h *Handler) redirectToFrontend(w http.ResponseWriter, r *http.Request, query url.Values) {
	http.Redirect(w, r, h.Config.FrontendURL+"/auth/callback?"+query.Encode(), http.StatusFound)
}
