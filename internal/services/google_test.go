package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestNewGoogleProviderDisabled(t *testing.T) {
	require.Nil(t, NewGoogleProvider(testConfig()))
}

func TestGoogleExchange(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "the-code", r.Form.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "access",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer access", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(GoogleProfile{ID: "g-1", Email: "g@example.com", VerifiedEmail: true, Name: "G"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := testConfig()
	cfg.GoogleClientID = "client"
	cfg.GoogleClientSecret = "secret"
	p := NewGoogleProvider(cfg)
	require.NotNil(t, p)
	p.oauth.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token", AuthStyle: oauth2.AuthStyleInParams}
	p.userInfoURL = srv.URL + "/userinfo"

	require.Contains(t, p.AuthCodeURL("xyz"), "state=xyz")

	profile, err := p.Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	require.Equal(t, "g-1", profile.ID)
	require.True(t, profile.VerifiedEmail)
}
