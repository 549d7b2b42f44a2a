package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/AnshRaj112/mealmate-backend/internal/middleware"
	"github.com/AnshRaj112/mealmate-backend/internal/services"
)

const (
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 50 * time.Second
	wsWriteWait  = 10 * time.Second
)

func (h *Handler) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range h.Config.AllowedOrigins {
				if strings.EqualFold(origin, allowed) {
					return true
				}
			}
			return false
		},
	}
}

// OrderEvents handles GET /ws/orders. Browsers cannot set headers on
// WebSocket requests, so the session token may come as ?token=.
func (h *Handler) OrderEvents(w http.ResponseWriter, r *http.Request) {
	token, err := middleware.BearerToken(r)
	if err != nil {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		writeError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	claims, err := h.Tokens.VerifyFor(token, services.PurposeSession)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	conn, err := h.upgrader().Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		return
	}
	defer conn.Close()

	h.Orders.Register(claims.UserID, conn)
	defer h.Orders.Unregister(claims.UserID, conn)

	h.Logger.Debug("order socket connected", zap.String("user_id", claims.UserID))

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(wsPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
					return
				}
			}
		}
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	// The socket is push-only; reads keep the deadline and close handling alive.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
