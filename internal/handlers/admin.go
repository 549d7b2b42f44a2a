package handlers

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 200
)

// GetSummary handles GET /admin/summary. Any authenticated caller may read it.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), adminTimeout)
	defer cancel()

	counters := []struct {
		key   string
		count func(context.Context) (int64, error)
	}{
		{"totalUsers", h.Store.Users.Count},
		{"totalMeals", h.Store.Meals.Count},
		{"totalOrders", h.Store.Orders.Count},
		{"totalMealPlans", h.Store.MealPlans.Count},
		{"totalPurchases", h.Store.Purchases.Count},
	}

	summary := envelope{}
	for _, c := range counters {
		n, err := c.count(ctx)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		summary[c.key] = n
	}
	summary["timestamp"] = time.Now().UTC()

	writeSuccess(w, http.StatusOK, "Summary retrieved", envelope{"summary": summary})
}

// GetActivityLogs handles GET /admin/activity-logs?limit=&skip=
func (h *Handler) GetActivityLogs(w http.ResponseWriter, r *http.Request) {
	limit := int64(defaultLogLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxLogLimit)
	}

	var skip int64
	if raw := r.URL.Query().Get("skip"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "skip must be a non-negative integer")
			return
		}
		skip = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), adminTimeout)
	defer cancel()

	logs, total, err := h.Activity.List(ctx, limit, skip)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Activity logs retrieved", envelope{
		"logs":  logs,
		"total": total,
		"limit": limit,
		"skip":  skip,
	})
}

// UnblockIP handles PUT /admin/unblock-ip?ip= and lifts an /auth/* rate limit
// block early.
func (h *Handler) UnblockIP(w http.ResponseWriter, r *http.Request) {
	if h.Limiter == nil {
		writeError(w, http.StatusServiceUnavailable, "Rate limiting is not enabled")
		return
	}

	ip := r.URL.Query().Get("ip")
	if net.ParseIP(ip) == nil {
		writeError(w, http.StatusBadRequest, "A valid ip query parameter is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), adminTimeout)
	defer cancel()

	blocked, err := h.Limiter.IsBlocked(ctx, ip)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !blocked {
		writeSuccess(w, http.StatusOK, "IP address is not currently blocked", envelope{"ip": ip})
		return
	}

	if err := h.Limiter.Unblock(ctx, ip); err != nil {
		h.fail(w, r, err)
		return
	}
	h.Logger.Info("ip unblocked", zap.String("ip", ip), zap.String("by", caller(r).UserID))

	writeSuccess(w, http.StatusOK, "IP address unblocked", envelope{"ip": ip})
}
