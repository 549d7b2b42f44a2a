package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/AnshRaj112/mealmate-backend/internal/models"
)

type CreateOrderRequest struct {
	Items           []models.OrderItem `json:"items"`
	TotalPrice      *float64           `json:"totalPrice"`
	DeliveryAddress string             `json:"deliveryAddress"`
	Notes           string             `json:"notes"`
}

const orderCreatedEvent = "order.created"

// ListOrders handles GET /orders (every order).
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	h.listOrders(w, r, "")
}

// ListMyOrders handles GET /orders/my-orders
func (h *Handler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	h.listOrders(w, r, caller(r).UserID)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request, userID string) {
	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	orders, err := h.Store.Orders.List(ctx, userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Orders retrieved", envelope{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder handles GET /orders/{id}. Only the owner may read an order.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	order, err := h.Store.Orders.FindByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.failNotFound(w, r, err, "Order not found")
		return
	}
	if order.UserID != caller(r).UserID {
		writeError(w, http.StatusForbidden, "You do not have access to this order")
		return
	}

	writeSuccess(w, http.StatusOK, "Order retrieved", envelope{"order": order})
}

// CreateOrder handles POST /orders
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if len(req.Items) == 0 || req.TotalPrice == nil {
		writeError(w, http.StatusBadRequest, "items and totalPrice are required")
		return
	}
	for _, item := range req.Items {
		if strings.TrimSpace(item.MealID) == "" || item.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, "each item needs a mealId and a positive quantity")
			return
		}
	}
	if *req.TotalPrice < 0 {
		writeError(w, http.StatusBadRequest, "totalPrice cannot be negative")
		return
	}

	order := &models.Order{
		UserID:          caller(r).UserID,
		Items:           req.Items,
		TotalPrice:      *req.TotalPrice,
		Status:          models.OrderStatusPending,
		DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
		Notes:           strings.TrimSpace(req.Notes),
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	if err := h.Store.Orders.Create(ctx, order); err != nil {
		h.fail(w, r, err)
		return
	}

	if h.Orders != nil {
		if err := h.Orders.Publish(ctx, *order, orderCreatedEvent); err != nil {
			h.Logger.Warn("failed to publish order event", zap.String("order_id", order.ID.Hex()), zap.Error(err))
		}
	}

	writeSuccess(w, http.StatusCreated, "Order placed", envelope{"order": order})
}
