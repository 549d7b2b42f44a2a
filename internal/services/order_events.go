package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AnshRaj112/mealmate-backend/internal/models"
)

const orderChannelPrefix = "orders:user:"

// OrderEvent is pushed to a user's sockets when one of their orders changes.
type OrderEvent struct {
	Type      string       `json:"type"`
	UserID    string       `json:"userId"`
	Order     models.Order `json:"order"`
	Timestamp time.Time    `json:"timestamp"`
}

// EventConn is the part of a WebSocket connection the hub writes to.
type EventConn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// OrderHub fans order events out to connected clients. With Redis, events
// travel through Pub/Sub so every instance delivers to its own sockets;
// without it delivery is local only.
type OrderHub struct {
	redis  *redis.Client
	logger *zap.Logger

	mu    sync.RWMutex
	conns map[string]map[EventConn]*sync.Mutex
}

func NewOrderHub(client *redis.Client, logger *zap.Logger) *OrderHub {
	return &OrderHub{
		redis:  client,
		logger: logger,
		conns:  make(map[string]map[EventConn]*sync.Mutex),
	}
}

func (h *OrderHub) Register(userID string, conn EventConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[EventConn]*sync.Mutex)
	}
	h.conns[userID][conn] = &sync.Mutex{}
}

func (h *OrderHub) Unregister(userID string, conn EventConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[userID], conn)
	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
	}
}

// Connections returns the number of sockets open for userID.
func (h *OrderHub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID])
}

// Publish delivers an event for the order's owner.
func (h *OrderHub) Publish(ctx context.Context, order models.Order, eventType string) error {
	event := OrderEvent{
		Type:      eventType,
		UserID:    order.UserID,
		Order:     order,
		Timestamp: time.Now().UTC(),
	}

	if h.redis == nil {
		h.fanOut(event)
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return h.redis.Publish(ctx, orderChannelPrefix+event.UserID, data).Err()
}

func (h *OrderHub) fanOut(event OrderEvent) {
	h.mu.RLock()
	targets := make(map[EventConn]*sync.Mutex, len(h.conns[event.UserID]))
	for conn, lock := range h.conns[event.UserID] {
		targets[conn] = lock
	}
	h.mu.RUnlock()

	for conn, lock := range targets {
		// gorilla/websocket allows one concurrent writer per connection.
		lock.Lock()
		err := conn.WriteJSON(event)
		lock.Unlock()
		if err != nil {
			h.logger.Debug("dropping order socket", zap.String("user_id", event.UserID), zap.Error(err))
			h.Unregister(event.UserID, conn)
			conn.Close()
		}
	}
}

// Run relays Redis events to local sockets until ctx is cancelled. It returns
// immediately when Redis is not configured.
func (h *OrderHub) Run(ctx context.Context) {
	if h.redis == nil {
		h.logger.Info("Redis not configured; order events are delivered locally only")
		return
	}

	backoff := time.Second
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pubsub := h.redis.PSubscribe(ctx, orderChannelPrefix+"*")
		h.logger.Info("order event subscriber started", zap.String("pattern", orderChannelPrefix+"*"))

		for {
			msg, err := pubsub.ReceiveMessage(ctx)
			if err != nil {
				pubsub.Close()
				if ctx.Err() != nil {
					return
				}
				h.logger.Warn("order event subscriber error", zap.Error(err), zap.Duration("retry_in", backoff))
				select {
				case <-ctx.Done():
					return
				case <-time.After(backoff):
				}
				backoff *= 2
				if backoff > 30*time.Second {
					backoff = 30 * time.Second
				}
				break
			}
			backoff = time.Second

			var event OrderEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				h.logger.Warn("undecodable order event", zap.Error(err))
				continue
			}
			if event.UserID == "" {
				event.UserID = strings.TrimPrefix(msg.Channel, orderChannelPrefix)
			}
			h.fanOut(event)
		}
	}
}
