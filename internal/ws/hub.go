// Package ws maintains the set of connected observer sessions and fans
// anomaly events out to them. Membership is ephemeral: events emitted
// before a session joins are never replayed.
package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/aquawatch/aquawatch/internal/pkg/logger"
	"github.com/aquawatch/aquawatch/internal/pkg/metrics"
)

// AnomalyEvent is the single message emitted to observers. It exists
// only on the wire; it is never persisted.
type AnomalyEvent struct {
	StationID string    `json:"station_id"`
	ReadingID int64     `json:"reading_id"`
	AlertID   int64     `json:"alert_id"`
	Timestamp time.Time `json:"timestamp"`
}

type envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub maintains the set of active observer sessions and broadcasts
// events to them.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mu         sync.Mutex
	logger     *logger.Logger
}

// NewHub creates a new hub
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
		logger:     log,
	}
}

// Run owns the session set until ctx is cancelled. Connect, disconnect
// and broadcast all serialize through this loop.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.ObserverConnected()
			h.logger.With("client_id", client.id).Info("Observer connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.ObserverDisconnected()
				h.logger.With("client_id", client.id).Info("Observer disconnected")
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer, drop the session rather than buffer
					h.logger.With("client_id", client.id).Warn("Observer send buffer full, dropping session")
					close(client.send)
					delete(h.clients, client)
					metrics.ObserverDisconnected()
				}
			}
			h.mu.Unlock()

		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		}
	}
}

// BroadcastAnomaly emits an anomaly event to every connected observer.
// With zero observers the event is dropped; emission never fails.
func (h *Hub) BroadcastAnomaly(event AnomalyEvent) {
	message, err := json.Marshal(envelope{Type: "anomaly_alert", Payload: event})
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to marshal broadcast event")
		return
	}
	metrics.RecordBroadcast()
	h.broadcast <- message
}

// ClientCount returns the number of currently connected observers
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
