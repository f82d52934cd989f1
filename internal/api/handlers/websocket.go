package handlers

import (
	"net/http"

	"github.com/aquawatch/aquawatch/internal/ws"
)

// WebSocketHandler upgrades observers onto the realtime anomaly feed
type WebSocketHandler struct {
	hub *ws.Hub
}

// NewWebSocketHandler creates a new websocket handler
func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// Serve handles a websocket upgrade request
// @Summary Subscribe to realtime anomaly events
// @Tags Realtime
// @Router /ws [get]
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeWS(w, r)
}
