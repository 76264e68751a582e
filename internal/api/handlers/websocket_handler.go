package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/avasquez/recordshelf-be/internal/auth"
	ws "github.com/avasquez/recordshelf-be/internal/websocket"
)

// WebSocketHandler upgrades HTTP connections for collection-invalidation
// pushes. Connections are keyed to the authenticated user.
type WebSocketHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The session cookie is the auth boundary; origins are already
			// filtered by the CORS layer.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve handles GET /api/ws.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	client := &ws.Client{
		Hub:    h.hub,
		UserID: claims.UserID,
		Conn:   conn,
		Send:   make(chan []byte, 8),
	}
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
