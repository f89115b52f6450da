package handler

import (
	"net/http"
	"strings"

	"github.com/dafibh/household/household-backend/internal/websocket"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler upgrades browsers onto the change-event stream
type WebSocketHandler struct {
	hub      *websocket.Hub
	origins  map[string]struct{}
	upgrader ws.Upgrader
}

// NewWebSocketHandler accepts upgrades from the given browser origins. Requests
// without an Origin header are not browsers and are always accepted.
func NewWebSocketHandler(hub *websocket.Hub, allowedOrigins []string) *WebSocketHandler {
	h := &WebSocketHandler{
		hub:     hub,
		origins: make(map[string]struct{}, len(allowedOrigins)),
	}
	for _, origin := range allowedOrigins {
		h.origins[strings.TrimRight(origin, "/")] = struct{}{}
	}
	h.upgrader = ws.Upgrader{
		ReadBufferSize:  512,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if _, ok := h.origins[origin]; ok {
		return true
	}
	log.Warn().Str("origin", origin).Msg("Rejected event stream origin")
	return false
}

// parseEntities reads a comma-separated ?entities= filter. An empty filter
// subscribes to every entity.
func parseEntities(raw string) ([]websocket.EntityType, bool) {
	var entities []websocket.EntityType
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		entity, ok := websocket.ParseEntityType(part)
		if !ok {
			return nil, false
		}
		entities = append(entities, entity)
	}
	return entities, true
}

// HandleWS handles WebSocket connection requests at GET /ws?entities=account,transaction
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	entities, ok := parseEntities(c.QueryParam("entities"))
	if !ok {
		return NewValidationError(c, "Unknown entity in entities filter", nil)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		log.Warn().Err(err).Str("remote", c.RealIP()).Msg("Event stream upgrade failed")
		return nil
	}

	client := websocket.NewClient(conn, h.hub, entities...)
	h.hub.Register(client)

	log.Info().
		Str("client_id", client.ID()).
		Interface("entities", entities).
		Msg("Event stream subscriber connected")

	go client.WritePump()
	go client.ReadPump()

	return nil
}
