package websocket

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ClientInterface is what the hub needs from a subscriber
type ClientInterface interface {
	ID() string
	// Wants reports whether the client subscribed to events about entity
	Wants(entity EntityType) bool
	Send(data []byte) error
	Close() error
}

// Hub fans change events out to the subscribers of this process.
// It is safe for concurrent use.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]ClientInterface
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]ClientInterface)}
}

func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	h.clients[client.ID()] = client
	h.mu.Unlock()

	log.Debug().Str("client_id", client.ID()).Msg("Subscriber registered")
}

// Unregister forgets client; unknown clients are ignored
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	_, ok := h.clients[client.ID()]
	delete(h.clients, client.ID())
	h.mu.Unlock()

	if ok {
		log.Debug().Str("client_id", client.ID()).Msg("Subscriber unregistered")
	}
}

// Broadcast delivers event to every subscriber of its entity. A subscriber
// that cannot keep up is disconnected so it reloads on reconnect.
func (h *Hub) Broadcast(event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().Err(err).Str("event_type", event.Type).Msg("Failed to encode event")
		return
	}

	h.mu.RLock()
	recipients := make([]ClientInterface, 0, len(h.clients))
	for _, client := range h.clients {
		if client.Wants(event.Entity) {
			recipients = append(recipients, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range recipients {
		err := client.Send(data)
		switch {
		case err == nil:
		case errors.Is(err, ErrClientSlow):
			log.Warn().Str("client_id", client.ID()).Msg("Dropping slow subscriber")
			h.Unregister(client)
			_ = client.Close()
		default:
			log.Debug().Err(err).Str("client_id", client.ID()).Msg("Skipped closed subscriber")
		}
	}

	log.Debug().
		Str("event_type", event.Type).
		Str("entity", string(event.Entity)).
		Int("recipients", len(recipients)).
		Msg("Broadcast event")
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll disconnects every subscriber; used on shutdown
func (h *Hub) CloseAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]ClientInterface)
	h.mu.Unlock()

	for _, client := range clients {
		_ = client.Close()
	}
}
