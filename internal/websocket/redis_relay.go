package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DefaultRedisChannel is the pub/sub channel change events are relayed on
const DefaultRedisChannel = "household:events"

// relayEnvelope wraps an event with the instance that produced it
type relayEnvelope struct {
	Origin string `json:"origin"`
	Event  Event  `json:"event"`
}

// RedisRelay publishes events to the local hub and to a Redis channel, and
// rebroadcasts events other instances put on that channel. This keeps clients
// connected to different instances in sync.
type RedisRelay struct {
	client  *redis.Client
	hub     *Hub
	channel string
	origin  string
}

// Ensure RedisRelay implements EventPublisher
var _ EventPublisher = (*RedisRelay)(nil)

// NewRedisRelay creates a relay for hub on channel
func NewRedisRelay(client *redis.Client, hub *Hub, channel string) *RedisRelay {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisRelay{
		client:  client,
		hub:     hub,
		channel: channel,
		origin:  uuid.New().String(),
	}
}

// ConnectRedis parses a redis:// URL (or a bare host:port) and verifies the connection
func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		// Fallback to simple connection
		opt = &redis.Options{
			Addr: redisURL,
		}
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// Publish broadcasts locally, then relays the event to other instances.
// A relay failure is logged; local clients are already notified.
func (r *RedisRelay) Publish(event Event) {
	r.hub.Broadcast(event)

	data, err := r.encode(event)
	if err != nil {
		log.Error().Err(err).Str("event_type", event.Type).Msg("Failed to encode relay event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		log.Warn().
			Err(err).
			Str("channel", r.channel).
			Str("event_type", event.Type).
			Msg("Failed to relay event to redis")
	}
}

// Run subscribes to the relay channel until ctx is cancelled
func (r *RedisRelay) Run(ctx context.Context) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	// Wait for the subscription to be confirmed
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s: %w", r.channel, err)
	}

	log.Info().Str("channel", r.channel).Msg("Redis event relay subscribed")

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			r.handleMessage(msg.Payload)
		}
	}
}

func (r *RedisRelay) encode(event Event) ([]byte, error) {
	return json.Marshal(relayEnvelope{Origin: r.origin, Event: event})
}

// handleMessage rebroadcasts events from other instances and reports whether it did
func (r *RedisRelay) handleMessage(payload string) bool {
	var envelope relayEnvelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		log.Warn().Err(err).Str("channel", r.channel).Msg("Discarding malformed relay message")
		return false
	}
	if envelope.Origin == r.origin {
		return false
	}
	r.hub.Broadcast(envelope.Event)
	return true
}
