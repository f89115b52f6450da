package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	// Subscribers only ever send control frames
	maxInboundSize = 512

	sendBuffer = 64
)

var (
	// ErrClientClosed is returned by Send once the connection is gone
	ErrClientClosed = errors.New("client is closed")
	// ErrClientSlow is returned by Send when the client's queue is full
	ErrClientSlow = errors.New("client send queue full")
)

// Client is one browser subscribed to change events over a socket
type Client struct {
	id       string
	entities map[EntityType]struct{}
	conn     *websocket.Conn
	hub      *Hub

	queue     chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewClient subscribes conn to the given entities, or to every entity when none
// are given
func NewClient(conn *websocket.Conn, hub *Hub, entities ...EntityType) *Client {
	c := &Client{
		id:       uuid.NewString(),
		entities: make(map[EntityType]struct{}, len(entities)),
		conn:     conn,
		hub:      hub,
		queue:    make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
	}
	for _, e := range entities {
		c.entities[e] = struct{}{}
	}
	return c
}

func (c *Client) ID() string { return c.id }

// Wants reports whether events about entity should reach this client
func (c *Client) Wants(entity EntityType) bool {
	if len(c.entities) == 0 {
		return true
	}
	_, ok := c.entities[entity]
	return ok
}

// Send queues data without blocking
func (c *Client) Send(data []byte) error {
	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}

	select {
	case c.queue <- data:
		return nil
	case <-c.done:
		return ErrClientClosed
	default:
		return ErrClientSlow
	}
}

// Close tears the connection down once; later calls return nil
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

// IsClosed reports whether Close has run
func (c *Client) IsClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// ReadPump keeps the read side alive so pongs and close frames are handled.
// Anything the browser writes is dropped. Returns when the peer goes away.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.Close()
	}()

	c.conn.SetReadLimit(maxInboundSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("client_id", c.id).Msg("Subscriber dropped")
			}
			return
		}
	}
}

// WritePump writes queued events and keepalive pings until the client closes.
// Run it on its own goroutine.
func (c *Client) WritePump() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case data := <-c.queue:
			if err := c.write(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Str("client_id", c.id).Msg("Failed to write event")
				return
			}
		case <-ping.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			return
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}
