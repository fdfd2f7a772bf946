// Package hub owns the websocket connection plumbing: one Client per
// connection, a buffered send channel, and the gorilla read/write pumps.
package hub

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Snomn123/Whatsapp-layout/internal/config"
	"github.com/Snomn123/Whatsapp-layout/pkg/log"
)

// Client wraps a single websocket connection for an authenticated user.
type Client struct {
	ID     string // connection id, unique per socket
	UserID uint
	Conn   *websocket.Conn
	Send   chan []byte
	cfg    config.WebSocketConfig
}

// NewClient creates a client for an upgraded connection.
func NewClient(id string, userID uint, conn *websocket.Conn, cfg config.WebSocketConfig) *Client {
	return &Client{
		ID:     id,
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		cfg:    cfg,
	}
}

// ReadPump reads frames until the connection dies, invoking handler for each
// frame in order. One goroutine per connection, so event handling for a
// single client is naturally serialized: a frame is processed to completion
// before the next one is read. onClose runs exactly once afterwards.
func (c *Client) ReadPump(handler func(*Client, []byte), onClose func(*Client)) {
	defer func() {
		onClose(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.cfg.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.L().Debug().Str("client_id", c.ID).Err(err).Msg("websocket read error")
			}
			break
		}

		handler(c, message)
	}
}

// WritePump drains the send channel onto the socket and keeps the ping
// cycle alive. Runs in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Enqueue marshals event and queues it for delivery. It never blocks: when
// the buffer is full the frame is dropped and Enqueue reports false.
func (c *Client) Enqueue(event interface{}) bool {
	data, err := json.Marshal(event)
	if err != nil {
		log.L().Error().Err(err).Msg("failed to marshal outbound event")
		return false
	}

	select {
	case c.Send <- data:
		return true
	default:
		log.L().Warn().Str("client_id", c.ID).Uint("user_id", c.UserID).Msg("send buffer full, dropping frame")
		return false
	}
}
