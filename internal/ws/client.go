// Package ws provides the real-time command channel for room status
// updates over websocket connections.
package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/navikt/roomboard/internal/broadcast"
	"github.com/navikt/roomboard/internal/models"
)

const (
	// writeWait bounds a single frame write
	writeWait = 10 * time.Second
	// pongWait is how long to wait for a pong before dropping the peer
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize bounds inbound command frames
	maxMessageSize = 64 * 1024
)

// inboundMessage is a command from the client
type inboundMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// outboundMessage is an event pushed to the client
type outboundMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// client is one authenticated websocket connection. All writes go through
// the send channel and a single writer goroutine, so handler code never
// writes to the socket concurrently.
type client struct {
	id       string
	identity *models.Identity
	conn     *websocket.Conn
	sub      *broadcast.Subscriber

	send      chan outboundMessage
	done      chan struct{}
	closeOnce sync.Once

	// ctx is cancelled when the connection closes; operations started on
	// behalf of this client inherit it
	ctx    context.Context
	cancel context.CancelFunc
}

func newClient(id string, identity *models.Identity, conn *websocket.Conn, sub *broadcast.Subscriber) *client {
	ctx, cancel := context.WithCancel(context.Background())
	return &client{
		id:       id,
		identity: identity,
		conn:     conn,
		sub:      sub,
		send:     make(chan outboundMessage, 32),
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// emit queues a direct message for this client only. Messages to a closed
// or saturated client are dropped.
func (c *client) emit(event string, data interface{}) {
	msg := outboundMessage{Event: event, Data: data}
	select {
	case c.send <- msg:
	case <-c.done:
	default:
		log.Printf("ws: dropping %s message for slow client %s", event, c.id)
	}
}

// emitError sends an error event with a user-facing message
func (c *client) emitError(message string) {
	c.emit(models.EventError, map[string]string{"message": message})
}

// writePump is the single writer goroutine: it merges broadcast events
// and direct replies onto the socket and keeps the connection alive with
// pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case msg := <-c.send:
			if err := c.writeJSON(msg); err != nil {
				return
			}
		case event, ok := <-c.sub.C:
			if !ok {
				return
			}
			if err := c.writeJSON(outboundMessage{Event: event.Name, Data: event.Data}); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *client) writeJSON(msg outboundMessage) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}

// close shuts the connection down exactly once
func (c *client) close() {
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.done)
		c.conn.Close()
	})
}
