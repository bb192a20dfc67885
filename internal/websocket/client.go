package websocket

import (
	"context"
	"time"

	ws "github.com/coder/websocket"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
)

// client is one connected display. The server only pushes; anything the
// display sends upstream is drained and ignored.
type client struct {
	hub  *Hub
	conn *ws.Conn
	send chan []byte
}

func newClient(hub *Hub, conn *ws.Conn) *client {
	return &client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// run serves the connection until it drops: register with the hub, push
// broadcasts from the send channel, ping on an interval to notice a
// display that went away without closing.
func (c *client) run(ctx context.Context) {
	c.hub.register(c)
	defer c.hub.unregister(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		defer cancel()
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()

		for {
			select {
			case msg, ok := <-c.send:
				if !ok {
					return
				}
				if err := c.conn.Write(ctx, ws.MessageText, msg); err != nil {
					return
				}
			case <-ticker.C:
				if err := c.conn.Ping(ctx); err != nil {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	// Drain inbound frames so pongs and close frames are processed.
	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			return
		}
	}
}
