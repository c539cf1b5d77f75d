package realtime

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"chitieu/internal/logger"
	"chitieu/internal/middleware"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is served behind a token check; cross-origin browser clients
	// are expected, so origin is not restricted here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is a single WebSocket session belonging to one user's room.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uint
	send   chan []byte
}

// ServeWS returns a Gin handler that authenticates the connection from a
// token query parameter and joins the client to its user's room. The room is
// derived from the token, never from a client-supplied id.
func ServeWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token query parameter is required"})
			return
		}

		claims, err := middleware.ParseToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Get().Errorw("websocket upgrade failed", "error", err)
			return
		}

		client := &Client{
			hub:    hub,
			conn:   conn,
			userID: claims.UserID,
			send:   make(chan []byte, 16),
		}
		hub.register <- client

		go client.writePump()
		go client.readPump()
	}
}

// readPump discards inbound frames (the protocol is server-push only) and
// keeps the connection alive until the peer goes away.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump forwards queued events to the peer and pings it periodically.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
