package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"labubu_store/internal/events"
	"labubu_store/internal/middleware"
)

const (
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

// Origins are already checked by the CORS middleware.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GET /api/ws
// Streams the session's notifications as {type, payload} envelopes, starting
// with the current cart.
func (h *Handler) Stream(c *gin.Context) {
	session := middleware.SessionID(c)
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	stream, unsubscribe, err := h.Notifications.Subscribe(ctx, session)
	if err != nil {
		log.WithError(err).WithField("session", session).Error("subscribe notifications")
		return
	}
	defer unsubscribe()

	// The read loop only notices the client going away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if snap, err := h.Carts.Get(ctx, session); err == nil {
		env, err := events.Encode(events.CartUpdated{
			Session: session, Lines: snap.Lines, Subtotal: snap.Subtotal,
			Shipping: snap.Shipping, Total: snap.Total, Count: snap.Count,
		})
		if err == nil && write(conn, env) != nil {
			return
		}
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-stream:
			if !ok {
				return
			}
			if err := write(conn, env); err != nil {
				log.WithError(err).WithField("session", session).Debug("websocket write failed")
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

func write(conn *websocket.Conn, env events.Envelope) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(env)
}
