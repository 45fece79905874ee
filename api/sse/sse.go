package sse

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/warchest-gg/server/cache"
	"github.com/warchest-gg/server/game/lobby"
	"go.uber.org/zap"
)

// Handler streams lobby events to browser clients over server-sent
// events. Each connection watches exactly one lobby.
type Handler struct {
	pubsub cache.PubSub
	logger *zap.Logger
}

func NewHandler(pubsub cache.PubSub, logger *zap.Logger) *Handler {
	return &Handler{pubsub: pubsub, logger: logger}
}

// ServeSSE handles GET /sse?lobby=<id>.
func (h *Handler) ServeSSE(c *gin.Context) {
	lobbyID, err := strconv.ParseInt(c.Query("lobby"), 10, 64)
	if err != nil || lobbyID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid lobby"})
		return
	}

	// Set SSE headers.
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	subCtx, subCancel := context.WithCancel(c.Request.Context())
	defer subCancel()

	msgCh, unsub, err := h.pubsub.Subscribe(subCtx, lobby.Channel(lobbyID))
	if err != nil {
		h.logger.Error("sse subscribe failed",
			zap.Int64("lobby_id", lobbyID), zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}
	defer unsub()

	// Send initial connected event.
	fmt.Fprintf(c.Writer, "event: connected\ndata: {\"lobby_id\":%d}\n\n", lobbyID)
	c.Writer.Flush()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-msgCh:
			if !ok {
				return
			}
			fmt.Fprintf(c.Writer, "event: lobby\ndata: %s\n\n", msg.Payload)
			c.Writer.Flush()

		case <-ticker.C:
			// Keepalive comment to prevent proxy timeouts.
			fmt.Fprintf(c.Writer, ": keepalive\n\n")
			c.Writer.Flush()

		case <-c.Request.Context().Done():
			return
		}
	}
}
