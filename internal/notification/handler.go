package notification

import (
	"fmt"
	"net/http"
	"time"

	authzerrors "go-hris-workflow/internal/authz/errors"
	"go-hris-workflow/internal/middleware"
	"go-hris-workflow/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
)

type Handler struct {
	hub       *Hub
	heartbeat time.Duration
	upgrader  websocket.Upgrader
	logger    *zap.Logger
}

func NewHandler(hub *Hub, heartbeat time.Duration, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("notification.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.handler")
	}
	if heartbeat <= 0 {
		heartbeat = 30 * time.Second
	}
	return &Handler{
		hub:       hub,
		heartbeat: heartbeat,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: l,
	}
}

// Stream serves request.created as server-sent events.
func (h *Handler) Stream(c *gin.Context) {
	caller, ok := middleware.GetIdentity(c)
	if !ok {
		errObj := authzerrors.ErrTokenMissing
		response.Abort(c, errObj.HTTPStatus, errObj.Code, errObj.Message)
		return
	}

	sub := h.hub.Subscribe(caller)
	defer h.hub.Unsubscribe(sub.ID)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	fmt.Fprintf(c.Writer, "event: connected\ndata: {\"subscriberId\":%q}\n\n", sub.ID)
	c.Writer.Flush()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	clientGone := c.Request.Context().Done()
	for {
		select {
		case <-clientGone:
			return
		case msg, ok := <-sub.Messages:
			if !ok {
				return
			}
			fmt.Fprintf(c.Writer, "id: %s\nevent: %s\ndata: %s\n\n", msg.RequestID, msg.Event, msg.Data)
			c.Writer.Flush()
		case <-heartbeat.C:
			fmt.Fprint(c.Writer, ": keepalive\n\n")
			c.Writer.Flush()
		}
	}
}

// WebSocket serves the same events over a websocket; each frame is the
// JSON event.
func (h *Handler) WebSocket(c *gin.Context) {
	caller, ok := middleware.GetIdentity(c)
	if !ok {
		errObj := authzerrors.ErrTokenMissing
		response.Abort(c, errObj.HTTPStatus, errObj.Code, errObj.Message)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.String("user_id", caller.ID), zap.Error(err))
		return
	}
	defer conn.Close()

	sub := h.hub.Subscribe(caller)
	defer h.hub.Unsubscribe(sub.ID)

	// client tidak mengirim apa pun, read loop hanya untuk deteksi close
	closed := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(h.heartbeat)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		case msg, ok := <-sub.Messages:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg.Data); err != nil {
				h.logger.Debug("websocket write failed", zap.String("subscriber_id", sub.ID), zap.Error(err))
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
