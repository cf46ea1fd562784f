package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/trade-journal/internal/logging"
	"github.com/trade-journal/internal/service"
	"github.com/trade-journal/pkg/response"
)

const writeWait = 10 * time.Second

// SessionHandler reports live market sessions
type SessionHandler struct {
	sessionService *service.SessionService
	pushInterval   time.Duration
	upgrader       websocket.Upgrader
}

// NewSessionHandler creates a new SessionHandler. The stream pushes a fresh
// status every pushInterval.
func NewSessionHandler(sessionService *service.SessionService, pushInterval time.Duration) *SessionHandler {
	if pushInterval <= 0 {
		pushInterval = 30 * time.Second
	}
	return &SessionHandler{
		sessionService: sessionService,
		pushInterval:   pushInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// CORS is already open to every origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// GetStatus returns the market session clock
// GET /api/v1/sessions/status
func (h *SessionHandler) GetStatus(c *gin.Context) {
	response.Success(c, h.sessionService.Status())
}

// Stream pushes the market session clock over a websocket until the client
// goes away
// GET /api/v1/sessions/stream
func (h *SessionHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error
		logging.LogError("sessions: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// reads only serve to notice the close frame
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.pushInterval)
	defer ticker.Stop()

	for {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(h.sessionService.Status()); err != nil {
			logging.LogDebug("sessions: stream closed: %v", err)
			return
		}

		select {
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

// RegisterRoutes registers session routes
func (h *SessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sessions := rg.Group("/sessions")
	{
		sessions.GET("/status", h.GetStatus)
		sessions.GET("/stream", h.Stream)
	}
}
