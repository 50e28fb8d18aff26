package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	coreport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/api/middleware"
)

// Subscriber takes ownership of a live connection for an account
type Subscriber interface {
	Serve(accountID uuid.UUID, conn *websocket.Conn)
}

// RealtimeHandler upgrades authenticated clients to a websocket that receives
// money-received events
type RealtimeHandler struct {
	sessions middleware.SessionResolver
	hub      Subscriber
	upgrader websocket.Upgrader
	logger   coreport.Logger
}

// NewRealtimeHandler creates a realtime handler accepting browser connections from allowedOrigins
func NewRealtimeHandler(sessions middleware.SessionResolver, hub Subscriber, allowedOrigins []string, logger coreport.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		sessions: sessions,
		hub:      hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || middleware.OriginAllowed(allowedOrigins, origin)
			},
		},
		logger: logger,
	}
}

// Connect handles GET /ws?token=. The session token may also be sent as a bearer header.
func (h *RealtimeHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = middleware.BearerToken(c.GetHeader("Authorization"))
	}

	principal, err := h.sessions.ResolveSession(c.Request.Context(), token)
	if err != nil {
		respondError(c, h.logger, err, "Invalid or expired authentication token.")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already answered the request
		h.logger.Warn("Websocket upgrade failed", map[string]any{
			"account_id": principal.AccountID.String(),
			"error":      err.Error(),
		})
		return
	}

	h.hub.Serve(principal.AccountID, conn)
}
