package realtime

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"stressorleads/internal/pkg/jwt"
	"stressorleads/internal/pkg/response"
)

// Handler authenticates websocket clients from the token query parameter,
// since browsers cannot set headers on the upgrade request.
type Handler struct {
	hub      *Hub
	jwt      *jwt.Service
	upgrader *websocket.Upgrader
}

func NewHandler(hub *Hub, jwtService *jwt.Service, allowedOrigins []string) *Handler {
	return &Handler{hub: hub, jwt: jwtService, upgrader: NewUpgrader(allowedOrigins)}
}

// Uploads godoc
// @Summary Stream upload status events
// @Tags Realtime
// @Param token query string true "Bearer token"
// @Router /ws/uploads [get]
func (h *Handler) Uploads(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "AUTH_TOKEN_MISSING", "token query parameter is required")
		return
	}
	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.hub.log.Warn("websocket upgrade failed", "dealer_id", claims.DealerID, "error", err)
		return
	}
	h.hub.Serve(conn, claims.DealerID)
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/ws/uploads", h.Uploads)
}
