package notifications

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"usinahub/usinahub-backend/internal/auth"
	"usinahub/usinahub-backend/pkg/apperrors"
)

// WebsocketUpgrader upgrades an authenticated request to a live push
// connection for the given user.
type WebsocketUpgrader interface {
	HandleConnection(w http.ResponseWriter, r *http.Request, userID uint) error
}

type Handler struct {
	service  *Service
	upgrader WebsocketUpgrader
}

func NewHandler(service *Service, upgrader WebsocketUpgrader) *Handler {
	return &Handler{service: service, upgrader: upgrader}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.List)
	r.GET("/unread-count", h.UnreadCount)
	r.POST("/:id/read", h.MarkRead)
	r.POST("/read-all", h.MarkAllRead)
	r.GET("/ws", h.Websocket)
}

func currentUser(c *gin.Context) (uint, bool) {
	authCtx, ok := auth.FromContext(c)
	if !ok {
		apperrors.Respond(c, apperrors.Unauthorized("autenticação necessária"))
		return 0, false
	}
	return authCtx.UserID, true
}

func (h *Handler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	unreadOnly := c.Query("unread") == "true"
	list, err := h.service.ListByUser(c.Request.Context(), userID, unreadOnly)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) UnreadCount(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	count, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *Handler) MarkRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.Respond(c, apperrors.Validation("id inválido"))
		return
	}
	if err := h.service.MarkRead(c.Request.Context(), userID, uint(id)); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.service.MarkAllRead(c.Request.Context(), userID); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) Websocket(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.upgrader.HandleConnection(c.Writer, c.Request, userID); err != nil {
		apperrors.Respond(c, apperrors.Internal("falha ao abrir conexão", err))
	}
}
