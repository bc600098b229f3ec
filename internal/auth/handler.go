package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"usinahub/usinahub-backend/internal/config"
	"usinahub/usinahub-backend/pkg/apperrors"
)

type Handler struct {
	service *Service
	cfg     config.SecurityConfig
}

func NewHandler(service *Service, cfg config.SecurityConfig) *Handler {
	return &Handler{service: service, cfg: cfg}
}

// RegisterPublicRoutes registers the unauthenticated auth endpoints.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	r.POST("/request-password-reset", h.RequestPasswordReset)
	r.POST("/reset-password", h.ResetPassword)
}

// RegisterProtectedRoutes registers endpoints requiring a session.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/me", h.Me)
	r.POST("/change-password", h.ChangePassword)
}

func (h *Handler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.Validation("dados inválidos"))
		return
	}
	user, err := h.service.Register(c.Request.Context(), input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.Validation("dados inválidos"))
		return
	}
	user, token, err := h.service.Login(c.Request.Context(), input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.SetCookie(h.cfg.CookieName, token, int(h.cfg.SessionTTL.Seconds()), "/", "", h.cfg.CookieSecure, true)
	c.JSON(http.StatusOK, user)
}

func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(h.cfg.CookieName, "", -1, "/", "", h.cfg.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) Me(c *gin.Context) {
	authCtx, ok := FromContext(c)
	if !ok {
		apperrors.Respond(c, apperrors.Unauthorized("autenticação necessária"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":              authCtx.UserID,
		"name":            authCtx.Name,
		"email":           authCtx.Email,
		"role":            authCtx.Role,
		"team_member_id":  authCtx.TeamMemberID,
		"hierarchy_level": authCtx.HierarchyLevel,
	})
}

func (h *Handler) ChangePassword(c *gin.Context) {
	authCtx, ok := FromContext(c)
	if !ok {
		apperrors.Respond(c, apperrors.Unauthorized("autenticação necessária"))
		return
	}
	var input ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.Validation("dados inválidos"))
		return
	}
	if err := h.service.ChangePassword(c.Request.Context(), authCtx.UserID, input); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.Validation("dados inválidos"))
		return
	}
	if err := h.service.RequestPasswordReset(c.Request.Context(), input.Email); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var input ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.Validation("dados inválidos"))
		return
	}
	if err := h.service.ResetPassword(c.Request.Context(), input); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
