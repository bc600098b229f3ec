package auth

import (
	"github.com/gin-gonic/gin"

	"usinahub/usinahub-backend/internal/team"
	"usinahub/usinahub-backend/pkg/apperrors"
)

const contextKey = "authContext"

// RequireAuth validates the session cookie and resolves the caller's
// authorization context once per request: user identity plus the linked
// team member's hierarchy level, stored in the Gin context.
func RequireAuth(service *Service, teamService *team.Service, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(cookieName)
		if err != nil || tokenString == "" {
			apperrors.Respond(c, apperrors.Unauthorized("autenticação necessária"))
			c.Abort()
			return
		}

		claims, err := service.ParseToken(tokenString)
		if err != nil {
			apperrors.Respond(c, err)
			c.Abort()
			return
		}

		authCtx := &Context{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		}

		user, err := service.repo.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil || user == nil {
			apperrors.Respond(c, apperrors.Unauthorized("sessão inválida ou expirada"))
			c.Abort()
			return
		}
		authCtx.Name = user.Name

		member, err := teamService.FindByUser(c.Request.Context(), user.ID, user.Email)
		if err == nil && member != nil {
			authCtx.TeamMemberID = member.ID
			authCtx.HierarchyLevel = member.HierarchyLevel
		}

		c.Set(contextKey, authCtx)
		c.Next()
	}
}

// RequireAdmin allows only admin users past. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		authCtx, ok := FromContext(c)
		if !ok || authCtx.Role != RoleAdmin {
			apperrors.Respond(c, apperrors.Forbidden("acesso restrito a administradores"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// FromContext extracts the authorization context set by RequireAuth.
func FromContext(c *gin.Context) (*Context, bool) {
	value, exists := c.Get(contextKey)
	if !exists {
		return nil, false
	}
	authCtx, ok := value.(*Context)
	return authCtx, ok
}
