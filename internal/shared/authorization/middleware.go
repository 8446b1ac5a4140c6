package authorization

import (
	"github.com/gin-gonic/gin"

	"netreq/internal/shared/constants"
)

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(constants.ContextKeyUserRole)
		if userRole != string(RoleAdmin) {
			c.JSON(403, gin.H{
				"error": "admin access required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// ActorFromContext extracts the authenticated actor set by the auth middleware.
// The second return value is false when the request is unauthenticated.
func ActorFromContext(c *gin.Context) (Actor, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return Actor{}, false
	}
	id, ok := userID.(uint)
	if !ok {
		return Actor{}, false
	}
	return Actor{
		UserID: id,
		Role:   ParseUserRole(c.GetString(constants.ContextKeyUserRole)),
	}, true
}
