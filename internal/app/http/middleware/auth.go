package middleware

import (
	"net/http"

	"gallery-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// RequireRole lets the request through when the session user holds one of
// roles. Anonymous requests are sent to the login page.
func RequireRole(roles ...users.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := SessionFrom(c).Actor()
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		for _, r := range roles {
			if actor.Role == r {
				c.Set(actorKey, actor)
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	}
}

// CurrentActor is the identity RequireRole admitted.
func CurrentActor(c *gin.Context) users.Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(users.Actor); ok {
			return a
		}
	}
	a, _ := SessionFrom(c).Actor()
	return a
}
