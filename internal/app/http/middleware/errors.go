package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Errors answers requests that ended with an error on the context but no
// response.
func Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		if errors.Is(err, ErrBadCSRFToken) {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid csrf token"})
			return
		}
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled request error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		log.Error().Interface("panic", rec).Str("path", c.Request.URL.Path).Msg("recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}
