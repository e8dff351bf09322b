package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"librarychat/internal/auth"
)

const userIDKey = "user_id"

// AuthRequired validates the bearer token and stashes the user id on the
// request context.
func AuthRequired(a *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondFail(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}

		userID, err := a.Verify(token)
		if err != nil {
			respondFail(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUser(c *gin.Context) uuid.UUID {
	return c.MustGet(userIDKey).(uuid.UUID)
}
