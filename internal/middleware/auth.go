package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sekolahku/pelajar-gateway/internal/response"
	"github.com/sekolahku/pelajar-gateway/internal/schoolapi"
)

const (
	// ContextKeyToken is the Gin context key for the relayed bearer token.
	ContextKeyToken = "bearer_token"
)

// RequireBearer extracts the school API bearer token from the
// Authorization header. The gateway never mints tokens of its own; it
// only relays the caller's token upstream, rejecting tokens that are
// already expired so the caller gets a clear 401 instead of a relayed
// upstream failure.
func RequireBearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				token = parts[1]
			}
		}

		if token == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if err := schoolapi.CheckTokenExpiry(token, time.Now()); err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenExpired)
			return
		}

		c.Set(ContextKeyToken, token)
		c.Next()
	}
}

// BearerToken retrieves the relayed bearer token from the Gin context.
func BearerToken(c *gin.Context) string {
	val, exists := c.Get(ContextKeyToken)
	if !exists {
		return ""
	}
	token, ok := val.(string)
	if !ok {
		return ""
	}
	return token
}
