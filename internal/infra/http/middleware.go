package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tapinhq/tapin/internal/domain/identity"
)

const identityKey = "identity"

// RequireIdentity trusts the identity headers stamped by the upstream auth
// gateway after OTP login. The gateway owns verification; a request without
// an id simply is not authenticated.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Identity-Id")
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		c.Set(identityKey, identity.Identity{
			ID:    id,
			Phone: c.GetHeader("X-Identity-Phone"),
		})
		c.Next()
	}
}

func identityFrom(c *gin.Context) identity.Identity {
	v, _ := c.Get(identityKey)
	id, _ := v.(identity.Identity)
	return id
}
