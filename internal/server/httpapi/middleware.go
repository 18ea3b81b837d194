package httpapi

import (
	"net/http"
	"strings"

	"github.com/akoselev/eshop/internal/common"
	"github.com/akoselev/eshop/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const claimsContextKey = "claims"

// AuthMiddleware gates protected routes. It extracts the bearer token from
// the Authorization header and verifies it through the session service; the
// response never says why a token was rejected.
func AuthMiddleware(sessions SessionAuthorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		claims, err := sessions.Authorize(c.Request.Context(), parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// claimsFromContext returns the identity set by AuthMiddleware.
func claimsFromContext(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
