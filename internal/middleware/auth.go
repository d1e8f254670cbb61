package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stressorleads/internal/pkg/jwt"
	"stressorleads/internal/pkg/response"
)

const dealerIDKey = "dealer_id"

// JWTAuth requires a valid "Authorization: Bearer <token>" header and stores
// the dealer id on the context.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be Bearer token")
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(dealerIDKey, claims.DealerID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// DealerID returns the authenticated dealer. It writes a 401 and returns false
// when the route was not guarded by JWTAuth.
func DealerID(c *gin.Context) (int64, bool) {
	id := c.GetInt64(dealerIDKey)
	if id <= 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		c.Abort()
		return 0, false
	}
	return id, true
}
