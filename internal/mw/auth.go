package mw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"battery-rental-backend/internal/auth"
	"battery-rental-backend/internal/model"
)

// ClaimsKey is the gin context key holding the verified *auth.Claims.
const ClaimsKey = "authClaims"

// Authenticated verifies the Authorization header and stores the claims in
// the request context.
func Authenticated(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := auth.ParseAuth(c.GetHeader("Authorization"), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects requests whose verified role differs from the given
// one. It must run after Authenticated.
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentClaims(c)
		if claims == nil || claims.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// CurrentClaims returns the claims stored by Authenticated, or nil.
func CurrentClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
