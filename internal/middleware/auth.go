package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/etymograph/moderation/internal/auth"
	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// IdentityMiddleware extracts the caller identity from a bearer token if one
// is present. It never rejects a request; handlers decide whether an identity
// is required.
func IdentityMiddleware(jwtSecret string, adminEmails []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.Next()
			return
		}

		claims, err := auth.ValidateAccessToken(parts[1], jwtSecret)
		if err != nil {
			c.Next()
			return
		}

		c.Set(identityKey, claims.Identity(adminEmails))
		c.Next()
	}
}

// IdentityFrom returns the identity set by IdentityMiddleware, or nil.
func IdentityFrom(c *gin.Context) *auth.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*auth.Identity)
	return id
}

// TriggerSecretMiddleware guards system-only trigger endpoints with a shared
// secret in the X-Trigger-Secret header. An empty secret disables the check.
func TriggerSecretMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		given := c.GetHeader("X-Trigger-Secret")
		if subtle.ConstantTimeCompare([]byte(given), []byte(secret)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid trigger secret", "code": "unauthenticated"})
			c.Abort()
			return
		}

		c.Next()
	}
}
