package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	authUserIDKey   = "auth_user_id"
	authUsernameKey = "auth_username"

	tokenTTL = 7 * 24 * time.Hour
)

var jwtSecret []byte

// SetJWTSecret wires the signing key from config at startup.
func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

// IssueToken signs a 7-day HS256 token with sub=username and the numeric id.
func IssueToken(username string, userID int64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"id":  userID,
		"exp": time.Now().Add(tokenTTL).Unix(),
	})
	return token.SignedString(jwtSecret)
}

// RequireAuth validates the bearer token and stores its claims in context.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(raw, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if sub, ok := claims["sub"].(string); ok {
				c.Set(authUsernameKey, sub)
			}
			if id, ok := claims["id"].(float64); ok {
				c.Set(authUserIDKey, int64(id))
			}
		}
		c.Next()
	}
}

// AuthUserID returns the authenticated user id, 0 when absent.
func AuthUserID(c *gin.Context) int64 {
	if v, ok := c.Get(authUserIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// AuthUsername returns the authenticated username, "" when absent.
func AuthUsername(c *gin.Context) string {
	if v, ok := c.Get(authUsernameKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
