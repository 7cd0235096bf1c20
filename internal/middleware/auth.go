package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/alysesue/bookings-api-sub001/internal/config"
)

const (
	ContextUserID   = "userID"
	ContextUserName = "userName"
	ContextUserRole = "userRole"

	// ContextVisibleProviderIDs holds the provider ids an admin token is
	// scoped to. Empty means the token sees every provider.
	ContextVisibleProviderIDs = "visibleProviderIDs"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {

			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_claims"})
			return
		}

		userID, ok := claims["sub"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}
		name, _ := claims["name"].(string)
		role, _ := claims["role"].(string)

		var visible []uint
		if raw, ok := claims["visibleProviderIds"].([]interface{}); ok {
			for _, v := range raw {
				if id, ok := v.(float64); ok {
					visible = append(visible, uint(id))
				}
			}
		}

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextUserName, name)
		c.Set(ContextUserRole, role)
		c.Set(ContextVisibleProviderIDs, visible)

		c.Next()
	}
}

// VisibleProviderIDs reads the token's provider scope off the context.
func VisibleProviderIDs(c *gin.Context) []uint {
	if v, ok := c.Get(ContextVisibleProviderIDs); ok {
		if ids, ok := v.([]uint); ok {
			return ids
		}
	}
	return nil
}
