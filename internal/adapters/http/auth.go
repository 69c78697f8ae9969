package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/picfeed/realtime/internal/domain"
)

// IdentityMiddleware resolves the caller from a Bearer token and stores
// it in the request context for logging. When required is false a
// missing or invalid token passes through anonymously; the room core is
// identity-agnostic either way, the key determines routing.
func IdentityMiddleware(secret string, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			tokenStr = strings.TrimPrefix(header, "Bearer ")
		}

		if tokenStr == "" {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			c.Next()
			return
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			log.Debug().Err(err).Str("module", "adapters.http").Msg("invalid bearer token, continuing anonymously")
			c.Next()
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			ident := domain.Identity{}
			if sub, ok := claims["sub"].(string); ok {
				ident.UserID = sub
			}
			if name, ok := claims["username"].(string); ok {
				ident.Username = name
			}
			c.Set("identity", ident)
		}
		c.Next()
	}
}
