package identity

import (
	"errors"
	"net/http"
	"strings"

	"github.com/beka-birhanu/vinom-maze/service"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ContextUserClaims is the key used to store user claims in the Gin context.
	ContextUserClaims = "userClaims"
)

var ErrNoPlayer = errors.New("request carries no player identity")

func Authoriz(ts i.Tokenizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Browsers cannot set headers on websocket upgrades, so the stream passes the token as a query parameter.
		token := c.Query("access_token")

		if token == "" {
			// Retrieve the access token from the Authorization header.
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.Status(http.StatusUnauthorized) // No token found in the header.
				c.Abort()
				return
			}

			// Split the "Bearer" prefix from the token.
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				c.Status(http.StatusUnauthorized) // Malformed Authorization header.
				c.Abort()
				return
			}
			token = parts[1]
		}

		claims, err := ts.Decode(token)
		if err != nil {
			c.Status(http.StatusUnauthorized)
			c.Abort()
			return
		}

		// Attach user claims to the request context for further use.
		c.Set(ContextUserClaims, claims)
		c.Next()
	}
}

// PlayerID reads the authenticated player's ID from the claims Authoriz attached.
func PlayerID(c *gin.Context) (uuid.UUID, error) {
	raw, ok := c.Get(ContextUserClaims)
	if !ok {
		return uuid.Nil, ErrNoPlayer
	}

	claims, ok := raw.(map[string]interface{})
	if !ok {
		return uuid.Nil, ErrNoPlayer
	}

	id, ok := claims[service.ClaimUserID].(string)
	if !ok {
		return uuid.Nil, ErrNoPlayer
	}
	return uuid.Parse(id)
}

// username reads the authenticated player's name, or "" when the token carries none.
func username(c *gin.Context) string {
	claims, _ := c.MustGet(ContextUserClaims).(map[string]interface{})
	name, _ := claims[service.ClaimUsername].(string)
	return name
}
