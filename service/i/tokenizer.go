package i

import (
	"time"
)

// Tokenizer issues and validates the bearer tokens that carry a player's identity.
type Tokenizer interface {
	// Generate signs the claims into a token that expires after expTime.
	Generate(claims map[string]interface{}, expTime time.Duration) (string, error)

	// Decode validates a token and returns its claims.
	Decode(token string) (map[string]interface{}, error)
}
