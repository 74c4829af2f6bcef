package auth

import "github.com/dmitrijs2005/boardkeeper/internal/common"

// apiKeyBytes is the entropy of a generated API key; the encoded token is 32
// URL-safe characters.
const apiKeyBytes = 24

// GenerateAPIKey returns a new cryptographically random, URL-safe API key.
// The key itself is the stored credential token; there is exactly one active
// key per account, so issuing a new one invalidates the previous key.
func GenerateAPIKey() (string, error) {
	return common.MakeRandURLSafeString(apiKeyBytes)
}
