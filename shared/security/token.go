package security

import (
	"crypto/rand"
	"encoding/hex"
)

// AccessTokenBytes is the amount of random data behind every access token.
// Hex encoding doubles it, so tokens are 256 characters long.
const AccessTokenBytes = 128

// IssueToken generates an opaque, unpredictable access token.
func IssueToken() (string, error) {
	bytes := make([]byte, AccessTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
