package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HashRefreshToken returns the HMAC-SHA256 of a raw refresh token keyed by secret.
// Only this hash is persisted.
func HashRefreshToken(token string, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

// CompareRefreshTokenHash compares a raw refresh token with its stored hash in constant time.
func CompareRefreshTokenHash(token string, secret string, storedHash string) bool {
	expected := HashRefreshToken(token, secret)
	return hmac.Equal([]byte(expected), []byte(storedHash))
}
