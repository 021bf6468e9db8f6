// Package verification issues email verification tokens and the messages that carry them.
package verification

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const tokenBytes = 32

// NewToken returns 32 random bytes as hex followed by "-<unix seconds>" of now. The suffix
// lets the token's age be checked without storing an issue time.
func NewToken(now time.Time) (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate verification token: %w", err)
	}
	return hex.EncodeToString(b) + "-" + strconv.FormatInt(now.Unix(), 10), nil
}

// IssuedAt reads the timestamp suffix of a token made by NewToken.
func IssuedAt(token string) (time.Time, bool) {
	i := strings.LastIndexByte(token, '-')
	if i < 0 {
		return time.Time{}, false
	}
	seconds, err := strconv.ParseInt(token[i+1:], 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(seconds, 0), true
}

// Expired reports whether token is older than ttl at now. A ttl of zero never expires;
// a token without a readable timestamp is treated as expired.
func Expired(token string, ttl time.Duration, now time.Time) bool {
	if ttl <= 0 {
		return false
	}
	issued, ok := IssuedAt(token)
	if !ok {
		return true
	}
	return now.Sub(issued) > ttl
}

// Link builds the public verification URL for token.
func Link(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/users/verify/" + url.PathEscape(token)
}
