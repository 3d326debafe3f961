package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidToken covers malformed, forged and expired tokens alike so
// callers cannot tell the failure modes apart.
var ErrInvalidToken = errors.New("invalid auth token")

const defaultTokenTTL = 24 * time.Hour

// HMACStrategy signs "userID.expiry" pairs with HMAC-SHA256. Tokens are
// self-contained; there is no server-side session state.
type HMACStrategy struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewHMACStrategy builds a strategy over the shared secret.
func NewHMACStrategy(secret string, opts Options) *HMACStrategy {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &HMACStrategy{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// IssueToken returns a token of the form "<uid>.<unix expiry>.<signature>".
func (s *HMACStrategy) IssueToken(userID int64) (string, error) {
	payload := fmt.Sprintf("%d.%d", userID, s.now().Add(s.ttl).Unix())
	return payload + "." + s.sign(payload), nil
}

// ParseToken verifies signature and expiry and returns the user id.
func (s *HMACStrategy) ParseToken(token string) (int64, error) {
	idx := strings.LastIndex(token, ".")
	if idx < 0 {
		return 0, ErrInvalidToken
	}
	payload, sig := token[:idx], token[idx+1:]
	if !hmac.Equal([]byte(s.sign(payload)), []byte(sig)) {
		return 0, ErrInvalidToken
	}

	var userID, expiry int64
	if _, err := fmt.Sscanf(payload, "%d.%d", &userID, &expiry); err != nil {
		return 0, ErrInvalidToken
	}
	if s.now().Unix() > expiry {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

func (s *HMACStrategy) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
