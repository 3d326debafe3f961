package auth

import "time"

// Strategy issues and verifies bearer tokens carrying a user identity.
type Strategy interface {
	IssueToken(userID int64) (string, error)
	ParseToken(token string) (int64, error)
}

// Options tunes token issuance.
type Options struct {
	// TTL bounds token lifetime; zero or negative selects the default.
	TTL time.Duration
}
