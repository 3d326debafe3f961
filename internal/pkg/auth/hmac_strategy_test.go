package auth

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestNewHMACStrategyTTL(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	if strategy.ttl != defaultTokenTTL {
		t.Fatalf("expected default ttl, got %s", strategy.ttl)
	}

	strategy = NewHMACStrategy("secret", Options{TTL: 2 * time.Hour})
	if strategy.ttl != 2*time.Hour {
		t.Fatalf("expected custom ttl, got %s", strategy.ttl)
	}
}

func TestHMACStrategyRoundTrip(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Minute})
	token, err := strategy.IssueToken(42)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if !strings.HasPrefix(token, "42.") {
		t.Fatalf("unexpected token shape: %q", token)
	}

	userID, err := strategy.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user 42, got %d", userID)
	}
}

func TestHMACStrategyRejectsGarbage(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	for _, token := range []string{"", "no-dots", "1.2.forged", "x.y.z"} {
		if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestHMACStrategyRejectsTamperedPayload(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Minute})
	token, err := strategy.IssueToken(7)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	tampered := "8" + token[1:]
	if _, err := strategy.ParseToken(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestHMACStrategyRejectsWrongSecret(t *testing.T) {
	issuer := NewHMACStrategy("secret", Options{TTL: time.Minute})
	verifier := NewHMACStrategy("other", Options{TTL: time.Minute})

	token, err := issuer.IssueToken(7)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := verifier.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestHMACStrategyRejectsExpired(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Minute})
	token, err := strategy.IssueToken(7)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	strategy.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestHMACStrategyRejectsNonNumericPayload(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	payload := fmt.Sprintf("abc.%d", time.Now().Add(time.Minute).Unix())
	token := payload + "." + strategy.sign(payload)
	if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
