// Package token issues and verifies the two kinds of secrets the API
// hands out: signed session tokens and single-use password reset secrets.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// resetTTL is how long a password reset secret stays redeemable.
const resetTTL = 10 * time.Minute

// Session is the verified content of a session token.
type Session struct {
	UserID   string
	IssuedAt time.Time
}

// Service signs and verifies session tokens with a single HMAC secret.
type Service struct {
	secret  []byte
	expires time.Duration
}

func NewService(secret string, expires time.Duration) *Service {
	return &Service{secret: []byte(secret), expires: expires}
}

// Issue signs a session token for the given user id. The issued-at claim
// carries whole seconds only, which is what the freshness check against
// password changes compares with.
func (s *Service) Issue(userID string) (string, error) {
	now := time.Now().Truncate(time.Second)
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expires)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token. Any defect, a bad
// signature, garbage input, a missing claim or an expired token, comes
// back as a plain error; callers decide how to report it.
func (s *Service) Verify(raw string) (*Session, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("verifying session token: %w", err)
	}
	if claims.Subject == "" || claims.IssuedAt == nil {
		return nil, fmt.Errorf("session token missing required claims")
	}
	return &Session{UserID: claims.Subject, IssuedAt: claims.IssuedAt.Time}, nil
}

// GenerateResetSecret mints a password reset secret. The raw value goes
// to the user by email, only its digest is stored, and the secret stops
// being redeemable at the returned expiry.
func GenerateResetSecret() (raw, digest string, expires time.Time, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", time.Time{}, fmt.Errorf("generating reset secret: %w", err)
	}
	raw = hex.EncodeToString(buf)
	return raw, HashResetSecret(raw), time.Now().Add(resetTTL), nil
}

// HashResetSecret digests a raw reset secret the same way it is stored.
func HashResetSecret(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
