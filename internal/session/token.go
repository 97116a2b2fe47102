package session

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mr-tron/base58"
)

// ErrOpaqueToken is returned by InspectToken when the token is not a JWT.
var ErrOpaqueToken = errors.New("token is not a JWT")

// TokenInfo holds claims read from a bearer token for display.
type TokenInfo struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// InspectToken decodes the claims of a JWT without verifying it. The result
// is informational only and is never used to decide whether a session is
// valid.
func InspectToken(token string) (*TokenInfo, error) {
	claims := jwt.RegisteredClaims{}

	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpaqueToken, err)
	}

	info := &TokenInfo{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}

	return info, nil
}

// Fingerprint returns a short base58 SHA-256 fingerprint of a token, so it
// can be identified in output without being revealed.
func Fingerprint(token string) string {
	hash := sha256.Sum256([]byte(token))
	fp := base58.Encode(hash[:])
	if len(fp) > 12 {
		fp = fp[:12]
	}
	return fp
}
