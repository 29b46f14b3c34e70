// Package auth signs and verifies the session cookie. The cookie value is an
// HS256 JWT wrapping the opaque registry token, so a tampered cookie is
// rejected before the registry is ever consulted.
package auth

import (
	"time"

	"github.com/dmitrijs2005/homedrive/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	jwt.RegisteredClaims
	SessionToken string
}

// SignSessionToken wraps the registry token in a signed cookie value. The
// JWT expiry mirrors the idle timeout only as a hint for well-behaved
// clients; the registry's sliding window is the source of truth.
func SignSessionToken(sessionToken string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		SessionToken: sessionToken,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// SessionTokenFromCookie verifies the cookie signature and extracts the
// registry token.
func SessionTokenFromCookie(cookieValue string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(cookieValue, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", common.ErrorInvalidSessionCookie
	}

	if !token.Valid || claims.SessionToken == "" {
		return "", common.ErrorInvalidSessionCookie
	}

	return claims.SessionToken, nil
}
