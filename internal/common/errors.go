// Package common contains shared constants and sentinel errors used across
// the homedrive server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Provisioning errors.
	ErrorInvalidClaimCode = errors.New("invalid claim code")
	ErrorClaimCodeUsed    = errors.New("claim code already used")
	ErrorLoginTaken       = errors.New("login already taken")

	// Filesystem errors.
	ErrorNameConflict  = errors.New("name conflict")
	ErrorQuotaExceeded = errors.New("quota exceeded")

	// Session cookie errors (invalid or malformed signed cookie).
	ErrorInvalidSessionCookie = errors.New("invalid session cookie")
)

// ErrorInvalidName rejects empty or malformed filesystem entry names and
// logins before they reach the store.
var ErrorInvalidName = errors.New("invalid name")
