// Package cryptox implements the password-verifier scheme used for account
// provisioning and login.
//
// A client never submits its raw password. It fetches the account salt,
// derives a proof locally and submits that. The server then runs the proof
// through a slow, salted KDF (argon2id) and stores only the result, the
// verifier. At login the same derivation is repeated and compared in
// constant time.
package cryptox

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"

	"github.com/dmitrijs2005/homedrive/internal/common"
	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. Changing them invalidates every stored verifier, so
// they are fixed here rather than configurable per request.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4

	SaltLength     = 32
	VerifierLength = 32
)

// NewSalt returns a fresh per-account random salt.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltLength)
}

// DeriveVerifier runs the supplied password proof through argon2id with the
// account salt. The result is what gets persisted and what login compares
// against.
func DeriveVerifier(proof []byte, salt []byte) []byte {
	return argon2.IDKey(proof, salt, argonTime, argonMemory, argonThreads, VerifierLength)
}

// VerifyProof recomputes the verifier for a submitted proof and compares it
// with the stored one in constant time.
func VerifyProof(proof []byte, salt []byte, verifier []byte) bool {
	candidate := DeriveVerifier(proof, salt)
	return subtle.ConstantTimeCompare(candidate, verifier) == 1
}

// DummySalt derives a stable fake salt for a login that has no account.
// It is an HMAC of the login under a server secret, truncated to the real
// salt length, so repeated probes for the same unknown login always see the
// same value and cannot tell it apart from a provisioned one.
func DummySalt(secret []byte, login string) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(login))
	return mac.Sum(nil)[:SaltLength]
}
