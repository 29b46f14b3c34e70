// Package models defines the persistent records of the homedrive server:
// accounts, claim codes and filesystem entries.
package models

import "time"

// Account is a provisioned user identity. The raw password never reaches the
// server; Salt and Verifier together hold the slow-KDF output of the
// client-side password proof.
type Account struct {
	ID         string
	Login      string
	Salt       []byte
	Verifier   []byte
	QuotaBytes int64
	CreatedAt  time.Time
}
