package models

import "time"

// Claim code status values as stored in the claim_codes table.
const (
	ClaimCodeUnused   = "unused"
	ClaimCodeRedeemed = "redeemed"
)

// ClaimCode is a single-use invitation token created administratively before
// the server runs. Redeeming it creates exactly one account; the transition
// unused -> redeemed happens atomically with that creation.
type ClaimCode struct {
	Code       string
	Status     string
	QuotaBytes int64
	ExpiresAt  *time.Time
	RedeemedAt *time.Time
}
