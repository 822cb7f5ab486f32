package domain

import "time"

// VerifyCustomID is the custom id carried by the "Verify" button.
const VerifyCustomID = "verify"

// VerificationKey is a single-use credential scoped to one member of one community.
// Stores index keys by a digest of the token and keep no plaintext. Token is set
// only on values handed back to a caller that already holds it: the result of a
// mint, or a lookup by that token.
type VerificationKey struct {
	ID          string
	Token       string
	CommunityID Snowflake
	MemberID    Snowflake
	CreatedAt   time.Time
	ExpiresAt   time.Time // zero means the key never expires
}

// Expired reports whether the key is past its expiry at now.
func (k VerificationKey) Expired(now time.Time) bool {
	return !k.ExpiresAt.IsZero() && !now.Before(k.ExpiresAt)
}
