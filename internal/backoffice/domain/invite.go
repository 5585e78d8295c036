package domain

import "time"

// InviteTTL is how long an invite stays redeemable after creation.
const InviteTTL = 7 * 24 * time.Hour

// Invite is a pending, single-use offer to join an organization. Only the
// SHA-256 fingerprint of the token is stored; the raw token is returned once
// at creation. An invite past ExpiresAt is logically gone even while the row
// still exists, and is swept by housekeeping.
type Invite struct {
	ID               string
	TokenFingerprint string
	Email            string
	Role             Role
	OrgID            string
	CreatedBy        string
	ExpiresAt        time.Time
	CreatedAt        time.Time
}

// ExpiredAt reports whether the invite is expired at the given instant.
// Expiry is strict: an invite is valid at exactly ExpiresAt.
func (i Invite) ExpiredAt(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
