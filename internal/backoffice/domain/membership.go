package domain

import "time"

// Membership binds a user to an organization with a role. At most one
// membership exists per (user, organization) pair; the schema enforces it.
type Membership struct {
	ID         string
	UserID     string
	OrgID      string
	Role       Role
	AcceptedAt time.Time
	CreatedAt  time.Time
}

// OrgMember is a membership joined with the user identity, for member
// listings.
type OrgMember struct {
	UserID     string
	Username   string
	Email      string
	Role       Role
	AcceptedAt time.Time
}
