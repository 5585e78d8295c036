package domain

import "time"

// DefaultUserRole is the generic role label stamped on new user records.
// In-organization permissions come from the membership role, not this.
const DefaultUserRole = "user"

type User struct {
	ID                string
	Username          string
	Email             string // optional, unique when set
	PasswordHash      string // argon2id PHC encoded
	Role              string // generic account label, see DefaultUserRole
	BillingCustomerID string // external billing reference, set on first use
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
