package domain

// Role is the per-organization role carried by a membership. The role label
// on the user record is a generic default; membership roles are authoritative
// for in-organization permissions.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleOperations Role = "operations"
	RoleBooker     Role = "booker"
)

// Valid reports whether r is one of the recognized membership roles.
// Anything else is treated as no role at all (default deny).
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOperations, RoleBooker:
		return true
	default:
		return false
	}
}

// Allows reports whether r is one of the allowed roles. Total over all role
// values: unrecognized roles never match.
func (r Role) Allows(allowed ...Role) bool {
	if !r.Valid() {
		return false
	}
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}
