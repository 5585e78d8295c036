package service

import (
	"github.com/crewdesk/crewdesk/internal/backoffice/apperr"
	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
)

// The RBAC gate. Pure predicates over the resolved request context: no I/O,
// total over every role value, default deny. A failure here is Forbidden
// (the caller has a valid identity), never Unauthorized.

// RequireRole fails unless rc carries one of the allowed roles.
func RequireRole(rc domain.RequestContext, allowed ...domain.Role) error {
	if rc.Role.Allows(allowed...) {
		return nil
	}
	return apperr.New(apperr.Forbidden, "insufficient role")
}

// RequireAdmin allows organization admins only.
func RequireAdmin(rc domain.RequestContext) error {
	return RequireRole(rc, domain.RoleAdmin)
}

// RequireAdminOrOperations allows admins and operations staff.
func RequireAdminOrOperations(rc domain.RequestContext) error {
	return RequireRole(rc, domain.RoleAdmin, domain.RoleOperations)
}
