package service_test

import (
	"testing"

	"github.com/crewdesk/crewdesk/internal/backoffice/apperr"
	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
	"github.com/crewdesk/crewdesk/internal/backoffice/service"
	"github.com/stretchr/testify/require"
)

func ctxWithRole(role domain.Role) domain.RequestContext {
	return domain.RequestContext{UserID: "u1", OrgID: "o1", Role: role, Plan: domain.PlanStarter}
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	require.NoError(t, service.RequireAdmin(ctxWithRole(domain.RoleAdmin)))

	for _, role := range []domain.Role{domain.RoleOperations, domain.RoleBooker, "", "superadmin", "Admin"} {
		err := service.RequireAdmin(ctxWithRole(role))
		require.Error(t, err, "role %q must be denied", role)
		require.True(t, apperr.IsKind(err, apperr.Forbidden))
	}
}

func TestRequireAdminOrOperations(t *testing.T) {
	t.Parallel()

	require.NoError(t, service.RequireAdminOrOperations(ctxWithRole(domain.RoleAdmin)))
	require.NoError(t, service.RequireAdminOrOperations(ctxWithRole(domain.RoleOperations)))

	for _, role := range []domain.Role{domain.RoleBooker, "", "ops", "root", "operations "} {
		err := service.RequireAdminOrOperations(ctxWithRole(role))
		require.Error(t, err, "role %q must be denied", role)
		require.True(t, apperr.IsKind(err, apperr.Forbidden))
	}
}

func TestRequireRoleDefaultDeny(t *testing.T) {
	t.Parallel()

	// An unrecognized role never matches, even when listed as allowed.
	err := service.RequireRole(ctxWithRole("ghost"), "ghost")
	require.Error(t, err)
	require.True(t, apperr.IsKind(err, apperr.Forbidden))
}
