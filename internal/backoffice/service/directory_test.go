package service_test

import (
	"context"
	"testing"

	"github.com/crewdesk/crewdesk/internal/backoffice/apperr"
	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
	"github.com/crewdesk/crewdesk/internal/backoffice/service"
	"github.com/stretchr/testify/require"
)

func TestDepotCRUD(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.DirectoryService{Store: st}
	rc := seedOrg(t, st, "admin", domain.RoleAdmin)

	d, err := svc.CreateDepot(ctx, rc, service.DepotParams{Name: "North Yard", Postcode: "m1 1ae"})
	require.NoError(t, err)
	require.Equal(t, "M11AE", d.Postcode)

	d, err = svc.UpdateDepot(ctx, rc, d.ID, service.DepotParams{Name: "North Yard 2", Postcode: "M1 1AE"})
	require.NoError(t, err)
	require.Equal(t, "North Yard 2", d.Name)

	list, err := svc.ListDepots(ctx, rc)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.DeleteDepot(ctx, rc, d.ID))
	_, err = svc.GetDepot(ctx, rc, d.ID)
	require.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestDirectoryAuthz(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.DirectoryService{Store: st}
	rc := seedOrg(t, st, "admin", domain.RoleAdmin)

	d, err := svc.CreateDepot(ctx, rc, service.DepotParams{Name: "Yard", Postcode: "M1 1AE"})
	require.NoError(t, err)

	booker := rc
	booker.Role = domain.RoleBooker

	// Bookers read the directory but never write it.
	_, err = svc.GetDepot(ctx, booker, d.ID)
	require.NoError(t, err)
	_, err = svc.CreateDepot(ctx, booker, service.DepotParams{Name: "X", Postcode: "M1 1AE"})
	require.True(t, apperr.IsKind(err, apperr.Forbidden))
	err = svc.DeleteDepot(ctx, booker, d.ID)
	require.True(t, apperr.IsKind(err, apperr.Forbidden))
}

func TestDirectoryTenantIsolation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.DirectoryService{Store: st}
	orgA := seedOrg(t, st, "admina", domain.RoleAdmin)
	orgB := seedOrg(t, st, "adminb", domain.RoleAdmin)

	d, err := svc.CreateDepot(ctx, orgA, service.DepotParams{Name: "Yard", Postcode: "M1 1AE"})
	require.NoError(t, err)

	_, err = svc.GetDepot(ctx, orgB, d.ID)
	require.True(t, apperr.IsKind(err, apperr.NotFound))
	err = svc.DeleteDepot(ctx, orgB, d.ID)
	require.True(t, apperr.IsKind(err, apperr.NotFound))

	// A crew cannot point at another tenant's depot.
	_, err = svc.CreateCrew(ctx, orgB, service.CrewParams{Name: "Crew 1", DepotID: d.ID})
	require.True(t, apperr.IsKind(err, apperr.Validation), "got %v", err)
}

func TestCrewWithDepot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.DirectoryService{Store: st}
	rc := seedOrg(t, st, "admin", domain.RoleAdmin)

	d, err := svc.CreateDepot(ctx, rc, service.DepotParams{Name: "Yard", Postcode: "M1 1AE"})
	require.NoError(t, err)

	c, err := svc.CreateCrew(ctx, rc, service.CrewParams{Name: "Crew 1", DepotID: d.ID})
	require.NoError(t, err)
	require.Equal(t, d.ID, c.DepotID)

	e, err := svc.CreateEmployee(ctx, rc, service.EmployeeParams{Name: "Pat", Email: "Pat@Example.com", CrewID: c.ID})
	require.NoError(t, err)
	require.Equal(t, "pat@example.com", e.Email)

	v, err := svc.CreateVehicle(ctx, rc, service.VehicleParams{Registration: "ab12 cde", Kind: "van", DepotID: d.ID})
	require.NoError(t, err)
	require.Equal(t, "AB12 CDE", v.Registration)
}
