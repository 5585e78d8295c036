package service

import (
	"context"
	"errors"
	"strings"

	"github.com/crewdesk/crewdesk/internal/backoffice/apperr"
	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
	"github.com/crewdesk/crewdesk/internal/backoffice/store"
	"github.com/crewdesk/crewdesk/pkg/idx"
)

// DirectoryService is the CRUD surface for the operational directory:
// depots, crews, employees and vehicles. Reads are open to every membership
// role; writes need admin or operations. Everything is scoped to the
// caller's organization, so a guessed foreign id reads as NotFound.
type DirectoryService struct {
	Store store.Store
}

func requireRead(rc domain.RequestContext) error {
	return RequireRole(rc, domain.RoleAdmin, domain.RoleOperations, domain.RoleBooker)
}

// translateCRUD maps store sentinels for single-row operations.
func translateCRUD(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return apperr.New(apperr.NotFound, what+" not found")
	case errors.Is(err, store.ErrAlreadyExists):
		return apperr.New(apperr.Conflict, what+" already exists")
	default:
		return apperr.Wrap(apperr.Unavailable, what+" storage failed", err)
	}
}

// Depots

type DepotParams struct {
	Name     string
	Postcode string
}

func (p DepotParams) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperr.New(apperr.Validation, "depot name is required")
	}
	if strings.TrimSpace(p.Postcode) == "" {
		return apperr.New(apperr.Validation, "depot postcode is required")
	}
	return nil
}

func (s *DirectoryService) CreateDepot(ctx context.Context, rc domain.RequestContext, p DepotParams) (domain.Depot, error) {
	if err := RequireAdminOrOperations(rc); err != nil {
		return domain.Depot{}, err
	}
	if err := p.validate(); err != nil {
		return domain.Depot{}, err
	}
	d := domain.Depot{
		ID:       idx.New().String(),
		OrgID:    rc.OrgID,
		Name:     strings.TrimSpace(p.Name),
		Postcode: normalizePostcode(p.Postcode),
	}
	if err := s.Store.Depots().Create(ctx, d); err != nil {
		return domain.Depot{}, translateCRUD(err, "depot")
	}
	return s.GetDepot(ctx, rc, d.ID)
}

func (s *DirectoryService) GetDepot(ctx context.Context, rc domain.RequestContext, id string) (domain.Depot, error) {
	if err := requireRead(rc); err != nil {
		return domain.Depot{}, err
	}
	d, err := s.Store.Depots().Get(ctx, rc.OrgID, id)
	if err != nil {
		return domain.Depot{}, translateCRUD(err, "depot")
	}
	return d, nil
}

func (s *DirectoryService) ListDepots(ctx context.Context, rc domain.RequestContext) ([]domain.Depot, error) {
	if err := requireRead(rc); err != nil {
		return nil, err
	}
	out, err := s.Store.Depots().List(ctx, rc.OrgID)
	if err != nil {
		return nil, translateCRUD(err, "depot")
	}
	return out, nil
}

func (s *DirectoryService) UpdateDepot(ctx context.Context, rc domain.RequestContext, id string, p DepotParams) (domain.Depot, error) {
	if err := RequireAdminOrOperations(rc); err != nil {
		return domain.Depot{}, err
	}
	if err := p.validate(); err != nil {
		return domain.Depot{}, err
	}
	d := domain.Depot{
		ID:       id,
		OrgID:    rc.OrgID,
		Name:     strings.TrimSpace(p.Name),
		Postcode: normalizePostcode(p.Postcode),
	}
	if err := s.Store.Depots().Update(ctx, d); err != nil {
		return domain.Depot{}, translateCRUD(err, "depot")
	}
	return s.GetDepot(ctx, rc, id)
}

func (s *DirectoryService) DeleteDepot(ctx context.Context, rc domain.RequestContext, id string) error {
	if err := RequireAdminOrOperations(rc); err != nil {
		return err
	}
	return translateCRUD(s.Store.Depots().Delete(ctx, rc.OrgID, id), "depot")
}

// Crews

type CrewParams struct {
	Name    string
	DepotID string
}

func (s *DirectoryService) CreateCrew(ctx context.Context, rc domain.RequestContext, p CrewParams) (domain.Crew, error) {
	if err := RequireAdminOrOperations(rc); err != nil {
		return domain.Crew{}, err
	}
	if strings.TrimSpace(p.Name) == "" {
		return domain.Crew{}, apperr.New(apperr.Validation, "crew name is required")
	}
	if err := s.checkDepot(ctx, rc, p.DepotID); err != nil {
		return domain.Crew{}, err
	}
	c := domain.Crew{
		ID:      idx.New().String(),
		OrgID:   rc.OrgID,
		Name:    strings.TrimSpace(p.Name),
		DepotID: p.DepotID,
	}
	if err := s.Store.Crews().Create(ctx, c); err != nil {
		return domain.Crew{}, translateCRUD(err, "crew")
	}
	return s.GetCrew(ctx, rc, c.ID)
}

func (s *DirectoryService) GetCrew(ctx context.Context, rc domain.RequestContext, id string) (domain.Crew, error) {
	if err := requireRead(rc); err != nil {
		return domain.Crew{}, err
	}
	c, err := s.Store.Crews().Get(ctx, rc.OrgID, id)
	if err != nil {
		return domain.Crew{}, translateCRUD(err, "crew")
	}
	return c, nil
}

func (s *DirectoryService) ListCrews(ctx context.Context, rc domain.RequestContext) ([]domain.Crew, error) {
	if err := requireRead(rc); err != nil {
		return nil, err
	}
	out, err := s.Store.Crews().List(ctx, rc.OrgID)
	if err != nil {
		return nil, translateCRUD(err, "crew")
	}
	return out, nil
}

func (s *DirectoryService) UpdateCrew(ctx context.Context, rc domain.RequestContext, id string, p CrewParams) (domain.Crew, error) {
	if err := RequireAdminOrOperations(rc); err != nil {
		return domain.Crew{}, err
	}
	if strings.TrimSpace(p.Name) == "" {
		return domain.Crew{}, apperr.New(apperr.Validation, "crew name is required")
	}
	if err := s.checkDepot(ctx, rc, p.DepotID); err != nil {
		return domain.Crew{}, err
	}
	c := domain.Crew{
		ID:      id,
		OrgID:   rc.OrgID,
		Name:    strings.TrimSpace(p.Name),
		DepotID: p.DepotID,
	}
	if err := s.Store.Crews().Update(ctx, c); err != nil {
		return domain.Crew{}, translateCRUD(err, "crew")
	}
	return s.GetCrew(ctx, rc, id)
}

func (s *DirectoryService) DeleteCrew(ctx context.Context, rc domain.RequestContext, id string) error {
	if err := RequireAdminOrOperations(rc); err != nil {
		return err
	}
	return translateCRUD(s.Store.Crews().Delete(ctx, rc.OrgID, id), "crew")
}

// Employees

type EmployeeParams struct {
	Name   string
	Email  string
	CrewID string
}

func (s *DirectoryService) CreateEmployee(ctx context.Context, rc domain.RequestContext, p EmployeeParams) (domain.Employee, error) {
	if err := RequireAdminOrOperations(rc); err != nil {
		return domain.Employee{}, err
	}
	if strings.TrimSpace(p.Name) == "" {
		return domain.Employee{}, apperr.New(apperr.Validation, "employee name is required")
	}
	if err := s.checkCrew(ctx, rc, p.CrewID); err != nil {
		return domain.Employee{}, err
	}
	e := domain.Employee{
		ID:     idx.New().String(),
		OrgID:  rc.OrgID,
		Name:   strings.TrimSpace(p.Name),
		Email:  strings.TrimSpace(strings.ToLower(p.Email)),
		CrewID: p.CrewID,
	}
	if err := s.Store.Employees().Create(ctx, e); err != nil {
		return domain.Employee{}, translateCRUD(err, "employee")
	}
	return s.GetEmployee(ctx, rc, e.ID)
}

func (s *DirectoryService) GetEmployee(ctx context.Context, rc domain.RequestContext, id string) (domain.Employee, error) {
	if err := requireRead(rc); err != nil {
		return domain.Employee{}, err
	}
	e, err := s.Store.Employees().Get(ctx, rc.OrgID, id)
	if err != nil {
		return domain.Employee{}, translateCRUD(err, "employee")
	}
	return e, nil
}

func (s *DirectoryService) ListEmployees(ctx context.Context, rc domain.RequestContext) ([]domain.Employee, error) {
	if err := requireRead(rc); err != nil {
		return nil, err
	}
	out, err := s.Store.Employees().List(ctx, rc.OrgID)
	if err != nil {
		return nil, translateCRUD(err, "employee")
	}
	return out, nil
}

func (s *DirectoryService) UpdateEmployee(ctx context.Context, rc domain.RequestContext, id string, p EmployeeParams) (domain.Employee, error) {
	if err := RequireAdminOrOperations(rc); err != nil {
		return domain.Employee{}, err
	}
	if strings.TrimSpace(p.Name) == "" {
		return domain.Employee{}, apperr.New(apperr.Validation, "employee name is required")
	}
	if err := s.checkCrew(ctx, rc, p.CrewID); err != nil {
		return domain.Employee{}, err
	}
	e := domain.Employee{
		ID:     id,
		OrgID:  rc.OrgID,
		Name:   strings.TrimSpace(p.Name),
		Email:  strings.TrimSpace(strings.ToLower(p.Email)),
		CrewID: p.CrewID,
	}
	if err := s.Store.Employees().Update(ctx, e); err != nil {
		return domain.Employee{}, translateCRUD(err, "employee")
	}
	return s.GetEmployee(ctx, rc, id)
}

func (s *DirectoryService) DeleteEmployee(ctx context.Context, rc domain.RequestContext, id string) error {
	if err := RequireAdminOrOperations(rc); err != nil {
		return err
	}
	return translateCRUD(s.Store.Employees().Delete(ctx, rc.OrgID, id), "employee")
}

// Vehicles

type VehicleParams struct {
	Registration string
	Kind         string
	DepotID      string
}

func (s *DirectoryService) CreateVehicle(ctx context.Context, rc domain.RequestContext, p VehicleParams) (domain.Vehicle, error) {
	if err := RequireAdminOrOperations(rc); err != nil {
		return domain.Vehicle{}, err
	}
	if strings.TrimSpace(p.Registration) == "" {
		return domain.Vehicle{}, apperr.New(apperr.Validation, "vehicle registration is required")
	}
	if err := s.checkDepot(ctx, rc, p.DepotID); err != nil {
		return domain.Vehicle{}, err
	}
	v := domain.Vehicle{
		ID:           idx.New().String(),
		OrgID:        rc.OrgID,
		Registration: strings.ToUpper(strings.TrimSpace(p.Registration)),
		Kind:         strings.TrimSpace(p.Kind),
		DepotID:      p.DepotID,
	}
	if err := s.Store.Vehicles().Create(ctx, v); err != nil {
		return domain.Vehicle{}, translateCRUD(err, "vehicle")
	}
	return s.GetVehicle(ctx, rc, v.ID)
}

func (s *DirectoryService) GetVehicle(ctx context.Context, rc domain.RequestContext, id string) (domain.Vehicle, error) {
	if err := requireRead(rc); err != nil {
		return domain.Vehicle{}, err
	}
	v, err := s.Store.Vehicles().Get(ctx, rc.OrgID, id)
	if err != nil {
		return domain.Vehicle{}, translateCRUD(err, "vehicle")
	}
	return v, nil
}

func (s *DirectoryService) ListVehicles(ctx context.Context, rc domain.RequestContext) ([]domain.Vehicle, error) {
	if err := requireRead(rc); err != nil {
		return nil, err
	}
	out, err := s.Store.Vehicles().List(ctx, rc.OrgID)
	if err != nil {
		return nil, translateCRUD(err, "vehicle")
	}
	return out, nil
}

func (s *DirectoryService) UpdateVehicle(ctx context.Context, rc domain.RequestContext, id string, p VehicleParams) (domain.Vehicle, error) {
	if err := RequireAdminOrOperations(rc); err != nil {
		return domain.Vehicle{}, err
	}
	if strings.TrimSpace(p.Registration) == "" {
		return domain.Vehicle{}, apperr.New(apperr.Validation, "vehicle registration is required")
	}
	if err := s.checkDepot(ctx, rc, p.DepotID); err != nil {
		return domain.Vehicle{}, err
	}
	v := domain.Vehicle{
		ID:           id,
		OrgID:        rc.OrgID,
		Registration: strings.ToUpper(strings.TrimSpace(p.Registration)),
		Kind:         strings.TrimSpace(p.Kind),
		DepotID:      p.DepotID,
	}
	if err := s.Store.Vehicles().Update(ctx, v); err != nil {
		return domain.Vehicle{}, translateCRUD(err, "vehicle")
	}
	return s.GetVehicle(ctx, rc, id)
}

func (s *DirectoryService) DeleteVehicle(ctx context.Context, rc domain.RequestContext, id string) error {
	if err := RequireAdminOrOperations(rc); err != nil {
		return err
	}
	return translateCRUD(s.Store.Vehicles().Delete(ctx, rc.OrgID, id), "vehicle")
}

// checkDepot validates an optional depot reference against the caller's
// organization, so a crew or vehicle can never point across tenants.
func (s *DirectoryService) checkDepot(ctx context.Context, rc domain.RequestContext, depotID string) error {
	if depotID == "" {
		return nil
	}
	if _, err := s.Store.Depots().Get(ctx, rc.OrgID, depotID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.New(apperr.Validation, "unknown depot")
		}
		return apperr.Wrap(apperr.Unavailable, "depot lookup failed", err)
	}
	return nil
}

// checkCrew is checkDepot for crew references.
func (s *DirectoryService) checkCrew(ctx context.Context, rc domain.RequestContext, crewID string) error {
	if crewID == "" {
		return nil
	}
	if _, err := s.Store.Crews().Get(ctx, rc.OrgID, crewID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.New(apperr.Validation, "unknown crew")
		}
		return apperr.Wrap(apperr.Unavailable, "crew lookup failed", err)
	}
	return nil
}
