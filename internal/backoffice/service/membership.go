package service

import (
	"context"

	"github.com/crewdesk/crewdesk/internal/backoffice/apperr"
	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
	"github.com/crewdesk/crewdesk/internal/backoffice/store"
)

// MembershipService answers membership directory questions. Mutation happens
// through registration and invite acceptance, never here.
type MembershipService struct {
	Store store.Store
}

// ListMembers returns the caller's organization directory: user identity
// plus role and join time for every member. Any valid membership role may
// look at the directory.
func (s *MembershipService) ListMembers(ctx context.Context, rc domain.RequestContext) ([]domain.OrgMember, error) {
	if err := RequireRole(rc, domain.RoleAdmin, domain.RoleOperations, domain.RoleBooker); err != nil {
		return nil, err
	}
	members, err := s.Store.Memberships().ListMembers(ctx, rc.OrgID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unavailable, "list members", err)
	}
	return members, nil
}

// Profile is the self-service view of the signed-in account.
type Profile struct {
	User         domain.User
	Organization domain.Organization
	Role         domain.Role
}

// Self returns the caller's own account, active organization and role.
func (s *MembershipService) Self(ctx context.Context, rc domain.RequestContext) (Profile, error) {
	user, err := s.Store.Users().GetByID(ctx, rc.UserID)
	if err != nil {
		return Profile{}, unauthorizedOr(err, "account no longer exists")
	}
	org, err := s.Store.Organizations().GetByID(ctx, rc.OrgID)
	if err != nil {
		return Profile{}, unauthorizedOr(err, "organization no longer exists")
	}
	return Profile{User: user, Organization: org, Role: rc.Role}, nil
}
