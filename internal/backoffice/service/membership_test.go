package service_test

import (
	"context"
	"testing"

	"github.com/crewdesk/crewdesk/internal/backoffice/apperr"
	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
	"github.com/crewdesk/crewdesk/internal/backoffice/service"
	"github.com/stretchr/testify/require"
)

func TestListMembers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	members := &service.MembershipService{Store: st}
	invites := newInviteService(st)
	rc := seedOrg(t, st, "admin", domain.RoleAdmin)
	seedOrg(t, st, "elsewhere", domain.RoleAdmin)

	res, err := invites.Create(ctx, rc, service.CreateInviteParams{Email: "new@example.com", Role: domain.RoleBooker})
	require.NoError(t, err)
	_, err = invites.Accept(ctx, service.AcceptInviteParams{Token: res.Token, Username: "newbie", Password: "longenough"})
	require.NoError(t, err)

	list, err := members.ListMembers(ctx, rc)
	require.NoError(t, err)
	require.Len(t, list, 2, "other organizations' members stay invisible")

	byName := map[string]domain.OrgMember{}
	for _, m := range list {
		byName[m.Username] = m
	}
	require.Equal(t, domain.RoleAdmin, byName["admin"].Role)
	require.Equal(t, domain.RoleBooker, byName["newbie"].Role)
	require.Equal(t, "new@example.com", byName["newbie"].Email)

	// Every membership role may read the directory; no role may not.
	booker := rc
	booker.Role = domain.RoleBooker
	_, err = members.ListMembers(ctx, booker)
	require.NoError(t, err)

	none := rc
	none.Role = ""
	_, err = members.ListMembers(ctx, none)
	require.True(t, apperr.IsKind(err, apperr.Forbidden))
}

func TestSelf(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.MembershipService{Store: st}
	rc := seedOrg(t, st, "maria", domain.RoleOperations)

	profile, err := svc.Self(ctx, rc)
	require.NoError(t, err)
	require.Equal(t, "maria", profile.User.Username)
	require.Equal(t, rc.OrgID, profile.Organization.ID)
	require.Equal(t, domain.RoleOperations, profile.Role)
}
