package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/crewdesk/crewdesk/internal/backoffice/apperr"
	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
	"github.com/crewdesk/crewdesk/internal/backoffice/service"
	"github.com/crewdesk/crewdesk/internal/backoffice/store"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.AuthService{Store: st, TrialDays: 14}

	res, err := svc.Register(ctx, service.RegisterParams{
		Username: "maria",
		Email:    "Maria@Example.com",
		Password: "correcthorse",
	})
	require.NoError(t, err)

	require.Equal(t, "maria", res.User.Username)
	require.Equal(t, "maria@example.com", res.User.Email, "email is lowercased")
	require.NotEmpty(t, res.User.ID)
	require.NotEqual(t, "correcthorse", res.User.PasswordHash)

	require.Equal(t, "maria's organization", res.Organization.Name)
	require.Equal(t, res.User.ID, res.Organization.OwnerUserID)
	require.Equal(t, domain.PlanStarter, res.Organization.Plan)
	require.Equal(t, domain.SubscriptionTrialing, res.Organization.SubscriptionStatus)
	require.NotNil(t, res.Organization.TrialEndsAt)

	m, err := st.Memberships().Get(ctx, res.User.ID, res.Organization.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, m.Role)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := &service.AuthService{Store: newTestStore(t), TrialDays: 14}

	cases := []struct {
		name string
		p    service.RegisterParams
	}{
		{"short username", service.RegisterParams{Username: "ab", Password: "longenough"}},
		{"username with @", service.RegisterParams{Username: "a@b", Password: "longenough"}},
		{"short password", service.RegisterParams{Username: "maria", Password: "12345"}},
		{"bad email", service.RegisterParams{Username: "maria", Email: "not-an-email", Password: "longenough"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.p)
			require.True(t, apperr.IsKind(err, apperr.Validation), "got %v", err)
		})
	}
}

func TestRegisterDuplicateIsAtomic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.AuthService{Store: st, TrialDays: 14}

	first, err := svc.Register(ctx, service.RegisterParams{Username: "maria", Password: "correcthorse"})
	require.NoError(t, err)

	// Same username: the whole registration must roll back, leaving no
	// second organization behind.
	_, err = svc.Register(ctx, service.RegisterParams{Username: "maria", Password: "otherpassword"})
	require.True(t, apperr.IsKind(err, apperr.Conflict), "got %v", err)

	memberships, err := st.Memberships().ListByUser(ctx, first.User.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 1)
}

func TestLoginDispatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.AuthService{Store: st, TrialDays: 14}

	reg, err := svc.Register(ctx, service.RegisterParams{
		Username: "maria",
		Email:    "maria@example.com",
		Password: "correcthorse",
	})
	require.NoError(t, err)

	// With an "@" the identifier is an email, otherwise a username.
	byEmail, err := svc.Login(ctx, service.LoginParams{Identifier: "maria@example.com", Password: "correcthorse"})
	require.NoError(t, err)
	require.Equal(t, reg.User.ID, byEmail.User.ID)
	require.Equal(t, reg.Organization.ID, byEmail.OrgID)
	require.Equal(t, domain.RoleAdmin, byEmail.Role)

	byUsername, err := svc.Login(ctx, service.LoginParams{Identifier: "maria", Password: "correcthorse"})
	require.NoError(t, err)
	require.Equal(t, reg.User.ID, byUsername.User.ID)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.AuthService{Store: st, TrialDays: 14}

	_, err := svc.Register(ctx, service.RegisterParams{
		Username: "maria",
		Email:    "maria@example.com",
		Password: "correcthorse",
	})
	require.NoError(t, err)

	_, unknownErr := svc.Login(ctx, service.LoginParams{Identifier: "nobody", Password: "whatever"})
	_, wrongErr := svc.Login(ctx, service.LoginParams{Identifier: "maria", Password: "wrongpassword"})

	require.True(t, apperr.IsKind(unknownErr, apperr.Unauthorized))
	require.True(t, apperr.IsKind(wrongErr, apperr.Unauthorized))

	// Identical message: the response must not reveal whether the account
	// exists.
	require.Equal(t, apperr.MessageOf(unknownErr), apperr.MessageOf(wrongErr))
}

func TestLoginExplicitOrg(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.AuthService{Store: st, TrialDays: 14}

	reg, err := svc.Register(ctx, service.RegisterParams{Username: "maria", Password: "correcthorse"})
	require.NoError(t, err)

	res, err := svc.Login(ctx, service.LoginParams{
		Identifier: "maria",
		Password:   "correcthorse",
		OrgID:      reg.Organization.ID,
	})
	require.NoError(t, err)
	require.Equal(t, reg.Organization.ID, res.OrgID)

	// An org the user has no membership in is Forbidden, not a fallback.
	other := seedOrg(t, st, "other", domain.RoleAdmin)
	_, err = svc.Login(ctx, service.LoginParams{
		Identifier: "maria",
		Password:   "correcthorse",
		OrgID:      other.OrgID,
	})
	require.True(t, apperr.IsKind(err, apperr.Forbidden), "got %v", err)
}

func TestLoginUnavailableStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.AuthService{Store: st, TrialDays: 14}

	_, err := svc.Register(ctx, service.RegisterParams{Username: "maria", Password: "correcthorse"})
	require.NoError(t, err)

	// A closed database is infrastructure trouble: Unavailable, never the
	// generic credentials error.
	require.NoError(t, st.Close())
	_, err = svc.Login(ctx, service.LoginParams{Identifier: "maria", Password: "correcthorse"})
	require.True(t, apperr.IsKind(err, apperr.Unavailable), "got %v", err)
	require.False(t, errors.Is(err, store.ErrNotFound))
}
