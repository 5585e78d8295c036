package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
	"github.com/crewdesk/crewdesk/internal/backoffice/store"
	"github.com/crewdesk/crewdesk/internal/backoffice/store/drivers/sqlite"
	"github.com/crewdesk/crewdesk/pkg/cryptox"
	"github.com/crewdesk/crewdesk/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

// seedOrg creates a user, an organization owned by them and a membership
// with the given role, returning the resolved request context.
func seedOrg(t *testing.T, st store.Store, username string, role domain.Role) domain.RequestContext {
	t.Helper()
	ctx := context.Background()

	hash, err := cryptox.HashPassword("hunter2secret")
	require.NoError(t, err)

	user := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         domain.DefaultUserRole,
	}
	require.NoError(t, st.Users().Create(ctx, user))

	org := domain.Organization{
		ID:                 idx.New().String(),
		Name:               username + "'s organization",
		OwnerUserID:        user.ID,
		Plan:               domain.PlanStarter,
		SubscriptionStatus: domain.SubscriptionTrialing,
	}
	require.NoError(t, st.Organizations().Create(ctx, org))

	require.NoError(t, st.Memberships().Create(ctx, domain.Membership{
		ID:         idx.New().String(),
		UserID:     user.ID,
		OrgID:      org.ID,
		Role:       role,
		AcceptedAt: time.Now().UTC(),
	}))

	return domain.RequestContext{UserID: user.ID, OrgID: org.ID, Role: role, Plan: org.Plan}
}
