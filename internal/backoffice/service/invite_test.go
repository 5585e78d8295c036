package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/crewdesk/crewdesk/internal/backoffice/apperr"
	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
	"github.com/crewdesk/crewdesk/internal/backoffice/service"
	"github.com/crewdesk/crewdesk/internal/backoffice/store"
	"github.com/crewdesk/crewdesk/pkg/cryptox"
	"github.com/crewdesk/crewdesk/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newInviteService(st store.Store) *service.InviteService {
	return &service.InviteService{Store: st, Mailer: service.LogMailer{}}
}

func TestInviteCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := newInviteService(st)
	rc := seedOrg(t, st, "admin", domain.RoleAdmin)

	res, err := svc.Create(ctx, rc, service.CreateInviteParams{
		Email: "New.Hire@Example.com",
		Role:  domain.RoleBooker,
	})
	require.NoError(t, err)

	require.NotEmpty(t, res.Token)
	require.Equal(t, "new.hire@example.com", res.Invite.Email)
	require.Equal(t, domain.RoleBooker, res.Invite.Role)
	require.Equal(t, rc.OrgID, res.Invite.OrgID)
	require.Equal(t, rc.UserID, res.Invite.CreatedBy)
	require.WithinDuration(t, time.Now().Add(domain.InviteTTL), res.Invite.ExpiresAt, time.Minute)

	// Only the fingerprint is stored, never the token.
	stored, err := st.Invites().GetByID(ctx, res.Invite.ID)
	require.NoError(t, err)
	require.Equal(t, cryptox.FingerprintToken(res.Token), stored.TokenFingerprint)
	require.NotEqual(t, res.Token, stored.TokenFingerprint)
}

func TestInviteCreateAuthz(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := newInviteService(st)

	ops := seedOrg(t, st, "ops", domain.RoleOperations)
	_, err := svc.Create(ctx, ops, service.CreateInviteParams{Email: "a@b.com", Role: domain.RoleBooker})
	require.NoError(t, err, "operations may invite")

	booker := seedOrg(t, st, "booker", domain.RoleBooker)
	_, err = svc.Create(ctx, booker, service.CreateInviteParams{Email: "a@b.com", Role: domain.RoleBooker})
	require.True(t, apperr.IsKind(err, apperr.Forbidden))
}

func TestInviteCreateValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := newInviteService(st)
	rc := seedOrg(t, st, "admin", domain.RoleAdmin)

	_, err := svc.Create(ctx, rc, service.CreateInviteParams{Email: "not-an-email", Role: domain.RoleBooker})
	require.True(t, apperr.IsKind(err, apperr.Validation))

	_, err = svc.Create(ctx, rc, service.CreateInviteParams{Email: "a@b.com", Role: "superuser"})
	require.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestInviteInfo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := newInviteService(st)
	rc := seedOrg(t, st, "admin", domain.RoleAdmin)

	res, err := svc.Create(ctx, rc, service.CreateInviteParams{Email: "new@example.com", Role: domain.RoleOperations})
	require.NoError(t, err)

	info, err := svc.Info(ctx, res.Token)
	require.NoError(t, err)
	require.Equal(t, rc.OrgID, info.OrgID)
	require.Equal(t, "admin's organization", info.OrgName)
	require.Equal(t, "new@example.com", info.Email)
	require.Equal(t, domain.RoleOperations, info.Role)
	require.False(t, info.UserExists)

	// The admin's own email is taken, so an invite to it reports an
	// existing account.
	res2, err := svc.Create(ctx, rc, service.CreateInviteParams{Email: "admin@example.com", Role: domain.RoleBooker})
	require.NoError(t, err)
	info2, err := svc.Info(ctx, res2.Token)
	require.NoError(t, err)
	require.True(t, info2.UserExists)

	_, err = svc.Info(ctx, "no-such-token")
	require.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestInviteExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := newInviteService(st)
	rc := seedOrg(t, st, "admin", domain.RoleAdmin)

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)
	require.NoError(t, st.Invites().Create(ctx, domain.Invite{
		ID:               idx.New().String(),
		TokenFingerprint: cryptox.FingerprintToken(token),
		Email:            "late@example.com",
		Role:             domain.RoleBooker,
		OrgID:            rc.OrgID,
		CreatedBy:        rc.UserID,
		ExpiresAt:        time.Now().UTC().Add(-time.Minute),
	}))

	_, err = svc.Info(ctx, token)
	require.True(t, apperr.IsKind(err, apperr.Expired), "got %v", err)

	_, err = svc.Accept(ctx, service.AcceptInviteParams{Token: token, Password: "longenough"})
	require.True(t, apperr.IsKind(err, apperr.Expired), "got %v", err)
}

func TestInviteAcceptNewUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := newInviteService(st)
	rc := seedOrg(t, st, "admin", domain.RoleAdmin)

	res, err := svc.Create(ctx, rc, service.CreateInviteParams{Email: "new@example.com", Role: domain.RoleBooker})
	require.NoError(t, err)

	accepted, err := svc.Accept(ctx, service.AcceptInviteParams{
		Token:    res.Token,
		Username: "newbie",
		Password: "longenough",
	})
	require.NoError(t, err)
	require.False(t, accepted.AlreadyMember)
	require.Equal(t, "newbie", accepted.User.Username)
	require.Equal(t, rc.OrgID, accepted.OrgID)
	require.Equal(t, domain.RoleBooker, accepted.Role)

	// Membership exists with the invited role.
	m, err := st.Memberships().Get(ctx, accepted.User.ID, rc.OrgID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleBooker, m.Role)

	// The token is consumed: a second redemption finds nothing.
	_, err = svc.Accept(ctx, service.AcceptInviteParams{Token: res.Token, Password: "longenough"})
	require.True(t, apperr.IsKind(err, apperr.NotFound), "got %v", err)
}

func TestInviteAcceptUsernameDefaultsToEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := newInviteService(st)
	rc := seedOrg(t, st, "admin", domain.RoleAdmin)

	res, err := svc.Create(ctx, rc, service.CreateInviteParams{Email: "plain@example.com", Role: domain.RoleBooker})
	require.NoError(t, err)

	accepted, err := svc.Accept(ctx, service.AcceptInviteParams{Token: res.Token, Password: "longenough"})
	require.NoError(t, err)
	require.Equal(t, "plain@example.com", accepted.User.Username)
}

func TestInviteAcceptShortPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := newInviteService(st)
	rc := seedOrg(t, st, "admin", domain.RoleAdmin)

	res, err := svc.Create(ctx, rc, service.CreateInviteParams{Email: "new@example.com", Role: domain.RoleBooker})
	require.NoError(t, err)

	_, err = svc.Accept(ctx, service.AcceptInviteParams{Token: res.Token, Password: "short"})
	require.True(t, apperr.IsKind(err, apperr.Validation), "got %v", err)

	// Validation failures leave the invite redeemable.
	_, err = svc.Info(ctx, res.Token)
	require.NoError(t, err)
}

func TestInviteAcceptUsernameTaken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := newInviteService(st)
	rc := seedOrg(t, st, "admin", domain.RoleAdmin)

	res, err := svc.Create(ctx, rc, service.CreateInviteParams{Email: "new@example.com", Role: domain.RoleBooker})
	require.NoError(t, err)

	// "admin" belongs to the seeded account with a different email.
	_, err = svc.Accept(ctx, service.AcceptInviteParams{
		Token:    res.Token,
		Username: "admin",
		Password: "longenough",
	})
	require.True(t, apperr.IsKind(err, apperr.Conflict), "got %v", err)
}

func TestInviteAcceptExistingUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := newInviteService(st)
	orgA := seedOrg(t, st, "admin", domain.RoleAdmin)
	orgB := seedOrg(t, st, "otheradmin", domain.RoleAdmin)

	// Invite admin of A into B. seedOrg's password is fixed.
	res, err := svc.Create(ctx, orgB, service.CreateInviteParams{Email: "admin@example.com", Role: domain.RoleOperations})
	require.NoError(t, err)

	_, err = svc.Accept(ctx, service.AcceptInviteParams{Token: res.Token, Password: "wrongpassword"})
	require.True(t, apperr.IsKind(err, apperr.Unauthorized), "got %v", err)

	accepted, err := svc.Accept(ctx, service.AcceptInviteParams{Token: res.Token, Password: "hunter2secret"})
	require.NoError(t, err)
	require.Equal(t, orgA.UserID, accepted.User.ID, "no duplicate account")
	require.Equal(t, orgB.OrgID, accepted.OrgID)
	require.Equal(t, domain.RoleOperations, accepted.Role)
}

func TestInviteAcceptAlreadyMember(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := newInviteService(st)
	rc := seedOrg(t, st, "admin", domain.RoleAdmin)

	// Invite the admin into their own organization.
	res, err := svc.Create(ctx, rc, service.CreateInviteParams{Email: "admin@example.com", Role: domain.RoleBooker})
	require.NoError(t, err)

	accepted, err := svc.Accept(ctx, service.AcceptInviteParams{Token: res.Token, Password: "hunter2secret"})
	require.NoError(t, err)
	require.True(t, accepted.AlreadyMember)

	// The original membership role is untouched.
	m, err := st.Memberships().Get(ctx, rc.UserID, rc.OrgID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, m.Role)

	memberships, err := st.Memberships().ListByUser(ctx, rc.UserID)
	require.NoError(t, err)
	require.Len(t, memberships, 1, "accepting twice never duplicates a membership")

	// And the invite is consumed.
	_, err = svc.Info(ctx, res.Token)
	require.True(t, apperr.IsKind(err, apperr.NotFound))
}

// racingStore delegates to a real store but runs a hook once, right before
// the first transaction begins. It recreates the window in which another
// accept commits between this accept's lookup phase and its own commit.
type racingStore struct {
	store.Store
	once   sync.Once
	before func()
}

func (s *racingStore) WithTx(ctx context.Context, fn func(store.Tx) error) error {
	s.once.Do(s.before)
	return s.Store.WithTx(ctx, fn)
}

func TestInviteAcceptRaceExistingUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	orgA := seedOrg(t, st, "admin", domain.RoleAdmin)
	kate := seedOrg(t, st, "kate", domain.RoleAdmin)

	res, err := newInviteService(st).Create(ctx, orgA, service.CreateInviteParams{
		Email: "kate@example.com",
		Role:  domain.RoleOperations,
	})
	require.NoError(t, err)

	// The competing accept commits its membership after this accept has
	// passed the already-member check but before its own transaction.
	racing := &racingStore{Store: st, before: func() {
		require.NoError(t, st.Memberships().Create(ctx, domain.Membership{
			ID:         idx.New().String(),
			UserID:     kate.UserID,
			OrgID:      orgA.OrgID,
			Role:       domain.RoleOperations,
			AcceptedAt: time.Now().UTC(),
		}))
	}}
	svc := &service.InviteService{Store: racing, Mailer: service.LogMailer{}}

	accepted, err := svc.Accept(ctx, service.AcceptInviteParams{Token: res.Token, Password: "hunter2secret"})
	require.NoError(t, err, "losing the race to join is still a success")
	require.True(t, accepted.AlreadyMember)
	require.Equal(t, kate.UserID, accepted.User.ID)
	require.Equal(t, orgA.OrgID, accepted.OrgID)

	memberships, err := st.Memberships().ListByUser(ctx, kate.UserID)
	require.NoError(t, err)
	require.Len(t, memberships, 2, "own org plus the joined one, never a duplicate")
}

func TestInviteAcceptRaceNewUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	rc := seedOrg(t, st, "admin", domain.RoleAdmin)
	svc0 := newInviteService(st)

	res, err := svc0.Create(ctx, rc, service.CreateInviteParams{
		Email: "newbie@example.com",
		Role:  domain.RoleBooker,
	})
	require.NoError(t, err)

	// The competing registration takes the username between this accept's
	// email lookup and its transaction.
	racing := &racingStore{Store: st, before: func() {
		hash, err := cryptox.HashPassword("hunter2secret")
		require.NoError(t, err)
		require.NoError(t, st.Users().Create(ctx, domain.User{
			ID:           idx.New().String(),
			Username:     "newbie",
			Email:        "imposter@example.com",
			PasswordHash: hash,
			Role:         domain.DefaultUserRole,
		}))
	}}
	svc := &service.InviteService{Store: racing, Mailer: service.LogMailer{}}

	_, err = svc.Accept(ctx, service.AcceptInviteParams{
		Token:    res.Token,
		Username: "newbie",
		Password: "longenough",
	})
	require.True(t, apperr.IsKind(err, apperr.Conflict), "got %v", err)

	// The rollback left the invite redeemable under a different username.
	accepted, err := svc0.Accept(ctx, service.AcceptInviteParams{
		Token:    res.Token,
		Username: "newbie2",
		Password: "longenough",
	})
	require.NoError(t, err)
	require.Equal(t, "newbie2", accepted.User.Username)
}

func TestInviteDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := newInviteService(st)
	rc := seedOrg(t, st, "admin", domain.RoleAdmin)

	res, err := svc.Create(ctx, rc, service.CreateInviteParams{Email: "new@example.com", Role: domain.RoleBooker})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, rc, res.Invite.ID))

	// Revoked: the token no longer resolves.
	_, err = svc.Info(ctx, res.Token)
	require.True(t, apperr.IsKind(err, apperr.NotFound))

	// Deleting again is NotFound.
	err = svc.Delete(ctx, rc, res.Invite.ID)
	require.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestInviteDeleteAuthz(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := newInviteService(st)
	rc := seedOrg(t, st, "admin", domain.RoleAdmin)

	res, err := svc.Create(ctx, rc, service.CreateInviteParams{Email: "new@example.com", Role: domain.RoleBooker})
	require.NoError(t, err)

	// Operations cannot revoke.
	ops := rc
	ops.Role = domain.RoleOperations
	err = svc.Delete(ctx, ops, res.Invite.ID)
	require.True(t, apperr.IsKind(err, apperr.Forbidden))

	// An admin of another organization cannot revoke, even though the
	// invite exists and even once it has expired.
	foreign := seedOrg(t, st, "intruder", domain.RoleAdmin)
	err = svc.Delete(ctx, foreign, res.Invite.ID)
	require.True(t, apperr.IsKind(err, apperr.Forbidden), "got %v", err)

	// The invite survives all of the above.
	_, err = svc.Info(ctx, res.Token)
	require.NoError(t, err)
}

func TestInviteList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := newInviteService(st)
	rc := seedOrg(t, st, "admin", domain.RoleAdmin)
	other := seedOrg(t, st, "other", domain.RoleAdmin)

	_, err := svc.Create(ctx, rc, service.CreateInviteParams{Email: "one@example.com", Role: domain.RoleBooker})
	require.NoError(t, err)
	_, err = svc.Create(ctx, other, service.CreateInviteParams{Email: "two@example.com", Role: domain.RoleBooker})
	require.NoError(t, err)

	invites, err := svc.List(ctx, rc)
	require.NoError(t, err)
	require.Len(t, invites, 1, "listing is tenant-scoped")
	require.Equal(t, "one@example.com", invites[0].Email)
}

func TestHousekeepingSweepsExpiredInvites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	rc := seedOrg(t, st, "admin", domain.RoleAdmin)

	live, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)
	dead, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)

	for _, inv := range []domain.Invite{
		{
			ID:               idx.New().String(),
			TokenFingerprint: cryptox.FingerprintToken(live),
			Email:            "live@example.com",
			Role:             domain.RoleBooker,
			OrgID:            rc.OrgID,
			CreatedBy:        rc.UserID,
			ExpiresAt:        time.Now().UTC().Add(time.Hour),
		},
		{
			ID:               idx.New().String(),
			TokenFingerprint: cryptox.FingerprintToken(dead),
			Email:            "dead@example.com",
			Role:             domain.RoleBooker,
			OrgID:            rc.OrgID,
			CreatedBy:        rc.UserID,
			ExpiresAt:        time.Now().UTC().Add(-time.Hour),
		},
	} {
		require.NoError(t, st.Invites().Create(ctx, inv))
	}

	require.NoError(t, st.Invites().DeleteExpired(ctx))

	invites, err := st.Invites().ListByOrg(ctx, rc.OrgID)
	require.NoError(t, err)
	require.Len(t, invites, 1)
	require.Equal(t, "live@example.com", invites[0].Email)
}
