package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crewdesk/crewdesk/internal/backoffice/apperr"
	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
	"github.com/crewdesk/crewdesk/internal/backoffice/service"
	"github.com/crewdesk/crewdesk/internal/backoffice/store"
	"github.com/stretchr/testify/require"
)

func newSessionService(st store.Store) *service.SessionService {
	return &service.SessionService{
		Store:  st,
		Secret: []byte("test-secret-test-secret-test-1234"),
		TTL:    time.Hour,
	}
}

func requestWithCookie(c *http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/user", nil)
	if c != nil {
		r.AddCookie(c)
	}
	return r
}

func TestSessionRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSessionService(st)
	rc := seedOrg(t, st, "maria", domain.RoleOperations)

	cookie, err := svc.IssueCookie(rc.UserID, rc.OrgID)
	require.NoError(t, err)
	require.Equal(t, service.SessionCookieName, cookie.Name)
	require.True(t, cookie.HttpOnly)

	resolved, err := svc.Resolve(ctx, requestWithCookie(cookie))
	require.NoError(t, err)
	require.Equal(t, rc.UserID, resolved.UserID)
	require.Equal(t, rc.OrgID, resolved.OrgID)
	require.Equal(t, domain.RoleOperations, resolved.Role)
	require.Equal(t, domain.PlanStarter, resolved.Plan)
}

func TestSessionMissingCookie(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	svc := newSessionService(st)

	_, err := svc.Resolve(context.Background(), requestWithCookie(nil))
	require.True(t, apperr.IsKind(err, apperr.Unauthorized))
}

func TestSessionTamperedToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSessionService(st)
	rc := seedOrg(t, st, "maria", domain.RoleAdmin)

	cookie, err := svc.IssueCookie(rc.UserID, rc.OrgID)
	require.NoError(t, err)

	// Flip a character in the signature.
	tampered := *cookie
	last := tampered.Value[len(tampered.Value)-1]
	if last == 'a' {
		tampered.Value = tampered.Value[:len(tampered.Value)-1] + "b"
	} else {
		tampered.Value = tampered.Value[:len(tampered.Value)-1] + "a"
	}

	_, err = svc.Resolve(ctx, requestWithCookie(&tampered))
	require.True(t, apperr.IsKind(err, apperr.Unauthorized), "got %v", err)

	// A token signed with a different secret is just as dead.
	other := newSessionService(st)
	other.Secret = []byte("another-secret-another-secret-12")
	foreign, err := other.IssueCookie(rc.UserID, rc.OrgID)
	require.NoError(t, err)
	_, err = svc.Resolve(ctx, requestWithCookie(foreign))
	require.True(t, apperr.IsKind(err, apperr.Unauthorized))
}

func TestSessionExpired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSessionService(st)
	svc.TTL = -time.Minute
	rc := seedOrg(t, st, "maria", domain.RoleAdmin)

	cookie, err := svc.IssueCookie(rc.UserID, rc.OrgID)
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, requestWithCookie(cookie))
	require.True(t, apperr.IsKind(err, apperr.Unauthorized), "got %v", err)
}

func TestSessionWithoutMembership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSessionService(st)
	rc := seedOrg(t, st, "maria", domain.RoleAdmin)
	other := seedOrg(t, st, "stranger", domain.RoleAdmin)

	// A signed cookie naming an organization the user has no membership in
	// resolves to nothing.
	cookie, err := svc.IssueCookie(rc.UserID, other.OrgID)
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, requestWithCookie(cookie))
	require.True(t, apperr.IsKind(err, apperr.Unauthorized), "got %v", err)
}

func TestClearCookie(t *testing.T) {
	t.Parallel()
	svc := newSessionService(newTestStore(t))

	c := svc.ClearCookie()
	require.Equal(t, service.SessionCookieName, c.Name)
	require.Empty(t, c.Value)
	require.Negative(t, c.MaxAge)
}
