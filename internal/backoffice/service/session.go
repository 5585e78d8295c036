package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/crewdesk/crewdesk/internal/backoffice/apperr"
	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
	"github.com/crewdesk/crewdesk/internal/backoffice/store"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the fixed name of the session cookie. One cookie per
// browser; the active organization travels inside the signed payload, not in
// the cookie name.
const SessionCookieName = "crewdesk_session"

// SessionService mints and resolves browser sessions. A session is an HS256
// signed JWT in an httpOnly cookie carrying the user id (sub) and the active
// organization id (org). Resolution re-checks the database on every request,
// so a revoked membership locks the session out immediately.
type SessionService struct {
	Store  store.Store
	Secret []byte
	TTL    time.Duration

	// Secure marks cookies Secure; leave false only for local development.
	Secure bool
}

type sessionClaims struct {
	OrgID string `json:"org"`
	jwt.RegisteredClaims
}

// IssueCookie signs a session for the given user acting in the given
// organization and wraps it in a cookie ready to Set-Cookie.
func (s *SessionService) IssueCookie(userID, orgID string) (*http.Cookie, error) {
	now := time.Now()
	claims := sessionClaims{
		OrgID: orgID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "sign session", err)
	}

	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.TTL.Seconds()),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// ClearCookie returns a cookie that expires the session immediately.
func (s *SessionService) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Resolve turns an incoming request into a RequestContext. Every failure is
// Unauthorized: a missing cookie, a bad signature, an expired token, a
// deleted user, a revoked membership and a deleted organization all look the
// same to the caller.
func (s *SessionService) Resolve(ctx context.Context, r *http.Request) (domain.RequestContext, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return domain.RequestContext{}, apperr.New(apperr.Unauthorized, "not signed in")
	}

	userID, orgID, err := s.verify(cookie.Value)
	if err != nil {
		return domain.RequestContext{}, err
	}

	user, err := s.Store.Users().GetByID(ctx, userID)
	if err != nil {
		return domain.RequestContext{}, unauthorizedOr(err, "session user no longer exists")
	}

	membership, err := s.Store.Memberships().Get(ctx, user.ID, orgID)
	if err != nil {
		return domain.RequestContext{}, unauthorizedOr(err, "no membership in organization")
	}

	org, err := s.Store.Organizations().GetByID(ctx, orgID)
	if err != nil {
		return domain.RequestContext{}, unauthorizedOr(err, "organization no longer exists")
	}

	return domain.RequestContext{
		UserID: user.ID,
		OrgID:  org.ID,
		Role:   membership.Role,
		Plan:   org.Plan,
	}, nil
}

func (s *SessionService) verify(token string) (userID, orgID string, err error) {
	claims := &sessionClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", "", apperr.Wrap(apperr.Unauthorized, "invalid session", err)
	}
	if claims.Subject == "" || claims.OrgID == "" {
		return "", "", apperr.New(apperr.Unauthorized, "invalid session")
	}
	return claims.Subject, claims.OrgID, nil
}

// unauthorizedOr maps ErrNotFound to Unauthorized and anything else to
// Unavailable, so a database outage is never reported as a login failure.
func unauthorizedOr(err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.Wrap(apperr.Unauthorized, msg, err)
	}
	return apperr.Wrap(apperr.Unavailable, "identity lookup failed", err)
}
