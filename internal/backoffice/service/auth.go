package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/crewdesk/crewdesk/internal/backoffice/apperr"
	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
	"github.com/crewdesk/crewdesk/internal/backoffice/store"
	"github.com/crewdesk/crewdesk/pkg/cryptox"
	"github.com/crewdesk/crewdesk/pkg/idx"
	"github.com/crewdesk/crewdesk/pkg/slogx"
)

const (
	// MinPasswordLength applies to registration and invite acceptance alike.
	MinPasswordLength = 6

	minUsernameLength = 3
)

// loginFailedMsg is deliberately identical for unknown identifiers and wrong
// passwords, so login responses cannot be used to enumerate accounts.
const loginFailedMsg = "invalid username or password"

// AuthService handles self-service registration and login.
type AuthService struct {
	Store store.Store

	// TrialDays seeds the trial window on newly registered organizations.
	TrialDays int
}

// RegisterParams is the input to Register. Email is optional.
type RegisterParams struct {
	Username string
	Email    string
	Password string
}

// RegisterResult carries the new user and the organization created for them.
type RegisterResult struct {
	User         domain.User
	Organization domain.Organization
}

// Register creates a user, a personal organization and an admin membership
// in one transaction. All three exist afterwards or none do.
func (s *AuthService) Register(ctx context.Context, p RegisterParams) (RegisterResult, error) {
	p.Username = strings.TrimSpace(p.Username)
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))

	if len(p.Username) < minUsernameLength {
		return RegisterResult{}, apperr.New(apperr.Validation, "username must be at least 3 characters")
	}
	if strings.Contains(p.Username, "@") {
		// Usernames and emails share the login identifier space; an "@" in a
		// username would shadow email logins.
		return RegisterResult{}, apperr.New(apperr.Validation, "username must not contain '@'")
	}
	if len(p.Password) < MinPasswordLength {
		return RegisterResult{}, apperr.New(apperr.Validation, "password must be at least 6 characters")
	}
	if p.Email != "" && !strings.Contains(p.Email, "@") {
		return RegisterResult{}, apperr.New(apperr.Validation, "invalid email address")
	}

	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return RegisterResult{}, apperr.Wrap(apperr.Internal, "hash password", err)
	}

	now := time.Now().UTC()
	trialEnds := now.Add(time.Duration(s.TrialDays) * 24 * time.Hour)

	user := domain.User{
		ID:           idx.New().String(),
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: hash,
		Role:         domain.DefaultUserRole,
	}
	org := domain.Organization{
		ID:                 idx.New().String(),
		Name:               p.Username + "'s organization",
		OwnerUserID:        user.ID,
		Plan:               domain.PlanStarter,
		SubscriptionStatus: domain.SubscriptionTrialing,
		TrialEndsAt:        &trialEnds,
	}
	membership := domain.Membership{
		ID:         idx.New().String(),
		UserID:     user.ID,
		OrgID:      org.ID,
		Role:       domain.RoleAdmin,
		AcceptedAt: now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		if err := tx.Organizations().Create(ctx, org); err != nil {
			return err
		}
		return tx.Memberships().Create(ctx, membership)
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return RegisterResult{}, apperr.Wrap(apperr.Conflict, "username or email is already taken", err)
	}
	if err != nil {
		return RegisterResult{}, apperr.Wrap(apperr.Unavailable, "registration failed", err)
	}

	slogx.FromContext(ctx).Info("user registered",
		"user_id", user.ID, "org_id", org.ID)
	return RegisterResult{User: user, Organization: org}, nil
}

// LoginParams is the input to Login. Identifier is an email when it contains
// an "@", a username otherwise. OrgID optionally picks the organization to
// sign into; when empty the user's first membership wins.
type LoginParams struct {
	Identifier string
	Password   string
	OrgID      string
}

// LoginResult carries the authenticated user and the organization the
// session is bound to.
type LoginResult struct {
	User  domain.User
	OrgID string
	Role  domain.Role
}

// Login authenticates a user by email or username. Failures are uniform:
// an unknown identifier and a wrong password produce the same Unauthorized
// error, and only infrastructure trouble surfaces as Unavailable.
func (s *AuthService) Login(ctx context.Context, p LoginParams) (LoginResult, error) {
	identifier := strings.TrimSpace(p.Identifier)
	if identifier == "" || p.Password == "" {
		return LoginResult{}, apperr.New(apperr.Unauthorized, loginFailedMsg)
	}

	var (
		user domain.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.Store.Users().GetByEmail(ctx, strings.ToLower(identifier))
	} else {
		user, err = s.Store.Users().GetByUsername(ctx, identifier)
	}
	if errors.Is(err, store.ErrNotFound) {
		// Burn comparable time so unknown identifiers are not distinguishable
		// by response latency.
		_ = cryptox.VerifyPassword(p.Password, dummyPasswordHash)
		return LoginResult{}, apperr.New(apperr.Unauthorized, loginFailedMsg)
	}
	if err != nil {
		return LoginResult{}, apperr.Wrap(apperr.Unavailable, "login unavailable", err)
	}

	if err := cryptox.VerifyPassword(p.Password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return LoginResult{}, apperr.New(apperr.Unauthorized, loginFailedMsg)
		}
		return LoginResult{}, apperr.Wrap(apperr.Internal, "verify password", err)
	}

	membership, err := s.pickMembership(ctx, user.ID, p.OrgID)
	if err != nil {
		return LoginResult{}, err
	}

	slogx.FromContext(ctx).Info("user logged in",
		"user_id", user.ID, "org_id", membership.OrgID)
	return LoginResult{User: user, OrgID: membership.OrgID, Role: membership.Role}, nil
}

// pickMembership resolves the organization a fresh session binds to. An
// explicit orgID must match one of the user's memberships; otherwise the
// oldest membership is the default.
func (s *AuthService) pickMembership(ctx context.Context, userID, orgID string) (domain.Membership, error) {
	if orgID != "" {
		m, err := s.Store.Memberships().Get(ctx, userID, orgID)
		if errors.Is(err, store.ErrNotFound) {
			return domain.Membership{}, apperr.New(apperr.Forbidden, "no membership in that organization")
		}
		if err != nil {
			return domain.Membership{}, apperr.Wrap(apperr.Unavailable, "login unavailable", err)
		}
		return m, nil
	}

	memberships, err := s.Store.Memberships().ListByUser(ctx, userID)
	if err != nil {
		return domain.Membership{}, apperr.Wrap(apperr.Unavailable, "login unavailable", err)
	}
	if len(memberships) == 0 {
		return domain.Membership{}, apperr.New(apperr.Unauthorized, loginFailedMsg)
	}
	return memberships[0], nil
}

// dummyPasswordHash is a valid argon2id encoding of a throwaway password,
// used only to equalize verification time for unknown identifiers.
var dummyPasswordHash = func() string {
	h, err := cryptox.HashPassword("timing-equalizer")
	if err != nil {
		panic(err)
	}
	return h
}()
