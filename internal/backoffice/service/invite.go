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

// InviteService runs the invite lifecycle: mint, inspect, accept, revoke.
// Tokens are opaque 256-bit values handed out exactly once; the database
// only ever sees their SHA-256 fingerprint.
type InviteService struct {
	Store  store.Store
	Mailer Mailer
}

// CreateInviteParams is the input to Create.
type CreateInviteParams struct {
	Email string
	Role  domain.Role
}

// CreateInviteResult returns the stored invite plus the raw token. This is
// the only place the token exists in plaintext.
type CreateInviteResult struct {
	Invite domain.Invite
	Token  string
}

// Create mints an invite into the caller's organization. Admins and
// operations staff may invite; the invited role must be a recognized
// membership role.
func (s *InviteService) Create(ctx context.Context, rc domain.RequestContext, p CreateInviteParams) (CreateInviteResult, error) {
	if err := RequireAdminOrOperations(rc); err != nil {
		return CreateInviteResult{}, err
	}

	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	if p.Email == "" || !strings.Contains(p.Email, "@") {
		return CreateInviteResult{}, apperr.New(apperr.Validation, "a valid email address is required")
	}
	if !p.Role.Valid() {
		return CreateInviteResult{}, apperr.New(apperr.Validation, "unknown role")
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return CreateInviteResult{}, apperr.Wrap(apperr.Internal, "generate invite token", err)
	}

	inv := domain.Invite{
		ID:               idx.New().String(),
		TokenFingerprint: cryptox.FingerprintToken(token),
		Email:            p.Email,
		Role:             p.Role,
		OrgID:            rc.OrgID,
		CreatedBy:        rc.UserID,
		ExpiresAt:        time.Now().UTC().Add(domain.InviteTTL),
	}
	if err := s.Store.Invites().Create(ctx, inv); err != nil {
		return CreateInviteResult{}, apperr.Wrap(apperr.Unavailable, "create invite", err)
	}

	org, err := s.Store.Organizations().GetByID(ctx, rc.OrgID)
	if err != nil {
		return CreateInviteResult{}, apperr.Wrap(apperr.Unavailable, "load organization", err)
	}

	if s.Mailer != nil {
		mail := InviteMail{
			Email:     inv.Email,
			OrgName:   org.Name,
			Role:      inv.Role,
			Token:     token,
			ExpiresAt: inv.ExpiresAt,
		}
		if err := s.Mailer.SendInvite(ctx, mail); err != nil {
			// The invite stands; the inviter still holds the token.
			slogx.FromContext(ctx).Warn("invite mail delivery failed",
				"invite_id", inv.ID, "err", err)
		}
	}

	slogx.FromContext(ctx).Info("invite created",
		"invite_id", inv.ID, "org_id", inv.OrgID, "role", inv.Role)
	return CreateInviteResult{Invite: inv, Token: token}, nil
}

// InviteInfo is the public view of an invite, shaped for the acceptance
// page: which organization, which email, which role, and whether an account
// for that email already exists (so the page knows to ask for a password
// check instead of account creation).
type InviteInfo struct {
	OrgID      string
	OrgName    string
	Email      string
	Role       domain.Role
	ExpiresAt  time.Time
	UserExists bool
}

// Info resolves a raw token to its public view. Unknown tokens are NotFound;
// expired ones are Expired. No authentication required, so nothing beyond
// the acceptance page's needs is exposed.
func (s *InviteService) Info(ctx context.Context, token string) (InviteInfo, error) {
	inv, err := s.lookup(ctx, token)
	if err != nil {
		return InviteInfo{}, err
	}

	org, err := s.Store.Organizations().GetByID(ctx, inv.OrgID)
	if errors.Is(err, store.ErrNotFound) {
		// The organization is gone; the invite is dead with it.
		return InviteInfo{}, apperr.New(apperr.NotFound, "invite not found")
	}
	if err != nil {
		return InviteInfo{}, apperr.Wrap(apperr.Unavailable, "load organization", err)
	}

	info := InviteInfo{
		OrgID:     org.ID,
		OrgName:   org.Name,
		Email:     inv.Email,
		Role:      inv.Role,
		ExpiresAt: inv.ExpiresAt,
	}

	if _, err := s.Store.Users().GetByEmail(ctx, inv.Email); err == nil {
		info.UserExists = true
	} else if !errors.Is(err, store.ErrNotFound) {
		return InviteInfo{}, apperr.Wrap(apperr.Unavailable, "lookup user", err)
	}
	return info, nil
}

// AcceptInviteParams is the input to Accept. Username and Password matter
// only when the invited email has no account yet; Password doubles as the
// identity check when an account exists.
type AcceptInviteParams struct {
	Token    string
	Username string
	Password string
}

// AcceptResult reports who joined what. AlreadyMember is set when the caller
// was a member before this call, which is a success, not an error.
type AcceptResult struct {
	User          domain.User
	OrgID         string
	Role          domain.Role
	AlreadyMember bool
}

// Accept redeems an invite. For a new email it creates the account; for an
// existing one it verifies the password. Joining is atomic with consuming
// the token: of two racing accepts exactly one creates the membership, and
// the token is never redeemable twice.
func (s *InviteService) Accept(ctx context.Context, p AcceptInviteParams) (AcceptResult, error) {
	inv, err := s.lookup(ctx, p.Token)
	if err != nil {
		return AcceptResult{}, err
	}

	user, isNew, err := s.resolveAcceptingUser(ctx, inv, p)
	if err != nil {
		return AcceptResult{}, err
	}

	if !isNew {
		if _, err := s.Store.Memberships().Get(ctx, user.ID, inv.OrgID); err == nil {
			// Already a member: consume the invite and report success.
			if err := s.Store.Invites().Delete(ctx, inv.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
				return AcceptResult{}, apperr.Wrap(apperr.Unavailable, "consume invite", err)
			}
			return AcceptResult{User: user, OrgID: inv.OrgID, Role: inv.Role, AlreadyMember: true}, nil
		} else if !errors.Is(err, store.ErrNotFound) {
			return AcceptResult{}, apperr.Wrap(apperr.Unavailable, "lookup membership", err)
		}
	}

	membership := domain.Membership{
		ID:         idx.New().String(),
		UserID:     user.ID,
		OrgID:      inv.OrgID,
		Role:       inv.Role,
		AcceptedAt: time.Now().UTC(),
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if isNew {
			if err := tx.Users().Create(ctx, user); err != nil {
				return err
			}
		}
		if err := tx.Memberships().Create(ctx, membership); err != nil {
			return err
		}
		// Deleting inside the same transaction ties membership creation to
		// token consumption: losing either leg rolls back both.
		return tx.Invites().Delete(ctx, inv.ID)
	})
	switch {
	case errors.Is(err, store.ErrAlreadyExists):
		// A racing accept won. For an existing user that simply means they
		// are a member now; for a new user the username or email got taken.
		if isNew {
			return AcceptResult{}, apperr.Wrap(apperr.Conflict, "username or email is already taken", err)
		}
		return AcceptResult{User: user, OrgID: inv.OrgID, Role: inv.Role, AlreadyMember: true}, nil
	case errors.Is(err, store.ErrNotFound):
		// The invite vanished between lookup and consumption.
		return AcceptResult{}, apperr.Wrap(apperr.NotFound, "invite not found", err)
	case err != nil:
		return AcceptResult{}, apperr.Wrap(apperr.Unavailable, "accept invite", err)
	}

	slogx.FromContext(ctx).Info("invite accepted",
		"invite_id", inv.ID, "org_id", inv.OrgID, "user_id", user.ID, "new_user", isNew)
	return AcceptResult{User: user, OrgID: inv.OrgID, Role: inv.Role}, nil
}

// resolveAcceptingUser returns the account redeeming the invite, creating an
// in-memory user (not yet persisted) when the invited email has none.
func (s *InviteService) resolveAcceptingUser(ctx context.Context, inv domain.Invite, p AcceptInviteParams) (domain.User, bool, error) {
	existing, err := s.Store.Users().GetByEmail(ctx, inv.Email)
	if err == nil {
		// The token proves access to the inbox; the password proves the
		// account. Both are required to attach a membership to an existing
		// user.
		if verr := cryptox.VerifyPassword(p.Password, existing.PasswordHash); verr != nil {
			if errors.Is(verr, cryptox.ErrPasswordMismatch) {
				return domain.User{}, false, apperr.New(apperr.Unauthorized, "invalid password")
			}
			return domain.User{}, false, apperr.Wrap(apperr.Internal, "verify password", verr)
		}
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, false, apperr.Wrap(apperr.Unavailable, "lookup user", err)
	}

	if len(p.Password) < MinPasswordLength {
		return domain.User{}, false, apperr.New(apperr.Validation, "password must be at least 6 characters")
	}

	username := strings.TrimSpace(p.Username)
	if username == "" {
		// No username chosen: the invited email is a serviceable default.
		username = inv.Email
	}

	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return domain.User{}, false, apperr.Wrap(apperr.Internal, "hash password", err)
	}

	return domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        inv.Email,
		PasswordHash: hash,
		Role:         domain.DefaultUserRole,
	}, true, nil
}

// Delete revokes a pending invite. Admin only. Revoking another
// organization's invite is Forbidden even when the invite is expired; only
// an id that resolves to no row at all is NotFound.
func (s *InviteService) Delete(ctx context.Context, rc domain.RequestContext, inviteID string) error {
	if err := RequireAdmin(rc); err != nil {
		return err
	}

	inv, err := s.Store.Invites().GetByID(ctx, inviteID)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.New(apperr.NotFound, "invite not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.Unavailable, "lookup invite", err)
	}

	if inv.OrgID != rc.OrgID {
		return apperr.New(apperr.Forbidden, "invite belongs to another organization")
	}

	if err := s.Store.Invites().Delete(ctx, inv.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.New(apperr.NotFound, "invite not found")
		}
		return apperr.Wrap(apperr.Unavailable, "delete invite", err)
	}

	slogx.FromContext(ctx).Info("invite revoked",
		"invite_id", inv.ID, "org_id", inv.OrgID)
	return nil
}

// List returns the pending invites of the caller's organization.
func (s *InviteService) List(ctx context.Context, rc domain.RequestContext) ([]domain.Invite, error) {
	if err := RequireAdminOrOperations(rc); err != nil {
		return nil, err
	}
	invites, err := s.Store.Invites().ListByOrg(ctx, rc.OrgID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unavailable, "list invites", err)
	}
	return invites, nil
}

// lookup resolves a raw token to a live invite. Unknown fingerprints and
// expired rows both end the lifecycle here, with distinct kinds so the
// acceptance page can word the two differently.
func (s *InviteService) lookup(ctx context.Context, token string) (domain.Invite, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Invite{}, apperr.New(apperr.NotFound, "invite not found")
	}

	inv, err := s.Store.Invites().GetByFingerprint(ctx, cryptox.FingerprintToken(token))
	if errors.Is(err, store.ErrNotFound) {
		return domain.Invite{}, apperr.New(apperr.NotFound, "invite not found")
	}
	if err != nil {
		return domain.Invite{}, apperr.Wrap(apperr.Unavailable, "lookup invite", err)
	}

	if inv.ExpiredAt(time.Now()) {
		return domain.Invite{}, apperr.New(apperr.Expired, "invite has expired")
	}
	return inv, nil
}
