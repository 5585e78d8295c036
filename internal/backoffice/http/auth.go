package http

import (
	"net/http"

	"github.com/crewdesk/crewdesk/internal/backoffice/service"
	"github.com/crewdesk/crewdesk/pkg/crewsdk"
	"github.com/crewdesk/crewdesk/pkg/httpx"
)

// RegisterHandler serves POST /register: account plus personal organization
// plus admin membership, then a fresh session cookie.
type RegisterHandler struct {
	AuthService *service.AuthService
	Sessions    *service.SessionService
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req crewsdk.RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	res, err := h.AuthService.Register(r.Context(), service.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	cookie, err := h.Sessions.IssueCookie(res.User.ID, res.Organization.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	http.SetCookie(w, cookie)

	httpx.WriteJSON(w, http.StatusCreated, crewsdk.SessionResponse{
		User:         toUser(res.User),
		Organization: toOrganization(res.Organization),
		Role:         "admin",
	})
}

// LoginHandler serves POST /login. The identifier is an email when it
// contains an "@", a username otherwise.
type LoginHandler struct {
	AuthService *service.AuthService
	Sessions    *service.SessionService
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req crewsdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	res, err := h.AuthService.Login(r.Context(), service.LoginParams{
		Identifier: req.Identifier,
		Password:   req.Password,
		OrgID:      req.OrganizationID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	cookie, err := h.Sessions.IssueCookie(res.User.ID, res.OrgID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	http.SetCookie(w, cookie)

	httpx.WriteJSON(w, http.StatusOK, crewsdk.SessionResponse{
		User: toUser(res.User),
		Role: string(res.Role),
	})
}

// LogoutHandler serves POST /logout by expiring the session cookie.
type LogoutHandler struct {
	Sessions *service.SessionService
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.Sessions.ClearCookie())
	w.WriteHeader(http.StatusNoContent)
}

// ProfileHandler serves GET /user: the signed-in account, its active
// organization and role.
type ProfileHandler struct {
	Membership *service.MembershipService
}

func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}

	profile, err := h.Membership.Self(r.Context(), rc)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, crewsdk.ProfileResponse{
		User:         toUser(profile.User),
		Organization: toOrganization(profile.Organization),
		Role:         string(profile.Role),
	})
}
