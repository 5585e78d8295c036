package http

import (
	"net/http"

	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
	"github.com/crewdesk/crewdesk/internal/backoffice/service"
	"github.com/crewdesk/crewdesk/pkg/crewsdk"
	"github.com/crewdesk/crewdesk/pkg/httpx"
)

// InviteCreateHandler serves POST /organization/invites.
type InviteCreateHandler struct {
	InviteService *service.InviteService
}

func (h *InviteCreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}

	var req crewsdk.InviteCreateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	res, err := h.InviteService.Create(r.Context(), rc, service.CreateInviteParams{
		Email: req.Email,
		Role:  domain.Role(req.Role),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, crewsdk.InviteCreateResponse{
		Invite: toInvite(res.Invite),
		Token:  res.Token,
	})
}

// InviteListHandler serves GET /organization/invites.
type InviteListHandler struct {
	InviteService *service.InviteService
}

func (h *InviteListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}

	invites, err := h.InviteService.List(r.Context(), rc)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]crewsdk.Invite, 0, len(invites))
	for _, inv := range invites {
		out = append(out, toInvite(inv))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// InviteInfoHandler serves GET /invites/{token}: the unauthenticated
// acceptance-page view of a pending invite.
type InviteInfoHandler struct {
	InviteService *service.InviteService
}

func (h *InviteInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	info, err := h.InviteService.Info(r.Context(), r.PathValue("token"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, crewsdk.InviteInfoResponse{
		OrganizationID:   info.OrgID,
		OrganizationName: info.OrgName,
		Email:            info.Email,
		Role:             string(info.Role),
		ExpiresAt:        info.ExpiresAt,
		UserExists:       info.UserExists,
	})
}

// InviteAcceptHandler serves POST /invites/accept. On success the caller
// walks away signed into the organization they just joined.
type InviteAcceptHandler struct {
	InviteService *service.InviteService
	Sessions      *service.SessionService
}

func (h *InviteAcceptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req crewsdk.InviteAcceptRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	res, err := h.InviteService.Accept(r.Context(), service.AcceptInviteParams{
		Token:    req.Token,
		Username: req.Username,
		Password: req.Password,
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
		User:          toUser(res.User),
		Role:          string(res.Role),
		AlreadyMember: res.AlreadyMember,
	})
}

// InviteDeleteHandler serves DELETE /organization/invites/{id}.
type InviteDeleteHandler struct {
	InviteService *service.InviteService
}

func (h *InviteDeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}

	if err := h.InviteService.Delete(r.Context(), rc, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MemberListHandler serves GET /organization/members.
type MemberListHandler struct {
	Membership *service.MembershipService
}

func (h *MemberListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}

	members, err := h.Membership.ListMembers(r.Context(), rc)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]crewsdk.Member, 0, len(members))
	for _, m := range members {
		out = append(out, toMember(m))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
