package http

import (
	"net/http"

	"github.com/crewdesk/crewdesk/internal/backoffice/apperr"
	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
	"github.com/crewdesk/crewdesk/pkg/crewsdk"
	"github.com/crewdesk/crewdesk/pkg/httpx"
	"github.com/crewdesk/crewdesk/pkg/slogx"
)

// writeError maps a service error onto the uniform error body. Untagged
// errors become a generic 500 with no internal detail; the detail goes to
// the log instead.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := kind.HTTPStatus()
	if status >= http.StatusInternalServerError {
		slogx.FromContext(r.Context()).Error("request failed",
			"path", r.URL.Path, "status", status, "err", err)
	}
	httpx.WriteJSON(w, status, crewsdk.ErrorResponse{
		Error:            kind.String(),
		ErrorDescription: apperr.MessageOf(err),
	})
}

// writeBadRequest reports a malformed body without going through apperr.
func writeBadRequest(w http.ResponseWriter, msg string) {
	httpx.WriteJSON(w, http.StatusBadRequest, crewsdk.ErrorResponse{
		Error:            apperr.Validation.String(),
		ErrorDescription: msg,
	})
}

// Wire conversions. Password hashes and billing references never cross here.

func toUser(u domain.User) crewsdk.User {
	return crewsdk.User{ID: u.ID, Username: u.Username, Email: u.Email}
}

func toOrganization(o domain.Organization) crewsdk.Organization {
	return crewsdk.Organization{
		ID:                 o.ID,
		Name:               o.Name,
		Plan:               o.Plan,
		SubscriptionStatus: o.SubscriptionStatus,
		TrialEndsAt:        o.TrialEndsAt,
	}
}

func toInvite(i domain.Invite) crewsdk.Invite {
	return crewsdk.Invite{
		ID:        i.ID,
		Email:     i.Email,
		Role:      string(i.Role),
		ExpiresAt: i.ExpiresAt,
		CreatedAt: i.CreatedAt,
	}
}

func toMember(m domain.OrgMember) crewsdk.Member {
	return crewsdk.Member{
		UserID:     m.UserID,
		Username:   m.Username,
		Email:      m.Email,
		Role:       string(m.Role),
		AcceptedAt: m.AcceptedAt,
	}
}

func toDepot(d domain.Depot) crewsdk.Depot {
	return crewsdk.Depot{ID: d.ID, Name: d.Name, Postcode: d.Postcode}
}

func toCrew(c domain.Crew) crewsdk.Crew {
	return crewsdk.Crew{ID: c.ID, Name: c.Name, DepotID: c.DepotID}
}

func toEmployee(e domain.Employee) crewsdk.Employee {
	return crewsdk.Employee{ID: e.ID, Name: e.Name, Email: e.Email, CrewID: e.CrewID}
}

func toVehicle(v domain.Vehicle) crewsdk.Vehicle {
	return crewsdk.Vehicle{ID: v.ID, Registration: v.Registration, Kind: v.Kind, DepotID: v.DepotID}
}

func toBooking(b domain.Booking) crewsdk.Booking {
	return crewsdk.Booking{
		ID:        b.ID,
		Reference: b.Reference,
		CrewID:    b.CrewID,
		Postcode:  b.Postcode,
		StartsAt:  b.StartsAt,
		EndsAt:    b.EndsAt,
		Status:    string(b.Status),
		Notes:     b.Notes,
	}
}
