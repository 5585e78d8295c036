package http

import (
	"net/http"

	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
	"github.com/crewdesk/crewdesk/internal/backoffice/service"
	"github.com/crewdesk/crewdesk/pkg/crewsdk"
	"github.com/crewdesk/crewdesk/pkg/httpx"
)

// BookingHandler serves the booking CRUD and status routes.
type BookingHandler struct {
	Bookings *service.BookingService
}

func bookingParams(req crewsdk.BookingRequest) service.BookingParams {
	return service.BookingParams{
		Reference: req.Reference,
		CrewID:    req.CrewID,
		Postcode:  req.Postcode,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		Notes:     req.Notes,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}
	var req crewsdk.BookingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	b, err := h.Bookings.Create(r.Context(), rc, bookingParams(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toBooking(b))
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}
	b, err := h.Bookings.Get(r.Context(), rc, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toBooking(b))
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}
	bookings, err := h.Bookings.List(r.Context(), rc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]crewsdk.Booking, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBooking(b))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}
	var req crewsdk.BookingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	b, err := h.Bookings.Update(r.Context(), rc, r.PathValue("id"), bookingParams(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toBooking(b))
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}
	var req crewsdk.BookingStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	b, err := h.Bookings.UpdateStatus(r.Context(), rc, r.PathValue("id"), domain.BookingStatus(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toBooking(b))
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}
	if err := h.Bookings.Delete(r.Context(), rc, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
