package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/crewdesk/crewdesk/internal/backoffice/apperr"
	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
	"github.com/crewdesk/crewdesk/internal/backoffice/store"
	"github.com/crewdesk/crewdesk/pkg/idx"
	"github.com/crewdesk/crewdesk/pkg/slogx"
)

// BookingService manages scheduled jobs. Bookers may create and read;
// rescheduling and status changes need admin or operations; deletion is
// admin only.
type BookingService struct {
	Store store.Store
}

// BookingParams is the writable surface of a booking.
type BookingParams struct {
	Reference string
	CrewID    string
	Postcode  string
	StartsAt  time.Time
	EndsAt    time.Time
	Notes     string
}

func (p BookingParams) validate() error {
	if strings.TrimSpace(p.Postcode) == "" {
		return apperr.New(apperr.Validation, "booking postcode is required")
	}
	if p.StartsAt.IsZero() || p.EndsAt.IsZero() {
		return apperr.New(apperr.Validation, "booking start and end are required")
	}
	if !p.EndsAt.After(p.StartsAt) {
		return apperr.New(apperr.Validation, "booking must end after it starts")
	}
	return nil
}

// Create schedules a booking in pending state. Any membership role may book.
func (s *BookingService) Create(ctx context.Context, rc domain.RequestContext, p BookingParams) (domain.Booking, error) {
	if err := requireRead(rc); err != nil {
		return domain.Booking{}, err
	}
	if err := p.validate(); err != nil {
		return domain.Booking{}, err
	}
	if err := s.checkCrewRef(ctx, rc, p.CrewID); err != nil {
		return domain.Booking{}, err
	}

	b := domain.Booking{
		ID:        idx.New().String(),
		OrgID:     rc.OrgID,
		Reference: bookingReference(p.Reference),
		CrewID:    p.CrewID,
		Postcode:  normalizePostcode(p.Postcode),
		StartsAt:  p.StartsAt.UTC(),
		EndsAt:    p.EndsAt.UTC(),
		Status:    domain.BookingPending,
		Notes:     p.Notes,
	}
	if err := s.Store.Bookings().Create(ctx, b); err != nil {
		return domain.Booking{}, translateCRUD(err, "booking")
	}

	slogx.FromContext(ctx).Info("booking created",
		"booking_id", b.ID, "org_id", b.OrgID, "reference", b.Reference)
	return s.Get(ctx, rc, b.ID)
}

func (s *BookingService) Get(ctx context.Context, rc domain.RequestContext, id string) (domain.Booking, error) {
	if err := requireRead(rc); err != nil {
		return domain.Booking{}, err
	}
	b, err := s.Store.Bookings().Get(ctx, rc.OrgID, id)
	if err != nil {
		return domain.Booking{}, translateCRUD(err, "booking")
	}
	return b, nil
}

func (s *BookingService) List(ctx context.Context, rc domain.RequestContext) ([]domain.Booking, error) {
	if err := requireRead(rc); err != nil {
		return nil, err
	}
	out, err := s.Store.Bookings().List(ctx, rc.OrgID)
	if err != nil {
		return nil, translateCRUD(err, "booking")
	}
	return out, nil
}

// Update reschedules or reassigns a booking. Status is untouched here; use
// UpdateStatus for lifecycle moves.
func (s *BookingService) Update(ctx context.Context, rc domain.RequestContext, id string, p BookingParams) (domain.Booking, error) {
	if err := RequireAdminOrOperations(rc); err != nil {
		return domain.Booking{}, err
	}
	if err := p.validate(); err != nil {
		return domain.Booking{}, err
	}
	if err := s.checkCrewRef(ctx, rc, p.CrewID); err != nil {
		return domain.Booking{}, err
	}

	current, err := s.Store.Bookings().Get(ctx, rc.OrgID, id)
	if err != nil {
		return domain.Booking{}, translateCRUD(err, "booking")
	}

	current.Reference = bookingReference(p.Reference)
	current.CrewID = p.CrewID
	current.Postcode = normalizePostcode(p.Postcode)
	current.StartsAt = p.StartsAt.UTC()
	current.EndsAt = p.EndsAt.UTC()
	current.Notes = p.Notes

	if err := s.Store.Bookings().Update(ctx, current); err != nil {
		return domain.Booking{}, translateCRUD(err, "booking")
	}
	return s.Get(ctx, rc, id)
}

// UpdateStatus moves a booking along its lifecycle. Illegal transitions
// (anything out of a terminal state, skipping confirmation) are Validation
// errors.
func (s *BookingService) UpdateStatus(ctx context.Context, rc domain.RequestContext, id string, next domain.BookingStatus) (domain.Booking, error) {
	if err := RequireAdminOrOperations(rc); err != nil {
		return domain.Booking{}, err
	}

	b, err := s.Store.Bookings().Get(ctx, rc.OrgID, id)
	if err != nil {
		return domain.Booking{}, translateCRUD(err, "booking")
	}

	if !b.Status.CanTransitionTo(next) {
		return domain.Booking{}, apperr.New(apperr.Validation,
			fmt.Sprintf("cannot move booking from %s to %s", b.Status, next))
	}

	b.Status = next
	if err := s.Store.Bookings().Update(ctx, b); err != nil {
		return domain.Booking{}, translateCRUD(err, "booking")
	}

	slogx.FromContext(ctx).Info("booking status changed",
		"booking_id", b.ID, "org_id", b.OrgID, "status", next)
	return s.Get(ctx, rc, id)
}

func (s *BookingService) Delete(ctx context.Context, rc domain.RequestContext, id string) error {
	if err := RequireAdmin(rc); err != nil {
		return err
	}
	return translateCRUD(s.Store.Bookings().Delete(ctx, rc.OrgID, id), "booking")
}

func (s *BookingService) checkCrewRef(ctx context.Context, rc domain.RequestContext, crewID string) error {
	if crewID == "" {
		return nil
	}
	_, err := s.Store.Crews().Get(ctx, rc.OrgID, crewID)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.New(apperr.Validation, "unknown crew")
	}
	if err != nil {
		return apperr.Wrap(apperr.Unavailable, "crew lookup failed", err)
	}
	return nil
}

// bookingReference fills in a reference when the caller left it blank.
func bookingReference(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref != "" {
		return ref
	}
	return "BK-" + idx.New().String()[16:]
}
