package domain

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// CanTransitionTo reports whether a booking may move from s to next.
// Terminal states (completed, cancelled) accept no further transitions.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingPending:
		return next == BookingConfirmed || next == BookingCancelled
	case BookingConfirmed:
		return next == BookingCompleted || next == BookingCancelled
	default:
		return false
	}
}

// Booking is a scheduled job for a crew within an organization.
type Booking struct {
	ID        string
	OrgID     string
	Reference string
	CrewID    string // optional until assigned
	Postcode  string
	StartsAt  time.Time
	EndsAt    time.Time
	Status    BookingStatus
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
