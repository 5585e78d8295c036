package domain

import "time"

// Subscription plans and statuses. Plans are tags the billing bridge maps to
// external price IDs; statuses mirror the billing provider's vocabulary.
const (
	PlanStarter  = "starter"
	PlanStandard = "standard"
	PlanPro      = "pro"

	SubscriptionTrialing = "trialing"
	SubscriptionActive   = "active"
	SubscriptionPastDue  = "past_due"
	SubscriptionCanceled = "canceled"
)

// Organization is the tenant boundary. All back-office data (depots, crews,
// employees, vehicles, bookings) hangs off exactly one organization.
type Organization struct {
	ID                 string
	Name               string
	OwnerUserID        string
	Plan               string
	SubscriptionStatus string
	TrialEndsAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
