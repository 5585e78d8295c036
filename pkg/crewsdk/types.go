// Package crewsdk holds the JSON wire types of the CrewDesk API, shared by
// the server and by Go clients.
package crewsdk

import "time"

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// RegisterRequest creates an account plus a personal organization.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// LoginRequest authenticates by email (identifier contains "@") or username.
// OrganizationID optionally selects the organization to sign into.
type LoginRequest struct {
	Identifier     string `json:"identifier"`
	Password       string `json:"password"`
	OrganizationID string `json:"organization_id,omitempty"`
}

// User is the public shape of an account.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Organization is the public shape of a tenant.
type Organization struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Plan               string     `json:"plan"`
	SubscriptionStatus string     `json:"subscription_status"`
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty"`
}

// SessionResponse is returned by register, login and invite acceptance: the
// identity the fresh session cookie is bound to.
type SessionResponse struct {
	User          User         `json:"user"`
	Organization  Organization `json:"organization,omitempty"`
	Role          string       `json:"role,omitempty"`
	AlreadyMember bool         `json:"already_member,omitempty"`
}

// ProfileResponse is the authenticated self view (GET /user).
type ProfileResponse struct {
	User         User         `json:"user"`
	Organization Organization `json:"organization"`
	Role         string       `json:"role"`
}

// InviteCreateRequest mints an invite into the caller's organization.
type InviteCreateRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Invite is the management view of a pending invite. The token itself only
// appears in InviteCreateResponse.
type Invite struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// InviteCreateResponse carries the raw token exactly once.
type InviteCreateResponse struct {
	Invite Invite `json:"invite"`
	Token  string `json:"token"`
}

// InviteInfoResponse is the unauthenticated acceptance-page view.
type InviteInfoResponse struct {
	OrganizationID   string    `json:"organization_id"`
	OrganizationName string    `json:"organization_name"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	ExpiresAt        time.Time `json:"expires_at"`
	UserExists       bool      `json:"user_exists"`
}

// InviteAcceptRequest redeems an invite token. Username and Password create
// the account for a new email; Password alone proves an existing account.
type InviteAcceptRequest struct {
	Token    string `json:"token"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
}

// Member is one row of the organization directory.
type Member struct {
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email,omitempty"`
	Role       string    `json:"role"`
	AcceptedAt time.Time `json:"accepted_at"`
}

// CheckoutRequest starts a subscription checkout for a plan.
type CheckoutRequest struct {
	Plan string `json:"plan"`
}

// CheckoutResponse points the browser at the provider-hosted checkout page.
type CheckoutResponse struct {
	URL string `json:"url"`
}

// Depot

type DepotRequest struct {
	Name     string `json:"name"`
	Postcode string `json:"postcode"`
}

type Depot struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Postcode string `json:"postcode"`
}

// Crew

type CrewRequest struct {
	Name    string `json:"name"`
	DepotID string `json:"depot_id,omitempty"`
}

type Crew struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	DepotID string `json:"depot_id,omitempty"`
}

// Employee

type EmployeeRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	CrewID string `json:"crew_id,omitempty"`
}

type Employee struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	CrewID string `json:"crew_id,omitempty"`
}

// Vehicle

type VehicleRequest struct {
	Registration string `json:"registration"`
	Kind         string `json:"kind,omitempty"`
	DepotID      string `json:"depot_id,omitempty"`
}

type Vehicle struct {
	ID           string `json:"id"`
	Registration string `json:"registration"`
	Kind         string `json:"kind,omitempty"`
	DepotID      string `json:"depot_id,omitempty"`
}

// Booking

type BookingRequest struct {
	Reference string    `json:"reference,omitempty"`
	CrewID    string    `json:"crew_id,omitempty"`
	Postcode  string    `json:"postcode"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Notes     string    `json:"notes,omitempty"`
}

type BookingStatusRequest struct {
	Status string `json:"status"`
}

type Booking struct {
	ID        string    `json:"id"`
	Reference string    `json:"reference"`
	CrewID    string    `json:"crew_id,omitempty"`
	Postcode  string    `json:"postcode"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
}

// TravelTimeResponse is a drive-time estimate between two postcodes.
type TravelTimeResponse struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Minutes int    `json:"minutes"`
}

// HealthResponse is returned by the liveness and readiness probes.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
