// Package billing bridges subscription state to an external billing
// provider. Services depend on the Client interface; the Stripe
// implementation lives in stripe.go and a Disabled client stands in when no
// credentials are configured.
package billing

import (
	"context"
	"errors"

	"github.com/crewdesk/crewdesk/internal/backoffice/apperr"
)

// ErrNoSubscription reports that a customer has no subscription yet.
var ErrNoSubscription = errors.New("billing: no subscription")

// CheckoutParams describes a subscription checkout session.
type CheckoutParams struct {
	CustomerID string
	PriceID    string
	TrialDays  int64 // 0 means no trial
	SuccessURL string
	CancelURL  string
}

// Subscription is the provider-side subscription state used to reconcile an
// organization's plan and status.
type Subscription struct {
	Status  string
	PriceID string
}

// Client is the capability surface the application needs from a billing
// provider.
type Client interface {
	// CreateCustomer registers a customer and returns the provider reference.
	CreateCustomer(ctx context.Context, email, name string) (string, error)

	// NewCheckoutSession opens a subscription checkout and returns its URL.
	NewCheckoutSession(ctx context.Context, p CheckoutParams) (string, error)

	// CurrentSubscription returns the newest subscription for a customer,
	// or ErrNoSubscription.
	CurrentSubscription(ctx context.Context, customerID string) (Subscription, error)
}

// Disabled is the Client used when billing credentials are absent. Every
// call fails with a distinguishable, user-actionable configuration error.
type Disabled struct{}

func (Disabled) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	return "", errNotConfigured()
}

func (Disabled) NewCheckoutSession(ctx context.Context, p CheckoutParams) (string, error) {
	return "", errNotConfigured()
}

func (Disabled) CurrentSubscription(ctx context.Context, customerID string) (Subscription, error) {
	return Subscription{}, errNotConfigured()
}

func errNotConfigured() error {
	return apperr.New(apperr.Unavailable, "billing is not configured")
}
